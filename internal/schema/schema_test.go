package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"VoterID", "voterid"},
		{"voter_id", "voterid"},
		{"Voter ID", "voterid"},
		{"  VOTER-ID  ", "voterid"},
		{"Addr1", "addr1"},
		{"Res. Street Name", "resstreetname"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeHeader(tt.input), "input %q", tt.input)
	}
}

func TestEquivalentHeaderSpellings(t *testing.T) {
	// Every spelling semantically equivalent to voter_id resolves through
	// exact or alias matching.
	for _, header := range []string{"VoterID", "voter_id", "Voter ID", "VOTER_ID"} {
		normalized := NormalizeHeader(header)
		field, ok := ExactMatch(normalized)
		require.True(t, ok, "header %q", header)
		assert.Equal(t, FieldVoterID, field)
	}

	for _, header := range []string{"VID", "Voter No", "Registration ID", "StateVoterID"} {
		normalized := NormalizeHeader(header)
		_, exact := ExactMatch(normalized)
		require.False(t, exact, "header %q should not be exact", header)
		field, ok := AliasMatch(normalized)
		require.True(t, ok, "header %q", header)
		assert.Equal(t, FieldVoterID, field)
	}
}

func TestRequiredFields(t *testing.T) {
	required := RequiredFields()
	assert.Contains(t, required, FieldVoterID)
	assert.Contains(t, required, FieldZip)
	assert.NotContains(t, required, FieldParty)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindName, KindOf(FieldLastName))
	assert.Equal(t, KindZip, KindOf(FieldZip))
	assert.Equal(t, KindStreet, KindOf(FieldStreet))
	assert.Equal(t, KindText, KindOf("no_such_field"))
}

func TestIsStateAbbreviation(t *testing.T) {
	assert.True(t, IsStateAbbreviation("WA"))
	assert.True(t, IsStateAbbreviation("DC"))
	assert.False(t, IsStateAbbreviation("wa"))
	assert.False(t, IsStateAbbreviation("XX"))
	assert.False(t, IsStateAbbreviation(""))
}
