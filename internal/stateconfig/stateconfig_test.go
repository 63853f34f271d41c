package stateconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwaga-code/voter-registration-framework/internal/detect"
	"github.com/mwaga-code/voter-registration-framework/internal/errors"
	"github.com/mwaga-code/voter-registration-framework/internal/reader"
	"github.com/mwaga-code/voter-registration-framework/internal/schema"
)

var scenarioHeaders = []string{"VID", "First", "Last", "Addr1", "City", "ST", "Zip"}

func scenarioSamples() []reader.RawRow {
	rows := [][]string{
		{"100001", "Mary", "Smith", "123 MAIN STREET", "Seattle", "WA", "98101"},
		{"100002", "John", "O'Brien", "45 OAK AVENUE", "Tacoma", "WA", "98402"},
	}
	out := make([]reader.RawRow, 0, len(rows))
	for i, values := range rows {
		m := make(map[string]string, len(scenarioHeaders))
		for j, h := range scenarioHeaders {
			m[h] = values[j]
		}
		out = append(out, reader.RawRow{Columns: scenarioHeaders, Values: m, Row: i + 1})
	}
	return out
}

func TestBuildNewConfig(t *testing.T) {
	b := NewBuilder(detect.New(detect.Options{}))
	cfg, report := b.Build("wa", scenarioHeaders, scenarioSamples(), nil)

	assert.Equal(t, "WA", cfg.StateCode)
	assert.Equal(t, 1, cfg.Version)
	assert.True(t, report.Changed)
	assert.Empty(t, report.Reconfirm)
	assert.NoError(t, cfg.Validate())

	m, ok := cfg.MappingFor(schema.FieldVoterID)
	require.True(t, ok)
	assert.Equal(t, "VID", m.SourceColumn)
}

func TestBuildIdempotent(t *testing.T) {
	b := NewBuilder(detect.New(detect.Options{}))
	first, _ := b.Build("WA", scenarioHeaders, scenarioSamples(), nil)

	again, report := b.Build("WA", scenarioHeaders, scenarioSamples(), first)

	assert.Equal(t, first.FieldMappings, again.FieldMappings)
	assert.Equal(t, first.Version, again.Version)
	assert.Equal(t, first.CreatedAt, again.CreatedAt)
	assert.False(t, report.Changed)
}

func TestBuildManualPrecedence(t *testing.T) {
	b := NewBuilder(detect.New(detect.Options{}))
	existing, _ := b.Build("WA", scenarioHeaders, scenarioSamples(), nil)

	// Operator overrode the detected zip mapping to point at the ST column.
	for i, m := range existing.FieldMappings {
		if m.CanonicalField == schema.FieldZip {
			existing.FieldMappings[i] = schema.FieldMapping{
				SourceColumn:   "ST",
				CanonicalField: schema.FieldZip,
				Confidence:     1.0,
				Method:         schema.MethodManual,
			}
		}
	}

	cfg, report := b.Build("WA", scenarioHeaders, scenarioSamples(), existing)

	m, ok := cfg.MappingFor(schema.FieldZip)
	require.True(t, ok)
	assert.Equal(t, "ST", m.SourceColumn)
	assert.Equal(t, schema.MethodManual, m.Method)

	// The manual mapping claimed the ST column, so the detected state
	// mapping for that column must be gone.
	_, ok = cfg.MappingFor(schema.FieldState)
	assert.False(t, ok)
	assert.Empty(t, report.Reconfirm)
}

func TestBuildManualColumnVanished(t *testing.T) {
	b := NewBuilder(detect.New(detect.Options{}))
	existing, _ := b.Build("WA", scenarioHeaders, scenarioSamples(), nil)
	existing.FieldMappings = append(existing.FieldMappings, schema.FieldMapping{
		SourceColumn:   "OldPartyCol",
		CanonicalField: schema.FieldParty,
		Confidence:     1.0,
		Method:         schema.MethodManual,
	})

	cfg, report := b.Build("WA", scenarioHeaders, scenarioSamples(), existing)

	_, ok := cfg.MappingFor(schema.FieldParty)
	assert.False(t, ok, "a manual mapping with no source column must be dropped")
	assert.Equal(t, []string{schema.FieldParty}, report.Reconfirm)
	assert.True(t, report.Changed)
	assert.Equal(t, existing.Version+1, cfg.Version)
}

func TestValidateIncomplete(t *testing.T) {
	cfg := &StateConfig{
		StateCode: "WA",
		Version:   1,
		FieldMappings: []schema.FieldMapping{
			{SourceColumn: "First", CanonicalField: schema.FieldFirstName, Confidence: 1, Method: schema.MethodExact},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfigIncomplete))
	assert.Contains(t, err.Error(), schema.FieldVoterID)
}

func TestValidateSplitAddressSatisfiesRequirement(t *testing.T) {
	cfg := &StateConfig{
		StateCode: "WA",
		FieldMappings: []schema.FieldMapping{
			{SourceColumn: "VID", CanonicalField: schema.FieldVoterID, Confidence: 0.8, Method: schema.MethodAlias},
			{SourceColumn: "StNum", CanonicalField: schema.FieldStreetNumber, Confidence: 0.8, Method: schema.MethodAlias},
			{SourceColumn: "StName", CanonicalField: schema.FieldStreetName, Confidence: 0.8, Method: schema.MethodAlias},
		},
	}
	assert.NoError(t, cfg.Validate())
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	assert.False(t, store.Exists("WA"))

	cfg := &StateConfig{
		StateCode:  "WA",
		Version:    3,
		FileFormat: "csv",
		Delimiter:  "|",
		FieldMappings: []schema.FieldMapping{
			{SourceColumn: "VID", CanonicalField: schema.FieldVoterID, Confidence: 0.8, Method: schema.MethodAlias},
			{SourceColumn: "Addr1", CanonicalField: schema.FieldStreet, Confidence: 0.8, Method: schema.MethodAlias},
		},
		CreatedAt: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(cfg))
	assert.True(t, store.Exists("WA"))

	loaded, err := store.Load("WA")
	require.NoError(t, err)
	assert.Equal(t, cfg.StateCode, loaded.StateCode)
	assert.Equal(t, cfg.Version, loaded.Version)
	assert.Equal(t, cfg.Delimiter, loaded.Delimiter)
	assert.Equal(t, cfg.FieldMappings, loaded.FieldMappings)
	assert.True(t, cfg.CreatedAt.Equal(loaded.CreatedAt))
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load("ZZ")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfiguration))
}
