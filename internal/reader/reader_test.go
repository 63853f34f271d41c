package reader

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwaga-code/voter-registration-framework/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		line string
		want rune
	}{
		{"comma", "voter_id,first_name,last_name", ','},
		{"pipe", "VID|First|Last", '|'},
		{"tab", "VID\tFirst\tLast", '\t'},
		{"pipe beats comma", "VID|First,Middle|Last", '|'},
		{"only header line considered", "a,b,c\nx|y|z", ','},
		{"no delimiter falls back to comma", "singlecolumn", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter(tt.line))
		})
	}
}

func TestOpenSniffsDelimiter(t *testing.T) {
	path := writeFile(t, "wa.txt", "VID|First|Last\n1|Mary|Smith\n")

	r, err := Open(path, Options{})
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, '|', r.Delimiter())
	assert.Equal(t, []string{"VID", "First", "Last"}, r.Headers())

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "Mary", row.Get("First"))
	assert.Equal(t, 1, row.Row)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestOpenTrimsHeaderWhitespace(t *testing.T) {
	path := writeFile(t, "wa.csv", " VID , First Name ,Last\n1,Mary,Smith\n")

	r, err := Open(path, Options{})
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"VID", "First Name", "Last"}, r.Headers())

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "Mary", row.Get("First Name"))
}

func TestNextPadsShortRecords(t *testing.T) {
	path := writeFile(t, "wa.csv", "VID,First,Last\n1,Mary\n")

	r, err := Open(path, Options{})
	require.NoError(t, err)
	defer r.Close()

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "Mary", row.Get("First"))
	assert.Equal(t, "", row.Get("Last"))
}

func TestLimit(t *testing.T) {
	path := writeFile(t, "wa.csv", "VID\n1\n2\n3\n4\n")

	r, err := Open(path, Options{Limit: 2})
	require.NoError(t, err)
	defer r.Close()

	count := 0
	for {
		_, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, 2, count)
}

func TestHeaderOnlyFile(t *testing.T) {
	path := writeFile(t, "wa.csv", "VID,First,Last\n")

	r, err := Open(path, Options{})
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.csv", "")

	_, err := Open(path, Options{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileParsing))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileIO))
}

func TestSample(t *testing.T) {
	path := writeFile(t, "wa.csv", "VID\n1\n2\n3\n")

	r, err := Open(path, Options{})
	require.NoError(t, err)
	defer r.Close()

	rows, err := r.Sample(10)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, "2", rows[1].Get("VID"))
}

func TestExplicitDelimiter(t *testing.T) {
	// A pipe file opened with an explicit comma delimiter must not be
	// re-sniffed: the whole line becomes a single column.
	path := writeFile(t, "wa.txt", "VID|First\n1|Mary\n")

	r, err := Open(path, Options{Delimiter: ','})
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"VID|First"}, r.Headers())
}
