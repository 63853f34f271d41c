// Package reader streams raw rows from delimited state voter extracts.
// State files arrive as comma, pipe or tab separated text; the delimiter is
// sniffed from the header line and recorded in the state config during
// onboarding so later imports do not have to guess again.
package reader

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/mwaga-code/voter-registration-framework/internal/errors"
)

// RawRow is one record of a state extract: an ordered mapping from source
// column name to the raw string value. Rows are ephemeral, produced by the
// reader and consumed once.
type RawRow struct {
	Columns []string
	Values  map[string]string
	Row     int // 1-based data row number, excluding the header
}

// Get returns the raw value for a source column, empty if the column is
// not present in this row.
func (r RawRow) Get(column string) string {
	return r.Values[column]
}

// Options controls how an extract is read.
type Options struct {
	Delimiter rune // 0 means sniff from the header line
	Limit     int  // maximum data rows to produce, 0 means all
}

// Reader produces a lazy, finite, forward-only sequence of RawRow.
type Reader struct {
	file      *os.File
	csv       *csv.Reader
	headers   []string
	delimiter rune
	limit     int
	row       int
}

// Open opens a delimited file and reads its header row.
func Open(path string, opts Options) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Component("reader").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	buffered := bufio.NewReader(file)

	delimiter := opts.Delimiter
	if delimiter == 0 {
		firstLine, err := buffered.Peek(4096)
		if err != nil && err != io.EOF {
			_ = file.Close()
			return nil, errors.New(err).
				Component("reader").
				Category(errors.CategoryFileIO).
				Context("path", path).
				Build()
		}
		delimiter = DetectDelimiter(string(firstLine))
	}

	cr := csv.NewReader(buffered)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	headerRecord, err := cr.Read()
	if err != nil {
		_ = file.Close()
		if err == io.EOF {
			return nil, errors.Newf("file %s has no header row", path).
				Component("reader").
				Category(errors.CategoryFileParsing).
				Build()
		}
		return nil, errors.New(err).
			Component("reader").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}

	headers := make([]string, len(headerRecord))
	for i, h := range headerRecord {
		headers[i] = strings.TrimSpace(h)
	}

	return &Reader{
		file:      file,
		csv:       cr,
		headers:   headers,
		delimiter: delimiter,
		limit:     opts.Limit,
	}, nil
}

// Headers returns the trimmed source column names in file order.
func (r *Reader) Headers() []string {
	return r.headers
}

// Delimiter returns the delimiter in use.
func (r *Reader) Delimiter() rune {
	return r.delimiter
}

// Next returns the next data row. It returns io.EOF when the file or the
// configured row limit is exhausted.
func (r *Reader) Next() (RawRow, error) {
	if r.limit > 0 && r.row >= r.limit {
		return RawRow{}, io.EOF
	}

	record, err := r.csv.Read()
	if err == io.EOF {
		return RawRow{}, io.EOF
	}
	r.row++
	if err != nil {
		return RawRow{Row: r.row}, errors.New(err).
			Component("reader").
			Category(errors.CategoryFileParsing).
			Context("row", r.row).
			Build()
	}

	values := make(map[string]string, len(r.headers))
	for i, h := range r.headers {
		if i < len(record) {
			values[h] = record[i]
		} else {
			values[h] = ""
		}
	}

	return RawRow{Columns: r.headers, Values: values, Row: r.row}, nil
}

// Sample consumes and returns up to n rows, stopping early at EOF. Rows with
// parse errors are skipped; sampling is best effort.
func (r *Reader) Sample(n int) ([]RawRow, error) {
	var rows []RawRow
	for len(rows) < n {
		row, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// DetectDelimiter sniffs the field delimiter from a header line. Pipe and
// tab delimited extracts are common among state exports; comma is the
// fallback.
func DetectDelimiter(line string) rune {
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	switch {
	case strings.ContainsRune(line, '|'):
		return '|'
	case strings.ContainsRune(line, '\t'):
		return '\t'
	default:
		return ','
	}
}
