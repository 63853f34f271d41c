// Package detect infers how the arbitrary column headers of a state extract
// correspond to the canonical voter schema. Detection combines header text
// matching against the alias catalog with value-pattern inference over a
// bounded sample of rows, and is fully deterministic for a fixed input.
package detect

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/mwaga-code/voter-registration-framework/internal/logging"
	"github.com/mwaga-code/voter-registration-framework/internal/reader"
	"github.com/mwaga-code/voter-registration-framework/internal/schema"
)

const (
	// DefaultMinConfidence is the floor below which a candidate mapping is
	// discarded and the field reported as unmapped.
	DefaultMinConfidence = 0.5

	// DefaultSampleLimit caps how many sample rows value-pattern inference
	// inspects per column.
	DefaultSampleLimit = 1000

	confidenceExact = 1.0
	confidenceAlias = 0.8

	// patternCeiling scales value-pattern confidence so that a pattern hit,
	// even a perfect one, never outranks a header alias.
	patternCeiling = 0.7
)

// Options tunes the detector.
type Options struct {
	MinConfidence float64
	SampleLimit   int
	Logger        *slog.Logger
}

// Conflict records a canonical field for which more than one column
// qualified. The highest-confidence mapping is kept, the alternative
// discarded.
type Conflict struct {
	CanonicalField string
	Kept           schema.FieldMapping
	Discarded      schema.FieldMapping
}

// Result is the outcome of schema detection: the chosen mappings, the
// required canonical fields left unmapped, and any resolved conflicts.
type Result struct {
	Mappings  []schema.FieldMapping
	Unmapped  []string
	Conflicts []Conflict
}

// Detector infers field mappings from headers and sample rows.
type Detector struct {
	minConfidence float64
	sampleLimit   int
	log           *slog.Logger
}

// New creates a detector. Zero option values fall back to the defaults.
func New(opts Options) *Detector {
	d := &Detector{
		minConfidence: opts.MinConfidence,
		sampleLimit:   opts.SampleLimit,
		log:           opts.Logger,
	}
	if d.minConfidence <= 0 {
		d.minConfidence = DefaultMinConfidence
	}
	if d.sampleLimit <= 0 {
		d.sampleLimit = DefaultSampleLimit
	}
	if d.log == nil {
		d.log = logging.ForService("detect")
	}
	return d
}

// candidate is one scored (column, field) pairing under consideration.
type candidate struct {
	headerIndex int
	mapping     schema.FieldMapping
}

// Detect scores every header against the canonical schema and resolves the
// best mapping per field. Sample rows beyond the configured limit are
// ignored, so detection does not depend on the full file.
func (d *Detector) Detect(headers []string, samples []reader.RawRow) Result {
	if len(samples) > d.sampleLimit {
		samples = samples[:d.sampleLimit]
	}

	candidates := d.collectCandidates(headers, samples)

	// Resolve greedily: strongest candidates claim their column and field
	// first. Ordering is total, so the outcome is deterministic.
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.mapping.Confidence != b.mapping.Confidence {
			return a.mapping.Confidence > b.mapping.Confidence
		}
		if ra, rb := methodRank(a.mapping.Method), methodRank(b.mapping.Method); ra != rb {
			return ra > rb
		}
		return a.headerIndex < b.headerIndex
	})

	var result Result
	byField := make(map[string]schema.FieldMapping)
	usedColumns := make(map[string]bool)

	for _, c := range candidates {
		if c.mapping.Confidence < d.minConfidence {
			continue
		}
		if usedColumns[c.mapping.SourceColumn] {
			continue
		}
		if kept, ok := byField[c.mapping.CanonicalField]; ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				CanonicalField: c.mapping.CanonicalField,
				Kept:           kept,
				Discarded:      c.mapping,
			})
			d.log.Warn("conflicting column candidates for canonical field",
				"canonical_field", c.mapping.CanonicalField,
				"kept_column", kept.SourceColumn,
				"kept_confidence", kept.Confidence,
				"discarded_column", c.mapping.SourceColumn,
				"discarded_confidence", c.mapping.Confidence)
			continue
		}
		byField[c.mapping.CanonicalField] = c.mapping
		usedColumns[c.mapping.SourceColumn] = true
	}

	d.resolveAddressRepresentation(byField, &result)

	for _, f := range schema.Fields {
		if m, ok := byField[f.Name]; ok {
			result.Mappings = append(result.Mappings, m)
		}
	}
	result.Unmapped = UnmappedRequired(byField)

	return result
}

// collectCandidates scores each header once: exact beats alias beats value
// patterns, so only the best method per header produces candidates.
func (d *Detector) collectCandidates(headers []string, samples []reader.RawRow) []candidate {
	var candidates []candidate
	for i, header := range headers {
		normalized := schema.NormalizeHeader(header)
		if normalized == "" {
			continue
		}

		if field, ok := schema.ExactMatch(normalized); ok {
			candidates = append(candidates, candidate{i, schema.FieldMapping{
				SourceColumn:   header,
				CanonicalField: field,
				Confidence:     confidenceExact,
				Method:         schema.MethodExact,
			}})
			continue
		}

		if field, ok := schema.AliasMatch(normalized); ok {
			candidates = append(candidates, candidate{i, schema.FieldMapping{
				SourceColumn:   header,
				CanonicalField: field,
				Confidence:     confidenceAlias,
				Method:         schema.MethodAlias,
			}})
			continue
		}

		for _, pm := range inferFromValues(header, samples) {
			candidates = append(candidates, candidate{i, pm})
		}
	}
	return candidates
}

var combinedStreetPattern = regexp.MustCompile(`^\d+\s+\pL`)

// inferFromValues tests a column's sample values against the known type
// signatures, yielding one candidate per signature scaled by the fraction
// of matching rows.
func inferFromValues(header string, samples []reader.RawRow) []schema.FieldMapping {
	type signature struct {
		field string
		match func(string) bool
	}
	signatures := []signature{
		{schema.FieldZip, isZipValue},
		{schema.FieldState, func(v string) bool {
			return schema.IsStateAbbreviation(v)
		}},
		{schema.FieldStreet, func(v string) bool {
			return combinedStreetPattern.MatchString(v)
		}},
	}

	var out []schema.FieldMapping
	for _, sig := range signatures {
		matched, seen := 0, 0
		for _, row := range samples {
			v := strings.TrimSpace(row.Get(header))
			if v == "" {
				continue
			}
			seen++
			if sig.match(v) {
				matched++
			}
		}
		if seen == 0 || matched == 0 {
			continue
		}
		out = append(out, schema.FieldMapping{
			SourceColumn:   header,
			CanonicalField: sig.field,
			Confidence:     patternCeiling * float64(matched) / float64(seen),
			Method:         schema.MethodPattern,
		})
	}
	return out
}

// resolveAddressRepresentation applies the split-vs-combined preference:
// when both a combined street line and split number/name columns are mapped,
// the split representation wins unless its aggregate confidence is lower,
// since keeping it avoids re-parsing a free-text line.
func (d *Detector) resolveAddressRepresentation(byField map[string]schema.FieldMapping, result *Result) {
	combined, hasCombined := byField[schema.FieldStreet]
	number, hasNumber := byField[schema.FieldStreetNumber]
	name, hasName := byField[schema.FieldStreetName]
	if !hasCombined || !hasNumber || !hasName {
		return
	}

	splitConfidence := (number.Confidence + name.Confidence) / 2
	if splitConfidence >= combined.Confidence {
		delete(byField, schema.FieldStreet)
		result.Conflicts = append(result.Conflicts, Conflict{
			CanonicalField: schema.FieldStreet,
			Kept:           number,
			Discarded:      combined,
		})
		d.log.Info("preferring split street representation over combined line",
			"combined_column", combined.SourceColumn,
			"split_confidence", splitConfidence,
			"combined_confidence", combined.Confidence)
		return
	}

	delete(byField, schema.FieldStreetNumber)
	delete(byField, schema.FieldStreetName)
	result.Conflicts = append(result.Conflicts, Conflict{
		CanonicalField: schema.FieldStreet,
		Kept:           combined,
		Discarded:      number,
	})
	d.log.Info("keeping combined street line over lower-confidence split columns",
		"combined_column", combined.SourceColumn,
		"split_confidence", splitConfidence,
		"combined_confidence", combined.Confidence)
}

// UnmappedRequired lists required canonical fields with no mapping. The
// address requirement is satisfied by either representation: a combined
// street line, or both split components.
func UnmappedRequired(byField map[string]schema.FieldMapping) []string {
	var unmapped []string
	for _, name := range schema.RequiredFields() {
		if _, ok := byField[name]; !ok {
			unmapped = append(unmapped, name)
		}
	}
	if !HasAddressMapping(byField) {
		unmapped = append(unmapped, schema.FieldStreet)
	}
	return unmapped
}

// HasAddressMapping reports whether the mapped fields carry a complete
// address representation.
func HasAddressMapping(byField map[string]schema.FieldMapping) bool {
	if _, ok := byField[schema.FieldStreet]; ok {
		return true
	}
	for _, name := range schema.AddressFields() {
		if _, ok := byField[name]; !ok {
			return false
		}
	}
	return true
}

func methodRank(m schema.Method) int {
	switch m {
	case schema.MethodManual:
		return 4
	case schema.MethodExact:
		return 3
	case schema.MethodAlias:
		return 2
	case schema.MethodPattern:
		return 1
	default:
		return 0
	}
}

// isZipValue matches 5-digit, 9-digit and already-hyphenated ZIP+4 strings.
func isZipValue(v string) bool {
	if len(v) == 10 && v[5] == '-' {
		return isDigits(v[:5]) && isDigits(v[6:])
	}
	return isDigits(v) && (len(v) == 5 || len(v) == 9)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
