package stateconfig

import (
	"log/slog"
	"strings"
	"time"

	"github.com/mwaga-code/voter-registration-framework/internal/detect"
	"github.com/mwaga-code/voter-registration-framework/internal/logging"
	"github.com/mwaga-code/voter-registration-framework/internal/reader"
	"github.com/mwaga-code/voter-registration-framework/internal/schema"
)

// BuildReport summarizes one onboarding run: the raw detection outcome, the
// canonical fields whose manual mappings were invalidated by a header change,
// and whether the mapping content differs from the previous config.
type BuildReport struct {
	Detection detect.Result
	Reconfirm []string
	Changed   bool
}

// Builder runs schema detection and merges the result with any existing
// config for the state.
type Builder struct {
	detector *detect.Detector
	log      *slog.Logger
}

// NewBuilder creates a builder around the given detector.
func NewBuilder(detector *detect.Detector) *Builder {
	return &Builder{
		detector: detector,
		log:      logging.ForService("onboard"),
	}
}

// Build detects mappings from headers and samples and merges them with an
// existing config. Manual mappings take precedence over freshly detected
// ones as long as their source column still exists; a manual mapping whose
// column disappeared is dropped and its canonical field flagged for
// re-confirmation. Re-running against unchanged input yields a config with
// identical mapping content, differing only in timestamps.
func (b *Builder) Build(stateCode string, headers []string, samples []reader.RawRow, existing *StateConfig) (*StateConfig, BuildReport) {
	result := b.detector.Detect(headers, samples)

	byField := make(map[string]schema.FieldMapping, len(result.Mappings))
	for _, m := range result.Mappings {
		byField[m.CanonicalField] = m
	}

	var report BuildReport
	if existing != nil {
		headerSet := make(map[string]bool, len(headers))
		for _, h := range headers {
			headerSet[h] = true
		}

		for _, m := range existing.FieldMappings {
			if m.Method != schema.MethodManual {
				continue
			}
			if !headerSet[m.SourceColumn] {
				report.Reconfirm = append(report.Reconfirm, m.CanonicalField)
				b.log.Warn("manual mapping lost its source column, re-confirmation needed",
					"state_code", stateCode,
					"canonical_field", m.CanonicalField,
					"source_column", m.SourceColumn)
				continue
			}
			// A manual mapping claims its column exclusively: evict any
			// detected mapping that routed the same column elsewhere.
			for field, dm := range byField {
				if field != m.CanonicalField && dm.SourceColumn == m.SourceColumn {
					delete(byField, field)
				}
			}
			byField[m.CanonicalField] = m
		}
	}

	mappings := make([]schema.FieldMapping, 0, len(byField))
	for _, f := range schema.Fields {
		if m, ok := byField[f.Name]; ok {
			mappings = append(mappings, m)
		}
	}
	result.Unmapped = detect.UnmappedRequired(byField)
	report.Detection = result

	now := time.Now().UTC()
	cfg := &StateConfig{
		StateCode:     strings.ToUpper(stateCode),
		Version:       1,
		FieldMappings: mappings,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if existing != nil {
		cfg.CreatedAt = existing.CreatedAt
		cfg.FileFormat = existing.FileFormat
		cfg.Delimiter = existing.Delimiter
		if mappingsEqual(existing.FieldMappings, mappings) {
			cfg.Version = existing.Version
		} else {
			cfg.Version = existing.Version + 1
			report.Changed = true
		}
	} else {
		report.Changed = true
	}

	return cfg, report
}

// mappingsEqual compares mapping content, ignoring order.
func mappingsEqual(a, b []schema.FieldMapping) bool {
	if len(a) != len(b) {
		return false
	}
	index := make(map[string]schema.FieldMapping, len(a))
	for _, m := range a {
		index[m.CanonicalField] = m
	}
	for _, m := range b {
		if index[m.CanonicalField] != m {
			return false
		}
	}
	return true
}
