// Package pipeline orchestrates one import run: rows stream from a reader,
// get mapped through a state config, validated, normalized, checked for
// duplicates and committed to the storage sink one at a time. Row-level
// failures never abort the run; they are aggregated into the summary.
package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mwaga-code/voter-registration-framework/internal/datastore"
	"github.com/mwaga-code/voter-registration-framework/internal/dedup"
	"github.com/mwaga-code/voter-registration-framework/internal/errors"
	"github.com/mwaga-code/voter-registration-framework/internal/logging"
	"github.com/mwaga-code/voter-registration-framework/internal/normalize"
	"github.com/mwaga-code/voter-registration-framework/internal/reader"
	"github.com/mwaga-code/voter-registration-framework/internal/schema"
	"github.com/mwaga-code/voter-registration-framework/internal/stateconfig"
)

// maxErrorSamples caps how many row-error details a summary retains. Counts
// stay exact regardless.
const maxErrorSamples = 100

// RowSource is the lazy, forward-only sequence of raw rows consumed by a
// run. *reader.Reader satisfies it.
type RowSource interface {
	Next() (reader.RawRow, error)
}

// RowErrorKind classifies a recovered per-row failure.
type RowErrorKind string

const (
	RowErrorValidation    RowErrorKind = "validation"
	RowErrorNormalization RowErrorKind = "normalization"
	RowErrorDuplicate     RowErrorKind = "duplicate"
)

// RowError describes one skipped row with enough context to diagnose it.
type RowError struct {
	Row     int
	Kind    RowErrorKind
	Field   string
	Value   string
	Message string
}

// Summary accumulates the outcome of one import run.
type Summary struct {
	RunID               string
	StateCode           string
	Table               string
	RowsSeen            int
	Inserted            int
	Duplicates          int
	ValidationErrors    int
	NormalizationErrors int
	RowErrors           []RowError
	Elapsed             time.Duration
}

// record adds a row error, keeping at most maxErrorSamples details.
func (s *Summary) record(e RowError) {
	switch e.Kind {
	case RowErrorValidation:
		s.ValidationErrors++
	case RowErrorNormalization:
		s.NormalizationErrors++
	case RowErrorDuplicate:
		s.Duplicates++
	}
	if len(s.RowErrors) < maxErrorSamples {
		s.RowErrors = append(s.RowErrors, e)
	}
}

// Pipeline routes rows from a source through mapping, validation,
// normalization and deduplication into a storage sink.
type Pipeline struct {
	index *dedup.Index
	log   *slog.Logger
}

// New creates a pipeline with a fresh dedup index.
func New() *Pipeline {
	return &Pipeline{
		index: dedup.NewIndex(),
		log:   logging.ForService("pipeline"),
	}
}

// Run processes every row from the source into the sink's scope. It returns
// a summary of what was committed; the error is non-nil only for fatal
// conditions: an incomplete config, a sink failure, or cancellation. The
// summary always reflects exactly the records committed before the run
// stopped.
func (p *Pipeline) Run(ctx context.Context, stateCode string, rows RowSource, cfg *stateconfig.StateConfig, sink datastore.Interface, scope datastore.Scope) (*Summary, error) {
	start := time.Now()
	summary := &Summary{
		RunID:     uuid.NewString(),
		StateCode: strings.ToUpper(stateCode),
		Table:     scope.Table,
	}

	if cfg == nil {
		return summary, errors.Newf("no state config for %s", stateCode).
			Component("pipeline").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if err := cfg.Validate(); err != nil {
		return summary, err
	}

	if err := sink.EnsureScope(scope); err != nil {
		return summary, err
	}

	existing, err := sink.ExistingVoterIDs(scope)
	if err != nil {
		return summary, err
	}
	p.index.Seed(scope.Key(), existing)

	p.log.Info("import run started",
		"run_id", summary.RunID,
		"state_code", summary.StateCode,
		"table", scope.Table,
		"seeded_ids", len(existing))

	byField := cfg.ByField()
	for {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, err
		}

		row, err := rows.Next()
		if err == io.EOF {
			break
		}
		summary.RowsSeen++
		if err != nil {
			summary.record(RowError{
				Row:     row.Row,
				Kind:    RowErrorValidation,
				Message: err.Error(),
			})
			continue
		}

		voter, rowErr := buildRecord(summary.StateCode, byField, row)
		if rowErr != nil {
			summary.record(*rowErr)
			continue
		}

		if p.index.CheckAndRecord(scope.Key(), voter.VoterID) == dedup.Duplicate {
			summary.record(RowError{
				Row:     row.Row,
				Kind:    RowErrorDuplicate,
				Field:   schema.FieldVoterID,
				Value:   voter.VoterID,
				Message: "voter id already present in scope",
			})
			continue
		}

		if err := sink.Insert(scope, voter); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, err
		}
		summary.Inserted++
	}

	summary.Elapsed = time.Since(start)
	p.log.Info("import run finished",
		"run_id", summary.RunID,
		"rows_seen", summary.RowsSeen,
		"inserted", summary.Inserted,
		"duplicates", summary.Duplicates,
		"validation_errors", summary.ValidationErrors,
		"normalization_errors", summary.NormalizationErrors,
		"elapsed", summary.Elapsed)
	return summary, nil
}

// buildRecord applies the config's field mappings to one raw row, validates
// the required voter id and normalizes every mapped value. It returns a
// RowError instead of a record when the row must be skipped.
func buildRecord(stateCode string, byField map[string]schema.FieldMapping, row reader.RawRow) (*datastore.Voter, *RowError) {
	voter := &datastore.Voter{
		StateCode: stateCode,
		SourceRow: row.Row,
	}

	for _, f := range schema.Fields {
		mapping, ok := byField[f.Name]
		if !ok {
			continue
		}
		raw := row.Get(mapping.SourceColumn)
		value, err := normalize.Field(f.Name, raw)
		if err != nil {
			return nil, &RowError{
				Row:     row.Row,
				Kind:    RowErrorNormalization,
				Field:   f.Name,
				Value:   raw,
				Message: err.Error(),
			}
		}
		assignField(voter, f.Name, value)
	}

	if voter.VoterID == normalize.Empty {
		return nil, &RowError{
			Row:     row.Row,
			Kind:    RowErrorValidation,
			Field:   schema.FieldVoterID,
			Message: "required field is missing or empty",
		}
	}

	// With only split components mapped, compose the combined line from the
	// already-normalized parts rather than re-parsing anything.
	if voter.Street == "" {
		voter.Street = joinNonEmpty(voter.StreetNumber, voter.StreetName, voter.Unit)
	}

	return voter, nil
}

// assignField routes a normalized value to its column on the record.
func assignField(voter *datastore.Voter, field, value string) {
	switch field {
	case schema.FieldVoterID:
		voter.VoterID = value
	case schema.FieldFirstName:
		voter.FirstName = value
	case schema.FieldMiddleName:
		voter.MiddleName = value
	case schema.FieldLastName:
		voter.LastName = value
	case schema.FieldSuffix:
		voter.Suffix = value
	case schema.FieldStreet:
		voter.Street = value
	case schema.FieldStreetNumber:
		voter.StreetNumber = value
	case schema.FieldStreetName:
		voter.StreetName = value
	case schema.FieldUnit:
		voter.Unit = value
	case schema.FieldCity:
		voter.City = value
	case schema.FieldState:
		voter.State = value
	case schema.FieldZip:
		voter.Zip = value
	case schema.FieldBirthDate:
		voter.BirthDate = value
	case schema.FieldRegDate:
		voter.RegistrationDate = value
	case schema.FieldGender:
		voter.Gender = value
	case schema.FieldParty:
		voter.Party = value
	case schema.FieldPrecinct:
		voter.Precinct = value
	case schema.FieldCounty:
		voter.County = value
	case schema.FieldStatusCode:
		voter.StatusCode = value
	case schema.FieldMailAddress:
		voter.MailingAddress = value
	case schema.FieldMailCity:
		voter.MailingCity = value
	case schema.FieldMailState:
		voter.MailingState = value
	case schema.FieldMailZip:
		voter.MailingZip = value
	}
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
