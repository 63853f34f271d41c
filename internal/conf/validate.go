package conf

import (
	"github.com/mwaga-code/voter-registration-framework/internal/errors"
)

// ValidateSettings checks the loaded settings for values the pipeline
// cannot run with.
func ValidateSettings(settings *Settings) error {
	if settings.ConfigDir == "" {
		return errors.Newf("configdir must not be empty").
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if settings.Output.SQLite.Path == "" {
		return errors.Newf("output.sqlite.path must not be empty").
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if settings.Onboard.SampleSize <= 0 {
		return errors.Newf("onboard.samplesize must be positive, got %d", settings.Onboard.SampleSize).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("samplesize", settings.Onboard.SampleSize).
			Build()
	}

	if settings.Onboard.MinConfidence <= 0 || settings.Onboard.MinConfidence > 1 {
		return errors.Newf("onboard.minconfidence must be in (0, 1], got %v", settings.Onboard.MinConfidence).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("minconfidence", settings.Onboard.MinConfidence).
			Build()
	}

	if settings.Import.Limit < 0 {
		return errors.Newf("import.limit must not be negative, got %d", settings.Import.Limit).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("limit", settings.Import.Limit).
			Build()
	}

	return nil
}
