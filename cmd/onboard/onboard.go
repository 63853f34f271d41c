// Package onboard implements the command that analyzes a state extract and
// writes its mapping config.
package onboard

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwaga-code/voter-registration-framework/internal/conf"
	"github.com/mwaga-code/voter-registration-framework/internal/detect"
	"github.com/mwaga-code/voter-registration-framework/internal/reader"
	"github.com/mwaga-code/voter-registration-framework/internal/stateconfig"
)

// Command creates the onboard command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "onboard <state_code> <input_path>",
		Short: "Detect a state's schema and write its mapping config",
		Long: `Analyze the headers and a sample of rows from a state voter extract,
infer how its columns map onto the canonical schema, and write the
resulting state config. Re-running against an existing config merges:
manual mappings are kept as long as their columns still exist.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnboard(cmd, settings, args[0], args[1])
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().IntVar(&settings.Onboard.SampleSize, "sample-size", viper.GetInt("onboard.samplesize"), "Number of rows sampled for value-pattern inference")
	cmd.Flags().Float64Var(&settings.Onboard.MinConfidence, "min-confidence", viper.GetFloat64("onboard.minconfidence"), "Minimum confidence for a detected mapping")
	cmd.Flags().BoolVar(&settings.Onboard.Force, "force", viper.GetBool("onboard.force"), "Overwrite an existing config instead of merging")
}

func runOnboard(cmd *cobra.Command, settings *conf.Settings, stateCode, inputPath string) error {
	r, err := reader.Open(inputPath, reader.Options{})
	if err != nil {
		return err
	}
	defer r.Close()

	samples, err := r.Sample(settings.Onboard.SampleSize)
	if err != nil {
		return err
	}

	store := stateconfig.NewStore(settings.ConfigDir)

	var existing *stateconfig.StateConfig
	if !settings.Onboard.Force && store.Exists(stateCode) {
		existing, err = store.Load(stateCode)
		if err != nil {
			return err
		}
	}

	builder := stateconfig.NewBuilder(detect.New(detect.Options{
		MinConfidence: settings.Onboard.MinConfidence,
		SampleLimit:   settings.Onboard.SampleSize,
	}))
	cfg, report := builder.Build(stateCode, r.Headers(), samples, existing)
	cfg.FileFormat = "csv"
	cfg.Delimiter = string(r.Delimiter())

	if err := store.Save(cfg); err != nil {
		return err
	}

	printReport(cmd, cfg, report, store.Path(stateCode))
	return nil
}

func printReport(cmd *cobra.Command, cfg *stateconfig.StateConfig, report stateconfig.BuildReport, path string) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "State config for %s (version %d) written to %s\n\n", cfg.StateCode, cfg.Version, path)
	fmt.Fprintf(out, "Field mappings:\n")
	for _, m := range cfg.FieldMappings {
		fmt.Fprintf(out, "  %-24s <- %-28s %.2f (%s)\n", m.CanonicalField, m.SourceColumn, m.Confidence, m.Method)
	}

	for _, c := range report.Detection.Conflicts {
		fmt.Fprintf(out, "\nwarning: %s also matched column %q (%.2f), kept %q (%.2f)\n",
			c.CanonicalField, c.Discarded.SourceColumn, c.Discarded.Confidence,
			c.Kept.SourceColumn, c.Kept.Confidence)
	}

	if len(report.Detection.Unmapped) > 0 {
		fmt.Fprintf(out, "\nUnmapped required fields: %s\n", strings.Join(report.Detection.Unmapped, ", "))
		fmt.Fprintf(out, "Imports will refuse to run until these are mapped.\n")
	}

	if len(report.Reconfirm) > 0 {
		fmt.Fprintf(out, "\nFields needing re-confirmation (source column disappeared): %s\n",
			strings.Join(report.Reconfirm, ", "))
	}
}
