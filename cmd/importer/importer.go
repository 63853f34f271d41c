// Package importer implements the command that runs one import of a state
// extract into the destination database.
package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwaga-code/voter-registration-framework/internal/conf"
	"github.com/mwaga-code/voter-registration-framework/internal/datastore"
	"github.com/mwaga-code/voter-registration-framework/internal/pipeline"
	"github.com/mwaga-code/voter-registration-framework/internal/reader"
	"github.com/mwaga-code/voter-registration-framework/internal/stateconfig"
)

// Command creates the import command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <state_code> <input_path>",
		Short: "Import a state voter extract into the database",
		Long: `Load the state's mapping config, stream the extract through the import
pipeline and commit clean records to the destination table. Row-level
errors are collected into the summary and never abort the run; a missing
or incomplete config does.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, settings, args[0], args[1])
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().IntVar(&settings.Import.Limit, "limit", viper.GetInt("import.limit"), "Maximum number of rows to import, 0 means all")
	cmd.Flags().StringVar(&settings.Import.Table, "table", viper.GetString("import.table"), "Destination table override")
	cmd.Flags().BoolVarP(&settings.Import.Verbose, "verbose", "v", viper.GetBool("import.verbose"), "Print extended run statistics")
}

func runImport(cmd *cobra.Command, settings *conf.Settings, stateCode, inputPath string) error {
	store := stateconfig.NewStore(settings.ConfigDir)
	cfg, err := store.Load(stateCode)
	if err != nil {
		return err
	}

	var delimiter rune
	if cfg.Delimiter != "" {
		delimiter = []rune(cfg.Delimiter)[0]
	}

	r, err := reader.Open(inputPath, reader.Options{
		Delimiter: delimiter,
		Limit:     settings.Import.Limit,
	})
	if err != nil {
		return err
	}
	defer r.Close()

	sink := datastore.New(settings)
	if err := sink.Open(); err != nil {
		return err
	}
	defer sink.Close()

	table := settings.Import.Table
	if table == "" {
		table = datastore.TableFor(stateCode, inputPath, time.Now())
	}
	scope := datastore.Scope{StateCode: strings.ToUpper(stateCode), Table: table}

	summary, runErr := pipeline.New().Run(cmd.Context(), stateCode, r, cfg, sink, scope)
	printSummary(cmd, settings, summary)

	// Row-level errors are already in the summary; only fatal conditions
	// produce a non-zero exit.
	return runErr
}

func printSummary(cmd *cobra.Command, settings *conf.Settings, s *pipeline.Summary) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Import summary for %s (table %s):\n", s.StateCode, s.Table)
	fmt.Fprintf(out, "  rows seen:            %d\n", s.RowsSeen)
	fmt.Fprintf(out, "  inserted:             %d\n", s.Inserted)
	fmt.Fprintf(out, "  duplicates:           %d\n", s.Duplicates)
	fmt.Fprintf(out, "  validation errors:    %d\n", s.ValidationErrors)
	fmt.Fprintf(out, "  normalization errors: %d\n", s.NormalizationErrors)

	if !settings.Import.Verbose {
		return
	}

	fmt.Fprintf(out, "  run id:               %s\n", s.RunID)
	fmt.Fprintf(out, "  elapsed:              %s\n", s.Elapsed.Round(time.Millisecond))

	shown := 0
	for _, e := range s.RowErrors {
		if shown >= 5 {
			fmt.Fprintf(out, "  ... %d more row errors\n", len(s.RowErrors)-shown)
			break
		}
		if e.Value != "" {
			fmt.Fprintf(out, "  row %d: %s %s=%q: %s\n", e.Row, e.Kind, e.Field, e.Value, e.Message)
		} else {
			fmt.Fprintf(out, "  row %d: %s %s: %s\n", e.Row, e.Kind, e.Field, e.Message)
		}
		shown++
	}
}
