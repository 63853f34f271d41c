package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwaga-code/voter-registration-framework/cmd/importer"
	"github.com/mwaga-code/voter-registration-framework/cmd/onboard"
	"github.com/mwaga-code/voter-registration-framework/internal/conf"
	"github.com/mwaga-code/voter-registration-framework/internal/logging"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "voterframe",
		Short: "Voter registration import framework CLI",
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, settings)

	rootCmd.AddCommand(
		onboard.Command(settings),
		importer.Command(settings),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if settings.Debug {
			logging.SetLevel(slog.LevelDebug)
		}
		return nil
	}

	rootCmd.SilenceUsage = true
	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.ConfigDir, "config-dir", viper.GetString("configdir"), "Directory holding per-state mapping configs")
	rootCmd.PersistentFlags().StringVar(&settings.Output.SQLite.Path, "db", viper.GetString("output.sqlite.path"), "Path to the SQLite database file")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
