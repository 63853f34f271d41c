package main

import (
	"os"

	"github.com/mwaga-code/voter-registration-framework/cmd"
	"github.com/mwaga-code/voter-registration-framework/internal/conf"
	"github.com/mwaga-code/voter-registration-framework/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		logging.HumanReadable().Error("failed to load configuration", "error", err)
		return 1
	}

	if settings.Log.File != "" {
		closeLogger, err := logging.EnableFileLogging(settings.Log.File)
		if err != nil {
			logging.HumanReadable().Error("failed to set up file logging",
				"path", settings.Log.File, "error", err)
			return 1
		}
		defer func() { _ = closeLogger() }()
	}

	if err := cmd.RootCommand(settings).Execute(); err != nil {
		return 1
	}
	return 0
}
