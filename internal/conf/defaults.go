// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("configdir", "configs")

	viper.SetDefault("log.file", "")

	viper.SetDefault("output.sqlite.path", "data/voters.db")

	viper.SetDefault("onboard.samplesize", 1000)
	viper.SetDefault("onboard.minconfidence", 0.5)
	viper.SetDefault("onboard.force", false)

	viper.SetDefault("import.limit", 0)
	viper.SetDefault("import.table", "")
	viper.SetDefault("import.verbose", false)
}
