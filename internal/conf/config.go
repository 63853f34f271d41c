// config.go: settings struct for the voter import framework and the
// functions to load it from file, environment and flags via viper.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

//go:embed config.yaml
var configFiles embed.FS

// LogSettings contains optional file logging settings.
type LogSettings struct {
	File string // path to a rotating log file, empty keeps logs on stdout
}

// SQLiteSettings contains the destination database settings.
type SQLiteSettings struct {
	Path string // path to the SQLite database file
}

// OutputSettings groups the storage destinations.
type OutputSettings struct {
	SQLite SQLiteSettings // SQLite output settings
}

// OnboardSettings contains settings for schema detection during onboarding.
type OnboardSettings struct {
	SampleSize    int     // number of data rows sampled for value-pattern inference
	MinConfidence float64 // minimum confidence for a detected mapping to be kept
	Force         bool    // overwrite an existing state config instead of merging
}

// ImportSettings contains settings for import runs.
type ImportSettings struct {
	Limit   int    // maximum number of rows to import, 0 means all
	Table   string // destination table override, empty means derived per run
	Verbose bool   // print extended run statistics
}

// Settings contains all runtime configuration. It is loaded once and passed
// explicitly into constructors, there is no mutable global path state.
type Settings struct {
	Debug     bool            // enable debug output
	ConfigDir string          // directory holding per-state mapping configs
	Log       LogSettings     // file logging settings
	Output    OutputSettings  // storage destinations
	Onboard   OnboardSettings // onboarding settings
	Import    ImportSettings  // import run settings
}

// settingsMutex serializes Load calls, which mutate the shared viper state.
var settingsMutex sync.Mutex

// Load reads the configuration into a new Settings struct.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	// Initialize viper and read config
	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	// Unmarshal the config into settings
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	// Validate settings
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

// initViper initializes viper with config file paths and default values.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	// Read configuration file
	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates a default config file and writes it to the
// default config path.
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")
	defaultConfig := getDefaultConfig()

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded
// config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	return string(data)
}

// GetDefaultConfigPaths returns the config file search paths: the per-user
// config directory, the system-wide directory, and the working directory.
// When a config.yaml already exists in one of them, only that path is
// returned.
func GetDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error getting home directory: %w", err)
	}

	configPaths := []string{
		filepath.Join(homeDir, ".config", "voterframe"),
		"/etc/voterframe",
		".",
	}

	// Check if config.yaml exists in any of the paths
	for _, path := range configPaths {
		configFile := filepath.Join(path, "config.yaml")
		if _, err := os.Stat(configFile); err == nil {
			return []string{path}, nil
		}
	}

	return configPaths, nil
}
