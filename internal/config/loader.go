package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config  *Config
	path    string
	envFile string
}

// NewLoader creates a loader reading the default config file, ~/.tm/config.yaml,
// and a .env file in the working directory
func NewLoader() *Loader {
	return NewLoaderWithPath(FilePath()).WithEnvFile(".env")
}

// NewLoaderWithPath creates a loader reading the given config file
func NewLoaderWithPath(path string) *Loader {
	return &Loader{
		config: NewConfig(),
		path:   path,
	}
}

// WithEnvFile sets a dotenv file whose variables are exported before the
// environment is read. Variables already set keep their value.
func (l *Loader) WithEnvFile(path string) *Loader {
	l.envFile = path
	return l
}

// Path returns the config file this loader reads
func (l *Loader) Path() string {
	return l.path
}

// FilePath returns the default config file location
func FilePath() string {
	return filepath.Join(HomeDir(), "config.yaml")
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the config file, when present
// 3. Override with environment variables (including the .env file)
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}

	if err := l.loadEnvFile(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

func (l *Loader) loadFile() error {
	if l.path == "" {
		return nil
	}
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(l.path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return &ConfigError{Field: "file", Message: err.Error()}
	}

	if err := v.Unmarshal(l.config); err != nil {
		return &ConfigError{Field: "file", Message: err.Error()}
	}
	return nil
}

func (l *Loader) loadEnvFile() error {
	if l.envFile == "" {
		return nil
	}
	if _, err := os.Stat(l.envFile); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(l.envFile); err != nil {
		return &ConfigError{Field: "env_file", Message: err.Error()}
	}
	return nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	DBDir      *string
	DBFilename *string

	IdleEnabled        *bool
	IdleTimeoutMinutes *int

	SnapshotInterval *time.Duration

	ReportsDir    *string
	ReportsFormat *string

	Timeout *time.Duration
	Verbose *bool
	LogFile *string
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.DBDir != nil {
		config.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Database.Filename = *overrides.DBFilename
	}

	if overrides.IdleEnabled != nil {
		config.Idle.Enabled = *overrides.IdleEnabled
	}
	if overrides.IdleTimeoutMinutes != nil {
		config.Idle.TimeoutMinutes = *overrides.IdleTimeoutMinutes
	}

	if overrides.SnapshotInterval != nil {
		config.Ledger.SnapshotInterval = *overrides.SnapshotInterval
	}

	if overrides.ReportsDir != nil {
		config.Reports.Dir = *overrides.ReportsDir
	}
	if overrides.ReportsFormat != nil {
		config.Reports.DefaultFormat = *overrides.ReportsFormat
	}

	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
	if overrides.LogFile != nil {
		config.Application.LogFile = *overrides.LogFile
	}
}
