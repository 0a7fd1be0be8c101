package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration options for the task timer application
type Config struct {
	Database    DatabaseConfig    `yaml:"database" mapstructure:"database"`
	Idle        IdleConfig        `yaml:"idle" mapstructure:"idle"`
	Ledger      LedgerConfig      `yaml:"ledger" mapstructure:"ledger"`
	Reports     ReportsConfig     `yaml:"reports" mapstructure:"reports"`
	Validation  ValidationConfig  `yaml:"validation" mapstructure:"validation"`
	Application ApplicationConfig `yaml:"application" mapstructure:"application"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `yaml:"dir" mapstructure:"dir"`
	Filename       string        `yaml:"filename" mapstructure:"filename"`
	QueryTimeout   time.Duration `yaml:"query_timeout" mapstructure:"query_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	BusyTimeout    time.Duration `yaml:"busy_timeout" mapstructure:"busy_timeout"`
	DirPermissions uint32        `yaml:"dir_permissions" mapstructure:"dir_permissions"`
}

// IdleConfig controls automatic pausing when the user is away
type IdleConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	TimeoutMinutes int           `yaml:"timeout_minutes" mapstructure:"timeout_minutes"`
	PollInterval   time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
}

// LedgerConfig controls how often running totals are persisted
type LedgerConfig struct {
	SnapshotInterval time.Duration `yaml:"snapshot_interval" mapstructure:"snapshot_interval"`
}

// ReportsConfig holds report output configuration
type ReportsConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"`
	DefaultFormat string `yaml:"default_format" mapstructure:"default_format"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TaskNameMinLength int `yaml:"task_name_min_length" mapstructure:"task_name_min_length"`
	TaskNameMaxLength int `yaml:"task_name_max_length" mapstructure:"task_name_max_length"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Verbose bool          `yaml:"verbose" mapstructure:"verbose"`
	LogFile string        `yaml:"log_file" mapstructure:"log_file"`
}

// HomeDir returns the application directory, ~/.tm
func HomeDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".tm")
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	appDir := HomeDir()

	return &Config{
		Database: DatabaseConfig{
			Dir:            appDir,
			Filename:       "tasks.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			BusyTimeout:    10 * time.Second,
			DirPermissions: 0755,
		},
		Idle: IdleConfig{
			Enabled:        true,
			TimeoutMinutes: 30,
			PollInterval:   500 * time.Millisecond,
		},
		Ledger: LedgerConfig{
			SnapshotInterval: time.Minute,
		},
		Reports: ReportsConfig{
			Dir:           "reports",
			DefaultFormat: "xlsx",
		},
		Validation: ValidationConfig{
			TaskNameMinLength: 1,
			TaskNameMaxLength: 255,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
			LogFile: filepath.Join(appDir, "tm.log"),
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	if c.Database.Filename == MemoryDatabase {
		return MemoryDatabase
	}
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// IdleThreshold returns the idle timeout as a duration
func (c *Config) IdleThreshold() time.Duration {
	return time.Duration(c.Idle.TimeoutMinutes) * time.Minute
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	c.ApplyEnvironment(GetEnvironment())

	// Database configuration
	if dir := os.Getenv("TM_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("TM_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if timeout := os.Getenv("TM_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(timeout, c.Database.QueryTimeout)
	}
	if timeout := os.Getenv("TM_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(timeout, c.Database.WriteTimeout)
	}
	if timeout := os.Getenv("TM_DB_BUSY_TIMEOUT"); timeout != "" {
		c.Database.BusyTimeout = ParseDurationWithFallback(timeout, c.Database.BusyTimeout)
	}
	if perms := os.Getenv("TM_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}

	// Idle configuration
	if enabled := os.Getenv("TM_IDLE_ENABLED"); enabled != "" {
		c.Idle.Enabled = ParseBoolWithFallback(enabled, c.Idle.Enabled)
	}
	if minutes := os.Getenv("TM_IDLE_TIMEOUT_MINUTES"); minutes != "" {
		c.Idle.TimeoutMinutes = ParseIntWithFallback(minutes, c.Idle.TimeoutMinutes)
	}
	if poll := os.Getenv("TM_IDLE_POLL_INTERVAL"); poll != "" {
		c.Idle.PollInterval = ParseDurationWithFallback(poll, c.Idle.PollInterval)
	}

	// Ledger configuration
	if interval := os.Getenv("TM_LEDGER_SNAPSHOT_INTERVAL"); interval != "" {
		c.Ledger.SnapshotInterval = ParseDurationWithFallback(interval, c.Ledger.SnapshotInterval)
	}

	// Reports configuration
	if dir := os.Getenv("TM_REPORTS_DIR"); dir != "" {
		c.Reports.Dir = dir
	}
	if format := os.Getenv("TM_REPORTS_FORMAT"); format != "" {
		c.Reports.DefaultFormat = format
	}

	// Validation configuration
	if minLen := os.Getenv("TM_VALIDATION_TASK_NAME_MIN"); minLen != "" {
		c.Validation.TaskNameMinLength = ParseIntWithFallback(minLen, c.Validation.TaskNameMinLength)
	}
	if maxLen := os.Getenv("TM_VALIDATION_TASK_NAME_MAX"); maxLen != "" {
		c.Validation.TaskNameMaxLength = ParseIntWithFallback(maxLen, c.Validation.TaskNameMaxLength)
	}

	// Application configuration
	if timeout := os.Getenv("TM_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("TM_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}
	if logFile := os.Getenv("TM_APP_LOG_FILE"); logFile != "" {
		c.Application.LogFile = logFile
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}
	if c.Database.BusyTimeout < 0 {
		return &ConfigError{Field: "database.busy_timeout", Message: "busy timeout cannot be negative"}
	}

	// Validate idle configuration
	if c.Idle.TimeoutMinutes < 1 {
		return &ConfigError{Field: "idle.timeout_minutes", Message: "idle timeout must be at least 1 minute"}
	}
	if c.Idle.PollInterval <= 0 {
		return &ConfigError{Field: "idle.poll_interval", Message: "poll interval must be positive"}
	}

	// Validate ledger configuration
	if c.Ledger.SnapshotInterval < time.Second {
		return &ConfigError{Field: "ledger.snapshot_interval", Message: "snapshot interval must be at least one second"}
	}

	// Validate reports configuration
	if c.Reports.Dir == "" {
		return &ConfigError{Field: "reports.dir", Message: "reports directory cannot be empty"}
	}
	switch c.Reports.DefaultFormat {
	case "xlsx", "csv":
	default:
		return &ConfigError{Field: "reports.default_format", Message: "report format must be xlsx or csv"}
	}

	// Validate validation configuration
	if c.Validation.TaskNameMinLength < 1 {
		return &ConfigError{Field: "validation.task_name_min_length", Message: "task name minimum length must be at least 1"}
	}
	if c.Validation.TaskNameMaxLength < c.Validation.TaskNameMinLength {
		return &ConfigError{Field: "validation.task_name_max_length", Message: "task name maximum length must be greater than minimum length"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
