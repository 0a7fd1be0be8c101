package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "tasks.db", cfg.Database.Filename)
	assert.Equal(t, 10*time.Second, cfg.Database.BusyTimeout)
	assert.True(t, cfg.Idle.Enabled)
	assert.Equal(t, 30, cfg.Idle.TimeoutMinutes)
	assert.Equal(t, 30*time.Minute, cfg.IdleThreshold())
	assert.Equal(t, time.Minute, cfg.Ledger.SnapshotInterval)
	assert.Equal(t, "reports", cfg.Reports.Dir)
	assert.Equal(t, "xlsx", cfg.Reports.DefaultFormat)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TM_DB_DIR", "/tmp/tm-test")
	t.Setenv("TM_DB_FILENAME", "other.db")
	t.Setenv("TM_IDLE_ENABLED", "false")
	t.Setenv("TM_IDLE_TIMEOUT_MINUTES", "5")
	t.Setenv("TM_LEDGER_SNAPSHOT_INTERVAL", "30s")
	t.Setenv("TM_REPORTS_FORMAT", "csv")
	t.Setenv("TM_APP_VERBOSE", "true")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())

	assert.Equal(t, "/tmp/tm-test/other.db", cfg.GetDatabasePath())
	assert.False(t, cfg.Idle.Enabled)
	assert.Equal(t, 5, cfg.Idle.TimeoutMinutes)
	assert.Equal(t, 30*time.Second, cfg.Ledger.SnapshotInterval)
	assert.Equal(t, "csv", cfg.Reports.DefaultFormat)
	assert.True(t, cfg.Application.Verbose)
}

func TestLoadFromEnvironment_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("TM_IDLE_TIMEOUT_MINUTES", "soon")
	t.Setenv("TM_LEDGER_SNAPSHOT_INTERVAL", "often")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())

	assert.Equal(t, 30, cfg.Idle.TimeoutMinutes)
	assert.Equal(t, time.Minute, cfg.Ledger.SnapshotInterval)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"empty db dir", func(c *Config) { c.Database.Dir = "" }, "database.dir"},
		{"empty filename", func(c *Config) { c.Database.Filename = "" }, "database.filename"},
		{"negative busy timeout", func(c *Config) { c.Database.BusyTimeout = -time.Second }, "database.busy_timeout"},
		{"zero idle minutes", func(c *Config) { c.Idle.TimeoutMinutes = 0 }, "idle.timeout_minutes"},
		{"zero poll interval", func(c *Config) { c.Idle.PollInterval = 0 }, "idle.poll_interval"},
		{"sub-second snapshots", func(c *Config) { c.Ledger.SnapshotInterval = time.Millisecond }, "ledger.snapshot_interval"},
		{"unknown report format", func(c *Config) { c.Reports.DefaultFormat = "pdf" }, "reports.default_format"},
		{"empty reports dir", func(c *Config) { c.Reports.Dir = "" }, "reports.dir"},
		{"max below min", func(c *Config) { c.Validation.TaskNameMaxLength = 0 }, "validation.task_name_max_length"},
		{"zero app timeout", func(c *Config) { c.Application.Timeout = 0 }, "application.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestParseWithFallback(t *testing.T) {
	assert.Equal(t, 2*time.Second, ParseDurationWithFallback("2s", time.Minute))
	assert.Equal(t, time.Minute, ParseDurationWithFallback("x", time.Minute))
	assert.Equal(t, 7, ParseIntWithFallback("7", 1))
	assert.Equal(t, 1, ParseIntWithFallback("seven", 1))
	assert.True(t, ParseBoolWithFallback("1", false))
	assert.False(t, ParseBoolWithFallback("maybe", false))
	assert.Equal(t, uint32(0700), ParseUint32WithFallback("700", 8, 0755))
	assert.Equal(t, uint32(0755), ParseUint32WithFallback("9z", 8, 0755))
}
