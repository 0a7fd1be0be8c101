package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := NewLoaderWithPath(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Idle.TimeoutMinutes)
}

func TestLoader_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
idle:
  enabled: false
  timeout_minutes: 10
ledger:
  snapshot_interval: 15s
reports:
  dir: /tmp/reports
  default_format: csv
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := NewLoaderWithPath(path).Load()
	require.NoError(t, err)

	assert.False(t, cfg.Idle.Enabled)
	assert.Equal(t, 10, cfg.Idle.TimeoutMinutes)
	assert.Equal(t, 15*time.Second, cfg.Ledger.SnapshotInterval)
	assert.Equal(t, "/tmp/reports", cfg.Reports.Dir)
	assert.Equal(t, "csv", cfg.Reports.DefaultFormat)
	// untouched sections keep defaults
	assert.Equal(t, "tasks.db", cfg.Database.Filename)
}

func TestLoader_EnvironmentBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("idle:\n  timeout_minutes: 10\n"), 0644))
	t.Setenv("TM_IDLE_TIMEOUT_MINUTES", "3")

	cfg, err := NewLoaderWithPath(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Idle.TimeoutMinutes)
}

func TestLoader_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("idle: [unclosed"), 0644))

	_, err := NewLoaderWithPath(path).Load()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "file", cfgErr.Field)
}

func TestLoader_LoadWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	dir := t.TempDir()
	minutes := 2
	format := "csv"

	cfg, err := NewLoaderWithPath(path).LoadWithOverrides(&ConfigOverrides{
		DBDir:              &dir,
		IdleTimeoutMinutes: &minutes,
		ReportsFormat:      &format,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "tasks.db"), cfg.GetDatabasePath())
	assert.Equal(t, 2, cfg.Idle.TimeoutMinutes)
	assert.Equal(t, "csv", cfg.Reports.DefaultFormat)
}

func TestLoader_OverridesAreValidated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	minutes := 0

	_, err := NewLoaderWithPath(path).LoadWithOverrides(&ConfigOverrides{IdleTimeoutMinutes: &minutes})
	assert.Error(t, err)
}

func TestLoader_Path(t *testing.T) {
	assert.Equal(t, "/tmp/tm.yaml", NewLoaderWithPath("/tmp/tm.yaml").Path())
	assert.Equal(t, FilePath(), NewLoader().Path())
}

func TestLoader_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TM_REPORTS_DIR=/tmp/from-env-file\nTM_IDLE_TIMEOUT_MINUTES=45\n"), 0644))

	for _, key := range []string{"TM_REPORTS_DIR", "TM_IDLE_TIMEOUT_MINUTES"} {
		require.NoError(t, os.Unsetenv(key))
		t.Cleanup(func() { os.Unsetenv(key) })
	}

	cfg, err := NewLoaderWithPath(filepath.Join(dir, "config.yaml")).WithEnvFile(envFile).Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/from-env-file", cfg.Reports.Dir)
	assert.Equal(t, 45, cfg.Idle.TimeoutMinutes)
}

func TestLoader_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TM_REPORTS_DIR=/tmp/from-env-file\n"), 0644))
	t.Setenv("TM_REPORTS_DIR", "/tmp/from-shell")

	cfg, err := NewLoaderWithPath(filepath.Join(dir, "config.yaml")).WithEnvFile(envFile).Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/from-shell", cfg.Reports.Dir)
}

func TestLoader_MissingEnvFileIsIgnored(t *testing.T) {
	dir := t.TempDir()

	_, err := NewLoaderWithPath(filepath.Join(dir, "config.yaml")).WithEnvFile(filepath.Join(dir, ".env")).Load()
	assert.NoError(t, err)
}
