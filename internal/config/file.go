package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileHeader = "# tm configuration\n# Environment variables (TM_*) and command line flags override these values.\n"

// Save writes cfg to path as YAML, creating the parent directory.
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), os.FileMode(cfg.Database.DirPermissions)); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	return os.WriteFile(path, append([]byte(fileHeader), data...), 0644)
}

// WriteDefault writes the default configuration to path. Existing files are
// left alone unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return &ConfigError{Field: "file", Message: fmt.Sprintf("%s already exists", path)}
		}
	}
	return Save(NewConfig(), path)
}

// SaveIdleSettings updates only the idle section of the file at path,
// keeping every other value the file already holds.
func SaveIdleSettings(path string, enabled bool, timeoutMinutes int) error {
	cfg, err := NewLoaderWithPath(path).fileOnly()
	if err != nil {
		return err
	}
	cfg.Idle.Enabled = enabled
	cfg.Idle.TimeoutMinutes = timeoutMinutes
	return Save(cfg, path)
}

// fileOnly loads defaults plus the file, without environment overrides, so
// that saving does not persist values that only came from the environment.
func (l *Loader) fileOnly() (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}
	return l.config, nil
}
