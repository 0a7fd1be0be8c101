package config

import (
	"fmt"
	"os"

	"task-timer/internal/repository/sqlite"
)

// CreateRepository opens the ledger database described by config
func CreateRepository(config *Config) (sqlite.Repository, error) {
	repo, err := sqlite.NewWithOptions(config.GetDatabasePath(), StoreOptions(config))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return repo, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (sqlite.Repository, error) {
	repo, err := sqlite.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return repo, nil
}

// StoreOptions maps the database section onto repository options
func StoreOptions(config *Config) sqlite.Options {
	return sqlite.Options{
		BusyTimeout:    config.Database.BusyTimeout,
		DirPermissions: os.FileMode(config.Database.DirPermissions),
	}
}
