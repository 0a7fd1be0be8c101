package config

import (
	"os"
	"strings"
)

// Environment selects where the ledger lives
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// MemoryDatabase is the filename that keeps the ledger in memory.
const MemoryDatabase = ":memory:"

// GetEnvironment reads TM_ENV. Anything unrecognised is production.
func GetEnvironment() Environment {
	switch Environment(strings.ToLower(os.Getenv("TM_ENV"))) {
	case Development:
		return Development
	case Testing:
		return Testing
	default:
		return Production
	}
}

// ApplyEnvironment adjusts the database location for env. Development uses
// a database in the working directory with debug logging; testing keeps the
// ledger in memory. Production leaves the configuration unchanged.
func (c *Config) ApplyEnvironment(env Environment) {
	switch env {
	case Development:
		c.Database.Dir = "."
		c.Database.Filename = "tm-dev.db"
		c.Application.Verbose = true
	case Testing:
		c.Database.Filename = MemoryDatabase
	}
}
