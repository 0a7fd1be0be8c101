package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvironment(t *testing.T) {
	tests := []struct {
		value    string
		expected Environment
	}{
		{"development", Development},
		{"Testing", Testing},
		{"production", Production},
		{"", Production},
		{"staging", Production},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TM_ENV", tt.value)
			assert.Equal(t, tt.expected, GetEnvironment())
		})
	}
}

func TestConfig_ApplyEnvironment(t *testing.T) {
	t.Run("development uses the working directory", func(t *testing.T) {
		cfg := NewConfig()
		cfg.ApplyEnvironment(Development)
		assert.Equal(t, "tm-dev.db", cfg.GetDatabasePath())
		assert.True(t, cfg.Application.Verbose)
	})

	t.Run("testing keeps the ledger in memory", func(t *testing.T) {
		cfg := NewConfig()
		cfg.ApplyEnvironment(Testing)
		assert.Equal(t, MemoryDatabase, cfg.GetDatabasePath())
	})

	t.Run("production is unchanged", func(t *testing.T) {
		cfg := NewConfig()
		want := cfg.GetDatabasePath()
		cfg.ApplyEnvironment(Production)
		assert.Equal(t, want, cfg.GetDatabasePath())
	})

	t.Run("loader reads TM_ENV", func(t *testing.T) {
		t.Setenv("TM_ENV", "testing")
		cfg, err := NewLoaderWithPath("").Load()
		assert.NoError(t, err)
		assert.Equal(t, MemoryDatabase, cfg.GetDatabasePath())
	})
}
