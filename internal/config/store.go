package config

import (
	"os"
	"strings"
)

const (
	StoreBackendRedis  = "redis"
	StoreBackendSQLite = "sqlite"
	StoreBackendMemory = "memory"

	defaultStorePath = "habit-notifier.db"
)

// StoreConfig selects the key-value backend holding the credential and notified slots.
type StoreConfig struct {
	Backend string
	Path    string
}

func LoadStoreConfig() *StoreConfig {
	backend := strings.ToLower(os.Getenv("STORE_BACKEND"))
	if backend == "" {
		backend = StoreBackendSQLite
	}

	path := os.Getenv("STORE_PATH")
	if path == "" {
		path = defaultStorePath
	}

	return &StoreConfig{
		Backend: backend,
		Path:    path,
	}
}

func (c *StoreConfig) Validate() error {
	switch c.Backend {
	case StoreBackendRedis, StoreBackendMemory:
		return nil
	case StoreBackendSQLite:
		if c.Path == "" {
			return ErrStorePathMissing
		}
		return nil
	default:
		return ErrUnknownStoreBackend
	}
}
