package app

import (
	"errors"
	"fmt"
	"time"
)

// PlatformVersion is the host version modules validate their
// target_platform range against.
const PlatformVersion = "1.4.2"

// APILevel is the API surface level the host advertises; modules declaring a
// higher level are rejected.
const APILevel = 2

// Storage backend names accepted by Config.StorageBackend.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath  string // live configuration document (yaml/toml/json)
	ModulesPath string // root of the module manifest tree

	ListenAddr string
	LogFormat  string
	LogLevel   string

	StorageBackend string // memory or sqlite
	StoragePath    string // sqlite database path

	// InitTimeout bounds each module's initialization; zero disables the
	// bound, matching the reference behavior.
	InitTimeout time.Duration
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if cfg.ModulesPath == "" {
		return nil, errors.New("ModulesPath is a required configuration field and cannot be empty")
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8420"
	}
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = StorageMemory
	}
	switch cfg.StorageBackend {
	case StorageMemory:
	case StorageSQLite:
		if cfg.StoragePath == "" {
			return nil, errors.New("sqlite storage requires a storage path")
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	return &cfg, nil
}
