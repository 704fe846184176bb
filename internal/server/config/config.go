// Package config loads and validates the secrettod configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Logging is the logging configuration.
type Logging struct {
	// Disable disables logging entirely.
	Disable bool

	// File specifies the log file, if omitted stdout will be used.
	File string

	// Level specifies the log level.
	Level string
}

func (l *Logging) validate() error {
	switch l.Level {
	case "ERROR", "WARNING", "NOTICE", "INFO", "DEBUG":
		return nil
	default:
		return fmt.Errorf("config: Logging: Level '%v' is invalid", l.Level)
	}
}

// Config is the top-level daemon configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string

	// PostgresDSN selects the PostgreSQL session store. Empty means the
	// in-memory store (single-process deployments and development).
	PostgresDSN string

	// RedisAddr selects the Redis blob store. Empty means in-memory blobs.
	RedisAddr string

	// SweepInterval is the expiry sweep period.
	SweepInterval time.Duration

	// BlobTTL bounds the lifetime of stored encrypted file blobs.
	BlobTTL time.Duration

	Logging *Logging
}

var defaultLogging = Logging{
	Disable: false,
	File:    "",
	Level:   "NOTICE",
}

// Validate checks the configuration and fills in defaults.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: No Addr was present")
	}
	if c.SweepInterval < 0 {
		return errors.New("config: SweepInterval must not be negative")
	}
	if c.Logging == nil {
		l := defaultLogging
		c.Logging = &l
	}
	return c.Logging.validate()
}

// Load parses and validates the provided buffer b as a config file body
// and returns the Config.
func Load(b []byte) (*Config, error) {
	if b == nil {
		return nil, errors.New("config: no nil buffer as config file")
	}

	cfg := new(Config)
	if err := toml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads, parses and validates the provided file and returns the
// Config.
func LoadFile(f string) (*Config, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}
	return Load(b)
}
