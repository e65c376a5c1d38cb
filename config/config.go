// Package config loads the oltsync service configuration from a JSON file
// with environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/nanoncore/olt-gateway/logger"
)

var (
	errInvalidDuration    = errors.New("invalid duration")
	errInvalidConcurrency = errors.New("concurrency must be at least 1")
	errInvalidAttempts    = errors.New("max_attempts must be at least 1")
	errInvalidTimeout     = errors.New("timeouts must be positive")
	errInvalidBackoff     = errors.New("max_backoff must not be below initial_backoff")
)

// Environment variables that override file values.
const (
	EnvDatabaseURL = "OLTSYNC_DATABASE_URL"
	EnvNATSURL     = "OLTSYNC_NATS_URL"
	EnvConcurrency = "OLTSYNC_CONCURRENCY"
)

// Duration is a time.Duration that unmarshals from "30s" or nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}
		*d = Duration(dur)
	default:
		return errInvalidDuration
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config is the top-level service configuration.
type Config struct {
	Database DatabaseConfig `json:"database"`
	NATS     NATSConfig     `json:"nats"`
	Sync     SyncConfig     `json:"sync"`
	Logging  logger.Config  `json:"logging"`
}

type DatabaseConfig struct {
	// URL is a postgres connection string; empty selects the in-memory store
	URL      string `json:"url"`
	MaxConns int32  `json:"max_conns"`
}

type NATSConfig struct {
	// URL of the NATS server; empty disables event publishing
	URL           string `json:"url"`
	SubjectPrefix string `json:"subject_prefix"`
}

// SyncConfig bounds the background synchronization.
type SyncConfig struct {
	Concurrency    int      `json:"concurrency"`
	MaxAttempts    int      `json:"max_attempts"`
	InitialBackoff Duration `json:"initial_backoff"`
	MaxBackoff     Duration `json:"max_backoff"`
	OLTTimeout     Duration `json:"olt_timeout"`
	CommandTimeout Duration `json:"command_timeout"`
	Interval       Duration `json:"interval"`
	StatusInterval Duration `json:"status_interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{MaxConns: 8},
		NATS:     NATSConfig{SubjectPrefix: "olt.sync"},
		Sync: SyncConfig{
			Concurrency:    16,
			MaxAttempts:    3,
			InitialBackoff: Duration(2 * time.Second),
			MaxBackoff:     Duration(30 * time.Second),
			OLTTimeout:     Duration(2 * time.Minute),
			CommandTimeout: Duration(10 * time.Second),
			Interval:       Duration(30 * time.Minute),
			StatusInterval: Duration(60 * time.Second),
		},
		Logging: logger.DefaultConfig(),
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path uses defaults and environment only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file '%s': %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON from '%s': %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv(EnvNATSURL); v != "" {
		c.NATS.URL = v
	}
	if v := os.Getenv(EnvConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvConcurrency, err)
		}
		c.Sync.Concurrency = n
	}
	return nil
}

// Validate checks the sync bounds.
func (c *Config) Validate() error {
	var errs []error
	s := c.Sync
	if s.Concurrency < 1 {
		errs = append(errs, errInvalidConcurrency)
	}
	if s.MaxAttempts < 1 {
		errs = append(errs, errInvalidAttempts)
	}
	if s.OLTTimeout <= 0 || s.CommandTimeout <= 0 || s.Interval <= 0 || s.StatusInterval <= 0 || s.InitialBackoff <= 0 {
		errs = append(errs, errInvalidTimeout)
	}
	if s.MaxBackoff < s.InitialBackoff {
		errs = append(errs, errInvalidBackoff)
	}
	return errors.Join(errs...)
}
