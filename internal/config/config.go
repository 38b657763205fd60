// Package config holds the sink configuration: defaults, validation, TOML
// file loading, environment overrides, and the file watcher that hot-reloads
// batch limits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/loghaul/lokiship/internal/domain"
	"github.com/loghaul/lokiship/internal/encoding"
)

// Config holds the full configuration for the lokiship sink.
type Config struct {
	// URL is the base URL of the ingestion service (required).
	URL string

	// TenantID scopes every push to one tenant. Optional.
	TenantID string

	// AuthKey is the bearer token for the push endpoint. Optional.
	AuthKey string

	// Format selects the wire format: "json" or "msgpack". It is fixed
	// for the sink's lifetime and never hot-reloaded.
	Format string

	// Labels are static labels merged into every record read from the
	// input (the record's own labels win on conflict).
	Labels map[string]string

	// Input is the NDJSON source path, or "-" for stdin.
	Input string

	MaxBatchBytes   int
	MaxBatchRecords int
	SendInterval    time.Duration
	HardInterval    time.Duration
	PollInterval    time.Duration
	HTTPTimeout     time.Duration

	// MetricsAddr exposes the prometheus handler when non-empty.
	MetricsAddr string

	// Once drains the input and exits instead of polling.
	Once bool

	// Hostname identifies this agent in push headers. Defaults to
	// os.Hostname during Validate.
	Hostname string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Format:          "json",
		Input:           "-",
		MaxBatchBytes:   1 << 20, // 1MB of estimated encoded size
		MaxBatchRecords: 1000,
		SendInterval:    1 * time.Second,
		HardInterval:    5 * time.Second,
		PollInterval:    200 * time.Millisecond,
		HTTPTimeout:     10 * time.Second,
		AuthKey:         os.Getenv("LOKISHIP_AUTH_KEY"),
	}
}

// Validate checks the configuration and fills derived defaults. Errors wrap
// domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: url is required", domain.ErrInvalidConfig)
	}

	// Ensure no trailing slash
	if c.URL[len(c.URL)-1] == '/' {
		c.URL = c.URL[:len(c.URL)-1]
	}

	if _, err := encoding.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	if c.Input == "" {
		c.Input = "-"
	}
	if c.SendInterval <= 0 {
		return fmt.Errorf("%w: send interval must be positive", domain.ErrInvalidConfig)
	}
	if c.HardInterval < c.SendInterval {
		c.HardInterval = c.SendInterval
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", domain.ErrInvalidConfig)
	}
	if c.MaxBatchBytes < 0 || c.MaxBatchRecords < 0 {
		return fmt.Errorf("%w: batch limits must not be negative", domain.ErrInvalidConfig)
	}

	if c.Hostname == "" {
		if h, err := os.Hostname(); err == nil {
			c.Hostname = h
		}
	}
	return nil
}

// configSetter applies values while respecting flag precedence: a value is
// skipped when its flag was set explicitly on the command line.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntFromString parses and sets an int value. Used for environment
// variables, which arrive as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setDuration parses and sets a duration if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool from a pointer if present and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses "true"/"false" and sets the destination.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	if b, err := strconv.ParseBool(value); err == nil {
		*dst = b
	}
}
