// Package adaptive picks the next puzzle difficulty from recent performance.
package adaptive

import (
	"errors"
	"fmt"
)

// Default thresholds.
const (
	DefaultHighAccuracy = 75.0
	DefaultLowAccuracy  = 50.0
	DefaultMinAttempts  = 3
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid adaptation config")

// Config holds the fixed adaptation thresholds.
type Config struct {
	// HighAccuracy is the percentage at or above which performance is strong.
	HighAccuracy float64
	// LowAccuracy is the percentage at or below which performance is weak.
	LowAccuracy float64
	// MinAttempts is the smallest window that may change the difficulty.
	MinAttempts int
}

// DefaultConfig returns high=75, low=50, min attempts=3.
func DefaultConfig() Config {
	return Config{
		HighAccuracy: DefaultHighAccuracy,
		LowAccuracy:  DefaultLowAccuracy,
		MinAttempts:  DefaultMinAttempts,
	}
}

// ConfigError describes which field of a Config is invalid.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Validate checks threshold ranges and ordering.
func (c Config) Validate() error {
	if c.HighAccuracy < 0 || c.HighAccuracy > 100 {
		return &ConfigError{Field: "high accuracy", Reason: "must be between 0 and 100"}
	}
	if c.LowAccuracy < 0 || c.LowAccuracy > 100 {
		return &ConfigError{Field: "low accuracy", Reason: "must be between 0 and 100"}
	}
	if c.LowAccuracy >= c.HighAccuracy {
		return &ConfigError{Field: "low accuracy", Reason: "must be below high accuracy"}
	}
	if c.MinAttempts < 1 {
		return &ConfigError{Field: "min attempts", Reason: "must be >= 1"}
	}
	return nil
}
