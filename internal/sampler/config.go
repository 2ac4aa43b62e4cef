package sampler

import (
	"fmt"
	"strings"
	"time"

	"sysdash/internal/window"
)

// GPUPolicy decides what happens to GPU streams once the controller stops
// reporting.
type GPUPolicy int

const (
	// GPUKeep leaves the streams in place and appends 0 while the GPU is absent.
	GPUKeep GPUPolicy = iota
	// GPUDrop removes the streams after one successful tick without a GPU.
	// They are re-created, back-filled, if the GPU comes back.
	GPUDrop
)

func (p GPUPolicy) String() string {
	switch p {
	case GPUKeep:
		return "keep"
	case GPUDrop:
		return "drop"
	}
	return fmt.Sprintf("GPUPolicy(%d)", int(p))
}

// ParseGPUPolicy accepts "keep" or "drop", case-insensitively.
func ParseGPUPolicy(s string) (GPUPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keep", "":
		return GPUKeep, nil
	case "drop":
		return GPUDrop, nil
	}
	return GPUKeep, fmt.Errorf("unknown gpu policy %q", s)
}

// Config contains the loop's scheduling parameters.
// Use DefaultConfig() to get sensible defaults, then override as needed.
type Config struct {
	Interval       time.Duration // Time between ticks (default: 1s)
	WindowCapacity int           // Samples kept per stream (default: 20)
	AcquireTimeout time.Duration // Bound on one acquisition; 0 waits indefinitely (default: 5s)
	GPUPolicy      GPUPolicy     // What to do with GPU streams when the GPU disappears (default: keep)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:       time.Second,
		WindowCapacity: window.DefaultCapacity,
		AcquireTimeout: 5 * time.Second,
		GPUPolicy:      GPUKeep,
	}
}

// WithInterval returns a copy of the config with modified tick interval.
func (c Config) WithInterval(d time.Duration) Config {
	c.Interval = d
	return c
}

// WithWindowCapacity returns a copy of the config with modified window capacity.
func (c Config) WithWindowCapacity(n int) Config {
	c.WindowCapacity = n
	return c
}

// WithAcquireTimeout returns a copy of the config with modified acquisition timeout.
func (c Config) WithAcquireTimeout(d time.Duration) Config {
	c.AcquireTimeout = d
	return c
}

// WithGPUPolicy returns a copy of the config with modified GPU stream policy.
func (c Config) WithGPUPolicy(p GPUPolicy) Config {
	c.GPUPolicy = p
	return c
}

// Validate checks if the configuration is valid and returns an error if not.
func (c Config) Validate() error {
	if c.Interval <= 0 {
		return &ConfigError{Field: "Interval", Message: "must be positive"}
	}
	if c.WindowCapacity < 1 {
		return &ConfigError{Field: "WindowCapacity", Message: "must be at least 1"}
	}
	if c.AcquireTimeout < 0 {
		return &ConfigError{Field: "AcquireTimeout", Message: "must not be negative"}
	}
	if c.GPUPolicy != GPUKeep && c.GPUPolicy != GPUDrop {
		return &ConfigError{Field: "GPUPolicy", Message: "must be keep or drop"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}
