package collector

import "time"

// CollectorConfig contains configurable parameters for the system collector.
// Use DefaultCollectorConfig() to get sensible defaults, then override as needed.
type CollectorConfig struct {
	// Timeout settings
	SensorTimeout     time.Duration // Per-sensor collection timeout (default: 2s)
	GPUCommandTimeout time.Duration // Timeout for the nvidia-smi call (default: 1500ms)
	MemLayoutTimeout  time.Duration // Timeout for the dmidecode call (default: 2s)

	// Storage filter; empty means every physical partition
	StorageMounts []string

	// Feature flags
	EnableGPU          bool // Whether to probe graphics controllers (default: true)
	EnableTemperatures bool // Whether to collect temperature sensors (default: true)
	EnableMemoryLayout bool // Whether to read DIMM descriptors (default: true)
}

// DefaultCollectorConfig returns a CollectorConfig with sensible defaults.
func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		SensorTimeout:     2 * time.Second,
		GPUCommandTimeout: 1500 * time.Millisecond,
		MemLayoutTimeout:  2 * time.Second,

		EnableGPU:          true,
		EnableTemperatures: true,
		EnableMemoryLayout: true,
	}
}

// WithSensorTimeout returns a copy of the config with modified sensor timeout.
func (c CollectorConfig) WithSensorTimeout(d time.Duration) CollectorConfig {
	c.SensorTimeout = d
	return c
}

// WithGPUCommandTimeout returns a copy of the config with modified nvidia-smi timeout.
func (c CollectorConfig) WithGPUCommandTimeout(d time.Duration) CollectorConfig {
	c.GPUCommandTimeout = d
	return c
}

// WithStorageMounts returns a copy of the config restricted to the given mountpoints.
func (c CollectorConfig) WithStorageMounts(mounts ...string) CollectorConfig {
	c.StorageMounts = append([]string(nil), mounts...)
	return c
}

// WithGPU returns a copy of the config with GPU probing enabled/disabled.
func (c CollectorConfig) WithGPU(enabled bool) CollectorConfig {
	c.EnableGPU = enabled
	return c
}

// WithTemperatures returns a copy of the config with temperature collection enabled/disabled.
func (c CollectorConfig) WithTemperatures(enabled bool) CollectorConfig {
	c.EnableTemperatures = enabled
	return c
}

// WithMemoryLayout returns a copy of the config with memory layout collection enabled/disabled.
func (c CollectorConfig) WithMemoryLayout(enabled bool) CollectorConfig {
	c.EnableMemoryLayout = enabled
	return c
}

// Validate checks if the configuration is valid and returns an error if not.
func (c CollectorConfig) Validate() error {
	if c.SensorTimeout <= 0 {
		return &ConfigError{Field: "SensorTimeout", Message: "must be positive"}
	}
	if c.EnableGPU && c.GPUCommandTimeout <= 0 {
		return &ConfigError{Field: "GPUCommandTimeout", Message: "must be positive"}
	}
	if c.EnableMemoryLayout && c.MemLayoutTimeout <= 0 {
		return &ConfigError{Field: "MemLayoutTimeout", Message: "must be positive"}
	}
	for _, m := range c.StorageMounts {
		if m == "" {
			return &ConfigError{Field: "StorageMounts", Message: "must not contain empty mountpoints"}
		}
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
