// Package config loads sysdash settings from a YAML file, the environment
// (including a .env file) and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"sysdash/internal/collector"
	"sysdash/internal/logging"
	"sysdash/internal/sampler"
)

// UI modes.
const (
	ModeTUI      = "tui"
	ModeHeadless = "headless"
	ModeOnce     = "once"
)

// Chart views.
const (
	ChartUtilization = "utilization"
	ChartTemperature = "temperature"
)

// Config represents the full sysdash configuration.
type Config struct {
	Sampler   SamplerConfig   `yaml:"sampler"`
	Collector CollectorConfig `yaml:"collector"`
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	UI        UIConfig        `yaml:"ui"`
}

// SamplerConfig holds the sampling loop schedule.
type SamplerConfig struct {
	// Interval between ticks (e.g. "1s").
	Interval time.Duration `yaml:"interval"`
	// Window is the number of samples kept per stream.
	Window int `yaml:"window"`
	// AcquireTimeout bounds one acquisition; 0 disables the bound.
	AcquireTimeout time.Duration `yaml:"acquire_timeout"`
	// GPUPolicy is "keep" or "drop".
	GPUPolicy string `yaml:"gpu_policy"`
}

// CollectorConfig holds sensing provider settings.
type CollectorConfig struct {
	SensorTimeout time.Duration `yaml:"sensor_timeout"`
	GPU           bool          `yaml:"gpu"`
	Temperatures  bool          `yaml:"temperatures"`
	MemoryLayout  bool          `yaml:"memory_layout"`
	StorageMounts []string      `yaml:"storage_mounts"`
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File receives log output; empty means stderr (or discarded in TUI mode).
	File string `yaml:"file"`
}

type UIConfig struct {
	// Mode is "tui", "headless" or "once".
	Mode string `yaml:"mode"`
	// Chart is the initial chart view: "utilization" or "temperature".
	Chart string `yaml:"chart"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	sc := sampler.DefaultConfig()
	cc := collector.DefaultCollectorConfig()

	return &Config{
		Sampler: SamplerConfig{
			Interval:       sc.Interval,
			Window:         sc.WindowCapacity,
			AcquireTimeout: sc.AcquireTimeout,
			GPUPolicy:      sc.GPUPolicy.String(),
		},
		Collector: CollectorConfig{
			SensorTimeout: cc.SensorTimeout,
			GPU:           cc.EnableGPU,
			Temperatures:  cc.EnableTemperatures,
			MemoryLayout:  cc.EnableMemoryLayout,
		},
		HTTP: HTTPConfig{
			Enabled: true,
			Addr:    ":3000",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		UI: UIConfig{
			Mode:  ModeTUI,
			Chart: ChartUtilization,
		},
	}
}

// LoadFile reads a YAML file over the defaults. An empty path or a missing
// file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Load reads the YAML file, loads .env files into the environment and applies
// SYSDASH_* overrides. The result is validated.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	// Missing .env files are fine; godotenv never overrides variables that
	// are already set.
	_ = godotenv.Load(envFiles...)

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Environment variables honoured by ApplyEnv.
const (
	EnvInterval  = "SYSDASH_INTERVAL"
	EnvWindow    = "SYSDASH_WINDOW"
	EnvHTTPAddr  = "SYSDASH_HTTP_ADDR"
	EnvLogLevel  = "SYSDASH_LOG_LEVEL"
	EnvLogFormat = "SYSDASH_LOG_FORMAT"
	EnvGPU       = "SYSDASH_GPU"
	EnvGPUPolicy = "SYSDASH_GPU_POLICY"
)

// ApplyEnv overrides fields from the environment as seen through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvInterval); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Field: EnvInterval, Message: err.Error()}
		}
		c.Sampler.Interval = d
	}
	if v, ok := lookup(EnvWindow); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: EnvWindow, Message: "must be an integer"}
		}
		c.Sampler.Window = n
	}
	if v, ok := lookup(EnvHTTPAddr); ok && v != "" {
		c.HTTP.Addr = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Log.Format = v
	}
	if v, ok := lookup(EnvGPU); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return &ConfigError{Field: EnvGPU, Message: "must be a boolean"}
		}
		c.Collector.GPU = enabled
	}
	if v, ok := lookup(EnvGPUPolicy); ok && v != "" {
		c.Sampler.GPUPolicy = v
	}
	return nil
}

// Validate checks the configuration for required fields and logical consistency.
func (c *Config) Validate() error {
	policy, err := sampler.ParseGPUPolicy(c.Sampler.GPUPolicy)
	if err != nil {
		return &ConfigError{Field: "sampler.gpu_policy", Message: "must be keep or drop"}
	}
	sc := sampler.Config{
		Interval:       c.Sampler.Interval,
		WindowCapacity: c.Sampler.Window,
		AcquireTimeout: c.Sampler.AcquireTimeout,
		GPUPolicy:      policy,
	}
	if err := sc.Validate(); err != nil {
		return err
	}
	if err := c.CollectorConfig().Validate(); err != nil {
		return err
	}

	if c.HTTP.Enabled && c.HTTP.Addr == "" {
		return &ConfigError{Field: "http.addr", Message: "is required when http is enabled"}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return &ConfigError{Field: "log.level", Message: "must be debug, info, warn or error"}
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return &ConfigError{Field: "log.format", Message: "must be text or json"}
	}
	switch c.UI.Mode {
	case ModeTUI, ModeHeadless, ModeOnce:
	default:
		return &ConfigError{Field: "ui.mode", Message: "must be tui, headless or once"}
	}
	switch c.UI.Chart {
	case ChartUtilization, ChartTemperature:
	default:
		return &ConfigError{Field: "ui.chart", Message: "must be utilization or temperature"}
	}
	return nil
}

// SamplerConfig converts the file section into the loop's config. Call
// Validate first; an unknown policy falls back to keep.
func (c *Config) SamplerConfig() sampler.Config {
	policy, _ := sampler.ParseGPUPolicy(c.Sampler.GPUPolicy)
	return sampler.DefaultConfig().
		WithInterval(c.Sampler.Interval).
		WithWindowCapacity(c.Sampler.Window).
		WithAcquireTimeout(c.Sampler.AcquireTimeout).
		WithGPUPolicy(policy)
}

// CollectorConfig converts the file section into the collector's config.
func (c *Config) CollectorConfig() collector.CollectorConfig {
	return collector.DefaultCollectorConfig().
		WithSensorTimeout(c.Collector.SensorTimeout).
		WithGPU(c.Collector.GPU).
		WithTemperatures(c.Collector.Temperatures).
		WithMemoryLayout(c.Collector.MemoryLayout).
		WithStorageMounts(c.Collector.StorageMounts...)
}

// Save writes the configuration as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}
