package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"sysdash/internal/sampler"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	sc := cfg.SamplerConfig()
	if sc.Interval != time.Second || sc.WindowCapacity != 20 || sc.AcquireTimeout != 5*time.Second {
		t.Errorf("unexpected sampler defaults %+v", sc)
	}
	if sc.GPUPolicy != sampler.GPUKeep {
		t.Errorf("default gpu policy = %v", sc.GPUPolicy)
	}
	if cfg.HTTP.Addr != ":3000" || !cfg.HTTP.Enabled {
		t.Errorf("unexpected http defaults %+v", cfg.HTTP)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sysdash.yaml")
	data := `
sampler:
  interval: 2s
  window: 30
  gpu_policy: drop
collector:
  gpu: false
  storage_mounts: ["/", "/home"]
http:
  addr: "127.0.0.1:8080"
ui:
  chart: temperature
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	switch {
	case cfg.Sampler.Interval != 2*time.Second:
		t.Errorf("interval = %v", cfg.Sampler.Interval)
	case cfg.Sampler.Window != 30:
		t.Errorf("window = %d", cfg.Sampler.Window)
	case cfg.Sampler.AcquireTimeout != 5*time.Second:
		t.Errorf("unset field lost its default: %v", cfg.Sampler.AcquireTimeout)
	case cfg.Collector.GPU:
		t.Error("gpu should be disabled")
	case !cfg.Collector.Temperatures:
		t.Error("temperatures default lost")
	case !reflect.DeepEqual(cfg.Collector.StorageMounts, []string{"/", "/home"}):
		t.Errorf("mounts = %v", cfg.Collector.StorageMounts)
	case cfg.HTTP.Addr != "127.0.0.1:8080":
		t.Errorf("addr = %q", cfg.HTTP.Addr)
	case cfg.UI.Chart != ChartTemperature:
		t.Errorf("chart = %q", cfg.UI.Chart)
	}

	if cfg.SamplerConfig().GPUPolicy != sampler.GPUDrop {
		t.Error("gpu policy not converted")
	}
	if cc := cfg.CollectorConfig(); cc.EnableGPU || len(cc.StorageMounts) != 2 {
		t.Errorf("unexpected collector config %+v", cc)
	}
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("sampler: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		EnvInterval:  "250ms",
		EnvWindow:    "40",
		EnvHTTPAddr:  ":9000",
		EnvLogLevel:  "debug",
		EnvLogFormat: "json",
		EnvGPU:       "0",
		EnvGPUPolicy: "drop",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	switch {
	case cfg.Sampler.Interval != 250*time.Millisecond:
		t.Errorf("interval = %v", cfg.Sampler.Interval)
	case cfg.Sampler.Window != 40:
		t.Errorf("window = %d", cfg.Sampler.Window)
	case cfg.HTTP.Addr != ":9000":
		t.Errorf("addr = %q", cfg.HTTP.Addr)
	case cfg.Log.Level != "debug" || cfg.Log.Format != "json":
		t.Errorf("log = %+v", cfg.Log)
	case cfg.Collector.GPU:
		t.Error("SYSDASH_GPU=0 should disable gpu")
	case cfg.Sampler.GPUPolicy != "drop":
		t.Errorf("policy = %q", cfg.Sampler.GPUPolicy)
	}
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	tests := map[string]string{
		EnvInterval: "soon",
		EnvWindow:   "many",
		EnvGPU:      "maybe",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			err := Default().ApplyEnv(envMap(map[string]string{key: value}))
			var cerr *ConfigError
			if !errors.As(err, &cerr) || cerr.Field != key {
				t.Errorf("ApplyEnv(%s=%s) = %v", key, value, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero interval", func(c *Config) { c.Sampler.Interval = 0 }},
		{"zero window", func(c *Config) { c.Sampler.Window = 0 }},
		{"bad policy", func(c *Config) { c.Sampler.GPUPolicy = "forget" }},
		{"no sensor timeout", func(c *Config) { c.Collector.SensorTimeout = 0 }},
		{"no addr", func(c *Config) { c.HTTP.Addr = "" }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"bad mode", func(c *Config) { c.UI.Mode = "gui" }},
		{"bad chart", func(c *Config) { c.UI.Chart = "pie" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	cfg := Default()
	cfg.HTTP.Enabled = false
	cfg.HTTP.Addr = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("addr should not be required with http disabled: %v", err)
	}
}

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	fs := flag.NewFlagSet("sysdash", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse([]string{"-interval", "3s", "-no-gpu", "-mounts", "/, /data ,", "-once"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cfg := Default()
	cfg.HTTP.Addr = ":7000" // from file or env
	flags.Apply(cfg)

	switch {
	case cfg.Sampler.Interval != 3*time.Second:
		t.Errorf("interval = %v", cfg.Sampler.Interval)
	case cfg.Collector.GPU:
		t.Error("-no-gpu ignored")
	case !reflect.DeepEqual(cfg.Collector.StorageMounts, []string{"/", "/data"}):
		t.Errorf("mounts = %v", cfg.Collector.StorageMounts)
	case cfg.UI.Mode != ModeOnce:
		t.Errorf("mode = %q", cfg.UI.Mode)
	case cfg.HTTP.Addr != ":7000":
		t.Errorf("unset -addr overrode addr: %q", cfg.HTTP.Addr)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Sampler.Window = 12

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.Sampler.Window != 12 {
		t.Errorf("window = %d after reload", loaded.Sampler.Window)
	}
}
