package collector

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDefaultCollectorConfig(t *testing.T) {
	cfg := DefaultCollectorConfig()

	// Check default timeouts
	if cfg.SensorTimeout != 2*time.Second {
		t.Errorf("Expected SensorTimeout 2s, got %v", cfg.SensorTimeout)
	}
	if cfg.GPUCommandTimeout != 1500*time.Millisecond {
		t.Errorf("Expected GPUCommandTimeout 1.5s, got %v", cfg.GPUCommandTimeout)
	}
	if cfg.MemLayoutTimeout != 2*time.Second {
		t.Errorf("Expected MemLayoutTimeout 2s, got %v", cfg.MemLayoutTimeout)
	}

	// Check feature flags
	if !cfg.EnableGPU {
		t.Error("Expected EnableGPU to be true by default")
	}
	if !cfg.EnableTemperatures {
		t.Error("Expected EnableTemperatures to be true by default")
	}
	if !cfg.EnableMemoryLayout {
		t.Error("Expected EnableMemoryLayout to be true by default")
	}
	if len(cfg.StorageMounts) != 0 {
		t.Errorf("Expected no storage filter, got %v", cfg.StorageMounts)
	}
}

func TestCollectorConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     CollectorConfig
		wantErr bool
	}{
		{
			name:    "valid default config",
			cfg:     DefaultCollectorConfig(),
			wantErr: false,
		},
		{
			name:    "invalid sensor timeout",
			cfg:     DefaultCollectorConfig().WithSensorTimeout(0),
			wantErr: true,
		},
		{
			name:    "invalid gpu timeout",
			cfg:     DefaultCollectorConfig().WithGPUCommandTimeout(-time.Second),
			wantErr: true,
		},
		{
			name:    "gpu timeout ignored when gpu disabled",
			cfg:     DefaultCollectorConfig().WithGPUCommandTimeout(0).WithGPU(false),
			wantErr: false,
		},
		{
			name:    "empty mountpoint",
			cfg:     DefaultCollectorConfig().WithStorageMounts("/", ""),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCollectorConfig_WithMethods(t *testing.T) {
	cfg := DefaultCollectorConfig()

	newCfg := cfg.WithSensorTimeout(5 * time.Second)
	if newCfg.SensorTimeout != 5*time.Second {
		t.Errorf("WithSensorTimeout failed, got %v", newCfg.SensorTimeout)
	}
	// Original should be unchanged
	if cfg.SensorTimeout != 2*time.Second {
		t.Error("WithSensorTimeout mutated original config")
	}

	mounts := []string{"/", "/home"}
	newCfg = cfg.WithStorageMounts(mounts...)
	mounts[0] = "/mutated"
	if newCfg.StorageMounts[0] != "/" {
		t.Error("WithStorageMounts kept a reference to the caller's slice")
	}

	if cfg.WithTemperatures(false).EnableTemperatures {
		t.Error("WithTemperatures(false) failed")
	}
	if cfg.WithMemoryLayout(false).EnableMemoryLayout {
		t.Error("WithMemoryLayout(false) failed")
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "TestField",
		Message: "test message",
	}

	expected := "config error: TestField test message"
	if err.Error() != expected {
		t.Errorf("Expected error '%s', got '%s'", expected, err.Error())
	}
}
