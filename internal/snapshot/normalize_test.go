package snapshot

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"sysdash/internal/collector"
)

func ptr(v float64) *float64 { return &v }

func baseRaw() *collector.RawSnapshot {
	return &collector.RawSnapshot{
		Processor: &collector.RawProcessor{
			UsagePercent: 42.6,
			Manufacturer: "AMD",
			Brand:        "Ryzen 7 5800X",
			Cores:        8,
			SpeedMHz:     3800,
		},
		Memory: &collector.RawMemory{
			Total:     16 << 30,
			Active:    4 << 30,
			Available: 12 << 30,
		},
		Storage: []collector.RawStorage{
			{Mount: "/", Size: 512 << 30, Used: 128 << 30, Available: 384 << 30},
		},
		UptimeSeconds: 3600,
	}
}

func TestNormalizeDefaults(t *testing.T) {
	snap, err := Normalize(baseRaw())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	switch {
	case snap.Processor.UsagePercent != 43:
		t.Errorf("processor usage = %d, want 43", snap.Processor.UsagePercent)
	case snap.Processor.Model != "AMD Ryzen 7 5800X":
		t.Errorf("processor model = %q", snap.Processor.Model)
	case snap.Processor.SpeedGHz != 3.8:
		t.Errorf("speed = %v, want 3.8", snap.Processor.SpeedGHz)
	case snap.Processor.TemperatureC != 0:
		t.Errorf("temperature default = %v, want 0", snap.Processor.TemperatureC)
	case snap.Memory.UsagePercent != 25:
		t.Errorf("memory usage = %d, want 25", snap.Memory.UsagePercent)
	case snap.Memory.TotalGiB != 16 || snap.Memory.AvailableGiB != 12:
		t.Errorf("memory sizes = %v/%v", snap.Memory.TotalGiB, snap.Memory.AvailableGiB)
	case snap.Memory.ModuleDescription != "N/A":
		t.Errorf("module description default = %q", snap.Memory.ModuleDescription)
	case snap.GPU != nil:
		t.Errorf("gpu should be nil, got %+v", snap.GPU)
	case len(snap.Storage) != 1 || snap.Storage[0].UsagePercent != 25 || snap.Storage[0].FreeGiB != 384:
		t.Errorf("unexpected storage %+v", snap.Storage)
	}
}

func TestNormalizeFailsWithoutRequiredParts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *collector.RawSnapshot) *collector.RawSnapshot
	}{
		{"nil snapshot", func(r *collector.RawSnapshot) *collector.RawSnapshot { return nil }},
		{"no processor", func(r *collector.RawSnapshot) *collector.RawSnapshot { r.Processor = nil; return r }},
		{"no memory", func(r *collector.RawSnapshot) *collector.RawSnapshot { r.Memory = nil; return r }},
		{"nan usage", func(r *collector.RawSnapshot) *collector.RawSnapshot { r.Processor.UsagePercent = math.NaN(); return r }},
		{"inf uptime", func(r *collector.RawSnapshot) *collector.RawSnapshot { r.UptimeSeconds = math.Inf(1); return r }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.mutate(baseRaw()))
			if !errors.Is(err, ErrSnapshotUnavailable) {
				t.Errorf("expected ErrSnapshotUnavailable, got %v", err)
			}
		})
	}
}

func TestNormalizeGPU(t *testing.T) {
	tests := []struct {
		name     string
		graphics []collector.RawGraphicsController
		want     *GpuSnapshot
	}{
		{name: "no controllers", graphics: nil, want: nil},
		{
			name:     "controller without utilization",
			graphics: []collector.RawGraphicsController{{Model: "Matrox G200"}},
			want:     nil,
		},
		{
			name: "first controller wins",
			graphics: []collector.RawGraphicsController{
				{Model: "RTX 4090", UtilizationGPU: ptr(150), TemperatureGPU: ptr(71), VRAMTotal: 24 << 30, VRAMUsed: 3 << 30},
				{Model: "RTX 3060", UtilizationGPU: ptr(10), TemperatureGPU: ptr(40)},
			},
			want: &GpuSnapshot{UsagePercent: 100, Model: "RTX 4090", TemperatureC: 71, VRAMTotalGiB: 24, VRAMUsedGiB: 3},
		},
		{
			name:     "missing temperature defaults to zero",
			graphics: []collector.RawGraphicsController{{Model: "Radeon", UtilizationGPU: ptr(5)}},
			want:     &GpuSnapshot{UsagePercent: 5, Model: "Radeon"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := baseRaw()
			raw.Graphics = tt.graphics

			snap, err := Normalize(raw)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			switch {
			case tt.want == nil && snap.GPU != nil:
				t.Errorf("expected nil gpu, got %+v", snap.GPU)
			case tt.want != nil && snap.GPU == nil:
				t.Errorf("expected gpu %+v, got nil", tt.want)
			case tt.want != nil && *snap.GPU != *tt.want:
				t.Errorf("gpu = %+v, want %+v", *snap.GPU, *tt.want)
			}
		})
	}
}

func TestNormalizeModuleDescription(t *testing.T) {
	raw := baseRaw()
	raw.MemoryLayout = []collector.RawMemoryModule{
		{Manufacturer: "Samsung", Type: "DDR4", SizeBytes: 8 << 30},
		{Manufacturer: "Samsung", Type: "DDR4", SizeBytes: 8 << 30},
		{Type: "DDR4", SizeBytes: 16 << 30},
		{Manufacturer: "Empty", SizeBytes: 0},
	}

	snap, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if want := "Samsung DDR4 8GiB, DDR4 16GiB"; snap.Memory.ModuleDescription != want {
		t.Errorf("ModuleDescription = %q, want %q", snap.Memory.ModuleDescription, want)
	}
}

func TestNormalizeZeroSizedStorage(t *testing.T) {
	raw := baseRaw()
	raw.Storage = []collector.RawStorage{{Used: 0, Size: 0}}
	raw.Memory.Total = 0

	snap, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if snap.Storage[0].UsagePercent != 0 {
		t.Errorf("storage usage = %d, want 0", snap.Storage[0].UsagePercent)
	}
	if snap.Memory.UsagePercent != 0 {
		t.Errorf("memory usage = %d, want 0", snap.Memory.UsagePercent)
	}
}

func TestNormalizeEmptyStorageIsNotNil(t *testing.T) {
	raw := baseRaw()
	raw.Storage = nil

	snap, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	payload, _ := json.Marshal(snap)
	if !strings.Contains(string(payload), `"storage":[]`) {
		t.Errorf("expected empty storage array, got %s", payload)
	}
	if !strings.Contains(string(payload), `"gpu":null`) {
		t.Errorf("expected null gpu, got %s", payload)
	}
}

func TestNormalizeUnknownModel(t *testing.T) {
	raw := baseRaw()
	raw.Processor.Manufacturer = ""
	raw.Processor.Brand = "  "

	snap, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if snap.Processor.Model != "Unknown" {
		t.Errorf("model = %q, want Unknown", snap.Processor.Model)
	}
}

func TestPercentClamping(t *testing.T) {
	tests := []struct {
		part, total float64
		want        int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{5, -10, 0},
		{-5, 10, 0},
		{15, 10, 100},
		{1, 3, 33},
		{2, 3, 67},
		{math.NaN(), 10, 0},
		{10, math.Inf(1), 0},
	}

	for _, tt := range tests {
		got := Percent(tt.part, tt.total)
		if got != tt.want {
			t.Errorf("Percent(%v, %v) = %d, want %d", tt.part, tt.total, got, tt.want)
		}
		if got < 0 || got > 100 {
			t.Errorf("Percent(%v, %v) = %d out of range", tt.part, tt.total, got)
		}
	}
}

func TestClampPercent(t *testing.T) {
	for in, want := range map[float64]int{-3: 0, 0: 0, 49.5: 50, 99.4: 99, 250: 100} {
		if got := ClampPercent(in); got != want {
			t.Errorf("ClampPercent(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestBytesToGiB(t *testing.T) {
	for in, want := range map[uint64]float64{0: 0, 1 << 29: 1, 3 << 30: 3, (1 << 30) - (1 << 28): 1} {
		if got := BytesToGiB(in); got != want {
			t.Errorf("BytesToGiB(%d) = %v, want %v", in, got, want)
		}
	}
}
