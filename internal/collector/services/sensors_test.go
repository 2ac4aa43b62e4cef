package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sensorTestCase struct {
	name     string
	factory  func() Sensor
	optional bool
}

var sensorCases = []sensorTestCase{
	{name: "CPU", factory: func() Sensor { return NewCPUSensor() }},
	{name: "Memory", factory: func() Sensor { return NewMemSensor() }},
	{name: "Disk", factory: func() Sensor { return NewDiskSensor() }},
	{name: "Host", factory: func() Sensor { return NewHostSensor() }},
	{name: "Physical", factory: func() Sensor { return NewPhysicalSensor() }, optional: true},
	{name: "GPU", factory: func() Sensor { return NewGPUSensor(time.Second) }, optional: true},
	{name: "MemoryLayout", factory: func() Sensor { return NewMemLayoutSensor(time.Second) }, optional: true},
}

func TestSensorsSuite(t *testing.T) {
	ctx := context.Background()

	for _, tc := range sensorCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			sensor := tc.factory()

			if err := sensor.Connect(ctx); err != nil {
				t.Fatalf("%s Connect failed: %v", tc.name, err)
			}
			defer sensor.Disconnect(ctx)

			result, err := sensor.Collect(ctx)
			if err != nil {
				if tc.optional {
					t.Logf("%s Collect skipped (optional): %v", tc.name, err)
					return
				}
				t.Skipf("%s Collect failed: %v (might be environment specific)", tc.name, err)
			}
			if result == nil {
				t.Fatalf("%s Collect returned nil result", tc.name)
			}

			logSensorResult(t, tc.name, result)
		})
	}
}

func logSensorResult(t *testing.T, name string, result any) {
	t.Helper()

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		t.Logf("%s result: %+v", name, result)
		return
	}

	t.Logf("%s result:\n%s", name, payload)
}

func TestParseNvidiaSMI(t *testing.T) {
	out := "NVIDIA GeForce RTX 3080, 37, 61, 10240, 2048\n" +
		"Tesla T4, [N/A], [N/A], 15360, 0\n" +
		"garbage line\n"

	gpus := parseNvidiaSMI(out)
	if len(gpus) != 2 {
		t.Fatalf("expected 2 controllers, got %d", len(gpus))
	}

	first := gpus[0]
	switch {
	case first.Model != "NVIDIA GeForce RTX 3080":
		t.Errorf("unexpected model %q", first.Model)
	case first.UtilizationGPU == nil || *first.UtilizationGPU != 37:
		t.Errorf("unexpected utilization %v", first.UtilizationGPU)
	case first.TemperatureGPU == nil || *first.TemperatureGPU != 61:
		t.Errorf("unexpected temperature %v", first.TemperatureGPU)
	case first.VRAMTotal != 10240*mib:
		t.Errorf("unexpected vram total %d", first.VRAMTotal)
	case first.VRAMUsed != 2048*mib:
		t.Errorf("unexpected vram used %d", first.VRAMUsed)
	}

	second := gpus[1]
	if second.UtilizationGPU != nil {
		t.Errorf("expected nil utilization for [N/A], got %v", *second.UtilizationGPU)
	}
	if second.TemperatureGPU != nil {
		t.Errorf("expected nil temperature for [N/A], got %v", *second.TemperatureGPU)
	}
}

func TestGPUSensorFallsBackToDRM(t *testing.T) {
	root := t.TempDir()
	dev := filepath.Join(root, "card0", "device")
	hwmon := filepath.Join(dev, "hwmon", "hwmon3")
	if err := os.MkdirAll(hwmon, 0o755); err != nil {
		t.Fatal(err)
	}
	// Connector directories must be ignored.
	if err := os.MkdirAll(filepath.Join(root, "card0-DP-1"), 0o755); err != nil {
		t.Fatal(err)
	}

	files := map[string]string{
		filepath.Join(dev, "vendor"):              "0x1002\n",
		filepath.Join(dev, "product_name"):        "Radeon RX 6800\n",
		filepath.Join(dev, "gpu_busy_percent"):    "42\n",
		filepath.Join(dev, "mem_info_vram_total"): "17163091968\n",
		filepath.Join(dev, "mem_info_vram_used"):  "1073741824\n",
		filepath.Join(hwmon, "temp1_input"):       "55000\n",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	s := NewGPUSensor(time.Second)
	s.DRMRoot = root
	s.run = func(ctx context.Context, name string, args ...string) (string, error) {
		return "", errors.New("nvidia-smi not found")
	}

	res, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	gpus := res.(GPUResult).Controllers
	if len(gpus) != 1 {
		t.Fatalf("expected 1 controller, got %d", len(gpus))
	}

	g := gpus[0]
	switch {
	case g.Vendor != "AMD":
		t.Errorf("unexpected vendor %q", g.Vendor)
	case g.Model != "Radeon RX 6800":
		t.Errorf("unexpected model %q", g.Model)
	case g.UtilizationGPU == nil || *g.UtilizationGPU != 42:
		t.Errorf("unexpected utilization %v", g.UtilizationGPU)
	case g.TemperatureGPU == nil || *g.TemperatureGPU != 55:
		t.Errorf("unexpected temperature %v", g.TemperatureGPU)
	case g.VRAMUsed != 1073741824:
		t.Errorf("unexpected vram used %d", g.VRAMUsed)
	}
}

func TestGPUSensorNoControllers(t *testing.T) {
	s := NewGPUSensor(time.Second)
	s.DRMRoot = t.TempDir()
	s.run = func(ctx context.Context, name string, args ...string) (string, error) {
		return "", nil
	}

	res, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if n := len(res.(GPUResult).Controllers); n != 0 {
		t.Errorf("expected no controllers, got %d", n)
	}
}

const dmidecodeSample = `# dmidecode 3.3
Handle 0x0040, DMI type 17, 92 bytes
Memory Device
	Size: 16 GB
	Form Factor: SODIMM
	Type: DDR4
	Manufacturer: Samsung

Handle 0x0041, DMI type 17, 92 bytes
Memory Device
	Size: No Module Installed
	Type: Unknown
	Manufacturer: Not Specified

Handle 0x0042, DMI type 17, 92 bytes
Memory Device
	Size: 8192 MB
	Type: DDR4
	Manufacturer: Unknown
`

func TestParseDMIDecode(t *testing.T) {
	modules := parseDMIDecode(dmidecodeSample)
	if len(modules) != 2 {
		t.Fatalf("expected 2 populated modules, got %d: %+v", len(modules), modules)
	}
	if modules[0].Manufacturer != "Samsung" || modules[0].Type != "DDR4" || modules[0].SizeBytes != 16*1024*mib {
		t.Errorf("unexpected first module %+v", modules[0])
	}
	if modules[1].Manufacturer != "" || modules[1].SizeBytes != 8192*mib {
		t.Errorf("unexpected second module %+v", modules[1])
	}
}

func TestMemLayoutSensorCachesLayout(t *testing.T) {
	calls := 0
	s := NewMemLayoutSensor(time.Second)
	s.run = func(ctx context.Context, name string, args ...string) (string, error) {
		calls++
		return dmidecodeSample, nil
	}

	for i := 0; i < 3; i++ {
		if _, err := s.Collect(context.Background()); err != nil {
			t.Fatalf("Collect failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("expected dmidecode to run once, ran %d times", calls)
	}
}

func TestMemLayoutSensorWithoutDmidecode(t *testing.T) {
	s := NewMemLayoutSensor(time.Second)
	s.run = func(ctx context.Context, name string, args ...string) (string, error) {
		return "", errors.New("permission denied")
	}

	res, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n := len(res.(MemLayoutResult).Modules); n != 0 {
		t.Errorf("expected empty layout, got %d modules", n)
	}
}

func TestCPUTemperature(t *testing.T) {
	tests := []struct {
		name  string
		temps []TempStat
		want  float64
		found bool
	}{
		{
			name:  "intel package preferred",
			temps: []TempStat{{"acpitz", 30}, {"coretemp_package_id_0", 52}, {"coretemp_core_0", 50}},
			want:  52,
			found: true,
		},
		{
			name:  "amd tctl",
			temps: []TempStat{{"nvme_composite", 40}, {"k10temp_tctl", 61.5}},
			want:  61.5,
			found: true,
		},
		{
			name:  "zero readings ignored",
			temps: []TempStat{{"cpu_thermal", 0}},
			found: false,
		},
		{
			name:  "nothing matches",
			temps: []TempStat{{"nvme_composite", 40}},
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PhysicalResult{Temperatures: tt.temps}.CPUTemperature()
			if ok != tt.found || got != tt.want {
				t.Errorf("CPUTemperature() = %v, %v; want %v, %v", got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestVendorName(t *testing.T) {
	tests := map[string]string{
		"GenuineIntel": "Intel",
		"AuthenticAMD": "AMD",
		"":             "",
		"ARM":          "ARM",
	}
	for in, want := range tests {
		if got := vendorName(in); got != want {
			t.Errorf("vendorName(%q) = %q; want %q", in, got, want)
		}
	}
}
