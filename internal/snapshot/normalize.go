package snapshot

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"sysdash/internal/collector"
)

const (
	gib = 1 << 30

	unknownModel        = "Unknown"
	noModuleDescription = "N/A"
)

// Normalize converts one raw provider snapshot into a SystemSnapshot. Missing
// optional readings get defaults; missing required parts fail the whole
// snapshot with ErrSnapshotUnavailable.
func Normalize(raw *collector.RawSnapshot) (SystemSnapshot, error) {
	if raw == nil {
		return SystemSnapshot{}, fmt.Errorf("%w: provider returned no data", ErrSnapshotUnavailable)
	}
	if raw.Processor == nil {
		return SystemSnapshot{}, fmt.Errorf("%w: processor reading missing", ErrSnapshotUnavailable)
	}
	if raw.Memory == nil {
		return SystemSnapshot{}, fmt.Errorf("%w: memory reading missing", ErrSnapshotUnavailable)
	}
	if !finite(raw.Processor.UsagePercent) {
		return SystemSnapshot{}, fmt.Errorf("%w: processor usage is %v", ErrSnapshotUnavailable, raw.Processor.UsagePercent)
	}
	if !finite(raw.UptimeSeconds) {
		return SystemSnapshot{}, fmt.Errorf("%w: uptime is %v", ErrSnapshotUnavailable, raw.UptimeSeconds)
	}

	return SystemSnapshot{
		Processor:     normalizeProcessor(raw.Processor),
		Memory:        normalizeMemory(raw.Memory, raw.MemoryLayout),
		Storage:       normalizeStorage(raw.Storage),
		GPU:           normalizeGPU(raw.Graphics),
		UptimeSeconds: math.Max(raw.UptimeSeconds, 0),
	}, nil
}

func normalizeProcessor(p *collector.RawProcessor) ProcessorSnapshot {
	model := strings.TrimSpace(p.Manufacturer + " " + p.Brand)
	if model == "" {
		model = unknownModel
	}

	return ProcessorSnapshot{
		UsagePercent: ClampPercent(p.UsagePercent),
		Model:        model,
		Cores:        max(p.Cores, 0),
		SpeedGHz:     round2(nonNegative(p.SpeedMHz) / 1000),
		TemperatureC: optional(p.TemperatureC),
	}
}

func normalizeMemory(m *collector.RawMemory, layout []collector.RawMemoryModule) MemorySnapshot {
	return MemorySnapshot{
		UsagePercent:      Percent(float64(m.Active), float64(m.Total)),
		TotalGiB:          BytesToGiB(m.Total),
		AvailableGiB:      BytesToGiB(m.Available),
		ModuleDescription: describeModules(layout),
	}
}

func normalizeStorage(devices []collector.RawStorage) []StorageSnapshot {
	out := make([]StorageSnapshot, 0, len(devices))
	for _, d := range devices {
		out = append(out, StorageSnapshot{
			UsagePercent: Percent(float64(d.Used), float64(d.Size)),
			TotalGiB:     BytesToGiB(d.Size),
			FreeGiB:      BytesToGiB(d.Available),
		})
	}
	return out
}

// normalizeGPU uses the first controller only. Readings from several
// adapters are not averaged.
func normalizeGPU(controllers []collector.RawGraphicsController) *GpuSnapshot {
	if len(controllers) == 0 {
		return nil
	}
	g := controllers[0]
	if g.UtilizationGPU == nil || !finite(*g.UtilizationGPU) {
		return nil
	}

	model := strings.TrimSpace(g.Model)
	if model == "" {
		model = unknownModel
	}

	return &GpuSnapshot{
		UsagePercent: ClampPercent(*g.UtilizationGPU),
		Model:        model,
		TemperatureC: optional(g.TemperatureGPU),
		VRAMTotalGiB: BytesToGiB(g.VRAMTotal),
		VRAMUsedGiB:  BytesToGiB(g.VRAMUsed),
	}
}

// describeModules renders each distinct DIMM kind once, in first-seen order.
func describeModules(modules []collector.RawMemoryModule) string {
	seen := make(map[string]bool)
	var parts []string
	for _, m := range modules {
		if m.SizeBytes == 0 {
			continue
		}
		fields := make([]string, 0, 3)
		if v := strings.TrimSpace(m.Manufacturer); v != "" {
			fields = append(fields, v)
		}
		if v := strings.TrimSpace(m.Type); v != "" {
			fields = append(fields, v)
		}
		fields = append(fields, strconv.FormatFloat(BytesToGiB(m.SizeBytes), 'f', -1, 64)+"GiB")

		desc := strings.Join(fields, " ")
		if seen[desc] {
			continue
		}
		seen[desc] = true
		parts = append(parts, desc)
	}
	if len(parts) == 0 {
		return noModuleDescription
	}
	return strings.Join(parts, ", ")
}

// Percent returns round(part/total*100) clamped to [0,100]. A non-positive or
// non-finite total yields 0.
func Percent(part, total float64) int {
	if !finite(part) || !finite(total) || total <= 0 {
		return 0
	}
	return ClampPercent(part / total * 100)
}

// ClampPercent rounds v and clamps it to [0,100]; NaN maps to 0.
func ClampPercent(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Round(v)
	switch {
	case r < 0:
		return 0
	case r > 100:
		return 100
	}
	return int(r)
}

// BytesToGiB returns round(bytes / 2^30).
func BytesToGiB(bytes uint64) float64 {
	return math.Round(float64(bytes) / gib)
}

func optional(v *float64) float64 {
	if v == nil || !finite(*v) {
		return 0
	}
	return *v
}

func nonNegative(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
