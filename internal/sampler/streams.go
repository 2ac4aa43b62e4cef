package sampler

import (
	"sysdash/internal/snapshot"
	"sysdash/internal/window"
)

// Stream keys written by the loop.
const (
	KeyProcessorUsage       = "processor.usage"
	KeyMemoryUsage          = "memory.usage"
	KeyStorageUsage         = "storage.usage"
	KeyProcessorTemperature = "processor.temperature"
	KeyGPUUsage             = "gpu.usage"
	KeyGPUTemperature       = "gpu.temperature"
)

const (
	ColorProcessor = "rgb(59, 130, 246)"
	ColorMemory    = "rgb(239, 68, 68)"
	ColorStorage   = "rgb(16, 185, 129)"
	ColorGPU       = "rgb(139, 92, 246)"
)

var streamMeta = map[string]window.Metadata{
	KeyProcessorUsage:       {Label: "Processor", Color: ColorProcessor},
	KeyMemoryUsage:          {Label: "Memory", Color: ColorMemory},
	KeyStorageUsage:         {Label: "Storage", Color: ColorStorage, Hidden: true},
	KeyProcessorTemperature: {Label: "Processor Temperature", Color: ColorProcessor},
	KeyGPUUsage:             {Label: "GPU", Color: ColorGPU},
	KeyGPUTemperature:       {Label: "GPU Temperature", Color: ColorGPU},
}

// UtilizationKeys and TemperatureKeys group streams the way the dashboard
// charts them.
var (
	UtilizationKeys = []string{KeyProcessorUsage, KeyMemoryUsage, KeyStorageUsage, KeyGPUUsage}
	TemperatureKeys = []string{KeyProcessorTemperature, KeyGPUTemperature}
)

// MetadataFor returns the display metadata of a known stream key.
func MetadataFor(key string) (window.Metadata, bool) {
	m, ok := streamMeta[key]
	return m, ok
}

// record appends one successful snapshot to the store.
func (l *Loop) record(snap snapshot.SystemSnapshot) {
	// Length of the fixed streams before this tick; new GPU streams are
	// back-filled to it.
	aligned := l.store.Len(KeyProcessorUsage)

	var storageUsage float64
	if s, ok := snap.PrimaryStorage(); ok {
		storageUsage = float64(s.UsagePercent)
	}

	l.append(KeyProcessorUsage, float64(snap.Processor.UsagePercent))
	l.append(KeyMemoryUsage, float64(snap.Memory.UsagePercent))
	l.append(KeyStorageUsage, storageUsage)
	l.append(KeyProcessorTemperature, snap.Processor.TemperatureC)

	switch {
	case snap.GPU != nil:
		for _, key := range []string{KeyGPUUsage, KeyGPUTemperature} {
			if !l.store.Has(key) {
				l.backfill(key, aligned)
				l.logger.Info("gpu stream registered", "stream", key, "backfill", aligned, "model", snap.GPU.Model)
			}
		}
		l.append(KeyGPUUsage, float64(snap.GPU.UsagePercent))
		l.append(KeyGPUTemperature, snap.GPU.TemperatureC)

	case l.store.Has(KeyGPUUsage) || l.store.Has(KeyGPUTemperature):
		if l.cfg.GPUPolicy == GPUDrop {
			l.store.RemoveStream(KeyGPUUsage)
			l.store.RemoveStream(KeyGPUTemperature)
			l.logger.Info("gpu streams removed", "policy", l.cfg.GPUPolicy)
			return
		}
		for _, key := range []string{KeyGPUUsage, KeyGPUTemperature} {
			if !l.store.Has(key) {
				l.backfill(key, aligned)
			}
			l.append(key, 0)
		}
	}
}

func (l *Loop) append(key string, value float64) {
	l.store.Append(key, value, streamMeta[key])
}

func (l *Loop) backfill(key string, n int) {
	for i := 0; i < n; i++ {
		l.append(key, 0)
	}
}
