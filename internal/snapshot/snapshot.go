// Package snapshot maps raw provider readings into the canonical metric set
// shown by the dashboard.
package snapshot

import "errors"

// ErrSnapshotUnavailable is returned when a tick cannot produce a complete
// snapshot. Callers get either a full SystemSnapshot or this error.
var ErrSnapshotUnavailable = errors.New("snapshot unavailable")

// SystemSnapshot is one normalized reading of every metric at a point in time.
type SystemSnapshot struct {
	Processor     ProcessorSnapshot `json:"processor"`
	Memory        MemorySnapshot    `json:"memory"`
	Storage       []StorageSnapshot `json:"storage"`
	GPU           *GpuSnapshot      `json:"gpu"`
	UptimeSeconds float64           `json:"uptimeSeconds"`
}

type ProcessorSnapshot struct {
	UsagePercent int     `json:"usagePercent"`
	Model        string  `json:"model"`
	Cores        int     `json:"cores"`
	SpeedGHz     float64 `json:"speedGHz"`
	TemperatureC float64 `json:"temperatureC"`
}

type MemorySnapshot struct {
	UsagePercent      int     `json:"usagePercent"`
	TotalGiB          float64 `json:"totalGiB"`
	AvailableGiB      float64 `json:"availableGiB"`
	ModuleDescription string  `json:"moduleDescription"`
}

type StorageSnapshot struct {
	UsagePercent int     `json:"usagePercent"`
	TotalGiB     float64 `json:"totalGiB"`
	FreeGiB      float64 `json:"freeGiB"`
}

// GpuSnapshot is nil on the parent snapshot when the host has no usable controller.
type GpuSnapshot struct {
	UsagePercent int     `json:"usagePercent"`
	Model        string  `json:"model"`
	TemperatureC float64 `json:"temperatureC"`
	VRAMTotalGiB float64 `json:"vramTotalGiB"`
	VRAMUsedGiB  float64 `json:"vramUsedGiB"`
}

// HasGPU reports whether a graphics controller was normalized.
func (s SystemSnapshot) HasGPU() bool {
	return s.GPU != nil
}

// PrimaryStorage returns the first storage device, if any.
func (s SystemSnapshot) PrimaryStorage() (StorageSnapshot, bool) {
	if len(s.Storage) == 0 {
		return StorageSnapshot{}, false
	}
	return s.Storage[0], true
}
