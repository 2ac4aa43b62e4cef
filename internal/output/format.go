package output

import (
	"fmt"

	"sysdash/internal/format"
	"sysdash/internal/sampler"
	"sysdash/internal/snapshot"
)

// Section constants to avoid hardcoded strings
const (
	SectionProcessor = "processor"
	SectionMemory    = "memory"
	SectionGPU       = "gpu"
	SectionStorage   = "storage"
	SectionSystem    = "system"
)

// UI/view-model types (no printing here)
type Item struct {
	Key   string
	Label string
	Value float64
	Unit  string
	Note  string
}

// Text renders the item value the way every renderer shows it.
func (it Item) Text() string {
	switch {
	case it.Note != "":
		return it.Note
	case it.Unit == "%":
		return fmt.Sprintf("%.0f%%", it.Value)
	case it.Unit != "":
		return fmt.Sprintf("%.0f %s", it.Value, it.Unit)
	}
	return fmt.Sprintf("%.0f", it.Value)
}

type Section struct {
	ID    string // processor/memory/gpu/storage/system
	Title string
	Color string // rgb(r, g, b) from the stream palette
	Items []Item
}

type DashboardView struct {
	Sections    []Section
	Uptime      format.Uptime
	TotalRAMGB  int
	TotalDiskGB int
}

// BuildDashboard converts a snapshot into UI-ready card sections. The GPU
// section is present only when the snapshot has a GPU.
func BuildDashboard(snap snapshot.SystemSnapshot) DashboardView {
	p := snap.Processor
	m := snap.Memory

	sections := []Section{
		{
			ID: SectionProcessor, Title: "Processor", Color: sampler.ColorProcessor,
			Items: []Item{
				{Key: "usage", Label: "Usage", Value: float64(p.UsagePercent), Unit: "%"},
				{Key: "model", Label: "Model", Note: p.Model},
				{Key: "cores", Label: "Cores", Value: float64(p.Cores)},
				{Key: "speed", Label: "Speed", Note: format.GHz(p.SpeedGHz)},
				{Key: "temperature", Label: "Temperature", Note: format.Celsius(p.TemperatureC)},
			},
		},
		{
			ID: SectionMemory, Title: "Memory", Color: sampler.ColorMemory,
			Items: []Item{
				{Key: "usage", Label: "Usage", Value: float64(m.UsagePercent), Unit: "%"},
				{Key: "total", Label: "Total", Value: m.TotalGiB, Unit: "GiB"},
				{Key: "available", Label: "Available", Value: m.AvailableGiB, Unit: "GiB"},
				{Key: "modules", Label: "Modules", Note: m.ModuleDescription},
			},
		},
	}

	if g := snap.GPU; g != nil {
		sections = append(sections, Section{
			ID: SectionGPU, Title: "GPU", Color: sampler.ColorGPU,
			Items: []Item{
				{Key: "usage", Label: "Usage", Value: float64(g.UsagePercent), Unit: "%"},
				{Key: "model", Label: "Model", Note: g.Model},
				{Key: "temperature", Label: "Temperature", Note: format.Celsius(g.TemperatureC)},
				{Key: "vram_used", Label: "VRAM Used", Value: g.VRAMUsedGiB, Unit: "GiB"},
				{Key: "vram_total", Label: "VRAM Total", Value: g.VRAMTotalGiB, Unit: "GiB"},
			},
		})
	}

	storage := Section{ID: SectionStorage, Title: "Storage", Color: sampler.ColorStorage}
	var totalDisk float64
	for i, s := range snap.Storage {
		prefix := fmt.Sprintf("Disk %d ", i+1)
		key := fmt.Sprintf("disk%d_", i)
		storage.Items = append(storage.Items,
			Item{Key: key + "usage", Label: prefix + "Usage", Value: float64(s.UsagePercent), Unit: "%"},
			Item{Key: key + "free", Label: prefix + "Free", Value: float64(format.FreePercent(s)), Unit: "%"},
			Item{Key: key + "total", Label: prefix + "Total", Value: s.TotalGiB, Unit: "GiB"},
		)
		totalDisk += s.TotalGiB
	}
	sections = append(sections, storage)

	uptime := format.FormatUptime(snap.UptimeSeconds)
	sections = append(sections, Section{
		ID: SectionSystem, Title: "System",
		Items: []Item{{Key: "uptime", Label: "Uptime", Note: uptime.String()}},
	})

	return DashboardView{
		Sections:    sections,
		Uptime:      uptime,
		TotalRAMGB:  int(m.TotalGiB),
		TotalDiskGB: int(totalDisk),
	}
}

func (v DashboardView) SectionByID(id string) *Section {
	for i := range v.Sections {
		if v.Sections[i].ID == id {
			return &v.Sections[i]
		}
	}
	return nil
}

func (s Section) ItemByKey(key string) *Item {
	for i := range s.Items {
		if s.Items[i].Key == key {
			return &s.Items[i]
		}
	}
	return nil
}
