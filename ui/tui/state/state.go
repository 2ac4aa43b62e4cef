package state

import (
	"time"

	"sysdash/internal/sampler"
	"sysdash/internal/window"
)

type Page int

const (
	PageMenu Page = iota
	PageDashboard
	PageConsole   // "Use Console"
	PageProcessor // "Processor Telemetry"
	PageStorage   // "Storage Devices"
	PageMemory    // "Memory Allocation"
)

// ChartMode selects which stream group the dashboard chart shows.
type ChartMode int

const (
	ChartUtilization ChartMode = iota
	ChartTemperature
)

func (c ChartMode) String() string {
	if c == ChartTemperature {
		return "Temperature"
	}
	return "Utilization"
}

// Keys returns the stream keys charted in this mode.
func (c ChartMode) Keys() []string {
	if c == ChartTemperature {
		return sampler.TemperatureKeys
	}
	return sampler.UtilizationKeys
}

// AppState holds the latest published update and UI selections.
type AppState struct {
	Update      *sampler.Update
	LastUpdate  time.Time
	Err         error
	ConsoleLogs []string
	CurrentPage Page
	Chart       ChartMode
	StorageTab  int
}

// HasData reports whether at least one update arrived.
func (s AppState) HasData() bool {
	return s.Update != nil
}

// ChartSeries returns the visible series of the current chart mode, in
// registration order.
func (s AppState) ChartSeries() []window.Series {
	if s.Update == nil {
		return nil
	}
	want := make(map[string]bool)
	for _, k := range s.Chart.Keys() {
		want[k] = true
	}
	var out []window.Series
	for _, series := range s.Update.Series {
		if want[series.Key] && !series.Hidden {
			out = append(out, series)
		}
	}
	return out
}

// SeriesByKey returns one series of the latest update.
func (s AppState) SeriesByKey(key string) (window.Series, bool) {
	if s.Update == nil {
		return window.Series{}, false
	}
	for _, series := range s.Update.Series {
		if series.Key == key {
			return series, true
		}
	}
	return window.Series{}, false
}
