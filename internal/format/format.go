// Package format computes display-ready values from a snapshot.
package format

import (
	"fmt"
	"math"

	"sysdash/internal/snapshot"
)

// Uptime is a duration split into whole days, hours, minutes and seconds.
type Uptime struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

func (u Uptime) String() string {
	return fmt.Sprintf("%dd %dh %dm %ds", u.Days, u.Hours, u.Minutes, u.Seconds)
}

// FormatUptime splits seconds by 86400/3600/60. Fractions are truncated and
// negative or non-finite input yields zero.
func FormatUptime(seconds float64) Uptime {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return Uptime{}
	}
	s := int64(seconds)
	return Uptime{
		Days:    int(s / 86400),
		Hours:   int(s % 86400 / 3600),
		Minutes: int(s % 3600 / 60),
		Seconds: int(s % 60),
	}
}

// FreePercent returns round(free/total*100), or 0 for a zero-sized device.
func FreePercent(s snapshot.StorageSnapshot) int {
	return snapshot.Percent(s.FreeGiB, s.TotalGiB)
}

// PadSeries left-pads values with zeros to capacity so a chart always spans
// the full window. Longer input keeps its newest capacity values.
func PadSeries(values []float64, capacity int) []float64 {
	if capacity <= 0 {
		return []float64{}
	}
	if len(values) >= capacity {
		out := make([]float64, capacity)
		copy(out, values[len(values)-capacity:])
		return out
	}
	out := make([]float64, capacity)
	copy(out[capacity-len(values):], values)
	return out
}

// Percent renders an integer percentage for a card.
func Percent(v int) string {
	return fmt.Sprintf("%d%%", v)
}

// GiB renders a rounded gibibyte size.
func GiB(v float64) string {
	return fmt.Sprintf("%.0f GiB", v)
}

// GHz renders a clock speed with two decimals.
func GHz(v float64) string {
	return fmt.Sprintf("%.2f GHz", v)
}

// Celsius renders a temperature, or "N/A" for a missing (zero) reading.
func Celsius(v float64) string {
	if v <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.0f°C", v)
}
