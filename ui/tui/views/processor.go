package views

import (
	"fmt"

	"sysdash/internal/format"
	"sysdash/internal/sampler"
	"sysdash/ui/tui/components"
	"sysdash/ui/tui/state"
	"sysdash/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

type ProcessorView struct{}

// recentSamples is how many window values the sample list shows.
const recentSamples = 10

func (v ProcessorView) Render(s state.AppState, props ViewProps) string {
	const title = "Processor Telemetry"
	if !s.HasData() {
		return waiting(props.Width, title, props.SpinnerView)
	}
	p := s.Update.Snapshot.Processor

	info := lipgloss.NewStyle().
		Padding(1, 2).
		Render(fmt.Sprintf("Model: %s\nCores: %d\nSpeed: %s\nTemperature: %s",
			p.Model, p.Cores, format.GHz(p.SpeedGHz), format.Celsius(p.TemperatureC)))

	usage, _ := s.SeriesByKey(sampler.KeyProcessorUsage)
	color := styles.StreamColor(sampler.ColorProcessor)

	// Newest last, like the chart.
	values := usage.Values
	if len(values) > recentSamples {
		values = values[len(values)-recentSamples:]
	}
	rows := make([]string, 0, len(values))
	for i, val := range values {
		age := len(values) - 1 - i
		rows = append(rows, fmt.Sprintf("t-%-2d [%s] %5.1f%%", age, components.Bar(val, 20, color), val))
	}
	if len(rows) == 0 {
		rows = append(rows, "no samples")
	}

	sampleBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render("Recent Samples"),
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		))

	content := lipgloss.JoinHorizontal(lipgloss.Top, props.ChartView, sampleBox)

	return lipgloss.JoinVertical(lipgloss.Left,
		pageHeader(props.Width, title),
		info,
		content,
		backHint(),
	)
}
