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

type StorageView struct{}

func (v StorageView) Render(s state.AppState, props ViewProps) string {
	const title = "Storage Devices"
	if !s.HasData() {
		return waiting(props.Width, title, props.SpinnerView)
	}

	color := styles.StreamColor(sampler.ColorStorage)
	var rows []string
	for i, d := range s.Update.Snapshot.Storage {
		rows = append(rows, fmt.Sprintf("Disk %2d: [%s] %3d%% used • %3d%% free • %s",
			i+1,
			components.Bar(float64(d.UsagePercent), 20, color),
			d.UsagePercent,
			format.FreePercent(d),
			format.GiB(d.TotalGiB),
		))
	}
	if len(rows) == 0 {
		rows = append(rows, "No storage devices reported")
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render("Per-Device Usage"),
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		))

	return lipgloss.JoinVertical(lipgloss.Left,
		pageHeader(props.Width, title),
		lipgloss.NewStyle().Padding(1, 2).Render(box),
		backHint(),
	)
}
