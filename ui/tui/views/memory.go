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

type MemoryView struct{}

func (v MemoryView) Render(s state.AppState, props ViewProps) string {
	const title = "Memory Allocation"
	if !s.HasData() {
		return waiting(props.Width, title, props.SpinnerView)
	}
	m := s.Update.Snapshot.Memory
	color := styles.StreamColor(sampler.ColorMemory)

	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render("Memory"),
		fmt.Sprintf("Usage     : [%s] %s", components.Bar(float64(m.UsagePercent), 30, color), format.Percent(m.UsagePercent)),
		fmt.Sprintf("Total     : %s", format.GiB(m.TotalGiB)),
		fmt.Sprintf("Available : %s", format.GiB(m.AvailableGiB)),
		fmt.Sprintf("Modules   : %s", m.ModuleDescription),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(1, 2).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		pageHeader(props.Width, title),
		lipgloss.NewStyle().Padding(1, 2).Render(box),
		backHint(),
	)
}
