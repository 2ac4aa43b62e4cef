package views

import (
	"fmt"

	"sysdash/internal/output"
	"sysdash/ui/tui/state"
	"sysdash/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

type DashboardView struct{}

// StorageTabZone is the bubblezone ID of a storage device tab.
func StorageTabZone(i int) string {
	return fmt.Sprintf("storage_tab_%d", i)
}

// ChartToggleZone is the bubblezone ID of the chart mode switch.
const ChartToggleZone = "chart_toggle"

func (v DashboardView) Render(s state.AppState, props ViewProps) string {
	if !s.HasData() {
		if s.Err != nil {
			return fmt.Sprintf("Error: %v", s.Err)
		}
		return waiting(props.Width, "SysDash Live Dashboard", props.SpinnerView)
	}

	status := fmt.Sprintf(" Last Update: %s", s.LastUpdate.Format("15:04:05"))
	if s.Err != nil {
		status += lipgloss.NewStyle().Foreground(styles.Danger).Render(fmt.Sprintf(" (stale: %v)", s.Err))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		props.SpinnerView,
		styles.TitleStyle.Render("SysDash TUI"),
		status,
	)

	dashboard := output.BuildDashboard(s.Update.Snapshot)

	procCol := sectionCard(dashboard.SectionByID(output.SectionProcessor))
	memCol := sectionCard(dashboard.SectionByID(output.SectionMemory))
	gpuCol := sectionCard(dashboard.SectionByID(output.SectionGPU))
	storageCol := renderStorageCard(dashboard.SectionByID(output.SectionStorage), s.StorageTab)
	systemCol := sectionCard(dashboard.SectionByID(output.SectionSystem))

	toggle := zone.Mark(ChartToggleZone, lipgloss.NewStyle().
		Foreground(styles.Highlight).
		Render(fmt.Sprintf("[t] %s ⇄", s.Chart)))

	row1 := lipgloss.JoinHorizontal(lipgloss.Top, procCol, memCol, gpuCol)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, storageCol, systemCol)

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left,
		header,
		row1,
		row2,
		lipgloss.NewStyle().PaddingLeft(2).Render(toggle),
		props.ChartView,
		lipgloss.NewStyle().Foreground(styles.Subtle).Render("\n[t] Chart • [←/→] Disk • [b] Back • [q] Quit"),
	))
}

// renderStorageCard shows one device at a time behind clickable tabs.
func renderStorageCard(sec *output.Section, selected int) string {
	if sec == nil {
		return ""
	}
	n := len(sec.Items) / storageItemsPerDevice
	if n == 0 {
		return sectionCard(&output.Section{
			Title: sec.Title, Color: sec.Color,
			Items: []output.Item{{Label: "Devices", Note: "none"}},
		})
	}
	selected = max(0, min(selected, n-1))

	tabs := make([]string, 0, n)
	for i := range n {
		style := styles.TabStyle
		if i == selected {
			style = styles.ActiveTabStyle
		}
		tabs = append(tabs, zone.Mark(StorageTabZone(i), style.Render(fmt.Sprintf("Disk %d", i+1))))
	}

	device := output.Section{
		ID:    sec.ID,
		Title: sec.Title,
		Color: sec.Color,
		Items: sec.Items[selected*storageItemsPerDevice : (selected+1)*storageItemsPerDevice],
	}
	return sectionCard(&device, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// storageItemsPerDevice matches the usage/free/total rows BuildDashboard emits.
const storageItemsPerDevice = 3
