package views

import (
	"fmt"
	"strings"

	"sysdash/internal/output"
	"sysdash/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// renderItems lays out section items as "label : value" rows.
func renderItems(items []output.Item) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-12s : %s", item.Label, item.Text())
	}
	return b.String()
}

// sectionCard renders a section as a card bordered in its stream color.
func sectionCard(sec *output.Section, extra ...string) string {
	if sec == nil {
		return ""
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.StreamColor(sec.Color)).Render(sec.Title)
	if sec.Color == "" {
		title = lipgloss.NewStyle().Bold(true).Render(sec.Title)
	}
	parts := append([]string{title}, extra...)
	parts = append(parts, renderItems(sec.Items))
	return styles.Card(sec.Color).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func pageHeader(width int, title string) string {
	return MenuHeaderStyle.Width(width).Render(title)
}

func backHint() string {
	return lipgloss.NewStyle().Padding(1, 2).Foreground(styles.Subtle).Render("Press 'b' to go back")
}

func waiting(width int, title, spinner string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		pageHeader(width, title),
		lipgloss.NewStyle().Padding(1, 2).Render(spinner+" Waiting for the first sample..."),
		backHint(),
	)
}
