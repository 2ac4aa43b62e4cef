package views

import (
	"fmt"
	"strings"

	"sysdash/ui/tui/state"

	"github.com/charmbracelet/lipgloss"
)

// ConsoleView shows the tick log. Content overrides the state's log when set.
type ConsoleView struct {
	Content string
}

func (v ConsoleView) Render(s state.AppState, props ViewProps) string {
	content := v.Content
	if content == "" {
		content = strings.Join(s.ConsoleLogs, "\n")
	}

	header := MenuHeaderStyle.Width(props.Width).Render("Live Console View")

	availableHeight := max(props.Height-lipgloss.Height(header)-4, 1)

	lines := strings.Split(content, "\n")
	totalLines := len(lines)

	scrollY := max(min(props.ScrollY, totalLines-availableHeight), 0)
	end := min(scrollY+availableHeight, totalLines)

	visibleLines := lines[scrollY:end]
	viewContent := strings.Join(visibleLines, "\n")

	box := lipgloss.NewStyle().
		Width(max(props.Width-4, 1)).
		Height(availableHeight).
		Padding(0, 1).
		Render(viewContent)

	footerText := fmt.Sprintf("Scroll: %d/%d • Press 'b' to go back", scrollY, totalLines)
	if totalLines > availableHeight {
		footerText += " • Use ↑/↓ to scroll"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Padding(1, 2).Render(box),
		lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("#555")).Render(footerText),
	)
}
