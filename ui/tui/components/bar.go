package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Bar renders a horizontal percentage bar of the given cell width.
func Bar(percent float64, width int, color lipgloss.TerminalColor) string {
	if width < 1 {
		return ""
	}
	filled := int(float64(width) * percent / 100)
	filled = max(0, min(filled, width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}
