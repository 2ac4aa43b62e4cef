package styles

import (
	"sysdash/internal/format"

	"github.com/charmbracelet/lipgloss"
)

var (
	Subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	Highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	Special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	Danger    = lipgloss.Color("196")

	TitleStyle = lipgloss.NewStyle().
			MarginLeft(1).
			MarginRight(5).
			Padding(0, 1).
			Italic(true).
			Foreground(lipgloss.Color("#FFF7DB"))

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(1, 2).
			Margin(1, 1)

	StatusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF"))

	TabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#888"))

	ActiveTabStyle = TabStyle.
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("#FFF"))
)

// StreamColor converts a stream's rgb() color for lipgloss.
func StreamColor(c string) lipgloss.Color {
	return lipgloss.Color(format.Hex(c))
}

// Card renders a card whose border takes the stream color.
func Card(streamColor string) lipgloss.Style {
	if streamColor == "" {
		return CardStyle
	}
	return CardStyle.BorderForeground(StreamColor(streamColor))
}
