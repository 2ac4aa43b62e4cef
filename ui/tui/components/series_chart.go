package components

import (
	"fmt"

	"sysdash/internal/format"
	"sysdash/internal/window"
	"sysdash/ui/tui/styles"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SeriesChart draws window series as braille lines on a 0-100 scale.
type SeriesChart struct {
	Chart    linechart.Model
	Title    string
	Series   []window.Series
	Capacity int
	Width    int
	Height   int
}

func NewSeriesChart(width, height, capacity int) *SeriesChart {
	if capacity < 2 {
		capacity = 2
	}
	// width, height, minX, maxX, minY, maxY
	lc := linechart.New(width, height, 0, float64(capacity-1), 0, 100)
	return &SeriesChart{
		Chart:    lc,
		Capacity: capacity,
		Width:    width,
		Height:   height,
	}
}

func (c *SeriesChart) Init() tea.Cmd {
	return nil
}

// SetSeries replaces the plotted data.
func (c *SeriesChart) SetSeries(title string, series []window.Series) {
	c.Title = title
	c.Series = series
}

func (c *SeriesChart) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return c, nil
}

func (c *SeriesChart) Resize(w, h int) {
	c.Width = w
	c.Height = h
	c.Chart.Resize(w, h)
}

// Plot redraws the canvas and returns the bare chart.
func (c *SeriesChart) Plot() string {
	c.Chart.Clear()
	for _, s := range c.Series {
		style := lipgloss.NewStyle().Foreground(styles.StreamColor(s.Color))
		values := format.PadSeries(s.Values, c.Capacity)
		for i := 0; i < len(values)-1; i++ {
			c.Chart.DrawBrailleLineWithStyle(
				canvas.Float64Point{X: float64(i), Y: values[i]},
				canvas.Float64Point{X: float64(i + 1), Y: values[i+1]},
				style,
			)
		}
	}
	c.Chart.DrawXYAxisAndLabel()
	return c.Chart.View()
}

// Legend lists each series with its latest value.
func (c *SeriesChart) Legend() string {
	var parts []string
	for _, s := range c.Series {
		latest := 0.0
		if n := len(s.Values); n > 0 {
			latest = s.Values[n-1]
		}
		swatch := lipgloss.NewStyle().Foreground(styles.StreamColor(s.Color)).Render("━━")
		parts = append(parts, fmt.Sprintf("%s %s %.0f", swatch, s.Label, latest))
	}
	if len(parts) == 0 {
		return lipgloss.NewStyle().Foreground(styles.Subtle).Render("no data")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, joinSpaced(parts)...)
}

func (c *SeriesChart) View() string {
	return styles.CardStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(c.Title),
			c.Plot(),
			c.Legend(),
		),
	)
}

func joinSpaced(parts []string) []string {
	out := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			out = append(out, "  ")
		}
		out = append(out, p)
	}
	return out
}
