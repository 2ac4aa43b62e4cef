package console

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"sysdash/internal/format"
	"sysdash/internal/output"
)

const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
)

// Print renders the dashboard view to the writer in a highly compact format.
func Print(w io.Writer, view output.DashboardView) {
	fmt.Fprintf(w, "%s%s %s%s\n", colorCyan, "■", "SYSDASH REPORT", colorReset)

	for _, sec := range view.Sections {
		color := colorFor(sec.Color)

		// Section Header
		fmt.Fprintf(w, "%s%s%s\n", color, "─ "+sec.Title, colorReset)

		for _, it := range sec.Items {
			// Compact Label (max 20 chars)
			label := it.Label
			if len(label) > 20 {
				label = label[:17] + "..."
			}

			valStr := it.Text()
			if utf8.RuneCountInString(valStr) > 25 {
				valStr = string([]rune(valStr)[:22]) + "..."
			}

			// Dots leader
			dots := strings.Repeat("·", 22-len(label))

			// Format: "  Label............... Value"
			fmt.Fprintf(w, "  %s%s %10s\n", label, color+dots+colorReset, valStr)
		}
	}

	// Single-line Summary
	diskStr := ""
	if view.TotalDiskGB > 0 {
		diskStr = fmt.Sprintf(" | Disk: %dGB", view.TotalDiskGB)
	}
	fmt.Fprintf(w, "%s─ Summary%s: RAM: %dGB%s | Up: %s\n\n", colorCyan, colorReset, view.TotalRAMGB, diskStr, view.Uptime)
}

// colorFor maps a stream color to a 24-bit ANSI foreground, falling back to cyan.
func colorFor(streamColor string) string {
	r, g, b, ok := format.ParseRGB(streamColor)
	if !ok {
		return colorCyan
	}
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", r, g, b)
}
