package format

import "fmt"

// ParseRGB reads a stream color of the form "rgb(r, g, b)".
func ParseRGB(s string) (r, g, b uint8, ok bool) {
	n, err := fmt.Sscanf(s, "rgb(%d, %d, %d)", &r, &g, &b)
	if err != nil || n != 3 {
		return 0, 0, 0, false
	}
	return r, g, b, true
}

// Hex converts a stream color to "#rrggbb" for terminal renderers. Colors
// that do not parse are returned unchanged.
func Hex(s string) string {
	r, g, b, ok := ParseRGB(s)
	if !ok {
		return s
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
