package style

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a strict "#rrggbb" hex string.  Three-digit shorthand
// and named colours are rejected: the document format stores six hex
// digits only.
func ParseColor(s string) (colorful.Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	for _, c := range s[1:] {
		if !isHexDigit(c) {
			return colorful.Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return c, nil
}

// NormalizeColor lowercases a hex colour string so equal colours compare
// equal after a round trip.
func NormalizeColor(s string) string {
	return strings.ToLower(s)
}

// FormatRGB renders 8-bit channels as a "#rrggbb" string.
func FormatRGB(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// RGB255 returns the 8-bit channels of a palette entry's colour.  The
// colour must have been validated beforehand.
func (e PaletteEntry) RGB255() (r, g, b uint8) {
	c, err := ParseColor(e.Color)
	if err != nil {
		return 0, 0, 0
	}
	return c.RGB255()
}

// Luminance returns the perceived lightness of the entry's colour in
// [0, 1], used by the show command to pick readable label contrast.
func (e PaletteEntry) Luminance() float64 {
	c, err := ParseColor(e.Color)
	if err != nil {
		return 0
	}
	l, _, _ := c.Luv()
	return l
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
