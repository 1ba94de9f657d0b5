package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/armkhudinyan/porto-parque/style"
)

// ParsePaletteText parses the plain-text palette format:
//
//	# class value, colour, optional alpha, optional label
//	1 #1667fa 255 Water
//	4 #ae0000 Impervious/Artificial
//
// Blank lines and '#'-prefixed lines are skipped.  Alpha defaults to 255.
// The label is everything after the recognised fields, so it may contain
// spaces.  A malformed line rejects the whole file.
func ParsePaletteText(content string) ([]style.PaletteEntry, error) {
	var palette []style.PaletteEntry
	seen := make(map[int]bool)
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, err := parsePaletteLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if seen[e.Value] {
			return nil, fmt.Errorf("line %d: %w: %d", i+1, style.ErrDuplicateValue, e.Value)
		}
		seen[e.Value] = true
		palette = append(palette, e)
	}
	return palette, nil
}

// parsePaletteLine parses "value colour [alpha] [label...]".
func parsePaletteLine(line string) (style.PaletteEntry, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return style.PaletteEntry{}, fmt.Errorf("want at least value and colour, got %q", line)
	}
	value, err := strconv.Atoi(fields[0])
	if err != nil {
		return style.PaletteEntry{}, fmt.Errorf("bad value: %v", err)
	}
	color := fields[1]
	if _, err := style.ParseColor(color); err != nil {
		return style.PaletteEntry{}, err
	}

	e := style.PaletteEntry{
		Value: value,
		Color: style.NormalizeColor(color),
		Alpha: 255,
	}
	rest := fields[2:]
	if len(rest) > 0 {
		if a, err := strconv.Atoi(rest[0]); err == nil {
			if a < 0 || a > 255 {
				return style.PaletteEntry{}, fmt.Errorf("alpha %d out of range", a)
			}
			e.Alpha = uint8(a)
			rest = rest[1:]
		}
	}
	e.Label = strings.Join(rest, " ")
	return e, nil
}
