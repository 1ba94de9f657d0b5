// Package catalog provides named palettes that can be applied to a layer
// style record: the built-in Porto park land-cover palette, plain-text
// palette files and YAML catalog files.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/armkhudinyan/porto-parque/style"
)

// ErrUnknownPalette is returned by Get for names not present in the
// catalog.
var ErrUnknownPalette = errors.New("unknown palette")

// LandCover is the name of the built-in classification palette.
const LandCover = "landcover"

// landCover maps the six land-cover classes of the park mapping to their
// display colours.
var landCover = []style.PaletteEntry{
	{Value: 1, Color: "#1667fa", Alpha: 255, Label: "Water"},
	{Value: 2, Color: "#0c7d3c", Alpha: 255, Label: "Trees"},
	{Value: 3, Color: "#90ee90", Alpha: 255, Label: "Low Vegetation"},
	{Value: 4, Color: "#ae0000", Alpha: 255, Label: "Impervious/Artificial"},
	{Value: 5, Color: "#d2b48c", Alpha: 255, Label: "Bare Soil"},
	{Value: 6, Color: "#ffe75c", Alpha: 255, Label: "Agriculture"},
}

// Catalog is a set of named palettes.
type Catalog struct {
	palettes map[string][]style.PaletteEntry
}

// Builtin returns a catalog holding only the built-in palettes.
func Builtin() *Catalog {
	return &Catalog{palettes: map[string][]style.PaletteEntry{
		LandCover: landCover,
	}}
}

// Get returns a copy of the named palette.
func (c *Catalog) Get(name string) ([]style.PaletteEntry, error) {
	p, ok := c.palettes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}
	return append([]style.PaletteEntry{}, p...), nil
}

// Names returns the palette names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.palettes))
	for n := range c.palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// yamlEntry is the YAML shape of one palette entry.
type yamlEntry struct {
	Value int    `yaml:"value"`
	Color string `yaml:"color"`
	Alpha *int   `yaml:"alpha"` // defaults to 255
	Label string `yaml:"label"`
}

// Load merges a YAML catalog file into c.  The file maps palette names to
// entry lists:
//
//	landcover-draft:
//	  - {value: 1, color: "#1667fa", label: Water}
//	  - {value: 4, color: "#ae0000", label: Impervious/Artificial}
//
// Each palette is validated before being accepted; a file-level palette
// shadows a built-in of the same name.
func (c *Catalog) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var raw map[string][]yamlEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if c.palettes == nil {
		c.palettes = make(map[string][]style.PaletteEntry, len(raw))
	}
	for name, entries := range raw {
		palette, err := convertEntries(entries)
		if err != nil {
			return fmt.Errorf("%s: palette %q: %w", path, name, err)
		}
		c.palettes[name] = palette
	}
	return nil
}

func convertEntries(entries []yamlEntry) ([]style.PaletteEntry, error) {
	seen := make(map[int]bool, len(entries))
	out := make([]style.PaletteEntry, 0, len(entries))
	for _, e := range entries {
		if seen[e.Value] {
			return nil, fmt.Errorf("%w: %d", style.ErrDuplicateValue, e.Value)
		}
		seen[e.Value] = true
		if _, err := style.ParseColor(e.Color); err != nil {
			return nil, err
		}
		alpha := 255
		if e.Alpha != nil {
			alpha = *e.Alpha
		}
		if alpha < 0 || alpha > 255 {
			return nil, fmt.Errorf("value %d: alpha %d out of range", e.Value, alpha)
		}
		out = append(out, style.PaletteEntry{
			Value: e.Value,
			Color: style.NormalizeColor(e.Color),
			Alpha: uint8(alpha),
			Label: e.Label,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out, nil
}
