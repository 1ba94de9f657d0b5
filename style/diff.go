package style

import (
	"fmt"
	"sort"
)

// Change describes one difference between two records.  Field is a dotted
// path ("renderer.band", "palette[4].color"); Old and New are rendered
// values, empty for pure additions/removals.
type Change struct {
	Field string
	Old   string
	New   string
}

func (c Change) String() string {
	switch {
	case c.Old == "":
		return fmt.Sprintf("+ %s = %s", c.Field, c.New)
	case c.New == "":
		return fmt.Sprintf("- %s = %s", c.Field, c.Old)
	default:
		return fmt.Sprintf("  %s: %s -> %s", c.Field, c.Old, c.New)
	}
}

// PalettesEqual reports whether two palettes define the same values with
// identical visual definitions (order-insensitive).
func PalettesEqual(a, b []PaletteEntry) bool {
	if len(a) != len(b) {
		return false
	}
	bm := make(map[int]PaletteEntry, len(b))
	for _, e := range b {
		bm[e.Value] = e
	}
	for _, e := range a {
		be, ok := bm[e.Value]
		if !ok || !e.Equal(be) {
			return false
		}
	}
	return true
}

// DiffRecords lists the field-level differences between two records.
// Palette entries are matched by value; scalar fields are compared
// directly.  An empty result means the records are equivalent.
func DiffRecords(old, new *Record) []Change {
	var out []Change
	scalar := func(field string, a, b any) {
		if a != b {
			out = append(out, Change{field, fmt.Sprint(a), fmt.Sprint(b)})
		}
	}

	scalar("minScale", old.MinScale, new.MinScale)
	scalar("maxScale", old.MaxScale, new.MaxScale)
	scalar("flags.identifiable", old.Flags.Identifiable, new.Flags.Identifiable)
	scalar("flags.removable", old.Flags.Removable, new.Flags.Removable)
	scalar("flags.searchable", old.Flags.Searchable, new.Flags.Searchable)
	scalar("temporal", old.Temporal, new.Temporal)
	scalar("renderer.type", old.Renderer.Type, new.Renderer.Type)
	scalar("renderer.band", old.Renderer.Band, new.Renderer.Band)
	scalar("renderer.opacity", old.Renderer.Opacity, new.Renderer.Opacity)
	scalar("renderer.alphaBand", old.Renderer.AlphaBand, new.Renderer.AlphaBand)
	scalar("renderer.nodataColor", old.Renderer.NodataColor, new.Renderer.NodataColor)
	scalar("brightnessContrast", old.BrightnessContrast, new.BrightnessContrast)
	scalar("hueSaturation", old.HueSaturation, new.HueSaturation)
	scalar("resampler.maxOversampling", old.Resampler.MaxOversampling, new.Resampler.MaxOversampling)
	scalar("blendMode", old.BlendMode, new.BlendMode)

	out = append(out, diffPalettes(old.Renderer.Palette, new.Renderer.Palette)...)
	out = append(out, diffProps(old.CustomProperties, new.CustomProperties)...)
	return out
}

func diffPalettes(old, new []PaletteEntry) []Change {
	om := make(map[int]PaletteEntry, len(old))
	for _, e := range old {
		om[e.Value] = e
	}
	nm := make(map[int]PaletteEntry, len(new))
	for _, e := range new {
		nm[e.Value] = e
	}

	values := make([]int, 0, len(om)+len(nm))
	for v := range om {
		values = append(values, v)
	}
	for v := range nm {
		if _, ok := om[v]; !ok {
			values = append(values, v)
		}
	}
	sort.Ints(values)

	var out []Change
	for _, v := range values {
		oe, inOld := om[v]
		ne, inNew := nm[v]
		field := fmt.Sprintf("palette[%d]", v)
		switch {
		case !inNew:
			out = append(out, Change{field, entryText(oe), ""})
		case !inOld:
			out = append(out, Change{field, "", entryText(ne)})
		case !oe.Equal(ne):
			out = append(out, Change{field, entryText(oe), entryText(ne)})
		}
	}
	return out
}

func diffProps(old, new map[string]string) []Change {
	keys := make([]string, 0, len(old)+len(new))
	for k := range old {
		keys = append(keys, k)
	}
	for k := range new {
		if _, ok := old[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var out []Change
	for _, k := range keys {
		ov, inOld := old[k]
		nv, inNew := new[k]
		field := "customproperties." + k
		switch {
		case !inNew:
			out = append(out, Change{field, ov, ""})
		case !inOld:
			out = append(out, Change{field, "", nv})
		case ov != nv:
			out = append(out, Change{field, ov, nv})
		}
	}
	return out
}

func entryText(e PaletteEntry) string {
	return fmt.Sprintf("%s alpha=%d %q", e.Color, e.Alpha, e.Label)
}
