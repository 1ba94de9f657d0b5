// Package style defines the layer style record shared by the QML codec,
// the palette catalogs and the rasterstyle tool.
//
// A Record describes how a GIS application should draw one single-band
// classified raster: a paletted renderer mapping discrete pixel values to
// colours, plus the post-render adjustments (brightness/contrast, hue/
// saturation, resampling factor, blend mode) and layer-level toggles.
// Records are produced by the application's style-export feature and
// consumed read-only by the renderer; nothing here mutates a Record after
// it has been loaded.
package style

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel validation errors.
var (
	ErrRendererType   = errors.New("renderer type is not paletted")
	ErrDuplicateValue = errors.New("duplicate palette value")
	ErrBadColor       = errors.New("invalid colour")
)

// RendererPaletted is the only renderer type a Record may carry.
const RendererPaletted = "paletted"

// BlendMode selects how the layer's pixels compose with layers beneath it.
// The codes follow the composition-mode order the host application uses.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendLighten
	BlendScreen
	BlendDodge
	BlendAddition
	BlendDarken
	BlendMultiply
	BlendBurn
	BlendOverlay
	BlendSoftLight
	BlendHardLight
	BlendDifference
	BlendSubtract
)

var blendModeNames = [...]string{
	"normal", "lighten", "screen", "dodge", "addition", "darken",
	"multiply", "burn", "overlay", "soft light", "hard light",
	"difference", "subtract",
}

func (m BlendMode) String() string {
	if m >= 0 && int(m) < len(blendModeNames) {
		return blendModeNames[m]
	}
	return fmt.Sprintf("blend(%d)", int(m))
}

// PaletteEntry maps one raster class value to its display colour.
type PaletteEntry struct {
	Value int    // raster pixel value, unique within a palette
	Color string // "#rrggbb"
	Alpha uint8  // 0 transparent .. 255 opaque
	Label string // e.g. "Impervious/Artificial"
}

// Equal reports whether e and b have identical visual properties (all
// fields except Value).
func (e PaletteEntry) Equal(b PaletteEntry) bool {
	return e.Color == b.Color &&
		e.Alpha == b.Alpha &&
		e.Label == b.Label
}

// Flags are the layer-level toggles the application exposes.
type Flags struct {
	Identifiable bool
	Removable    bool
	Searchable   bool
}

// Temporal holds the layer's fixed time range settings.  For land-cover
// exports the range is disabled and both bounds are empty.
type Temporal struct {
	Enabled    bool
	Mode       int
	FetchMode  int
	FixedStart string
	FixedEnd   string
}

// Renderer is the paletted renderer configuration.
type Renderer struct {
	Type        string // always "paletted" for a valid Record
	Band        int    // 1-based raster band
	Opacity     float64
	AlphaBand   int // -1 when no alpha band is used
	NodataColor string
	Palette     []PaletteEntry
}

// BrightnessContrast is the post-render brightness/contrast adjustment.
type BrightnessContrast struct {
	Brightness int
	Contrast   int
	Gamma      float64
}

// HueSaturation holds the colorization parameters.
type HueSaturation struct {
	Saturation       int
	GrayscaleMode    int
	ColorizeOn       bool
	ColorizeColor    string // "#rrggbb"
	ColorizeStrength int
	InvertColors     bool
}

// Resampler carries the oversampling factor for the resampling stage.
type Resampler struct {
	MaxOversampling float64
}

// Record is one complete layer style document.
type Record struct {
	MinScale float64
	MaxScale float64

	Flags            Flags
	Temporal         Temporal
	CustomProperties map[string]string

	Renderer           Renderer
	BrightnessContrast BrightnessContrast
	HueSaturation      HueSaturation
	Resampler          Resampler
	BlendMode          BlendMode
}

// Validate checks the Record's invariants: the renderer must be paletted
// with a positive band, opacity in [0, 1], every palette colour must be a
// six-digit hex RGB string and palette values must be unique.
func (r *Record) Validate() error {
	if r.Renderer.Type != RendererPaletted {
		return fmt.Errorf("%w: %q", ErrRendererType, r.Renderer.Type)
	}
	if r.Renderer.Band < 1 {
		return fmt.Errorf("band %d: must be >= 1", r.Renderer.Band)
	}
	if r.Renderer.Opacity < 0 || r.Renderer.Opacity > 1 {
		return fmt.Errorf("opacity %v: must be in [0, 1]", r.Renderer.Opacity)
	}
	seen := make(map[int]bool, len(r.Renderer.Palette))
	for _, e := range r.Renderer.Palette {
		if seen[e.Value] {
			return fmt.Errorf("%w: %d", ErrDuplicateValue, e.Value)
		}
		seen[e.Value] = true
		if _, err := ParseColor(e.Color); err != nil {
			return fmt.Errorf("palette value %d: %w", e.Value, err)
		}
	}
	if r.HueSaturation.ColorizeOn {
		if _, err := ParseColor(r.HueSaturation.ColorizeColor); err != nil {
			return fmt.Errorf("colorize: %w", err)
		}
	}
	return nil
}

// Lookup returns the palette entry for the given raster value.
func (r *Record) Lookup(value int) (PaletteEntry, bool) {
	for _, e := range r.Renderer.Palette {
		if e.Value == value {
			return e, true
		}
	}
	return PaletteEntry{}, false
}

// Equal reports structural equality of two records, with order-insensitive
// custom properties and order-sensitive palettes.
func (r *Record) Equal(b *Record) bool {
	if r == nil || b == nil {
		return r == b
	}
	if r.MinScale != b.MinScale || r.MaxScale != b.MaxScale ||
		r.Flags != b.Flags || r.Temporal != b.Temporal ||
		r.BrightnessContrast != b.BrightnessContrast ||
		r.HueSaturation != b.HueSaturation ||
		r.Resampler != b.Resampler ||
		r.BlendMode != b.BlendMode {
		return false
	}
	ra, rb := r.Renderer, b.Renderer
	if ra.Type != rb.Type || ra.Band != rb.Band || ra.Opacity != rb.Opacity ||
		ra.AlphaBand != rb.AlphaBand || ra.NodataColor != rb.NodataColor {
		return false
	}
	if len(ra.Palette) != len(rb.Palette) {
		return false
	}
	for i := range ra.Palette {
		if ra.Palette[i] != rb.Palette[i] {
			return false
		}
	}
	if len(r.CustomProperties) != len(b.CustomProperties) {
		return false
	}
	for k, v := range r.CustomProperties {
		if bv, ok := b.CustomProperties[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// MergePalette overlays override entries onto a base palette.  An override
// whose value already exists replaces that entry in place; new values are
// appended.  The result is sorted by value.
func MergePalette(base, overrides []PaletteEntry) []PaletteEntry {
	out := append([]PaletteEntry{}, base...)
	for _, o := range overrides {
		replaced := false
		for i, e := range out {
			if e.Value == o.Value {
				out[i] = o
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
