// Package qml reads and writes layer style documents in the QML markup
// format: a root qgis element holding flags, temporal, customproperties,
// the render pipe (rasterrenderer, brightnesscontrast, huesaturation,
// rasterresampler) and blendMode.
//
// Decoding rejects the whole document on any structural problem; there is
// no partial-application or recovery.  Encoding a decoded Record produces
// a document that decodes to an equal Record.
package qml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/armkhudinyan/porto-parque/style"
)

// Sentinel decode errors.
var (
	ErrMissingElement = errors.New("missing required element")
	ErrBadAttribute   = errors.New("invalid attribute value")
)

const docType = `<!DOCTYPE qgis PUBLIC 'http://mrcc.com/qgis.dtd' 'SYSTEM'>`

// version written on encode when the source document carried none.
const writerVersion = "3.22.4-Białowieża"

// ---- document shape ----

type document struct {
	XMLName                 xml.Name        `xml:"qgis"`
	Version                 string          `xml:"version,attr,omitempty"`
	StyleCategories         string          `xml:"styleCategories,attr,omitempty"`
	MinScale                float64         `xml:"minScale,attr"`
	MaxScale                float64         `xml:"maxScale,attr"`
	HasScaleBasedVisibility int             `xml:"hasScaleBasedVisibilityFlag,attr"`
	Flags                   *flagsElem      `xml:"flags"`
	Temporal                *temporalElem   `xml:"temporal"`
	CustomProperties        *customProps    `xml:"customproperties"`
	Pipe                    *pipeElem       `xml:"pipe"`
	BlendMode               *int            `xml:"blendMode"`
}

type flagsElem struct {
	Identifiable int `xml:"Identifiable"`
	Removable    int `xml:"Removable"`
	Searchable   int `xml:"Searchable"`
}

type temporalElem struct {
	Enabled    int         `xml:"enabled,attr"`
	Mode       int         `xml:"mode,attr"`
	FetchMode  int         `xml:"fetchMode,attr"`
	FixedRange *fixedRange `xml:"fixedRange"`
}

type fixedRange struct {
	Start string `xml:"start"`
	End   string `xml:"end"`
}

type customProps struct {
	Properties []property `xml:"property"`
}

type property struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

type pipeElem struct {
	Renderer           *rendererElem  `xml:"rasterrenderer"`
	BrightnessContrast *brightnessEl  `xml:"brightnesscontrast"`
	HueSaturation      *hueSatElem    `xml:"huesaturation"`
	Resampler          *resamplerElem `xml:"rasterresampler"`
}

type rendererElem struct {
	Type        string       `xml:"type,attr"`
	Band        int          `xml:"band,attr"`
	Opacity     float64      `xml:"opacity,attr"`
	AlphaBand   int          `xml:"alphaBand,attr"`
	NodataColor string       `xml:"nodataColor,attr,omitempty"`
	Palette     *paletteElem `xml:"colorPalette"`
}

type paletteElem struct {
	Entries []paletteEntry `xml:"paletteEntry"`
}

type paletteEntry struct {
	Value int    `xml:"value,attr"`
	Color string `xml:"color,attr"`
	Alpha int    `xml:"alpha,attr"`
	Label string `xml:"label,attr"`
}

type brightnessEl struct {
	Brightness int     `xml:"brightness,attr"`
	Contrast   int     `xml:"contrast,attr"`
	Gamma      float64 `xml:"gamma,attr"`
}

type hueSatElem struct {
	Saturation       int `xml:"saturation,attr"`
	GrayscaleMode    int `xml:"grayscaleMode,attr"`
	ColorizeOn       int `xml:"colorizeOn,attr"`
	ColorizeRed      int `xml:"colorizeRed,attr"`
	ColorizeGreen    int `xml:"colorizeGreen,attr"`
	ColorizeBlue     int `xml:"colorizeBlue,attr"`
	ColorizeStrength int `xml:"colorizeStrength,attr"`
	InvertColors     int `xml:"invertColors,attr"`
}

type resamplerElem struct {
	MaxOversampling float64 `xml:"maxOversampling,attr"`
}

// ---- decoding ----

// Decode parses a QML document into a validated Record.
func Decode(r io.Reader) (*style.Record, error) {
	var doc document
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return recordFromDoc(&doc)
}

// DecodeFile reads and decodes the QML document at path.
func DecodeFile(path string) (*style.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rec, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

func recordFromDoc(doc *document) (*style.Record, error) {
	if doc.Pipe == nil {
		return nil, fmt.Errorf("%w: pipe", ErrMissingElement)
	}
	if doc.Pipe.Renderer == nil {
		return nil, fmt.Errorf("%w: rasterrenderer", ErrMissingElement)
	}
	if doc.Pipe.Renderer.Palette == nil {
		return nil, fmt.Errorf("%w: colorPalette", ErrMissingElement)
	}

	rec := &style.Record{
		MinScale:         doc.MinScale,
		MaxScale:         doc.MaxScale,
		CustomProperties: map[string]string{},
	}

	if doc.Flags != nil {
		rec.Flags = style.Flags{
			Identifiable: doc.Flags.Identifiable != 0,
			Removable:    doc.Flags.Removable != 0,
			Searchable:   doc.Flags.Searchable != 0,
		}
	}
	if doc.Temporal != nil {
		rec.Temporal = style.Temporal{
			Enabled:   doc.Temporal.Enabled != 0,
			Mode:      doc.Temporal.Mode,
			FetchMode: doc.Temporal.FetchMode,
		}
		if fr := doc.Temporal.FixedRange; fr != nil {
			rec.Temporal.FixedStart = fr.Start
			rec.Temporal.FixedEnd = fr.End
		}
	}
	if doc.CustomProperties != nil {
		for _, p := range doc.CustomProperties.Properties {
			rec.CustomProperties[p.Key] = p.Value
		}
	}

	rend := doc.Pipe.Renderer
	rec.Renderer = style.Renderer{
		Type:        rend.Type,
		Band:        rend.Band,
		Opacity:     rend.Opacity,
		AlphaBand:   rend.AlphaBand,
		NodataColor: rend.NodataColor,
	}
	for _, pe := range rend.Palette.Entries {
		if pe.Alpha < 0 || pe.Alpha > 255 {
			return nil, fmt.Errorf("%w: alpha %d out of range for value %d",
				ErrBadAttribute, pe.Alpha, pe.Value)
		}
		rec.Renderer.Palette = append(rec.Renderer.Palette, style.PaletteEntry{
			Value: pe.Value,
			Color: style.NormalizeColor(pe.Color),
			Alpha: uint8(pe.Alpha),
			Label: pe.Label,
		})
	}

	if bc := doc.Pipe.BrightnessContrast; bc != nil {
		rec.BrightnessContrast = style.BrightnessContrast{
			Brightness: bc.Brightness,
			Contrast:   bc.Contrast,
			Gamma:      bc.Gamma,
		}
	}
	if hs := doc.Pipe.HueSaturation; hs != nil {
		for _, ch := range []int{hs.ColorizeRed, hs.ColorizeGreen, hs.ColorizeBlue} {
			if ch < 0 || ch > 255 {
				return nil, fmt.Errorf("%w: colorize channel %d out of range", ErrBadAttribute, ch)
			}
		}
		rec.HueSaturation = style.HueSaturation{
			Saturation:       hs.Saturation,
			GrayscaleMode:    hs.GrayscaleMode,
			ColorizeOn:       hs.ColorizeOn != 0,
			ColorizeColor:    style.FormatRGB(uint8(hs.ColorizeRed), uint8(hs.ColorizeGreen), uint8(hs.ColorizeBlue)),
			ColorizeStrength: hs.ColorizeStrength,
			InvertColors:     hs.InvertColors != 0,
		}
	}
	if rs := doc.Pipe.Resampler; rs != nil {
		rec.Resampler = style.Resampler{MaxOversampling: rs.MaxOversampling}
	}
	if doc.BlendMode != nil {
		rec.BlendMode = style.BlendMode(*doc.BlendMode)
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// ---- encoding ----

// Encode writes rec as an indented QML document.  Custom properties are
// emitted in key order so output is deterministic.
func Encode(w io.Writer, rec *style.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	doc := docFromRecord(rec)

	var buf bytes.Buffer
	buf.WriteString(docType)
	buf.WriteByte('\n')
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// EncodeFile writes rec to path, truncating any existing file.
func EncodeFile(path string, rec *style.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, rec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func docFromRecord(rec *style.Record) *document {
	hasScale := 0
	if rec.MinScale != 0 || rec.MaxScale != 0 {
		hasScale = 1
	}
	doc := &document{
		Version:                 writerVersion,
		StyleCategories:         "AllStyleCategories",
		MinScale:                rec.MinScale,
		MaxScale:                rec.MaxScale,
		HasScaleBasedVisibility: hasScale,
		Flags: &flagsElem{
			Identifiable: boolInt(rec.Flags.Identifiable),
			Removable:    boolInt(rec.Flags.Removable),
			Searchable:   boolInt(rec.Flags.Searchable),
		},
		Temporal: &temporalElem{
			Enabled:   boolInt(rec.Temporal.Enabled),
			Mode:      rec.Temporal.Mode,
			FetchMode: rec.Temporal.FetchMode,
			FixedRange: &fixedRange{
				Start: rec.Temporal.FixedStart,
				End:   rec.Temporal.FixedEnd,
			},
		},
		CustomProperties: &customProps{},
	}

	keys := make([]string, 0, len(rec.CustomProperties))
	for k := range rec.CustomProperties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		doc.CustomProperties.Properties = append(doc.CustomProperties.Properties,
			property{Key: k, Value: rec.CustomProperties[k]})
	}

	pal := &paletteElem{}
	for _, e := range rec.Renderer.Palette {
		pal.Entries = append(pal.Entries, paletteEntry{
			Value: e.Value,
			Color: style.NormalizeColor(e.Color),
			Alpha: int(e.Alpha),
			Label: e.Label,
		})
	}

	doc.Pipe = &pipeElem{
		Renderer: &rendererElem{
			Type:        rec.Renderer.Type,
			Band:        rec.Renderer.Band,
			Opacity:     rec.Renderer.Opacity,
			AlphaBand:   rec.Renderer.AlphaBand,
			NodataColor: rec.Renderer.NodataColor,
			Palette:     pal,
		},
		BrightnessContrast: &brightnessEl{
			Brightness: rec.BrightnessContrast.Brightness,
			Contrast:   rec.BrightnessContrast.Contrast,
			Gamma:      rec.BrightnessContrast.Gamma,
		},
		Resampler: &resamplerElem{MaxOversampling: rec.Resampler.MaxOversampling},
	}
	// A zero HueSaturation means the source document had no huesaturation
	// element; writing one back would invent a colorize colour and break
	// the decode/encode round trip.
	if rec.HueSaturation != (style.HueSaturation{}) {
		cr, cg, cb := colorizeChannels(rec.HueSaturation.ColorizeColor)
		doc.Pipe.HueSaturation = &hueSatElem{
			Saturation:       rec.HueSaturation.Saturation,
			GrayscaleMode:    rec.HueSaturation.GrayscaleMode,
			ColorizeOn:       boolInt(rec.HueSaturation.ColorizeOn),
			ColorizeRed:      cr,
			ColorizeGreen:    cg,
			ColorizeBlue:     cb,
			ColorizeStrength: rec.HueSaturation.ColorizeStrength,
			InvertColors:     boolInt(rec.HueSaturation.InvertColors),
		}
	}
	bm := int(rec.BlendMode)
	doc.BlendMode = &bm
	return doc
}

// colorizeChannels splits a "#rrggbb" string into 8-bit channels, falling
// back to the application's default colorize red when unset.
func colorizeChannels(s string) (r, g, b int) {
	if s == "" {
		return 255, 128, 128
	}
	c, err := style.ParseColor(s)
	if err != nil {
		return 255, 128, 128
	}
	cr, cg, cb := c.RGB255()
	return int(cr), int(cg), int(cb)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
