package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *Record {
	return &Record{
		MinScale: 1e8,
		Flags:    Flags{Identifiable: true, Removable: true, Searchable: true},
		Renderer: Renderer{
			Type:      RendererPaletted,
			Band:      1,
			Opacity:   1,
			AlphaBand: -1,
			Palette: []PaletteEntry{
				{Value: 1, Color: "#1667fa", Alpha: 255, Label: "Water"},
				{Value: 4, Color: "#ae0000", Alpha: 255, Label: "Impervious/Artificial"},
			},
		},
		BrightnessContrast: BrightnessContrast{Gamma: 1},
		Resampler:          Resampler{MaxOversampling: 2},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validRecord().Validate())
	})

	t.Run("wrong renderer type", func(t *testing.T) {
		r := validRecord()
		r.Renderer.Type = "singlebandgray"
		require.ErrorIs(t, r.Validate(), ErrRendererType)
	})

	t.Run("duplicate value", func(t *testing.T) {
		r := validRecord()
		r.Renderer.Palette = append(r.Renderer.Palette,
			PaletteEntry{Value: 4, Color: "#000000", Alpha: 255})
		require.ErrorIs(t, r.Validate(), ErrDuplicateValue)
	})

	t.Run("bad colour", func(t *testing.T) {
		r := validRecord()
		r.Renderer.Palette[0].Color = "red"
		require.ErrorIs(t, r.Validate(), ErrBadColor)
	})

	t.Run("bad band", func(t *testing.T) {
		r := validRecord()
		r.Renderer.Band = 0
		require.Error(t, r.Validate())
	})

	t.Run("bad opacity", func(t *testing.T) {
		r := validRecord()
		r.Renderer.Opacity = 1.5
		require.Error(t, r.Validate())
	})

	t.Run("colorize colour checked only when on", func(t *testing.T) {
		r := validRecord()
		r.HueSaturation.ColorizeOn = true
		r.HueSaturation.ColorizeColor = "#zzzzzz"
		require.ErrorIs(t, r.Validate(), ErrBadColor)

		r.HueSaturation.ColorizeOn = false
		require.NoError(t, r.Validate())
	})
}

func TestParseColor(t *testing.T) {
	for _, s := range []string{"#ae0000", "#AE0000", "#ffffff", "#000000"} {
		_, err := ParseColor(s)
		assert.NoError(t, err, s)
	}
	for _, s := range []string{"", "#fff", "ae0000", "#ae000", "#ae00000", "#gg0000", "red"} {
		_, err := ParseColor(s)
		assert.ErrorIs(t, err, ErrBadColor, s)
	}
}

func TestRGB255(t *testing.T) {
	e := PaletteEntry{Color: "#ae0000"}
	r, g, b := e.RGB255()
	assert.Equal(t, uint8(0xae), r)
	assert.Equal(t, uint8(0), g)
	assert.Equal(t, uint8(0), b)
}

func TestLookup(t *testing.T) {
	r := validRecord()
	e, ok := r.Lookup(4)
	require.True(t, ok)
	assert.Equal(t, "Impervious/Artificial", e.Label)
	assert.Equal(t, "#ae0000", e.Color)

	_, ok = r.Lookup(99)
	assert.False(t, ok)
}

func TestRecordEqual(t *testing.T) {
	a, b := validRecord(), validRecord()
	assert.True(t, a.Equal(b))

	b.Renderer.Palette[1].Label = "Artificial"
	assert.False(t, a.Equal(b))

	b = validRecord()
	b.CustomProperties = map[string]string{"identify/format": "Value"}
	assert.False(t, a.Equal(b))

	a.CustomProperties = map[string]string{"identify/format": "Value"}
	assert.True(t, a.Equal(b))
}

func TestMergePalette(t *testing.T) {
	base := []PaletteEntry{
		{Value: 1, Color: "#1667fa", Alpha: 255, Label: "Water"},
		{Value: 2, Color: "#0c7d3c", Alpha: 255, Label: "Trees"},
	}
	overrides := []PaletteEntry{
		{Value: 2, Color: "#008000", Alpha: 255, Label: "Forest"},
		{Value: 4, Color: "#ae0000", Alpha: 255, Label: "Impervious/Artificial"},
	}

	merged := MergePalette(base, overrides)
	require.Len(t, merged, 3)
	assert.Equal(t, []int{1, 2, 4}, []int{merged[0].Value, merged[1].Value, merged[2].Value})
	assert.Equal(t, "Forest", merged[1].Label)
	assert.Equal(t, "#008000", merged[1].Color)

	// Base must not be mutated.
	assert.Equal(t, "Trees", base[1].Label)
}

func TestBlendModeString(t *testing.T) {
	assert.Equal(t, "normal", BlendNormal.String())
	assert.Equal(t, "multiply", BlendMultiply.String())
	assert.Equal(t, "blend(99)", BlendMode(99).String())
}
