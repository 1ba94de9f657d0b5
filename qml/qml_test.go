package qml

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armkhudinyan/porto-parque/style"
)

func TestDecodeFile(t *testing.T) {
	rec, err := DecodeFile(filepath.Join("testdata", "landcover.qml"))
	require.NoError(t, err)

	assert.Equal(t, style.RendererPaletted, rec.Renderer.Type)
	assert.Equal(t, 1, rec.Renderer.Band)
	assert.Equal(t, 1.0, rec.Renderer.Opacity)
	assert.Equal(t, -1, rec.Renderer.AlphaBand)
	assert.Equal(t, 1e8, rec.MinScale)
	assert.Equal(t, 0.0, rec.MaxScale)
	assert.True(t, rec.Flags.Identifiable)
	assert.True(t, rec.Flags.Removable)
	assert.True(t, rec.Flags.Searchable)
	assert.False(t, rec.Temporal.Enabled)
	assert.Empty(t, rec.Temporal.FixedStart)
	assert.Empty(t, rec.Temporal.FixedEnd)
	assert.Equal(t, style.BlendNormal, rec.BlendMode)
	assert.Equal(t, 2.0, rec.Resampler.MaxOversampling)
	assert.Equal(t, 1.0, rec.BrightnessContrast.Gamma)
	assert.Equal(t, "Value", rec.CustomProperties["identify/format"])

	require.Len(t, rec.Renderer.Palette, 6)
	e, ok := rec.Lookup(4)
	require.True(t, ok)
	assert.Equal(t, "Impervious/Artificial", e.Label)
	assert.Equal(t, "#ae0000", e.Color)
	assert.Equal(t, uint8(255), e.Alpha)
}

func TestRoundTrip(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "landcover.qml"))
	require.NoError(t, err)

	first, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, first))

	second, err := Decode(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("round trip changed record (-first +second):\n%s", diff)
	}
	assert.True(t, first.Equal(second))
}

func TestRoundTripWithoutOptionalElements(t *testing.T) {
	// Only the pipe with its renderer and palette is required; flags,
	// temporal, customproperties, the adjustment elements and blendMode
	// may all be absent.  Their absence must survive a round trip.
	doc := `<qgis minScale="0" maxScale="0" hasScaleBasedVisibilityFlag="0">
  <pipe>
    <rasterrenderer type="paletted" band="1" opacity="1" alphaBand="-1">
      <colorPalette>
        <paletteEntry value="4" color="#ae0000" alpha="255" label="Impervious/Artificial"/>
      </colorPalette>
    </rasterrenderer>
  </pipe>
</qgis>`

	first, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Empty(t, first.HueSaturation.ColorizeColor)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, first))

	second, err := Decode(&buf)
	require.NoError(t, err)
	assert.Empty(t, second.HueSaturation.ColorizeColor)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("round trip changed record (-first +second):\n%s", diff)
	}
	assert.True(t, first.Equal(second))
}

func TestDecodeXMLDeclaration(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "landcover.qml"))
	require.NoError(t, err)
	doc := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" + string(data)

	rec, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Len(t, rec.Renderer.Palette, 6)
}

func TestEncodeFileRoundTrip(t *testing.T) {
	first, err := DecodeFile(filepath.Join("testdata", "landcover.qml"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.qml")
	require.NoError(t, EncodeFile(path, first))

	second, err := DecodeFile(path)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestDecodeRejects(t *testing.T) {
	base, err := os.ReadFile(filepath.Join("testdata", "landcover.qml"))
	require.NoError(t, err)

	t.Run("missing pipe", func(t *testing.T) {
		doc := `<qgis minScale="1e+08" maxScale="0"><blendMode>0</blendMode></qgis>`
		_, err := Decode(strings.NewReader(doc))
		require.ErrorIs(t, err, ErrMissingElement)
	})

	t.Run("missing colorPalette", func(t *testing.T) {
		doc := `<qgis><pipe><rasterrenderer type="paletted" band="1" opacity="1" alphaBand="-1"/></pipe></qgis>`
		_, err := Decode(strings.NewReader(doc))
		require.ErrorIs(t, err, ErrMissingElement)
	})

	t.Run("duplicate palette value", func(t *testing.T) {
		doc := strings.Replace(string(base),
			`value="5" color="#d2b48c"`, `value="4" color="#d2b48c"`, 1)
		_, err := Decode(strings.NewReader(doc))
		require.ErrorIs(t, err, style.ErrDuplicateValue)
	})

	t.Run("bad colour", func(t *testing.T) {
		doc := strings.Replace(string(base), "#ae0000", "#ae00", 1)
		_, err := Decode(strings.NewReader(doc))
		require.ErrorIs(t, err, style.ErrBadColor)
	})

	t.Run("alpha out of range", func(t *testing.T) {
		doc := strings.Replace(string(base), `alpha="255" label="Water"`, `alpha="300" label="Water"`, 1)
		_, err := Decode(strings.NewReader(doc))
		require.ErrorIs(t, err, ErrBadAttribute)
	})

	t.Run("non-paletted renderer", func(t *testing.T) {
		doc := strings.Replace(string(base), `type="paletted"`, `type="singlebandgray"`, 1)
		_, err := Decode(strings.NewReader(doc))
		require.ErrorIs(t, err, style.ErrRendererType)
	})

	t.Run("malformed markup", func(t *testing.T) {
		_, err := Decode(strings.NewReader("<qgis><pipe>"))
		require.Error(t, err)
	})
}

func TestDecodeNormalizesColorCase(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "landcover.qml"))
	require.NoError(t, err)
	doc := strings.Replace(string(data), "#ae0000", "#AE0000", 1)

	rec, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	e, ok := rec.Lookup(4)
	require.True(t, ok)
	assert.Equal(t, "#ae0000", e.Color)
}
