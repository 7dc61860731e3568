package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDownscale_LargePNG(t *testing.T) {
	p := NewProcessor(85, 1600)

	out, changed, err := p.Downscale(pngOf(t, 2000, 1000), "image/png")
	require.NoError(t, err)
	assert.True(t, changed)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 1600, cfg.Width)
	assert.Equal(t, 800, cfg.Height)
}

func TestDownscale_SmallImageUntouched(t *testing.T) {
	p := NewProcessor(85, 1600)
	src := pngOf(t, 100, 50)

	out, changed, err := p.Downscale(src, "image/png")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, src, out)
}

func TestDownscale_SkipsOtherFormats(t *testing.T) {
	p := NewProcessor(85, 10)
	src := []byte("GIF89a...")

	out, changed, err := p.Downscale(src, "image/gif")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, src, out)
}
