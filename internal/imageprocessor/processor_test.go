package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestVariants_ResizesKeepingRatio(t *testing.T) {
	p := NewProcessor(80)

	variants, err := p.Variants(pngOf(t, 2400, 1200), PortfolioSizes...)
	require.NoError(t, err)
	require.Len(t, variants, 2)

	assert.Equal(t, "medium", variants[0].Size.Name)
	assert.Equal(t, 1200, variants[0].Width)
	assert.Equal(t, 600, variants[0].Height)
	assert.Equal(t, "image/png", variants[0].ContentType)

	assert.Equal(t, 300, variants[1].Width)
	assert.Equal(t, 150, variants[1].Height)
}

func TestVariants_DoesNotUpscale(t *testing.T) {
	variants, err := NewProcessor(0).Variants(pngOf(t, 100, 50), SizeMedium)
	require.NoError(t, err)
	assert.Equal(t, 100, variants[0].Width)
	assert.Equal(t, 50, variants[0].Height)
}

func TestVariants_RejectsGarbage(t *testing.T) {
	_, err := NewProcessor(85).Variants(strings.NewReader("not an image"), SizeThumbnail)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
