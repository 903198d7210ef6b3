//go:build integration

package ocr

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// writeTextPNG renders s with the 7x13 bitmap face and scales it up so
// Tesseract has enough pixels per glyph.
func writeTextPNG(t *testing.T, s string) string {
	t.Helper()

	small := image.NewGray(image.Rect(0, 0, 7*len(s)+20, 30))
	draw.Draw(small, small.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 20),
	}
	d.DrawString(s)

	big := image.NewGray(image.Rect(0, 0, small.Bounds().Dx()*6, small.Bounds().Dy()*6))
	draw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), draw.Src, nil)

	path := filepath.Join(t.TempDir(), "text.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, big))
	require.NoError(t, f.Close())
	return path
}

func TestTesseract_RecognizesRenderedText(t *testing.T) {
	path := writeTextPNG(t, "HELLO WORLD")

	text, err := NewTesseract().Text(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, strings.ToUpper(text), "HELLO")
}

func TestTesseract_MissingFile(t *testing.T) {
	_, err := NewTesseract().Text(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestTesseract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTesseract().Text(ctx, writeTextPNG(t, "X"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTesseract_Version(t *testing.T) {
	assert.NotEmpty(t, NewTesseract().Version())
}
