package image

import (
	"context"
	"errors"
	stdimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

type fakeEngine struct {
	text  string
	err   error
	calls []string
}

func (f *fakeEngine) Text(_ context.Context, path string) (string, error) {
	f.calls = append(f.calls, path)
	return f.text, f.err
}

func testImage() *stdimage.RGBA {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.Black)
	return img
}

func writePNG(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "scan.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, testImage()))
	require.NoError(t, f.Close())
	return path
}

func TestRecognize_Verbatim(t *testing.T) {
	engine := &fakeEngine{text: "  Olá\nworld \n\f"}
	path := writePNG(t, t.TempDir())

	text, err := NewRecognizer(engine).Recognize(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "  Olá\nworld \n\f", text, "engine output is not trimmed or cleaned")
	assert.Equal(t, []string{path}, engine.calls)
}

func TestRecognize_EmptyText(t *testing.T) {
	text, err := NewRecognizer(&fakeEngine{}).Recognize(context.Background(), writePNG(t, t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestRecognize_BMPViaXImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.bmp")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, testImage()))
	require.NoError(t, f.Close())

	format, err := DetectFormat(path)
	require.NoError(t, err)
	assert.Equal(t, "bmp", format)

	text, err := NewRecognizer(&fakeEngine{text: "bitmap"}).Recognize(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "bitmap", text)
}

// 2x2 binary PPM. No Go decoder is registered for it, but the engine reads it.
var ppm = append([]byte("P6\n2 2\n255\n"), make([]byte, 2*2*3)...)

func TestRecognize_FormatDecidedByEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.ppm")
	require.NoError(t, os.WriteFile(path, ppm, 0o600))

	format, err := DetectFormat(path)
	require.NoError(t, err)
	assert.Equal(t, UnknownFormat, format)

	engine := &fakeEngine{text: "Olá"}
	text, err := NewRecognizer(engine).Recognize(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Olá", text)
	assert.Equal(t, []string{path}, engine.calls)
}

func TestRecognize_UnreadableFailsInEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an image"), 0o600))

	unreadable := errors.New("image file not read by leptonica")
	engine := &fakeEngine{err: unreadable}
	_, err := NewRecognizer(engine).Recognize(context.Background(), path)
	assert.ErrorIs(t, err, unreadable)
	assert.Len(t, engine.calls, 1)
}

func TestRecognize_MissingFile(t *testing.T) {
	engine := &fakeEngine{}
	_, err := NewRecognizer(engine).Recognize(context.Background(), filepath.Join(t.TempDir(), "gone.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, engine.calls)
}

func TestDetectFormat_MissingFile(t *testing.T) {
	_, err := DetectFormat(filepath.Join(t.TempDir(), "gone.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRecognize_EngineError(t *testing.T) {
	boom := errors.New("engine crashed")
	_, err := NewRecognizer(&fakeEngine{err: boom}).Recognize(context.Background(), writePNG(t, t.TempDir()))
	assert.ErrorIs(t, err, boom)
}
