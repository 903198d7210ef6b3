package image

import (
	"context"
	"fmt"
	stdimage "image"
	"os"
	"path/filepath"

	// Decoders known to DetectFormat. They only name the format for logs;
	// decoding for OCR is left to the engine.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// UnknownFormat is reported by DetectFormat for files no registered decoder
// recognizes. The engine may still be able to read them.
const UnknownFormat = "unknown"

// Engine turns the image at path into text.
type Engine interface {
	Text(ctx context.Context, path string) (string, error)
}

// Recognizer is the single-image OCR adapter.
type Recognizer struct {
	engine Engine
}

func NewRecognizer(engine Engine) *Recognizer {
	return &Recognizer{engine: engine}
}

// Recognize returns the engine's text for the image at path verbatim. The
// engine does its own decoding, so any format it reads is accepted; files it
// cannot read come back as its error (wrapped).
func (r *Recognizer) Recognize(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}

	text, err := r.engine.Text(ctx, path)
	if err != nil {
		return "", fmt.Errorf("ocr %s: %w", filepath.Base(path), err)
	}
	return text, nil
}

// DetectFormat returns the registered format name of the image at path, or
// UnknownFormat when no registered decoder claims it.
func DetectFormat(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	_, format, err := stdimage.DecodeConfig(f)
	if err != nil {
		return UnknownFormat, nil
	}
	return format, nil
}
