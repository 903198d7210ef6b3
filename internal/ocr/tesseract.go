package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements Engine. Each call gets its own gosseract client, so a
// single Tesseract value is safe for concurrent requests.
type Tesseract struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

func NewTesseract() *Tesseract {
	langs := make([]string, len(Languages))
	copy(langs, Languages)
	return &Tesseract{languages: langs, clientFactory: gosseract.NewClient}
}

func (t *Tesseract) Text(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := t.clientFactory()
	defer func() { _ = c.Close() }()

	if err := c.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetImage(path); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

// Version reports the linked libtesseract version.
func (t *Tesseract) Version() string {
	c := t.clientFactory()
	defer func() { _ = c.Close() }()
	return c.Version()
}
