// Package document routes an uploaded file to image OCR or to the per-page
// PDF pipeline.
package document

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/toricodesthings/ocr-service/internal/apperr"
	"github.com/toricodesthings/ocr-service/internal/extractor"
	"github.com/toricodesthings/ocr-service/internal/format"
	ocrimage "github.com/toricodesthings/ocr-service/internal/image"
	"github.com/toricodesthings/ocr-service/internal/quality"
	"github.com/toricodesthings/ocr-service/internal/types"
)

const pdfContentType = "application/pdf"

// Recognizer OCRs a single image file.
type Recognizer interface {
	Recognize(ctx context.Context, path string) (string, error)
}

type Processor struct {
	recognizer Recognizer
	rasterizer extractor.Rasterizer
	tempDir    string
	log        zerolog.Logger
}

type Option func(*Processor)

// WithTempDir sets where page images are written. Empty means os.TempDir().
func WithTempDir(dir string) Option {
	return func(p *Processor) { p.tempDir = dir }
}

func WithLogger(log zerolog.Logger) Option {
	return func(p *Processor) { p.log = log }
}

func New(recognizer Recognizer, rasterizer extractor.Rasterizer, opts ...Option) *Processor {
	p := &Processor{
		recognizer: recognizer,
		rasterizer: rasterizer,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Supported reports whether contentType is routed to an adapter.
func Supported(contentType string) bool {
	return IsImage(contentType) || IsPDF(contentType)
}

func IsImage(contentType string) bool { return strings.HasPrefix(contentType, "image/") }

func IsPDF(contentType string) bool { return contentType == pdfContentType }

// UnsupportedTypeMessage is the caller-facing rejection for contentType.
func UnsupportedTypeMessage(contentType string) string {
	return fmt.Sprintf("Unsupported file type: %s. Send an image or PDF.", contentType)
}

// Process dispatches on the declared content type. Anything that is neither
// image/* nor exactly application/pdf is a client input error; adapter
// failures are processing errors.
func (p *Processor) Process(ctx context.Context, contentType, path string) (string, error) {
	var (
		text string
		err  error
	)
	switch {
	case IsImage(contentType):
		text, err = p.ProcessImage(ctx, path)
	case IsPDF(contentType):
		text, err = p.ProcessPDF(ctx, path)
	default:
		return "", apperr.ClientInput(UnsupportedTypeMessage(contentType))
	}
	if err != nil {
		return "", apperr.Processing("ocr failed", err)
	}
	return text, nil
}

// ProcessImage OCRs a single image. The detected format is logged only; the
// engine decides what it can read.
func (p *Processor) ProcessImage(ctx context.Context, path string) (string, error) {
	start := time.Now()
	text, err := p.recognizer.Recognize(ctx, path)
	if err != nil {
		return "", err
	}
	if ev := p.log.Debug(); ev.Enabled() {
		imgFormat, _ := ocrimage.DetectFormat(path)
		ev.Str("format", imgFormat).
			Int("words", quality.CountWords(text)).
			Dur("took", time.Since(start)).
			Msg("image recognized")
	}
	return text, nil
}

// ProcessPDF OCRs every page in document order and joins the results with a
// blank line.
func (p *Processor) ProcessPDF(ctx context.Context, path string) (string, error) {
	pages, err := p.ExtractPages(ctx, path)
	if err != nil {
		return "", err
	}
	return format.Combine(pages, format.PageSeparator, false), nil
}

// ExtractPages returns per-page text in document order. The first failing
// page aborts the whole document.
func (p *Processor) ExtractPages(ctx context.Context, path string) ([]types.PageText, error) {
	var pages []types.PageText
	err := p.rasterizer.Rasterize(ctx, path, func(page int, img image.Image) error {
		start := time.Now()
		text, err := p.ocrPage(ctx, page, img)
		if err != nil {
			return err
		}
		wc := quality.CountWords(text)
		p.log.Debug().
			Int("page", page).
			Int("words", wc).
			Float64("letterRatio", quality.LetterRatio(text)).
			Dur("took", time.Since(start)).
			Msg("page recognized")
		pages = append(pages, types.PageText{PageNumber: page, Text: text, WordCount: wc})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// ocrPage writes img to its own temp PNG, OCRs it and removes it before
// returning, whatever the outcome.
func (p *Processor) ocrPage(ctx context.Context, page int, img image.Image) (string, error) {
	dir := p.tempDir
	if dir == "" {
		dir = os.TempDir()
	}
	pagePath := filepath.Join(dir, "page-"+uuid.NewString()+".png")

	f, err := os.OpenFile(pagePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create page %d image: %w", page, err)
	}
	defer os.Remove(pagePath)

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encode page %d: %w", page, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write page %d: %w", page, err)
	}

	text, err := p.recognizer.Recognize(ctx, pagePath)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", page, err)
	}
	return text, nil
}
