// Package extractor rasterizes PDF pages with MuPDF via go-fitz.
package extractor

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// PageFunc receives one rendered page. page is 1-indexed. Returning an error
// stops rasterization.
type PageFunc func(page int, img image.Image) error

// Rasterizer renders every page of a PDF in document order.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath string, fn PageFunc) error
}

// Fitz implements Rasterizer. Pages are rendered one at a time and handed to
// the callback before the next one is rendered.
type Fitz struct {
	dpi float64
}

func NewFitz(dpi float64) *Fitz {
	if dpi <= 0 {
		dpi = 200
	}
	return &Fitz{dpi: dpi}
}

func (f *Fitz) PageCount(pdfPath string) (int, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

func (f *Fitz) Rasterize(ctx context.Context, pdfPath string, fn PageFunc) error {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	n := doc.NumPage()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		img, err := doc.ImageDPI(i, f.dpi)
		if err != nil {
			return fmt.Errorf("render page %d: %w", i+1, err)
		}
		if err := fn(i+1, img); err != nil {
			return err
		}
	}
	return nil
}
