package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/toricodesthings/ocr-service/internal/document"
	"github.com/toricodesthings/ocr-service/internal/extractor"
	"github.com/toricodesthings/ocr-service/internal/format"
	"github.com/toricodesthings/ocr-service/internal/image"
	"github.com/toricodesthings/ocr-service/internal/logging"
	"github.com/toricodesthings/ocr-service/internal/ocr"
	"github.com/toricodesthings/ocr-service/internal/types"
)

type extractOptions struct {
	contentType string
	pageNumbers bool
	separator   string
	dpi         float64
}

type extractResult struct {
	File        string           `json:"file"`
	ContentType string           `json:"contentType"`
	Text        string           `json:"text"`
	Pages       []types.PageText `json:"pages,omitempty"`
}

func newExtractCmd() *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Recognize the text of an image or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runExtract(ctx, cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.contentType, "type", "t", "", "content type to dispatch on (default: sniffed from the file)")
	cmd.Flags().BoolVar(&opts.pageNumbers, "page-numbers", false, "prefix each PDF page with a \"## Page N\" heading")
	cmd.Flags().StringVar(&opts.separator, "separator", format.PageSeparator, "text placed between PDF pages")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", 0, "PDF rasterization DPI (default: PDF_DPI from config)")

	return cmd
}

func runExtract(ctx context.Context, out io.Writer, path string, opts extractOptions) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	contentType := opts.contentType
	if contentType == "" {
		mtype, err := mimetype.DetectFile(path)
		if err != nil {
			return fmt.Errorf("detect content type: %w", err)
		}
		contentType = baseMediaType(mtype.String())
	}
	if !document.Supported(contentType) {
		return errors.New(document.UnsupportedTypeMessage(contentType))
	}

	dpi := opts.dpi
	if dpi <= 0 {
		dpi = cfg.PDFDPI
	}

	logLevel := "warn"
	if quiet {
		logLevel = "error"
	}
	log := logging.New(logging.Options{Level: logLevel, Format: "console", Output: os.Stderr})

	rasterizer := extractor.NewFitz(dpi)
	processor := document.New(
		image.NewRecognizer(ocr.NewTesseract()),
		rasterizer,
		document.WithTempDir(cfg.TempDir),
		document.WithLogger(log),
	)

	sp := startSpinner(progressLabel(path, contentType, rasterizer))
	start := time.Now()
	res, err := extract(ctx, processor, path, contentType, opts)
	sp.Stop()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if _, err := fmt.Fprintln(out, res.Text); err != nil {
		return err
	}
	if !quiet {
		summary := fmt.Sprintf("✓ %s in %s", path, time.Since(start).Round(time.Millisecond))
		if len(res.Pages) > 0 {
			summary += fmt.Sprintf(" (%d pages)", len(res.Pages))
		}
		color.New(color.FgGreen).Fprintln(os.Stderr, summary)
	}
	return nil
}

func extract(ctx context.Context, p *document.Processor, path, contentType string, opts extractOptions) (extractResult, error) {
	res := extractResult{File: path, ContentType: contentType}

	if document.IsImage(contentType) {
		text, err := p.ProcessImage(ctx, path)
		if err != nil {
			return res, err
		}
		res.Text = text
		return res, nil
	}

	pages, err := p.ExtractPages(ctx, path)
	if err != nil {
		return res, err
	}
	res.Pages = pages
	res.Text = format.Combine(pages, opts.separator, opts.pageNumbers)
	return res, nil
}

type pageCounter interface {
	PageCount(pdfPath string) (int, error)
}

// progressLabel names the page count for PDFs. A PDF that cannot be opened
// falls back to the content type; the rasterizer reports the real error.
func progressLabel(path, contentType string, pc pageCounter) string {
	if document.IsPDF(contentType) {
		if n, err := pc.PageCount(path); err == nil {
			return fmt.Sprintf(" recognizing %s (%d pages)", path, n)
		}
	}
	return fmt.Sprintf(" recognizing %s (%s)", path, contentType)
}

func baseMediaType(s string) string {
	mt, _, _ := strings.Cut(s, ";")
	return strings.TrimSpace(mt)
}

type stopper interface{ Stop() }

type noopStopper struct{}

func (noopStopper) Stop() {}

func startSpinner(suffix string) stopper {
	if quiet || outputJSON {
		return noopStopper{}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = suffix
	s.Start()
	return s
}
