package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/toricodesthings/ocr-service/internal/config"
	"github.com/toricodesthings/ocr-service/internal/document"
	"github.com/toricodesthings/ocr-service/internal/extractor"
	"github.com/toricodesthings/ocr-service/internal/image"
	"github.com/toricodesthings/ocr-service/internal/logging"
	"github.com/toricodesthings/ocr-service/internal/ocr"
	"github.com/toricodesthings/ocr-service/internal/server"
)

const version = "1.0.0"

func newRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "ocrsvc",
		Short:         "HTTP service that extracts text from uploaded images and PDFs",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "YAML config file (default: $CONFIG_PATH, then env only)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ocrsvc: %v\n", err)
		os.Exit(1)
	}
}

func run(parent context.Context, cfg config.Config) error {
	log := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "ocrsvc",
	})

	engine := ocr.NewTesseract()
	processor := document.New(
		image.NewRecognizer(engine),
		extractor.NewFitz(cfg.PDFDPI),
		document.WithTempDir(cfg.TempDir),
		document.WithLogger(log),
	)
	srv := server.New(cfg, log, processor)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go srv.RunStats(ctx)

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", httpSrv.Addr).
			Str("version", version).
			Str("tesseract", engine.Version()).
			Strs("languages", ocr.Languages).
			Int64("maxConcurrent", cfg.MaxConcurrentRequests).
			Int64("maxUploadBytes", cfg.MaxUploadBytes).
			Float64("pdfDPI", cfg.PDFDPI).
			Msg("ocrsvc listening")
		serverErrors <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		if err := httpSrv.Close(); err != nil {
			log.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	log.Info().Msg("server stopped")
	return nil
}
