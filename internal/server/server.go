// Package server exposes the OCR pipeline over HTTP.
package server

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/toricodesthings/ocr-service/internal/config"
)

// Processor turns a staged upload into text, dispatching on contentType.
type Processor interface {
	Process(ctx context.Context, contentType, path string) (string, error)
}

type Server struct {
	cfg       config.Config
	log       zerolog.Logger
	processor Processor

	// nil when MaxConcurrentRequests is 0
	requestSem *semaphore.Weighted

	metrics *serverMetrics

	capacityWarn rate.Sometimes
}

func New(cfg config.Config, log zerolog.Logger, processor Processor) *Server {
	s := &Server{
		cfg:          cfg,
		log:          log,
		processor:    processor,
		metrics:      &serverMetrics{},
		capacityWarn: rate.Sometimes{First: 1, Interval: 30 * time.Second},
	}
	if cfg.MaxConcurrentRequests > 0 {
		s.requestSem = semaphore.NewWeighted(cfg.MaxConcurrentRequests)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.withLogging)
	r.Use(s.withRecovery)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
	r.With(s.withConcurrencyLimit).Post("/ocr", s.handleOCR)

	return r
}

// RunStats logs a stats line every StatsInterval until ctx is done.
func (s *Server) RunStats(ctx context.Context) {
	interval := s.cfg.StatsInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			snap := s.metrics.snapshot()
			s.log.Info().
				Int64("active", snap.active).
				Int64("total", snap.total).
				Int64("failed", snap.failed).
				Int("goroutines", runtime.NumGoroutine()).
				Uint64("memMB", m.Alloc/(1<<20)).
				Msg("stats")
		}
	}
}
