package server

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/toricodesthings/ocr-service/internal/apperr"
)

// withConcurrencyLimit gates the wrapped handler on the request semaphore.
// Requests wait for a slot until their context ends.
func (s *Server) withConcurrencyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.requestSem != nil {
			if !s.requestSem.TryAcquire(1) {
				s.capacityWarn.Do(func() {
					s.log.Warn().
						Int64("limit", s.cfg.MaxConcurrentRequests).
						Msg("all request slots busy, queueing")
				})
				if err := s.requestSem.Acquire(r.Context(), 1); err != nil {
					writeErr(w, http.StatusServiceUnavailable, "Service at capacity")
					return
				}
			}
			defer s.requestSem.Release(1)
		}

		s.metrics.incActive()
		defer s.metrics.decActive()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.log.Error().
					Interface("panic", rec).
					Str("requestId", chimiddleware.GetReqID(r.Context())).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				writeErr(w, http.StatusInternalServerError, apperr.GenericDetail)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.log.Info().
			Str("method", r.Method).
			Str("path", sanitizeLogString(r.URL.Path)).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Str("requestId", chimiddleware.GetReqID(r.Context())).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

func sanitizeLogString(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
