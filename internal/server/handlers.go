package server

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/toricodesthings/ocr-service/internal/apperr"
	"github.com/toricodesthings/ocr-service/internal/quality"
	"github.com/toricodesthings/ocr-service/internal/types"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{Status: "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	snap := s.metrics.snapshot()

	writeJSON(w, http.StatusOK, types.MetricsResponse{
		ActiveRequests:    snap.active,
		TotalRequests:     snap.total,
		SucceededRequests: snap.succeeded,
		RejectedRequests:  snap.rejected,
		FailedRequests:    snap.failed,
		Goroutines:        runtime.NumGoroutine(),
		MemAllocMB:        m.Alloc / (1 << 20),
		MemSysMB:          m.Sys / (1 << 20),
	})
}

// handleOCR receives a multipart upload, stages it in a per-request temp
// directory, dispatches on the declared content type and answers with the
// text. The upload handle and the temp directory are released on every path.
func (s *Server) handleOCR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.cfg.OCRTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.OCRTimeout)
		defer cancel()
	}

	if s.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	}

	up, err := receiveUpload(r, s.cfg.MultipartMemory)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer up.Close()

	path, cleanup, err := stageUpload(s.cfg.TempDir, up)
	if err != nil {
		s.fail(w, r, apperr.Processing("stage upload", err))
		return
	}
	defer cleanup()

	text, err := s.processor.Process(ctx, up.contentType, path)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.metrics.incSucceeded()
	s.log.Debug().
		Str("requestId", chimiddleware.GetReqID(r.Context())).
		Str("contentType", up.contentType).
		Int64("bytes", up.size).
		Int("words", quality.CountWords(text)).
		Msg("ocr complete")

	writeJSON(w, http.StatusOK, types.OCRResponse{Text: text})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.StatusCode(err)

	evt := s.log.Warn()
	if status >= http.StatusInternalServerError {
		s.metrics.incFailed()
		evt = s.log.Error()
	} else {
		s.metrics.incRejected()
	}
	evt.Err(err).
		Int("status", status).
		Str("requestId", chimiddleware.GetReqID(r.Context())).
		Msg("ocr request failed")

	writeErr(w, status, apperr.Detail(err))
}

// ---------- Helpers ----------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, types.ErrorResponse{Detail: detail})
}
