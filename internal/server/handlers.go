package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkjet/internal/api"
	"inkjet/internal/history"
	"inkjet/internal/logging"
	"inkjet/internal/services"
	"inkjet/internal/textutil"
)

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes)

	var req api.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.rejectGenerate(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body exceeds the %d byte limit.", s.maxRequestBytes), tooLarge.Limit)
			return
		}
		s.rejectGenerate(w, http.StatusBadRequest, "Request body must be a JSON object.", 0)
		return
	}
	if strings.TrimSpace(req.HTML) == "" {
		s.rejectGenerate(w, http.StatusBadRequest, "Missing html content.", int64(len(req.HTML)))
		return
	}

	html := []byte(req.HTML)
	stream := &pdfStreamWriter{w: w, filename: pdfFileName(req.HTML)}
	result, err := s.pipeline.Run(r.Context(), html, stream)
	if err != nil {
		if stream.started {
			// Headers are already on the wire; all we can do is cut the
			// body short and log what happened.
			s.log().Error("conversion failed mid-stream",
				logging.String(logging.FieldRequestID, result.RequestID),
				logging.Int64(logging.FieldBytes, stream.bytes),
				logging.Error(err))
			return
		}
		http.Error(w, err.Error(), services.HTTPStatus(err))
		return
	}
	s.log().Info("pdf delivered",
		logging.String(logging.FieldRequestID, result.RequestID),
		logging.Int64(logging.FieldBytes, stream.bytes))
}

// rejectGenerate answers a request that never reached the pipeline and
// records the rejection so it shows up in history.
func (s *Server) rejectGenerate(w http.ResponseWriter, status int, message string, inputBytes int64) {
	http.Error(w, message, status)
	s.log().Warn("conversion request rejected",
		logging.Int(logging.FieldStatus, status),
		logging.String("reason", message))
	if s.store == nil {
		return
	}
	now := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := s.store.Add(ctx, history.Record{
		RequestID:    uuid.NewString(),
		Title:        textutil.UntitledDocument,
		Status:       history.StatusRejected,
		ErrorMessage: message,
		InputBytes:   inputBytes,
		CreatedAt:    now,
		FinishedAt:   now,
	}); err != nil {
		s.log().Warn("failed to record rejection", logging.Error(err))
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var status api.DaemonStatus
	if s.status != nil {
		status = s.status()
	}
	status.Running = true
	status.Bind = s.Addr()
	if s.store != nil {
		summary, err := s.store.Summarize(r.Context())
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		status.Conversions = api.FromSummary(summary)
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		s.writeJSON(w, http.StatusOK, api.HistoryResponse{Items: nil})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	var statuses []history.Status
	for _, raw := range r.URL.Query()["status"] {
		status, ok := history.ParseStatus(raw)
		if !ok {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", raw))
			return
		}
		statuses = append(statuses, status)
	}

	records, err := s.store.List(r.Context(), limit, statuses...)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.HistoryResponse{Items: api.FromRecords(records)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

// pdfStreamWriter defers the success headers until the first PDF byte, so
// failures before streaming can still use plain error responses.
type pdfStreamWriter struct {
	w        http.ResponseWriter
	filename string
	started  bool
	bytes    int64
}

func (sw *pdfStreamWriter) Write(p []byte) (int, error) {
	if !sw.started {
		sw.started = true
		sw.w.Header().Set("Content-Type", "application/pdf")
		if sw.filename != "" {
			sw.w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", sw.filename))
		}
		sw.w.WriteHeader(http.StatusOK)
	}
	n, err := sw.w.Write(p)
	sw.bytes += int64(n)
	return n, err
}

func pdfFileName(htmlSource string) string {
	title := textutil.DisplayTitle(textutil.DocumentTitle(htmlSource))
	return textutil.SanitizeFileName(title) + ".pdf"
}
