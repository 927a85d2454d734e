package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/scam-honeypot/internal/domain"
)

const (
	defaultSessionID = "tester-session"
	defaultMessage   = "Hello"

	maxRequestBody = 1 << 20

	defaultReportLimit = 50
)

// engageRequest uses pointers so an explicit empty string survives while absent fields default.
type engageRequest struct {
	SessionID *string `json:"sessionId"`
	Message   *string `json:"message"`
}

// Engage handles POST /honeypot. The body is optional; anything unreadable falls back to defaults.
func (h *Handler) Engage(w http.ResponseWriter, r *http.Request) {
	sessionID, message := decodeEngageRequest(w, r)
	reply := h.svc.Engage(r.Context(), sessionID, message)
	JSON(w, http.StatusOK, reply)
}

func decodeEngageRequest(w http.ResponseWriter, r *http.Request) (sessionID, message string) {
	sessionID, message = defaultSessionID, defaultMessage
	if r.Body == nil {
		return sessionID, message
	}

	var req engageRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		if !errors.Is(err, io.EOF) {
			slog.Warn("Ignoring unreadable honeypot request body", "error", err)
		}
		return sessionID, message
	}

	if req.SessionID != nil {
		sessionID = *req.SessionID
	}
	if req.Message != nil {
		message = *req.Message
	}
	return sessionID, message
}

// GetSession returns the transcript and current intelligence for one session.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	JSON(w, http.StatusOK, h.svc.Inspect(sessionID))
}

// ListReports returns recorded dispatch attempts, newest first.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		Error(w, http.StatusServiceUnavailable, "report store disabled")
		return
	}

	limit := defaultReportLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	reports, err := h.repo.ListReports(r.Context(), r.URL.Query().Get("session_id"), limit)
	if err != nil {
		slog.Error("Failed to list reports", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	if reports == nil {
		reports = []*domain.Report{}
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"reports": reports,
		"count":   len(reports),
	})
}
