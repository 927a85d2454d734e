// Package api provides HTTP handlers for the honeypot API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/scam-honeypot/internal/honeypot"
	"github.com/ashureev/scam-honeypot/internal/middleware"
	"github.com/ashureev/scam-honeypot/internal/store"
)

// Handler serves the honeypot routes.
type Handler struct {
	svc     *honeypot.Service
	apiKey  string
	repo    store.Repository        // nil = report endpoints unavailable
	feed    http.Handler            // nil = no live feed
	limiter *middleware.RateLimiter // nil = unthrottled
}

// Option customizes a Handler.
type Option func(*Handler)

// WithRepository enables the report listing endpoint and the database health check.
func WithRepository(repo store.Repository) Option {
	return func(h *Handler) { h.repo = repo }
}

// WithFeed mounts a live report feed at /honeypot/feed.
func WithFeed(feed http.Handler) Option {
	return func(h *Handler) { h.feed = feed }
}

// WithRateLimiter throttles POST /honeypot per client IP.
func WithRateLimiter(rl *middleware.RateLimiter) Option {
	return func(h *Handler) { h.limiter = rl }
}

// NewHandler creates a Handler. An empty apiKey makes every protected route answer 500.
func NewHandler(svc *honeypot.Service, apiKey string, opts ...Option) *Handler {
	h := &Handler{svc: svc, apiKey: apiKey}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers public and key-protected routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKey(h.apiKey))

		if h.limiter != nil {
			r.With(middleware.RateLimit(h.limiter)).Post("/honeypot", h.Engage)
		} else {
			r.Post("/honeypot", h.Engage)
		}
		r.Get("/honeypot/sessions/{sessionID}", h.GetSession)
		r.Get("/honeypot/reports", h.ListReports)
		if h.feed != nil {
			r.Get("/honeypot/feed", h.feed.ServeHTTP)
		}
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
