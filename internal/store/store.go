// Package store provides persistence for dispatched intelligence reports.
// Conversation transcripts are never persisted; see package session.
package store

import (
	"context"

	"github.com/ashureev/scam-honeypot/internal/domain"
)

// Repository defines the interface for persisting intelligence reports.
type Repository interface {
	// RecordReport stores one dispatch attempt.
	RecordReport(ctx context.Context, report *domain.Report) error

	// ListReports returns the most recent reports, newest first.
	// An empty sessionID lists reports across all sessions.
	ListReports(ctx context.Context, sessionID string, limit int) ([]*domain.Report, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
