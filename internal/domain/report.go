package domain

import "time"

// ReportStatus describes the outcome of a dispatch attempt.
type ReportStatus string

const (
	// ReportStatusDelivered indicates the collector accepted the report.
	ReportStatusDelivered ReportStatus = "delivered"
	// ReportStatusFailed indicates the collector call errored or was rejected.
	ReportStatusFailed ReportStatus = "failed"
	// ReportStatusSkipped indicates no collector endpoint is configured.
	ReportStatusSkipped ReportStatus = "skipped"
)

// Report is one intelligence dispatch for a session.
type Report struct {
	ID           string       `json:"id"`
	SessionID    string       `json:"sessionId"`
	Intelligence Intelligence `json:"intelligence"`
	Status       ReportStatus `json:"status"`
	Error        string       `json:"error,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}
