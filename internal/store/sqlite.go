package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ashureev/scam-honeypot/internal/domain"
	"github.com/ashureev/scam-honeypot/internal/shared"
	_ "modernc.org/sqlite"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	writeMu sync.Mutex // serializes writes to avoid SQLITE_BUSY under concurrent dispatch
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS intelligence_reports (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		intelligence_json TEXT NOT NULL,
		total_intel INTEGER NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reports_session ON intelligence_reports(session_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_reports_created ON intelligence_reports(created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RecordReport stores one dispatch attempt.
// Retries with exponential backoff on SQLITE_BUSY.
func (s *SQLiteStore) RecordReport(ctx context.Context, report *domain.Report) error {
	intelJSON, err := json.Marshal(report.Intelligence)
	if err != nil {
		return fmt.Errorf("marshal intelligence: %w", err)
	}

	maxRetries := 3
	baseDelay := 50 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		err = s.insertReport(ctx, report, string(intelJSON))
		if err == nil {
			return nil
		}
		if !shared.IsSQLiteConflictError(err) || i == maxRetries-1 {
			break
		}
		delay := baseDelay * time.Duration(1<<i) // 50ms, 100ms
		slog.Debug("RecordReport failed with SQLITE_BUSY, retrying",
			"report_id", report.ID,
			"attempt", i+1,
			"delay", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("record report %s: %w", report.ID, ctx.Err())
		}
	}

	return fmt.Errorf("record report %s: %w", report.ID, err)
}

func (s *SQLiteStore) insertReport(ctx context.Context, report *domain.Report, intelJSON string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	query := `
	INSERT INTO intelligence_reports (id, session_id, intelligence_json, total_intel, status, error, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	var errText interface{}
	if report.Error != "" {
		errText = report.Error
	}

	if _, err := s.db.ExecContext(ctx, query,
		report.ID, report.SessionID, intelJSON, report.Intelligence.Total(),
		string(report.Status), errText, report.CreatedAt.UnixMilli(),
	); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// ListReports returns the most recent reports, newest first.
func (s *SQLiteStore) ListReports(ctx context.Context, sessionID string, limit int) ([]*domain.Report, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	query := `
		SELECT id, session_id, intelligence_json, status, error, created_at
		FROM intelligence_reports`
	args := []interface{}{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close report rows", "error", closeErr)
		}
	}()

	reports := []*domain.Report{}
	for rows.Next() {
		var r domain.Report
		var intelJSON, status string
		var errText sql.NullString
		var createdAt int64

		if err := rows.Scan(&r.ID, &r.SessionID, &intelJSON, &status, &errText, &createdAt); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		if err := json.Unmarshal([]byte(intelJSON), &r.Intelligence); err != nil {
			return nil, fmt.Errorf("decode report %s intelligence: %w", r.ID, err)
		}
		r.Status = domain.ReportStatus(status)
		r.Error = errText.String
		r.CreatedAt = time.UnixMilli(createdAt)
		reports = append(reports, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return reports, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
