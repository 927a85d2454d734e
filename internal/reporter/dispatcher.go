// Package reporter delivers extracted intelligence to the external collector.
// Delivery is best-effort: callers enqueue and move on, failures are logged.
package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ashureev/scam-honeypot/internal/domain"
	"github.com/ashureev/scam-honeypot/internal/store"
)

var (
	// ErrQueueFull is returned by Enqueue when the dispatch queue has no room.
	ErrQueueFull = errors.New("report queue full")
	// ErrClosed is returned by Enqueue after Close.
	ErrClosed = errors.New("reporter closed")
)

// Publisher receives every dispatch outcome (e.g. the live feed).
type Publisher interface {
	Publish(report *domain.Report)
}

// Config configures a Dispatcher.
type Config struct {
	CollectorURL string // empty = record and publish only
	Timeout      time.Duration
	QueueSize    int
}

// Payload is the JSON body posted to the collector.
type Payload struct {
	SessionID    string              `json:"sessionId"`
	Intelligence domain.Intelligence `json:"intelligence"`
}

type job struct {
	sessionID string
	intel     domain.Intelligence
}

// Dispatcher posts reports from a single background worker.
type Dispatcher struct {
	cfg       Config
	client    *http.Client
	repo      store.Repository // optional
	publisher Publisher        // optional
	logger    *slog.Logger

	mu     sync.Mutex
	closed bool
	queue  chan job
	done   chan struct{}
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithRepository records every dispatch attempt.
func WithRepository(repo store.Repository) Option {
	return func(d *Dispatcher) { d.repo = repo }
}

// WithPublisher forwards every dispatch attempt.
func WithPublisher(p Publisher) Option {
	return func(d *Dispatcher) { d.publisher = p }
}

// WithHTTPClient overrides the HTTP client; the per-request timeout still comes from Config.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) { d.client = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// New starts a dispatcher worker.
func New(cfg Config, opts ...Option) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	d := &Dispatcher{
		cfg:    cfg,
		client: &http.Client{},
		logger: slog.Default(),
		queue:  make(chan job, cfg.QueueSize),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	go d.run()
	return d
}

// Report enqueues a dispatch and never blocks. Errors are logged and dropped.
func (d *Dispatcher) Report(sessionID string, intel domain.Intelligence) {
	if err := d.Enqueue(sessionID, intel); err != nil {
		d.logger.Warn("Intelligence report dropped", "session_id", sessionID, "error", err)
	}
}

// Enqueue adds a dispatch to the queue, returning ErrQueueFull or ErrClosed when it cannot.
func (d *Dispatcher) Enqueue(sessionID string, intel domain.Intelligence) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	select {
	case d.queue <- job{sessionID: sessionID, intel: intel}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting reports and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for j := range d.queue {
		d.dispatch(j)
	}
}

func (d *Dispatcher) dispatch(j job) {
	report := &domain.Report{
		ID:           uuid.NewString(),
		SessionID:    j.sessionID,
		Intelligence: j.intel,
		CreatedAt:    time.Now().UTC(),
	}

	switch {
	case d.cfg.CollectorURL == "":
		report.Status = domain.ReportStatusSkipped
	default:
		if err := d.post(j); err != nil {
			report.Status = domain.ReportStatusFailed
			report.Error = err.Error()
			d.logger.Warn("Intelligence report delivery failed",
				"session_id", j.sessionID,
				"report_id", report.ID,
				"error", err)
		} else {
			report.Status = domain.ReportStatusDelivered
			d.logger.Info("Intelligence report delivered",
				"session_id", j.sessionID,
				"report_id", report.ID,
				"total_intel", j.intel.Total())
		}
	}

	if d.repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
		if err := d.repo.RecordReport(ctx, report); err != nil {
			d.logger.Warn("Failed to record intelligence report", "report_id", report.ID, "error", err)
		}
		cancel()
	}
	if d.publisher != nil {
		d.publisher.Publish(report)
	}
}

func (d *Dispatcher) post(j job) error {
	body, err := json.Marshal(Payload{SessionID: j.sessionID, Intelligence: j.intel})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.CollectorURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to collector: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("collector returned %d", resp.StatusCode)
	}
	return nil
}
