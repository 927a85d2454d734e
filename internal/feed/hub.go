// Package feed streams intelligence reports to connected analysts over WebSocket.
package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/ashureev/scam-honeypot/internal/domain"
)

const (
	subscriberBuffer = 32
	writeTimeout     = 5 * time.Second
)

// Event is the JSON frame sent to subscribers.
type Event struct {
	Type   string         `json:"type"`
	Report *domain.Report `json:"report,omitempty"`
}

type subscriber struct {
	id   int64
	send chan []byte
}

// Hub fans reports out to every connected subscriber. A subscriber whose
// buffer is full misses the event rather than stalling the publisher.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int64]*subscriber
	nextID int64
	// OriginPatterns is passed to websocket.Accept. Empty allows same-origin only.
	OriginPatterns []string
}

// NewHub creates an empty hub.
func NewHub(originPatterns []string) *Hub {
	return &Hub{
		subs:           make(map[int64]*subscriber),
		OriginPatterns: originPatterns,
	}
}

// Publish delivers report to all subscribers without blocking.
func (h *Hub) Publish(report *domain.Report) {
	data, err := json.Marshal(Event{Type: "report", Report: report})
	if err != nil {
		slog.Warn("feed: failed to marshal report", "error", err, "report_id", report.ID)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subs {
		select {
		case s.send <- data:
		default:
			slog.Warn("feed: subscriber buffer full, dropping event", "subscriber_id", s.id, "report_id", report.ID)
		}
	}
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) register() *subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	s := &subscriber{id: h.nextID, send: make(chan []byte, subscriberBuffer)}
	h.subs[s.id] = s
	return s
}

func (h *Hub) unregister(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, s.id)
}

// ServeHTTP upgrades the request and streams events until the client leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.OriginPatterns,
	})
	if err != nil {
		slog.Error("feed: failed to accept WebSocket", "error", err, "ip", r.RemoteAddr)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "feed closed"); closeErr != nil {
			slog.Debug("feed: failed to close websocket", "error", closeErr)
		}
	}()

	sub := h.register()
	defer h.unregister(sub)
	slog.Info("feed: subscriber connected", "subscriber_id", sub.id, "ip", r.RemoteAddr)

	// CloseRead discards client frames and cancels ctx when the peer goes away.
	ctx := ws.CloseRead(r.Context())

	if err := writeFrame(ctx, ws, Event{Type: "connected"}); err != nil {
		slog.Debug("feed: failed to send connected event", "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("feed: subscriber disconnected", "subscriber_id", sub.id)
			return
		case data := <-sub.send:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := ws.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				slog.Debug("feed: write failed, dropping subscriber", "subscriber_id", sub.id, "error", err)
				return
			}
		}
	}
}

func writeFrame(ctx context.Context, ws *websocket.Conn, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return ws.Write(wctx, websocket.MessageText, data)
}
