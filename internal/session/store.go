// Package session holds per-session conversation transcripts in memory.
package session

import (
	"container/list"
	"log/slog"
	"sync"
	"time"

	"github.com/ashureev/scam-honeypot/internal/domain"
)

// Options bounds the store. The zero value keeps every session forever.
type Options struct {
	// MaxSessions evicts the least recently active session once exceeded. 0 = unbounded.
	MaxSessions int
	// Now overrides the clock (tests).
	Now func() time.Time
}

// Store maps session IDs to append-only transcripts.
// A single mutex serializes every append and read, so concurrent appends to the
// same session never interleave or drop messages.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*list.Element // sessionID -> element holding *domain.Session
	recency     *list.List               // front = most recently active
	maxSessions int
	now         func() time.Time
}

// NewStore creates an empty session store.
func NewStore(opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		sessions:    make(map[string]*list.Element),
		recency:     list.New(),
		maxSessions: opts.MaxSessions,
		now:         now,
	}
}

// AddMessage appends message to the session transcript, creating the session if absent.
func (s *Store) AddMessage(sessionID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	el, ok := s.sessions[sessionID]
	if !ok {
		el = s.recency.PushFront(&domain.Session{
			ID:         sessionID,
			CreatedAt:  now,
			LastSeenAt: now,
		})
		s.sessions[sessionID] = el
	} else {
		s.recency.MoveToFront(el)
	}
	el.Value.(*domain.Session).Append(message, now)

	for s.maxSessions > 0 && s.recency.Len() > s.maxSessions {
		s.evict(s.recency.Back())
	}
}

// Conversation returns a copy of the transcript in insertion order.
// Unknown sessions yield an empty, non-nil slice.
func (s *Store) Conversation(sessionID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.sessions[sessionID]
	if !ok {
		return []string{}
	}
	msgs := el.Value.(*domain.Session).Messages
	out := make([]string, len(msgs))
	copy(out, msgs)
	return out
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Delete drops a session and its transcript.
func (s *Store) Delete(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	s.evict(el)
	return true
}

// EvictIdle removes sessions with no message for longer than ttl and returns their IDs.
func (s *Store) EvictIdle(ttl time.Duration) []string {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var evicted []string
	// Walk from the least recently active end; stop at the first live session.
	for el := s.recency.Back(); el != nil; {
		sess := el.Value.(*domain.Session)
		if sess.IdleFor(now) <= ttl {
			break
		}
		prev := el.Prev()
		s.evict(el)
		evicted = append(evicted, sess.ID)
		el = prev
	}
	return evicted
}

// evict must be called with s.mu held.
func (s *Store) evict(el *list.Element) {
	sess := el.Value.(*domain.Session)
	s.recency.Remove(el)
	delete(s.sessions, sess.ID)
	slog.Debug("session evicted", "session_id", sess.ID, "messages", len(sess.Messages))
}
