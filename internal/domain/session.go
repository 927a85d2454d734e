// Package domain contains core domain types for the honeypot.
package domain

import "time"

// Session is one ongoing conversation identified by an opaque caller-supplied ID.
// Messages is append-only; insertion order is the conversation transcript.
type Session struct {
	ID         string
	Messages   []string
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// Append records a message at the end of the transcript.
func (s *Session) Append(message string, at time.Time) {
	s.Messages = append(s.Messages, message)
	s.LastSeenAt = at
}

// RecentMessages returns the last n entries of messages.
func RecentMessages(messages []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if n >= len(messages) {
		return messages
	}
	return messages[len(messages)-n:]
}

// IdleFor returns how long the session has gone without a message.
func (s *Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.LastSeenAt)
}
