package memory

import (
	"context"
	"time"
)

// Message is a single stored conversation message.
type Message struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionData holds everything persisted for one conversation session.
type SessionData struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Messages  []Message `json:"messages"`
	Metadata  Metadata  `json:"metadata"`
}

type Metadata struct {
	StartedAt    time.Time `json:"started_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`

	// Running count of map suggestions delivered to this session; the
	// orchestrator derives batch ordinals from it.
	SuggestionCount int `json:"suggestion_count"`
}

// Store defines the interface for session storage. Implementations must
// evict sessions after their TTL so memory stays bounded.
type Store interface {
	// LoadSession loads a session, returning an empty one if absent.
	LoadSession(ctx context.Context, sessionID string) (*SessionData, error)

	// SaveMessage appends a message to a session and refreshes its TTL.
	SaveMessage(ctx context.Context, sessionID, userID string, msg Message) error

	// GetMessages retrieves all messages for a session.
	GetMessages(ctx context.Context, sessionID string) ([]Message, error)

	// AddSuggestions bumps the session's delivered-suggestion count by n
	// and returns the new total.
	AddSuggestions(ctx context.Context, sessionID string, n int) (int, error)

	// SuggestionCount returns the session's delivered-suggestion count.
	SuggestionCount(ctx context.Context, sessionID string) (int, error)

	// ClearSession removes a session from storage.
	ClearSession(ctx context.Context, sessionID string) error

	// SessionExists checks if a session exists.
	SessionExists(ctx context.Context, sessionID string) (bool, error)
}
