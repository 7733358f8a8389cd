package memory

import (
	"context"
	"sync"
	"time"
)

// LocalStore is an in-process Store for development and tests. Sessions
// carry the same TTL as the Redis store; expired entries are dropped lazily
// on access so the map stays bounded without a background sweeper.
type LocalStore struct {
	mu       sync.RWMutex
	sessions map[string]*localEntry
	ttl      time.Duration
}

type localEntry struct {
	data      *SessionData
	expiresAt time.Time
}

func NewLocalStore(ttl time.Duration) *LocalStore {
	return &LocalStore{
		sessions: make(map[string]*localEntry),
		ttl:      ttl,
	}
}

func (s *LocalStore) LoadSession(_ context.Context, sessionID string) (*SessionData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.live(sessionID)
	if entry == nil {
		return &SessionData{
			SessionID: sessionID,
			Messages:  []Message{},
			Metadata: Metadata{
				StartedAt:    time.Now(),
				LastActivity: time.Now(),
			},
		}, nil
	}
	copied := *entry.data
	copied.Messages = append([]Message(nil), entry.data.Messages...)
	return &copied, nil
}

func (s *LocalStore) SaveMessage(_ context.Context, sessionID, userID string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.live(sessionID)
	if entry == nil {
		entry = &localEntry{
			data: &SessionData{
				SessionID: sessionID,
				Messages:  []Message{},
				Metadata:  Metadata{StartedAt: msg.Timestamp},
			},
		}
		s.sessions[sessionID] = entry
	}

	if entry.data.UserID == "" {
		entry.data.UserID = userID
	}
	entry.data.Messages = append(entry.data.Messages, msg)
	entry.data.Metadata.LastActivity = time.Now()
	entry.data.Metadata.MessageCount = len(entry.data.Messages)
	entry.expiresAt = time.Now().Add(s.ttl)
	return nil
}

func (s *LocalStore) GetMessages(ctx context.Context, sessionID string) ([]Message, error) {
	session, err := s.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Messages, nil
}

func (s *LocalStore) AddSuggestions(_ context.Context, sessionID string, n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.live(sessionID)
	if entry == nil {
		entry = &localEntry{
			data: &SessionData{
				SessionID: sessionID,
				Messages:  []Message{},
				Metadata:  Metadata{StartedAt: time.Now()},
			},
		}
		s.sessions[sessionID] = entry
	}
	entry.data.Metadata.SuggestionCount += n
	entry.data.Metadata.LastActivity = time.Now()
	entry.expiresAt = time.Now().Add(s.ttl)
	return entry.data.Metadata.SuggestionCount, nil
}

func (s *LocalStore) SuggestionCount(_ context.Context, sessionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[sessionID]
	if !ok || time.Now().After(entry.expiresAt) {
		return 0, nil
	}
	return entry.data.Metadata.SuggestionCount, nil
}

func (s *LocalStore) ClearSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *LocalStore) SessionExists(_ context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[sessionID]
	return ok && time.Now().Before(entry.expiresAt), nil
}

// live returns the entry for sessionID, evicting it first if expired.
// Caller must hold the write lock.
func (s *LocalStore) live(sessionID string) *localEntry {
	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, sessionID)
		return nil
	}
	return entry
}
