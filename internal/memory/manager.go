package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/memory"

	"github.com/hiddengem/nova-travel/internal/models"
)

// Manager orchestrates conversation memory: durable session state in the
// Store, with a per-session langchaingo ConversationBuffer cache in front.
type Manager struct {
	store Store

	mu       sync.Mutex
	sessions map[string]*memory.ConversationBuffer
}

func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sessions: make(map[string]*memory.ConversationBuffer),
	}
}

// getOrCreateSession returns the cached buffer for a session, hydrating it
// from the store on first access.
func (m *Manager) getOrCreateSession(ctx context.Context, sessionID string) (*memory.ConversationBuffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mem, exists := m.sessions[sessionID]; exists {
		return mem, nil
	}

	mem := memory.NewConversationBuffer()

	sessionData, err := m.store.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	for _, msg := range sessionData.Messages {
		var chatMsg llms.ChatMessage
		switch msg.Role {
		case models.RoleUser:
			chatMsg = llms.HumanChatMessage{Content: msg.Content}
		case models.RoleAssistant:
			chatMsg = llms.AIChatMessage{Content: msg.Content}
		default:
			continue
		}
		if err := mem.ChatHistory.AddMessage(ctx, chatMsg); err != nil {
			return nil, fmt.Errorf("failed to add message to memory: %w", err)
		}
	}

	m.sessions[sessionID] = mem
	return mem, nil
}

// SaveUserMessage records a user turn in both the buffer and the store.
func (m *Manager) SaveUserMessage(ctx context.Context, sessionID, userID, message string) error {
	mem, err := m.getOrCreateSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := mem.ChatHistory.AddUserMessage(ctx, message); err != nil {
		return fmt.Errorf("failed to add user message to memory: %w", err)
	}
	return m.store.SaveMessage(ctx, sessionID, userID, Message{
		Role:      models.RoleUser,
		Content:   message,
		Timestamp: time.Now(),
	})
}

// SaveAssistantMessage records an assistant turn in both the buffer and the store.
func (m *Manager) SaveAssistantMessage(ctx context.Context, sessionID, userID, message string) error {
	mem, err := m.getOrCreateSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := mem.ChatHistory.AddAIMessage(ctx, message); err != nil {
		return fmt.Errorf("failed to add AI message to memory: %w", err)
	}
	return m.store.SaveMessage(ctx, sessionID, userID, Message{
		Role:      models.RoleAssistant,
		Content:   message,
		Timestamp: time.Now(),
	})
}

// Turns returns the session's conversation as ordered turns for prompt
// construction.
func (m *Manager) Turns(ctx context.Context, sessionID string) ([]models.ConversationTurn, error) {
	mem, err := m.getOrCreateSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	messages, err := mem.ChatHistory.Messages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	turns := make([]models.ConversationTurn, 0, len(messages))
	for _, msg := range messages {
		switch typed := msg.(type) {
		case llms.HumanChatMessage:
			turns = append(turns, models.ConversationTurn{Role: models.RoleUser, Content: typed.Content})
		case llms.AIChatMessage:
			turns = append(turns, models.ConversationTurn{Role: models.RoleAssistant, Content: typed.Content})
		}
	}
	return turns, nil
}

// AddSuggestions records n newly delivered map suggestions and returns the
// session total.
func (m *Manager) AddSuggestions(ctx context.Context, sessionID string, n int) (int, error) {
	return m.store.AddSuggestions(ctx, sessionID, n)
}

// SuggestionCount returns how many map suggestions the session has received.
func (m *Manager) SuggestionCount(ctx context.Context, sessionID string) (int, error) {
	return m.store.SuggestionCount(ctx, sessionID)
}

// ClearSession evicts a session from the cache and the store.
func (m *Manager) ClearSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if err := m.store.ClearSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (m *Manager) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	return m.store.SessionExists(ctx, sessionID)
}

// ActiveSessionCount reports the number of cached sessions.
func (m *Manager) ActiveSessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) Close() error {
	if closer, ok := m.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
