package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store backed by Redis with per-session TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
	}, nil
}

func (r *RedisStore) sessionKey(sessionID string) string {
	return fmt.Sprintf("trip:session:%s", sessionID)
}

func (r *RedisStore) LoadSession(ctx context.Context, sessionID string) (*SessionData, error) {
	key := r.sessionKey(sessionID)

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return &SessionData{
			SessionID: sessionID,
			Messages:  []Message{},
			Metadata: Metadata{
				StartedAt:    time.Now(),
				LastActivity: time.Now(),
			},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session from Redis: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse session data: %w", err)
	}
	return &session, nil
}

func (r *RedisStore) SaveMessage(ctx context.Context, sessionID, userID string, msg Message) error {
	session, err := r.LoadSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	if session.UserID == "" {
		session.UserID = userID
	}

	session.Messages = append(session.Messages, msg)
	session.Metadata.LastActivity = time.Now()
	session.Metadata.MessageCount = len(session.Messages)
	if session.Metadata.MessageCount == 1 {
		session.Metadata.StartedAt = msg.Timestamp
	}

	return r.saveSession(ctx, session)
}

// saveSession writes the session back with a fresh TTL.
func (r *RedisStore) saveSession(ctx context.Context, session *SessionData) error {
	key := r.sessionKey(session.SessionID)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session to Redis: %w", err)
	}
	return nil
}

func (r *RedisStore) GetMessages(ctx context.Context, sessionID string) ([]Message, error) {
	session, err := r.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Messages, nil
}

func (r *RedisStore) AddSuggestions(ctx context.Context, sessionID string, n int) (int, error) {
	session, err := r.LoadSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	session.Metadata.SuggestionCount += n
	session.Metadata.LastActivity = time.Now()

	if err := r.saveSession(ctx, session); err != nil {
		return 0, err
	}
	return session.Metadata.SuggestionCount, nil
}

func (r *RedisStore) SuggestionCount(ctx context.Context, sessionID string) (int, error) {
	session, err := r.LoadSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return session.Metadata.SuggestionCount, nil
}

func (r *RedisStore) ClearSession(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (r *RedisStore) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session existence: %w", err)
	}
	return exists > 0, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
