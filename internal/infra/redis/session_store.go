package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blockchainiq/internal/app"
	"blockchainiq/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps session state in Redis so a participant can reconnect to
// any instance with ?sessionId=. Each save refreshes the TTL; idle sessions expire.
type SessionStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewSessionStore(client redis.Cmdable, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, state app.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(state.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) (app.SessionState, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return app.SessionState{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return app.SessionState{}, fmt.Errorf("load session: %w", err)
	}
	var state app.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return app.SessionState{}, fmt.Errorf("%w: %v", domain.ErrCorruptSession, err)
	}
	return state, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
