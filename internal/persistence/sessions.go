package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/estimate-service/internal/auth"
)

const sessionKeyPrefix = "refresh_session:"

// SessionStore keeps refresh sessions in Redis. Values expire with the
// configured refresh TTL; there is no sliding renewal.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore builds the store over an existing Redis connection.
func NewSessionStore(r *Redis, ttl time.Duration) *SessionStore {
	return &SessionStore{client: r.Client, ttl: ttl}
}

// Save persists a refresh session under the opaque id.
func (s *SessionStore) Save(ctx context.Context, id string, sess auth.RefreshSession) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode refresh session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+id, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

// Get loads a refresh session. Returns auth.ErrSessionNotFound when the id
// is unknown or expired.
func (s *SessionStore) Get(ctx context.Context, id string) (auth.RefreshSession, error) {
	var sess auth.RefreshSession
	raw, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return sess, auth.ErrSessionNotFound
	}
	if err != nil {
		return sess, fmt.Errorf("load refresh session: %w", err)
	}
	if err := json.Unmarshal(raw, &sess); err != nil {
		return sess, fmt.Errorf("decode refresh session: %w", err)
	}
	return sess, nil
}

// Delete removes a refresh session. Deleting an unknown id is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete refresh session: %w", err)
	}
	return nil
}

// TTL exposes the configured refresh lifetime for cookie expiry.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}
