package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps one redis record per live session, keyed by the token's
// jti. A token whose record is gone (logout or TTL expiry) is rejected even
// if its signature is still valid.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(jti string) string {
	return fmt.Sprintf("session:%s", jti)
}

func (s *SessionStore) Create(ctx context.Context, jti, username string) error {
	return s.client.Set(ctx, sessionKey(jti), username, s.ttl).Err()
}

func (s *SessionStore) Exists(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SessionStore) Revoke(ctx context.Context, jti string) error {
	return s.client.Del(ctx, sessionKey(jti)).Err()
}
