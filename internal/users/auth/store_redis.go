// Copyright (c) 2026 AuthFlow. All rights reserved.

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Adititesting969/authflow-6448/internal/platform/apperr"
	"github.com/Adititesting969/authflow-6448/internal/platform/constants"
	"github.com/Adititesting969/authflow-6448/internal/platform/sec"
)

// RedisSessionStore implements [SessionStore] on Redis.
//
// Sessions are stored as JSON under a sha256 digest of the opaque cookie
// token; expiry is delegated entirely to Redis TTLs.
type RedisSessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a Redis-backed [SessionStore].
func NewSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

var _ SessionStore = (*RedisSessionStore)(nil)

// sessionKey builds the namespaced Redis key for a raw token.
func sessionKey(token string) string {
	return constants.RedisPrefixSession + sec.HashToken(token)
}

/*
Save persists the session state under the token.

Parameters:
  - ctx: context.Context
  - token: Raw opaque cookie token.
  - session: State to store.
  - ttl: Expiry; pass the remembered TTL for remember-me sessions.

Returns:
  - error: Encoding or connectivity failures.
*/
func (store *RedisSessionStore) Save(ctx context.Context, token string, session *StoredSession, ttl time.Duration) error {
	encoded, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	if err := store.client.Set(ctx, sessionKey(token), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	return nil
}

/*
Find retrieves the session state for a token.

Description: Returns apperr.NotFound when the token is unknown or expired,
which callers treat as "signed out", not as a fault.

Parameters:
  - ctx: context.Context
  - token: Raw opaque cookie token.

Returns:
  - *StoredSession: The stored state.
  - error: apperr.NotFound or connectivity failures.
*/
func (store *RedisSessionStore) Find(ctx context.Context, token string) (*StoredSession, error) {
	encoded, err := store.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	var session StoredSession
	if err := json.Unmarshal(encoded, &session); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}

	return &session, nil
}

/*
Delete removes the session state for a token.

Parameters:
  - ctx: context.Context
  - token: Raw opaque cookie token.

Returns:
  - error: Connectivity failures. An absent token is not an error.
*/
func (store *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := store.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}

// # Middleware Adapter

// AccessToken implements the authentication middleware's session resolver:
// it maps an opaque cookie token to the remote access token behind it.
func (store *RedisSessionStore) AccessToken(ctx context.Context, token string) (string, error) {
	session, err := store.Find(ctx, token)
	if err != nil {
		return "", err
	}
	return session.AccessToken, nil
}
