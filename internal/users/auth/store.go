// Copyright (c) 2026 AuthFlow. All rights reserved.

package auth

import (
	"context"
	"time"
)

// SessionStore abstracts the gateway session storage.
//
// Tokens handed to the store are the raw opaque cookie values; every
// implementation must digest them before use so a dumped store never yields
// usable cookies.
type SessionStore interface {
	// Save persists the session under the token for the given TTL,
	// replacing any previous state.
	Save(ctx context.Context, token string, session *StoredSession, ttl time.Duration) error

	// Find returns the session for the token, or apperr.NotFound when the
	// token is unknown or expired.
	Find(ctx context.Context, token string) (*StoredSession, error)

	// Delete removes the session. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
