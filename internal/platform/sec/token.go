// Copyright (c) 2026 AuthFlow. All rights reserved.

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// # Opaque Session Tokens

// GenerateSecureToken returns a hex-encoded random token of byteLength bytes.
//
// Used for the opaque gateway session cookie. The token itself carries no
// claims; it is only a lookup key into the Redis session store.
func GenerateSecureToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a token.
//
// Raw session tokens never touch Redis keys; only their digests do, so a
// leaked keyspace listing cannot be replayed as live sessions.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
