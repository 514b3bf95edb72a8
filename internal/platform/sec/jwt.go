// Copyright (c) 2026 AuthFlow. All rights reserved.

// Package sec provides token verification and session-token primitives.
//
// # Architecture
//
// This package isolates security-sensitive code from the domain logic.
// AuthFlow never mints identity tokens itself: access tokens are issued by
// the remote identity platform and signed with a shared project secret
// (HS256). The gateway only verifies and decodes them, which lets
// authenticated routes reconstruct the active user without a remote
// round-trip on every request.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a provider-issued access token.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Email is the account email carried by the provider token.
	Email string `json:"email"`
	// Role is the backend role ("member", "admin").
	Role string `json:"role"`
}

// UserID returns the account ID (the standard 'sub' claim).
func (c *AuthClaims) UserID() string { return c.Subject }

// TokenVerifier validates access tokens signed by the remote provider.
type TokenVerifier struct {
	secret []byte
	leeway time.Duration
}

// NewTokenVerifier creates a verifier for the project's shared JWT secret.
func NewTokenVerifier(secret string) (*TokenVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: JWT secret must not be empty")
	}
	return &TokenVerifier{
		secret: []byte(secret),
		leeway: 30 * time.Second,
	}, nil
}

// VerifyToken checks the signature and validity of an access token string.
func (verifier *TokenVerifier) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return verifier.secret, nil
	}, jwt.WithLeeway(verifier.leeway))

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}
