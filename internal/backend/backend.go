// Copyright (c) 2026 AuthFlow. All rights reserved.

/*
Package backend is the request/response contract with the hosted identity platform.

AuthFlow owns no persistence: authentication, profiles, activity logs, and
device sessions all live behind a managed auth + database + RPC service.
This package defines the wire-level surface the rest of the gateway consumes
(a GoTrue/PostgREST-style HTTP API) and the one concrete implementation of it.

Architecture:

  - Client: The abstract contract. The auth facade depends on this interface
    only, so tests run against an in-memory fake.
  - HTTPClient: The production implementation (see http.go).
  - RemoteError: A structured backend rejection whose message is surfaced to
    users verbatim; every other failure is a transport fault.
*/
package backend

import (
	"context"
	"time"
)

// # Wire Entities

// User is the identity record owned by the remote auth provider.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the token bundle issued on sign-in/sign-up.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Profile is the user_profiles row, one-to-one with [User].
type Profile struct {
	ID          string     `json:"id"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Activity is an append-only user_activities row.
type Activity struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	ActivityType string         `json:"activity_type"`
	Title        string         `json:"title"`
	Description  *string        `json:"description"`
	Metadata     map[string]any `json:"metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}

// SessionRecord is a user_sessions row describing a device/browser session.
type SessionRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	IsActive  bool      `json:"is_active"`
	UserAgent string    `json:"user_agent,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// # Inputs

// SignUpMetadata seeds the profile row the provider creates on registration.
type SignUpMetadata struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// ActivityInput is the payload for the log_user_activity remote procedure.
type ActivityInput struct {
	ActivityType string         `json:"activity_type_param"`
	Title        string         `json:"title_param"`
	Description  *string        `json:"description_param"`
	Metadata     map[string]any `json:"metadata_param"`
}

// # Contract

// Client is the full surface of the remote identity platform the gateway uses.
//
// User-scoped calls carry the bearer access token of the acting session; the
// provider enforces row-level ownership on its side.
type Client interface {
	// SignInWithPassword exchanges credentials for a token bundle.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)

	// SignUp registers a new account with profile seed metadata.
	// Depending on provider settings the returned session may be nil
	// (email confirmation required) — callers must tolerate that.
	SignUp(ctx context.Context, email, password string, metadata SignUpMetadata) (*Session, error)

	// SignOut invalidates the remote session behind the access token.
	SignOut(ctx context.Context, accessToken string) error

	// GetUser returns the identity the access token currently resolves to.
	GetUser(ctx context.Context, accessToken string) (*User, error)

	// UpdateUserPassword sets a new password on the authenticated account.
	UpdateUserPassword(ctx context.Context, accessToken, newPassword string) error

	// ResetPasswordForEmail triggers the out-of-band recovery email.
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error

	// SelectProfile reads the user_profiles row for the given user.
	SelectProfile(ctx context.Context, accessToken, userID string) (*Profile, error)

	// UpdateProfile applies a partial update to the user_profiles row and
	// returns the updated representation.
	UpdateProfile(ctx context.Context, accessToken, userID string, changes map[string]any) (*Profile, error)

	// SelectActivities returns the most recent activities, newest first.
	SelectActivities(ctx context.Context, accessToken, userID string, limit int) ([]Activity, error)

	// SelectActiveSessions returns active device sessions, newest first.
	SelectActiveSessions(ctx context.Context, accessToken, userID string) ([]SessionRecord, error)

	// LogActivity invokes the log_user_activity remote procedure.
	LogActivity(ctx context.Context, accessToken string, input ActivityInput) error

	// IsAdmin invokes the is_admin remote procedure.
	IsAdmin(ctx context.Context, accessToken string) (bool, error)
}

// # Failure Taxonomy

// RemoteError is a structured rejection from the backend (invalid
// credentials, duplicate email, constraint violations). Its message is
// written by the provider and is safe to surface to end users verbatim.
//
// Anything that is NOT a RemoteError (connection refused, timeouts,
// malformed bodies) is a transport fault and must be replaced with a generic
// per-operation message before it reaches a user.
type RemoteError struct {
	// StatusCode is the HTTP status the backend answered with.
	StatusCode int
	// Message is the provider's human-readable rejection reason.
	Message string
}

// Error implements the error interface.
func (e *RemoteError) Error() string { return e.Message }
