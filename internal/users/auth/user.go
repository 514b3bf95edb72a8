// Copyright (c) 2026 AuthFlow. All rights reserved.

package auth

import (
	"strings"
	"time"

	"github.com/Adititesting969/authflow-6448/internal/backend"
)

// # Session State

// StoredSession is the per-client state the gateway keeps in its session
// store. It is the server-side stand-in for a browser tab's token storage:
// its presence is what "already signed in" means.
type StoredSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Remembered   bool      `json:"remembered"`
	CreatedAt    time.Time `json:"created_at"`
}

// SessionSnapshot is the client-facing view of a gateway session.
type SessionSnapshot struct {
	Authenticated bool          `json:"authenticated"`
	User          *backend.User `json:"user,omitempty"`
}

// # Helpers

// timeNow is indirect for tests.
var timeNow = time.Now

// seedFullName picks the profile display name for a new registration:
// the submitted name when present, otherwise the email's local part.
func seedFullName(fullName, email string) string {
	trimmed := strings.TrimSpace(fullName)
	if trimmed != "" {
		return trimmed
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
