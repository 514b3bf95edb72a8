// Copyright (c) 2026 AuthFlow. All rights reserved.

/*
Package identity maintains the per-session identity state of the gateway.

Each signed-in client gets one [Context]: a single-writer reactive cell
holding the current user, their profile, a loading flag, and the last auth
error. The cell hydrates itself from the remote session, then stays current
by subscribing to the auth facade's event stream until closed.

Architecture:

  - Context: The reactive cell. All writes funnel through its methods; reads
    return copies.
  - Registry: One Context per gateway session token, evicted on sign-out
    events (registry.go).
*/
package identity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Adititesting969/authflow-6448/internal/backend"
	"github.com/Adititesting969/authflow-6448/internal/users/auth"
)

// State is a point-in-time snapshot of a session's identity.
type State struct {
	CurrentUser    *backend.User
	CurrentProfile *backend.Profile
	Loading        bool
	AuthError      string
}

// Context is the reactive identity cell for one gateway session.
//
// # Concurrency
//
// Safe for concurrent reads; there is one logical writer per cell (the
// registry) plus the event subscription, serialized by the mutex.
type Context struct {
	facade *auth.Facade
	logger *slog.Logger

	mu           sync.Mutex
	state        State
	closed       bool
	subscription *auth.Subscription
}

/*
NewContext creates the identity cell for a facade and hydrates it.

Description: Reads the remote session; when one exists, the profile is
hydrated as well. The cell then subscribes to the facade's event stream and
tracks sign-in, sign-out, and user-update events for its own session until
Close. Hydration failures land in AuthError, never as Go errors.

Parameters:
  - ctx: Bounds the initial hydration round-trips.
  - facade: The session-bound auth facade the cell delegates to.
  - events: The shared auth-state broadcaster.
  - logger: Structured logger.

Returns:
  - *Context: The hydrated cell.
*/
func NewContext(ctx context.Context, facade *auth.Facade, events *auth.Broadcaster, logger *slog.Logger) *Context {
	identity := &Context{
		facade: facade,
		logger: logger,
		state:  State{Loading: true},
	}

	identity.subscription = events.Subscribe(identity.handleEvent)
	identity.hydrate(ctx)

	return identity
}

// hydrate performs the initial session and profile load.
func (identity *Context) hydrate(ctx context.Context) {
	defer identity.setLoading(false)

	sessionResult := identity.facade.GetSession(ctx)
	if !sessionResult.Success {
		identity.setAuthError(sessionResult.Error)
		return
	}
	if sessionResult.Data == nil {
		return
	}

	identity.setUser(sessionResult.Data)
	identity.refreshProfile(ctx)
}

// refreshProfile reloads the profile for the current user. Profile load
// failures leave the previous profile in place; the user stays signed in.
func (identity *Context) refreshProfile(ctx context.Context) {
	profileResult := identity.facade.GetUserProfile(ctx)
	if !profileResult.Success {
		identity.logger.Warn("identity profile refresh failed",
			slog.String("error", profileResult.Error),
		)
		return
	}

	identity.mu.Lock()
	defer identity.mu.Unlock()
	if identity.closed {
		return
	}
	identity.state.CurrentProfile = profileResult.Data
}

// handleEvent applies an auth-state event to the cell. Events for other
// sessions are ignored. After Close, sign-in and update events are dropped
// so nothing resurrects a dead cell; sign-out still empties it, because the
// registry may close the cell while the same sign-out event is in flight.
func (identity *Context) handleEvent(event auth.Event) {
	if event.SessionToken != identity.facade.SessionToken() {
		return
	}

	identity.mu.Lock()

	if event.Kind == auth.EventSignedOut {
		identity.state.CurrentUser = nil
		identity.state.CurrentProfile = nil
		identity.mu.Unlock()
		return
	}

	if identity.closed {
		identity.mu.Unlock()
		return
	}

	switch event.Kind {
	case auth.EventSignedIn:
		identity.state.CurrentUser = event.User
		identity.state.AuthError = ""
		identity.mu.Unlock()
		identity.refreshProfile(context.Background())

	case auth.EventUserUpdated:
		identity.mu.Unlock()
		identity.refreshProfile(context.Background())

	default:
		identity.mu.Unlock()
	}
}

// # State Accessors

// State returns a snapshot of the cell.
func (identity *Context) State() State {
	identity.mu.Lock()
	defer identity.mu.Unlock()
	return identity.state
}

// Authenticated reports whether hydration finished with a signed-in user.
func (identity *Context) Authenticated() bool {
	identity.mu.Lock()
	defer identity.mu.Unlock()
	return !identity.state.Loading && identity.state.CurrentUser != nil
}

// Facade exposes the underlying session-bound facade.
func (identity *Context) Facade() *auth.Facade {
	return identity.facade
}

/*
Profile returns the current profile, hydrating it lazily when the cell has
a user but the profile has not loaded yet.

Returns:
  - *backend.Profile: The profile, or nil when signed out or unavailable.
*/
func (identity *Context) Profile(ctx context.Context) *backend.Profile {
	identity.mu.Lock()
	profile := identity.state.CurrentProfile
	user := identity.state.CurrentUser
	identity.mu.Unlock()

	if profile != nil || user == nil {
		return profile
	}

	identity.refreshProfile(ctx)

	identity.mu.Lock()
	defer identity.mu.Unlock()
	return identity.state.CurrentProfile
}

// # Delegated Operations

// SignIn delegates to the facade and records the outcome in the cell. The
// previous auth error is cleared on every new attempt.
func (identity *Context) SignIn(ctx context.Context, email, password string) auth.Result[*backend.Session] {
	identity.setAuthError("")

	result := identity.facade.SignIn(ctx, email, password)
	if !result.Success {
		identity.setAuthError(result.Error)
	}
	return result
}

// SignUp delegates to the facade and records the outcome in the cell.
func (identity *Context) SignUp(ctx context.Context, email, password, fullName string) auth.Result[*backend.Session] {
	identity.setAuthError("")

	result := identity.facade.SignUp(ctx, email, password, fullName)
	if !result.Success {
		identity.setAuthError(result.Error)
	}
	return result
}

// SignOut delegates to the facade. The cell empties through the resulting
// SIGNED_OUT event, fail-open like the facade itself.
func (identity *Context) SignOut(ctx context.Context) auth.Result[bool] {
	identity.setAuthError("")

	result := identity.facade.SignOut(ctx)
	if !result.Success {
		identity.setAuthError(result.Error)
	}
	return result
}

// # Lifecycle

// Close tears down the cell. Events arriving afterwards are dropped.
// Idempotent.
func (identity *Context) Close() {
	identity.mu.Lock()
	alreadyClosed := identity.closed
	identity.closed = true
	identity.mu.Unlock()

	if !alreadyClosed {
		identity.subscription.Unsubscribe()
	}
}

// # Internal Setters

func (identity *Context) setLoading(loading bool) {
	identity.mu.Lock()
	defer identity.mu.Unlock()
	if identity.closed {
		return
	}
	identity.state.Loading = loading
}

func (identity *Context) setUser(user *backend.User) {
	identity.mu.Lock()
	defer identity.mu.Unlock()
	if identity.closed {
		return
	}
	identity.state.CurrentUser = user
}

func (identity *Context) setAuthError(message string) {
	identity.mu.Lock()
	defer identity.mu.Unlock()
	if identity.closed {
		return
	}
	identity.state.AuthError = message
}
