// Copyright (c) 2026 AuthFlow. All rights reserved.

/*
Package auth implements the account-authentication core of the gateway.

It front-ends a hosted identity platform: credentials, profiles, activity
logs, and device sessions all live remotely, and this package wraps that
remote surface behind a uniform, panic-free result shape.

Architecture:

  - Facade: Per-gateway-session wrapper over the remote backend client.
    Every operation returns Result[T]; remote rejections surface their
    backend message verbatim, transport faults collapse to a fixed
    per-operation message with the cause logged server-side only.
  - Policy: Pure password evaluation (password.go) and synchronous form
    validation (forms.go). Validation failures never reach the network.
  - Sessions: Redis-backed gateway session store (store_redis.go), the
    server-side stand-in for a browser tab's token storage.
  - Events: Typed auth-state broadcast with unsubscribe handles
    (events.go), consumed by the identity registry.
*/
package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Adititesting969/authflow-6448/internal/backend"
	"github.com/Adititesting969/authflow-6448/internal/platform/ctxutil"
	"github.com/Adititesting969/authflow-6448/pkg/pointer"
	uuidutil "github.com/Adititesting969/authflow-6448/pkg/uuid"
)

// # Result Shape

// Result is the uniform outcome of every facade operation. Exactly one of
// Data and Error is meaningful: Error is user-facing copy, never a raw
// transport detail.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ok wraps data in a successful result.
func ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// fail wraps a user-facing message in a failed result.
func fail[T any](message string) Result[T] {
	return Result[T]{Success: false, Error: message}
}

// # Generic Failure Copy
//
// One fixed transport-failure message per operation. Remote rejections are
// never replaced by these; only faults the user cannot act on are.

const (
	msgSignInFailed         = "An unexpected error occurred during sign in."
	msgSignUpFailed         = "An unexpected error occurred during sign up."
	msgSignOutFailed        = "An unexpected error occurred during sign out."
	msgGetSessionFailed     = "An unexpected error occurred getting session."
	msgGetProfileFailed     = "An unexpected error occurred getting user profile."
	msgUpdateProfileFailed  = "An unexpected error occurred updating profile."
	msgResetPasswordFailed  = "An unexpected error occurred sending reset email."
	msgGetActivitiesFailed  = "An unexpected error occurred getting activities."
	msgLogActivityFailed    = "Failed to log activity."
	msgGetSessionsFailed    = "An unexpected error occurred getting sessions."
	msgUpdatePasswordFailed = "An unexpected error occurred updating password."
	msgIsAdminFailed        = "An unexpected error occurred checking admin status."
)

// MsgNotAuthenticated is returned by operations that need a bound session
// when the facade has none. Exported so callers can map it to a 401.
const MsgNotAuthenticated = "User not authenticated"

// # Factory

// Factory builds facades with shared dependencies. The HTTP layer creates a
// short-lived facade per request; the identity registry keeps one per
// gateway session.
type Factory struct {
	backend backend.Client
	events  *Broadcaster
	logger  *slog.Logger
}

// NewFactory constructs a facade [Factory].
func NewFactory(client backend.Client, events *Broadcaster, logger *slog.Logger) *Factory {
	return &Factory{backend: client, events: events, logger: logger}
}

// New returns an unbound facade (no active remote session).
func (factory *Factory) New() *Facade {
	return &Facade{
		backend: factory.backend,
		events:  factory.events,
		logger:  factory.logger,
	}
}

// ForSession returns a facade bound to a stored gateway session.
func (factory *Factory) ForSession(sessionToken string, stored *StoredSession) *Facade {
	facade := factory.New()
	facade.sessionToken = sessionToken
	facade.accessToken = stored.AccessToken
	facade.user = &backend.User{ID: stored.UserID, Email: stored.Email}
	return facade
}

// Events exposes the shared auth-state broadcaster.
func (factory *Factory) Events() *Broadcaster {
	return factory.events
}

// # Facade

// Facade is the per-gateway-session entry point for every account
// operation. It owns the bound remote session state; all state changes
// happen through its methods.
//
// # Concurrency
//
// Safe for concurrent use; the bound session is mutex-guarded.
type Facade struct {
	backend backend.Client
	events  *Broadcaster
	logger  *slog.Logger

	mu           sync.Mutex
	sessionToken string
	accessToken  string
	user         *backend.User
}

// snapshot returns the bound token and user under the lock.
func (facade *Facade) snapshot() (string, *backend.User) {
	facade.mu.Lock()
	defer facade.mu.Unlock()
	return facade.accessToken, facade.user
}

// bind replaces the bound remote session.
func (facade *Facade) bind(session *backend.Session) {
	facade.mu.Lock()
	defer facade.mu.Unlock()
	facade.accessToken = session.AccessToken
	user := session.User
	facade.user = &user
}

// clear drops the bound remote session.
func (facade *Facade) clear() {
	facade.mu.Lock()
	defer facade.mu.Unlock()
	facade.accessToken = ""
	facade.user = nil
}

// CurrentUser returns the bound identity, or nil when signed out.
func (facade *Facade) CurrentUser() *backend.User {
	_, user := facade.snapshot()
	return user
}

// SessionToken returns the gateway session token this facade is bound to.
func (facade *Facade) SessionToken() string {
	facade.mu.Lock()
	defer facade.mu.Unlock()
	return facade.sessionToken
}

// BindSessionToken attaches the gateway session token minted at sign-in so
// subsequent events carry it.
func (facade *Facade) BindSessionToken(token string) {
	facade.mu.Lock()
	defer facade.mu.Unlock()
	facade.sessionToken = token
}

/*
normalize maps an operation failure onto the user-facing error taxonomy.

A [backend.RemoteError] carries a provider-written message and is surfaced
verbatim. Anything else is a fault the user cannot act on: the cause is
logged and replaced with the operation's fixed message.
*/
func (facade *Facade) normalize(ctx context.Context, operation, genericMessage string, err error) string {
	var remoteErr *backend.RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Message
	}

	ctxutil.GetLogger(ctx).ErrorContext(ctx, "account operation failed",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	return genericMessage
}

// recoverTo converts a panic in an operation into a failed result. Deferred
// by every public operation so no fault escapes the result shape.
func recoverTo[T any](facade *Facade, result *Result[T], operation, genericMessage string) {
	if recovered := recover(); recovered != nil {
		facade.logger.Error("account operation panicked",
			slog.String("operation", operation),
			slog.Any("panic", recovered),
		)
		*result = fail[T](genericMessage)
	}
}

// # Sign In / Sign Up / Sign Out

/*
SignIn exchanges credentials for a remote session and binds it.

Description: On success the facade binds the session, broadcasts SIGNED_IN,
and records a best-effort login activity. A failed activity write never
fails the sign-in.

Parameters:
  - ctx: context.Context
  - email: Submitted email, already form-validated.
  - password: Submitted password, already form-validated.

Returns:
  - Result[*backend.Session]: The remote session, or the rejection/fault copy.
*/
func (facade *Facade) SignIn(ctx context.Context, email, password string) (result Result[*backend.Session]) {
	defer recoverTo(facade, &result, "sign_in", msgSignInFailed)

	session, err := facade.backend.SignInWithPassword(ctx, email, password)
	if err != nil {
		return fail[*backend.Session](facade.normalize(ctx, "sign_in", msgSignInFailed, err))
	}

	facade.bind(session)
	facade.events.Publish(Event{Kind: EventSignedIn, SessionToken: facade.SessionToken(), User: facade.CurrentUser()})

	facade.logActivityBestEffort(ctx, ActivityTypeLogin, ActivityTitleLogin, ActivityDescLogin)

	return ok(session)
}

/*
SignUp registers a new account.

Description: Seeds the profile display name from the submitted full name,
falling back to the email's local part, with the default member role. When
the provider auto-confirms, the returned session is bound exactly as in
[Facade.SignIn]; when confirmation is pending, Data is nil and the caller
stays signed out.

Parameters:
  - ctx: context.Context
  - email: Submitted email, already form-validated.
  - password: Submitted password, already policy-checked.
  - fullName: Submitted display name; may be empty.

Returns:
  - Result[*backend.Session]: The session, nil for pending confirmation,
    or the rejection/fault copy.
*/
func (facade *Facade) SignUp(ctx context.Context, email, password, fullName string) (result Result[*backend.Session]) {
	defer recoverTo(facade, &result, "sign_up", msgSignUpFailed)

	session, err := facade.backend.SignUp(ctx, email, password, backend.SignUpMetadata{
		FullName: seedFullName(fullName, email),
		Role:     DefaultRole,
	})
	if err != nil {
		return fail[*backend.Session](facade.normalize(ctx, "sign_up", msgSignUpFailed, err))
	}

	if session != nil {
		facade.bind(session)
		facade.events.Publish(Event{Kind: EventSignedIn, SessionToken: facade.SessionToken(), User: facade.CurrentUser()})
	}

	return ok(session)
}

/*
SignOut ends the bound remote session.

Description: Fail-open by design: the logout activity is recorded before
the remote call, and the local binding is cleared and SIGNED_OUT broadcast
no matter what the remote answers. Success reports the remote outcome only;
after SignOut returns, the caller is signed out locally either way.

Returns:
  - Result[bool]: true on a clean remote sign-out.
*/
func (facade *Facade) SignOut(ctx context.Context) (result Result[bool]) {
	defer recoverTo(facade, &result, "sign_out", msgSignOutFailed)

	accessToken, _ := facade.snapshot()

	// Record the activity first: once the remote session dies this token
	// can no longer write to the log.
	if accessToken != "" {
		facade.logActivityBestEffort(ctx, ActivityTypeLogout, ActivityTitleLogout, ActivityDescLogout)
	}

	var remoteErr error
	if accessToken != "" {
		remoteErr = facade.backend.SignOut(ctx, accessToken)
	}

	facade.clear()
	facade.events.Publish(Event{Kind: EventSignedOut, SessionToken: facade.SessionToken()})

	if remoteErr != nil {
		return fail[bool](facade.normalize(ctx, "sign_out", msgSignOutFailed, remoteErr))
	}
	return ok(true)
}

// # Session & Profile

/*
GetSession reports the identity the bound access token currently resolves to.

Description: An unbound facade or a token the provider no longer accepts is
a signed-out state, not an error; Data is nil in both cases and the stale
binding is dropped.

Returns:
  - Result[*backend.User]: The current identity, or nil when signed out.
*/
func (facade *Facade) GetSession(ctx context.Context) (result Result[*backend.User]) {
	defer recoverTo(facade, &result, "get_session", msgGetSessionFailed)

	accessToken, _ := facade.snapshot()
	if accessToken == "" {
		return ok[*backend.User](nil)
	}

	user, err := facade.backend.GetUser(ctx, accessToken)
	if err != nil {
		var remoteErr *backend.RemoteError
		if errors.As(err, &remoteErr) {
			facade.clear()
			return ok[*backend.User](nil)
		}
		return fail[*backend.User](facade.normalize(ctx, "get_session", msgGetSessionFailed, err))
	}

	facade.mu.Lock()
	facade.user = user
	facade.mu.Unlock()

	return ok(user)
}

/*
GetUserProfile reads the bound user's profile row.

Returns:
  - Result[*backend.Profile]: The profile, or the rejection/fault copy.
*/
func (facade *Facade) GetUserProfile(ctx context.Context) (result Result[*backend.Profile]) {
	defer recoverTo(facade, &result, "get_profile", msgGetProfileFailed)

	accessToken, user := facade.snapshot()
	if user == nil {
		return fail[*backend.Profile](MsgNotAuthenticated)
	}

	profile, err := facade.backend.SelectProfile(ctx, accessToken, user.ID)
	if err != nil {
		return fail[*backend.Profile](facade.normalize(ctx, "get_profile", msgGetProfileFailed, err))
	}
	return ok(profile)
}

/*
UpdateUserProfile applies a partial update to the bound user's profile row.

Description: Stamps updated_at on every write, records a best-effort
profile activity, and broadcasts USER_UPDATED on success.

Parameters:
  - ctx: context.Context
  - changes: Column name to new value; callers normalize values first.

Returns:
  - Result[*backend.Profile]: The updated profile.
*/
func (facade *Facade) UpdateUserProfile(ctx context.Context, changes map[string]any) (result Result[*backend.Profile]) {
	defer recoverTo(facade, &result, "update_profile", msgUpdateProfileFailed)

	accessToken, user := facade.snapshot()
	if user == nil {
		return fail[*backend.Profile](MsgNotAuthenticated)
	}

	stamped := make(map[string]any, len(changes)+1)
	for column, value := range changes {
		stamped[column] = value
	}
	stamped["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	profile, err := facade.backend.UpdateProfile(ctx, accessToken, user.ID, stamped)
	if err != nil {
		return fail[*backend.Profile](facade.normalize(ctx, "update_profile", msgUpdateProfileFailed, err))
	}

	facade.logActivityBestEffort(ctx, ActivityTypeProfile, ActivityTitleProfile, ActivityDescProfile)
	facade.events.Publish(Event{Kind: EventUserUpdated, SessionToken: facade.SessionToken(), User: user})

	return ok(profile)
}

// # Password Operations

/*
UpdatePassword sets a new password on the bound account.

Description: Records a best-effort security activity and broadcasts
USER_UPDATED on success. The new password is policy-checked by the caller
before it gets here.

Returns:
  - Result[bool]: true on success.
*/
func (facade *Facade) UpdatePassword(ctx context.Context, newPassword string) (result Result[bool]) {
	defer recoverTo(facade, &result, "update_password", msgUpdatePasswordFailed)

	accessToken, user := facade.snapshot()
	if user == nil {
		return fail[bool](MsgNotAuthenticated)
	}

	if err := facade.backend.UpdateUserPassword(ctx, accessToken, newPassword); err != nil {
		return fail[bool](facade.normalize(ctx, "update_password", msgUpdatePasswordFailed, err))
	}

	facade.logActivityBestEffort(ctx, ActivityTypeSecurity, ActivityTitleSecurity, ActivityDescSecurity)
	facade.events.Publish(Event{Kind: EventUserUpdated, SessionToken: facade.SessionToken(), User: user})

	return ok(true)
}

/*
ResetPassword triggers the out-of-band recovery email.

Description: Works without a bound session; the provider decides whether
the address exists and never tells us.

Parameters:
  - ctx: context.Context
  - email: Recovery address.
  - redirectTo: Where the emailed link lands; empty uses the provider default.

Returns:
  - Result[bool]: true when the request was accepted.
*/
func (facade *Facade) ResetPassword(ctx context.Context, email, redirectTo string) (result Result[bool]) {
	defer recoverTo(facade, &result, "reset_password", msgResetPasswordFailed)

	if err := facade.backend.ResetPasswordForEmail(ctx, email, redirectTo); err != nil {
		return fail[bool](facade.normalize(ctx, "reset_password", msgResetPasswordFailed, err))
	}
	return ok(true)
}

// # Activity & Sessions

/*
GetUserActivities reads the bound user's most recent activities, newest first.

Parameters:
  - ctx: context.Context
  - limit: Maximum rows; non-positive uses [DefaultActivityLimit].

Returns:
  - Result[[]backend.Activity]: The activity rows.
*/
func (facade *Facade) GetUserActivities(ctx context.Context, limit int) (result Result[[]backend.Activity]) {
	defer recoverTo(facade, &result, "get_activities", msgGetActivitiesFailed)

	accessToken, user := facade.snapshot()
	if user == nil {
		return fail[[]backend.Activity](MsgNotAuthenticated)
	}

	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	activities, err := facade.backend.SelectActivities(ctx, accessToken, user.ID, limit)
	if err != nil {
		return fail[[]backend.Activity](facade.normalize(ctx, "get_activities", msgGetActivitiesFailed, err))
	}
	return ok(activities)
}

/*
GetUserSessions reads the bound user's active device sessions, newest first.

Returns:
  - Result[[]backend.SessionRecord]: The active session rows.
*/
func (facade *Facade) GetUserSessions(ctx context.Context) (result Result[[]backend.SessionRecord]) {
	defer recoverTo(facade, &result, "get_sessions", msgGetSessionsFailed)

	accessToken, user := facade.snapshot()
	if user == nil {
		return fail[[]backend.SessionRecord](MsgNotAuthenticated)
	}

	sessions, err := facade.backend.SelectActiveSessions(ctx, accessToken, user.ID)
	if err != nil {
		return fail[[]backend.SessionRecord](facade.normalize(ctx, "get_sessions", msgGetSessionsFailed, err))
	}
	return ok(sessions)
}

/*
LogActivity appends one entry to the bound user's activity log.

Description: Fire-and-forget semantics: failures surface only through the
returned result, never as errors, so callers can ignore the outcome.

Parameters:
  - ctx: context.Context
  - activityType: One of the ActivityType* vocabulary values.
  - title: Short event title.
  - description: Optional longer description; empty omits it.

Returns:
  - Result[bool]: true when the entry was written.
*/
func (facade *Facade) LogActivity(ctx context.Context, activityType, title, description string) (result Result[bool]) {
	defer recoverTo(facade, &result, "log_activity", msgLogActivityFailed)

	accessToken, user := facade.snapshot()
	if user == nil {
		return fail[bool](MsgNotAuthenticated)
	}

	input := backend.ActivityInput{
		ActivityType: activityType,
		Title:        title,
		// Correlates the activity row with gateway request logs.
		Metadata: map[string]any{"event_id": uuidutil.New()},
	}
	if description != "" {
		input.Description = pointer.To(description)
	}

	if err := facade.backend.LogActivity(ctx, accessToken, input); err != nil {
		return fail[bool](facade.normalize(ctx, "log_activity", msgLogActivityFailed, err))
	}
	return ok(true)
}

// logActivityBestEffort records an activity and deliberately drops the result.
func (facade *Facade) logActivityBestEffort(ctx context.Context, activityType, title, description string) {
	if outcome := facade.LogActivity(ctx, activityType, title, description); !outcome.Success {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "activity log write skipped",
			slog.String("activity_type", activityType),
		)
	}
}

// # Authorization

/*
IsAdmin asks the backend whether the bound user holds the admin role.

Returns:
  - Result[bool]: The remote answer; false with an error message on failure.
*/
func (facade *Facade) IsAdmin(ctx context.Context) (result Result[bool]) {
	defer recoverTo(facade, &result, "is_admin", msgIsAdminFailed)

	accessToken, user := facade.snapshot()
	if user == nil {
		return fail[bool](MsgNotAuthenticated)
	}

	isAdmin, err := facade.backend.IsAdmin(ctx, accessToken)
	if err != nil {
		return fail[bool](facade.normalize(ctx, "is_admin", msgIsAdminFailed, err))
	}
	return ok(isAdmin)
}
