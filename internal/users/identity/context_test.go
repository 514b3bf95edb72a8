// Copyright (c) 2026 AuthFlow. All rights reserved.

package identity

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adititesting969/authflow-6448/internal/backend"
	"github.com/Adititesting969/authflow-6448/internal/users/auth"
)

// stubBackend is a happy-path [backend.Client] with overridable sign-in
// and session validation outcomes.
type stubBackend struct {
	signInErr  error
	getUserErr error
	profile    backend.Profile
}

func (stub *stubBackend) user() backend.User {
	return backend.User{ID: "user-1", Email: "jane@example.com"}
}

func (stub *stubBackend) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	if stub.signInErr != nil {
		return nil, stub.signInErr
	}
	return &backend.Session{AccessToken: "token-abc", User: stub.user()}, nil
}

func (stub *stubBackend) SignUp(ctx context.Context, email, password string, metadata backend.SignUpMetadata) (*backend.Session, error) {
	return &backend.Session{AccessToken: "token-abc", User: stub.user()}, nil
}

func (stub *stubBackend) SignOut(ctx context.Context, accessToken string) error { return nil }

func (stub *stubBackend) GetUser(ctx context.Context, accessToken string) (*backend.User, error) {
	if stub.getUserErr != nil {
		return nil, stub.getUserErr
	}
	user := stub.user()
	return &user, nil
}

func (stub *stubBackend) UpdateUserPassword(ctx context.Context, accessToken, newPassword string) error {
	return nil
}

func (stub *stubBackend) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	return nil
}

func (stub *stubBackend) SelectProfile(ctx context.Context, accessToken, userID string) (*backend.Profile, error) {
	profile := stub.profile
	if profile.ID == "" {
		profile = backend.Profile{ID: userID, FullName: "Jane Doe", Email: "jane@example.com"}
	}
	return &profile, nil
}

func (stub *stubBackend) UpdateProfile(ctx context.Context, accessToken, userID string, changes map[string]any) (*backend.Profile, error) {
	return &backend.Profile{ID: userID}, nil
}

func (stub *stubBackend) SelectActivities(ctx context.Context, accessToken, userID string, limit int) ([]backend.Activity, error) {
	return nil, nil
}

func (stub *stubBackend) SelectActiveSessions(ctx context.Context, accessToken, userID string) ([]backend.SessionRecord, error) {
	return nil, nil
}

func (stub *stubBackend) LogActivity(ctx context.Context, accessToken string, input backend.ActivityInput) error {
	return nil
}

func (stub *stubBackend) IsAdmin(ctx context.Context, accessToken string) (bool, error) {
	return false, nil
}

var _ backend.Client = (*stubBackend)(nil)

const testSessionToken = "gateway-session-token-1"

func testFactory(stub *stubBackend) *auth.Factory {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewFactory(stub, auth.NewBroadcaster(), logger)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func storedSession() *auth.StoredSession {
	return &auth.StoredSession{
		AccessToken: "token-abc",
		UserID:      "user-1",
		Email:       "jane@example.com",
	}
}

// # Context

func TestContext_HydratesSignedInSession(t *testing.T) {
	factory := testFactory(&stubBackend{})
	facade := factory.ForSession(testSessionToken, storedSession())

	identity := NewContext(context.Background(), facade, factory.Events(), testLogger())
	defer identity.Close()

	assert.True(t, identity.Authenticated())

	state := identity.State()
	assert.False(t, state.Loading)
	require.NotNil(t, state.CurrentUser)
	assert.Equal(t, "user-1", state.CurrentUser.ID)
	require.NotNil(t, state.CurrentProfile)
	assert.Equal(t, "Jane Doe", state.CurrentProfile.FullName)
	assert.Empty(t, state.AuthError)
}

func TestContext_UnboundSessionIsSignedOut(t *testing.T) {
	factory := testFactory(&stubBackend{})
	facade := factory.New()
	facade.BindSessionToken(testSessionToken)

	identity := NewContext(context.Background(), facade, factory.Events(), testLogger())
	defer identity.Close()

	assert.False(t, identity.Authenticated())
	assert.Empty(t, identity.State().AuthError)
}

func TestContext_ExpiredTokenIsSignedOutNotError(t *testing.T) {
	stub := &stubBackend{getUserErr: &backend.RemoteError{
		StatusCode: http.StatusUnauthorized,
		Message:    "JWT expired",
	}}
	factory := testFactory(stub)
	facade := factory.ForSession(testSessionToken, storedSession())

	identity := NewContext(context.Background(), facade, factory.Events(), testLogger())
	defer identity.Close()

	assert.False(t, identity.Authenticated())
	assert.Empty(t, identity.State().AuthError)
}

func TestContext_SignInErrorRecordedAndClearedOnRetry(t *testing.T) {
	stub := &stubBackend{signInErr: &backend.RemoteError{
		StatusCode: http.StatusBadRequest,
		Message:    "Invalid login credentials",
	}}
	factory := testFactory(stub)
	facade := factory.New()
	facade.BindSessionToken(testSessionToken)

	identity := NewContext(context.Background(), facade, factory.Events(), testLogger())
	defer identity.Close()

	failed := identity.SignIn(context.Background(), "jane@example.com", "wrong")
	require.False(t, failed.Success)
	assert.Equal(t, "Invalid login credentials", identity.State().AuthError)

	stub.signInErr = nil
	succeeded := identity.SignIn(context.Background(), "jane@example.com", "Abcdef1!")
	require.True(t, succeeded.Success)

	state := identity.State()
	assert.Empty(t, state.AuthError)
	require.NotNil(t, state.CurrentUser)
	assert.Equal(t, "user-1", state.CurrentUser.ID)
}

func TestContext_SignOutEmptiesCell(t *testing.T) {
	factory := testFactory(&stubBackend{})
	facade := factory.ForSession(testSessionToken, storedSession())

	identity := NewContext(context.Background(), facade, factory.Events(), testLogger())
	defer identity.Close()
	require.True(t, identity.Authenticated())

	result := identity.SignOut(context.Background())

	require.True(t, result.Success)
	state := identity.State()
	assert.Nil(t, state.CurrentUser)
	assert.Nil(t, state.CurrentProfile)
	assert.False(t, identity.Authenticated())
}

func TestContext_DropsEventsAfterClose(t *testing.T) {
	factory := testFactory(&stubBackend{})
	facade := factory.ForSession(testSessionToken, storedSession())

	identity := NewContext(context.Background(), facade, factory.Events(), testLogger())
	require.True(t, identity.Authenticated())

	identity.Close()

	user := backend.User{ID: "user-9", Email: "late@example.com"}
	factory.Events().Publish(auth.Event{
		Kind:         auth.EventSignedIn,
		SessionToken: testSessionToken,
		User:         &user,
	})

	// The late event must not resurrect or mutate the closed cell.
	state := identity.State()
	require.NotNil(t, state.CurrentUser)
	assert.Equal(t, "user-1", state.CurrentUser.ID)
}

func TestContext_IgnoresOtherSessionsEvents(t *testing.T) {
	factory := testFactory(&stubBackend{})
	facade := factory.ForSession(testSessionToken, storedSession())

	identity := NewContext(context.Background(), facade, factory.Events(), testLogger())
	defer identity.Close()
	require.True(t, identity.Authenticated())

	factory.Events().Publish(auth.Event{
		Kind:         auth.EventSignedOut,
		SessionToken: "another-session-token",
	})

	assert.True(t, identity.Authenticated())
}

// # Registry

func TestRegistry_ReusesContextPerSession(t *testing.T) {
	factory := testFactory(&stubBackend{})
	registry := NewRegistry(factory, testLogger())
	defer registry.Close()

	first := registry.For(context.Background(), testSessionToken, storedSession())
	second := registry.For(context.Background(), testSessionToken, storedSession())

	assert.Same(t, first, second)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistry_EvictsOnSignOut(t *testing.T) {
	factory := testFactory(&stubBackend{})
	registry := NewRegistry(factory, testLogger())
	defer registry.Close()

	identity := registry.For(context.Background(), testSessionToken, storedSession())
	require.True(t, identity.Authenticated())
	require.Equal(t, 1, registry.Len())

	identity.SignOut(context.Background())

	assert.Equal(t, 0, registry.Len())
	assert.False(t, identity.Authenticated())
}
