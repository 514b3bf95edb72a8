// Copyright (c) 2026 AuthFlow. All rights reserved.

package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adititesting969/authflow-6448/internal/backend"
)

// fakeBackend is a configurable in-memory [backend.Client]. Zero value
// answers every call successfully; tests override individual behaviors and
// inspect the recorded call order.
type fakeBackend struct {
	signInErr      error
	signUpSession  *backend.Session
	signUpErr      error
	signOutErr     error
	getUserErr     error
	logActivityErr error

	calls      []string
	activities []backend.ActivityInput
	lastUpdate map[string]any
}

func (fake *fakeBackend) record(call string) { fake.calls = append(fake.calls, call) }

func (fake *fakeBackend) session() *backend.Session {
	return &backend.Session{
		AccessToken:  "token-abc",
		RefreshToken: "refresh-abc",
		User:         backend.User{ID: "user-1", Email: "jane@example.com"},
	}
}

func (fake *fakeBackend) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	fake.record("sign_in")
	if fake.signInErr != nil {
		return nil, fake.signInErr
	}
	return fake.session(), nil
}

func (fake *fakeBackend) SignUp(ctx context.Context, email, password string, metadata backend.SignUpMetadata) (*backend.Session, error) {
	fake.record("sign_up:" + metadata.FullName + ":" + metadata.Role)
	if fake.signUpErr != nil {
		return nil, fake.signUpErr
	}
	return fake.signUpSession, nil
}

func (fake *fakeBackend) SignOut(ctx context.Context, accessToken string) error {
	fake.record("sign_out")
	return fake.signOutErr
}

func (fake *fakeBackend) GetUser(ctx context.Context, accessToken string) (*backend.User, error) {
	fake.record("get_user")
	if fake.getUserErr != nil {
		return nil, fake.getUserErr
	}
	user := fake.session().User
	return &user, nil
}

func (fake *fakeBackend) UpdateUserPassword(ctx context.Context, accessToken, newPassword string) error {
	fake.record("update_password")
	return nil
}

func (fake *fakeBackend) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	fake.record("reset_password")
	return nil
}

func (fake *fakeBackend) SelectProfile(ctx context.Context, accessToken, userID string) (*backend.Profile, error) {
	fake.record("select_profile")
	return &backend.Profile{ID: userID, FullName: "Jane Doe", Email: "jane@example.com", Role: "member"}, nil
}

func (fake *fakeBackend) UpdateProfile(ctx context.Context, accessToken, userID string, changes map[string]any) (*backend.Profile, error) {
	fake.record("update_profile")
	fake.lastUpdate = changes
	return &backend.Profile{ID: userID, FullName: "Jane Doe"}, nil
}

func (fake *fakeBackend) SelectActivities(ctx context.Context, accessToken, userID string, limit int) ([]backend.Activity, error) {
	fake.record("select_activities")
	return nil, nil
}

func (fake *fakeBackend) SelectActiveSessions(ctx context.Context, accessToken, userID string) ([]backend.SessionRecord, error) {
	fake.record("select_sessions")
	return nil, nil
}

func (fake *fakeBackend) LogActivity(ctx context.Context, accessToken string, input backend.ActivityInput) error {
	fake.record("log_activity:" + input.ActivityType)
	if fake.logActivityErr != nil {
		return fake.logActivityErr
	}
	fake.activities = append(fake.activities, input)
	return nil
}

func (fake *fakeBackend) IsAdmin(ctx context.Context, accessToken string) (bool, error) {
	fake.record("is_admin")
	return false, nil
}

var _ backend.Client = (*fakeBackend)(nil)

func newTestFactory(fake *fakeBackend) *Factory {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFactory(fake, NewBroadcaster(), logger)
}

func signedInFacade(fake *fakeBackend) *Facade {
	facade := newTestFactory(fake).New()
	facade.bind(fake.session())
	return facade
}

// # Sign In

func TestFacade_SignIn_Success(t *testing.T) {
	fake := &fakeBackend{}
	factory := newTestFactory(fake)
	facade := factory.New()

	var events []EventKind
	subscription := factory.Events().Subscribe(func(event Event) {
		events = append(events, event.Kind)
	})
	defer subscription.Unsubscribe()

	result := facade.SignIn(context.Background(), "jane@example.com", "Abcdef1!")

	require.True(t, result.Success)
	require.NotNil(t, result.Data)
	assert.Equal(t, "user-1", facade.CurrentUser().ID)
	assert.Equal(t, []EventKind{EventSignedIn}, events)

	require.Len(t, fake.activities, 1)
	assert.Equal(t, ActivityTypeLogin, fake.activities[0].ActivityType)
	assert.Equal(t, ActivityTitleLogin, fake.activities[0].Title)
}

func TestFacade_SignIn_SurvivesFailedActivityLog(t *testing.T) {
	fake := &fakeBackend{logActivityErr: errors.New("log table unavailable")}
	facade := newTestFactory(fake).New()

	result := facade.SignIn(context.Background(), "jane@example.com", "Abcdef1!")

	assert.True(t, result.Success)
	assert.NotNil(t, facade.CurrentUser())
}

func TestFacade_SignIn_RemoteRejectionIsVerbatim(t *testing.T) {
	fake := &fakeBackend{signInErr: &backend.RemoteError{
		StatusCode: http.StatusBadRequest,
		Message:    "Invalid login credentials",
	}}
	facade := newTestFactory(fake).New()

	result := facade.SignIn(context.Background(), "jane@example.com", "wrong")

	assert.False(t, result.Success)
	assert.Equal(t, "Invalid login credentials", result.Error)
	assert.Nil(t, facade.CurrentUser())
}

func TestFacade_SignIn_TransportFaultIsGeneric(t *testing.T) {
	fake := &fakeBackend{signInErr: errors.New("dial tcp: connection refused")}
	facade := newTestFactory(fake).New()

	result := facade.SignIn(context.Background(), "jane@example.com", "Abcdef1!")

	assert.False(t, result.Success)
	assert.Equal(t, "An unexpected error occurred during sign in.", result.Error)
}

// # Sign Up

func TestFacade_SignUp_SeedsFullNameFromEmail(t *testing.T) {
	fake := &fakeBackend{}
	facade := newTestFactory(fake).New()

	result := facade.SignUp(context.Background(), "jane@example.com", "Abcdef1!", "  ")

	require.True(t, result.Success)
	assert.Contains(t, fake.calls, "sign_up:jane:member")
}

func TestFacade_SignUp_PendingConfirmationStaysSignedOut(t *testing.T) {
	// signUpSession nil: the provider wants email confirmation first.
	fake := &fakeBackend{}
	factory := newTestFactory(fake)
	facade := factory.New()

	var events []EventKind
	subscription := factory.Events().Subscribe(func(event Event) {
		events = append(events, event.Kind)
	})
	defer subscription.Unsubscribe()

	result := facade.SignUp(context.Background(), "jane@example.com", "Abcdef1!", "Jane Doe")

	require.True(t, result.Success)
	assert.Nil(t, result.Data)
	assert.Nil(t, facade.CurrentUser())
	assert.Empty(t, events)
}

// # Sign Out

func TestFacade_SignOut_FailOpen(t *testing.T) {
	fake := &fakeBackend{signOutErr: errors.New("remote unavailable")}
	factory := newTestFactory(fake)
	facade := factory.New()
	facade.bind(fake.session())

	var events []EventKind
	subscription := factory.Events().Subscribe(func(event Event) {
		events = append(events, event.Kind)
	})
	defer subscription.Unsubscribe()

	result := facade.SignOut(context.Background())

	// The remote outcome is reported, but the local binding is gone and
	// the sign-out event fired regardless.
	assert.False(t, result.Success)
	assert.Equal(t, "An unexpected error occurred during sign out.", result.Error)
	assert.Nil(t, facade.CurrentUser())
	assert.Equal(t, []EventKind{EventSignedOut}, events)
}

func TestFacade_SignOut_LogsActivityBeforeRemoteCall(t *testing.T) {
	fake := &fakeBackend{}
	facade := signedInFacade(fake)

	result := facade.SignOut(context.Background())

	require.True(t, result.Success)
	assert.Equal(t, []string{"log_activity:" + ActivityTypeLogout, "sign_out"}, fake.calls)
}

// # Session & Profile

func TestFacade_GetSession_UnboundIsSignedOut(t *testing.T) {
	facade := newTestFactory(&fakeBackend{}).New()

	result := facade.GetSession(context.Background())

	assert.True(t, result.Success)
	assert.Nil(t, result.Data)
}

func TestFacade_GetSession_RejectedTokenClearsBinding(t *testing.T) {
	fake := &fakeBackend{getUserErr: &backend.RemoteError{
		StatusCode: http.StatusUnauthorized,
		Message:    "JWT expired",
	}}
	facade := signedInFacade(fake)

	result := facade.GetSession(context.Background())

	assert.True(t, result.Success)
	assert.Nil(t, result.Data)
	assert.Nil(t, facade.CurrentUser())
}

func TestFacade_UpdateUserProfile_StampsUpdatedAt(t *testing.T) {
	fake := &fakeBackend{}
	facade := signedInFacade(fake)

	result := facade.UpdateUserProfile(context.Background(), map[string]any{"full_name": "Jane Q. Doe"})

	require.True(t, result.Success)
	assert.Equal(t, "Jane Q. Doe", fake.lastUpdate["full_name"])
	assert.NotEmpty(t, fake.lastUpdate["updated_at"])

	require.Len(t, fake.activities, 1)
	assert.Equal(t, ActivityTypeProfile, fake.activities[0].ActivityType)
}

func TestFacade_UpdatePassword_LogsSecurityActivity(t *testing.T) {
	fake := &fakeBackend{}
	facade := signedInFacade(fake)

	result := facade.UpdatePassword(context.Background(), "Newpass1!")

	require.True(t, result.Success)
	require.Len(t, fake.activities, 1)
	assert.Equal(t, ActivityTypeSecurity, fake.activities[0].ActivityType)
	assert.Equal(t, ActivityTitleSecurity, fake.activities[0].Title)
}

// # Unauthenticated Operations

func TestFacade_UnboundOperationsFail(t *testing.T) {
	facade := newTestFactory(&fakeBackend{}).New()
	ctx := context.Background()

	assert.Equal(t, "User not authenticated", facade.GetUserProfile(ctx).Error)
	assert.Equal(t, "User not authenticated", facade.GetUserActivities(ctx, 5).Error)
	assert.Equal(t, "User not authenticated", facade.GetUserSessions(ctx).Error)
	assert.Equal(t, "User not authenticated", facade.IsAdmin(ctx).Error)
	assert.Equal(t, "User not authenticated", facade.UpdatePassword(ctx, "Newpass1!").Error)
}
