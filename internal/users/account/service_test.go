// Copyright (c) 2026 AuthFlow. All rights reserved.

package account

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adititesting969/authflow-6448/internal/backend"
	"github.com/Adititesting969/authflow-6448/internal/platform/apperr"
	"github.com/Adititesting969/authflow-6448/internal/users/auth"
	"github.com/Adititesting969/authflow-6448/internal/users/identity"
)

// dashboardBackend is a happy-path [backend.Client] with configurable
// dashboard data and failure injection.
type dashboardBackend struct {
	activities    []backend.Activity
	sessions      []backend.SessionRecord
	activitiesErr error
	lastUpdate    map[string]any
}

func (stub *dashboardBackend) user() backend.User {
	return backend.User{ID: "user-1", Email: "jane@example.com"}
}

func (stub *dashboardBackend) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	return &backend.Session{AccessToken: "token-abc", User: stub.user()}, nil
}

func (stub *dashboardBackend) SignUp(ctx context.Context, email, password string, metadata backend.SignUpMetadata) (*backend.Session, error) {
	return &backend.Session{AccessToken: "token-abc", User: stub.user()}, nil
}

func (stub *dashboardBackend) SignOut(ctx context.Context, accessToken string) error { return nil }

func (stub *dashboardBackend) GetUser(ctx context.Context, accessToken string) (*backend.User, error) {
	user := stub.user()
	return &user, nil
}

func (stub *dashboardBackend) UpdateUserPassword(ctx context.Context, accessToken, newPassword string) error {
	return nil
}

func (stub *dashboardBackend) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	return nil
}

func (stub *dashboardBackend) SelectProfile(ctx context.Context, accessToken, userID string) (*backend.Profile, error) {
	created := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	return &backend.Profile{
		ID:        userID,
		FullName:  "Jane Doe",
		Email:     "jane@example.com",
		CreatedAt: created,
	}, nil
}

func (stub *dashboardBackend) UpdateProfile(ctx context.Context, accessToken, userID string, changes map[string]any) (*backend.Profile, error) {
	stub.lastUpdate = changes
	fullName, _ := changes["full_name"].(string)
	return &backend.Profile{ID: userID, FullName: fullName}, nil
}

func (stub *dashboardBackend) SelectActivities(ctx context.Context, accessToken, userID string, limit int) ([]backend.Activity, error) {
	if stub.activitiesErr != nil {
		return nil, stub.activitiesErr
	}
	return stub.activities, nil
}

func (stub *dashboardBackend) SelectActiveSessions(ctx context.Context, accessToken, userID string) ([]backend.SessionRecord, error) {
	return stub.sessions, nil
}

func (stub *dashboardBackend) LogActivity(ctx context.Context, accessToken string, input backend.ActivityInput) error {
	return nil
}

func (stub *dashboardBackend) IsAdmin(ctx context.Context, accessToken string) (bool, error) {
	return false, nil
}

var _ backend.Client = (*dashboardBackend)(nil)

func sessionFor(t *testing.T, stub *dashboardBackend) *identity.Context {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := auth.NewFactory(stub, auth.NewBroadcaster(), logger)
	facade := factory.ForSession("gateway-session-token-1", &auth.StoredSession{
		AccessToken: "token-abc",
		UserID:      "user-1",
		Email:       "jane@example.com",
	})

	session := identity.NewContext(context.Background(), facade, factory.Events(), logger)
	t.Cleanup(session.Close)
	return session
}

func testService() *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// # Dashboard

func TestDashboard_AssemblesView(t *testing.T) {
	stub := &dashboardBackend{
		activities: []backend.Activity{
			{Title: "Successful Login", CreatedAt: time.Now().Add(-time.Hour)},
			{Title: "Password Changed", CreatedAt: time.Now().Add(-2 * time.Hour)},
		},
		sessions: []backend.SessionRecord{
			{ID: "s1", IsActive: true},
			{ID: "s2", IsActive: false},
		},
	}
	service := testService()

	view, err := service.Dashboard(context.Background(), sessionFor(t, stub))

	require.NoError(t, err)
	// 25 strong password + 25 has activity + 25 few sessions; 2FA stays off.
	assert.Equal(t, 75, view.SecurityScore.Score)
	assert.Equal(t, 2, view.Stats.TotalSessions)
	assert.Equal(t, 1, view.Stats.ActiveDevices)
	require.Len(t, view.RecentEvents, 2)
	assert.Equal(t, "Successful Login", view.RecentEvents[0].Description)
	assert.Equal(t, "Jane Doe", view.Header.DisplayName)
	assert.Equal(t, "JD", view.Header.Initials)
	assert.Equal(t, "March 2025", view.Header.MemberSince)
}

func TestDashboard_DataLoadFailureIsRetryable(t *testing.T) {
	stub := &dashboardBackend{activitiesErr: errors.New("connection refused")}
	service := testService()

	view, err := service.Dashboard(context.Background(), sessionFor(t, stub))

	require.Error(t, err)
	assert.Nil(t, view)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.HTTPStatus)
}

// # Activity Feed

func TestActivities_ReturnsFeedEntries(t *testing.T) {
	stub := &dashboardBackend{
		activities: []backend.Activity{
			{ID: "act-1", ActivityType: "login", Title: "Successful Login", CreatedAt: time.Now().Add(-5 * time.Minute)},
		},
	}
	service := testService()

	entries, err := service.Activities(context.Background(), sessionFor(t, stub), 10)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "act-1", entries[0].ID)
	assert.Equal(t, "5 minutes ago", entries[0].TimeAgo)
}

// # Profile Update

func TestUpdateProfile_NormalizesName(t *testing.T) {
	stub := &dashboardBackend{}
	service := testService()

	profile, err := service.UpdateProfile(context.Background(), sessionFor(t, stub), "  Jane   Doe ")

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.FullName)
	assert.Equal(t, "Jane Doe", stub.lastUpdate["full_name"])
}

func TestUpdateProfile_RejectsShortName(t *testing.T) {
	stub := &dashboardBackend{}
	service := testService()

	_, err := service.UpdateProfile(context.Background(), sessionFor(t, stub), "   J  ")

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "Full name must be at least 2 characters", appErr.Details[0].Message)
}
