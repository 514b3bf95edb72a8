// Copyright (c) 2026 AuthFlow. All rights reserved.

package account

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Adititesting969/authflow-6448/internal/backend"
	"github.com/Adititesting969/authflow-6448/internal/platform/apperr"
	"github.com/Adititesting969/authflow-6448/internal/platform/validate"
	"github.com/Adititesting969/authflow-6448/internal/users/auth"
	"github.com/Adititesting969/authflow-6448/internal/users/identity"
	"github.com/Adititesting969/authflow-6448/pkg/textnorm"
)

// Service implements the account use cases on top of a session's identity
// cell and its auth facade.
type Service struct {
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// # Error Mapping

// asAppError lifts a failed facade result into the HTTP error taxonomy:
// a missing session becomes 401, everything else a remote rejection.
func asAppError(message string) *apperr.AppError {
	if message == auth.MsgNotAuthenticated {
		return apperr.Unauthorized(message)
	}
	return apperr.Rejected(message)
}

// # Profile

/*
Profile returns the session's profile row.

Parameters:
  - ctx: context.Context
  - session: The request's identity cell.

Returns:
  - *backend.Profile: The profile.
  - error: Unauthorized or remote rejection.
*/
func (service *Service) Profile(ctx context.Context, session *identity.Context) (*backend.Profile, error) {
	result := session.Facade().GetUserProfile(ctx)
	if !result.Success {
		return nil, asAppError(result.Error)
	}
	return result.Data, nil
}

/*
UpdateProfile renames the account.

Description: The submitted name is normalized (Unicode NFC, whitespace
collapsed) before the policy check and the write, so "  Jane   Doe " and
"Jane Doe" are the same name.

Parameters:
  - ctx: context.Context
  - session: The request's identity cell.
  - fullName: The submitted display name.

Returns:
  - *backend.Profile: The updated profile.
  - error: Validation failure, Unauthorized, or remote rejection.
*/
func (service *Service) UpdateProfile(ctx context.Context, session *identity.Context, fullName string) (*backend.Profile, error) {
	normalized := textnorm.FullName(fullName)

	validator := &validate.Validator{}
	validator.Custom(auth.FieldFullName,
		utf8.RuneCountInString(normalized) < auth.MinFullNameLength,
		"Full name must be at least 2 characters")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	result := session.Facade().UpdateUserProfile(ctx, map[string]any{
		"full_name": normalized,
	})
	if !result.Success {
		return nil, asAppError(result.Error)
	}
	return result.Data, nil
}

// # Activity & Sessions

// Activities returns the session's newest activities as feed entries with
// pre-rendered relative timestamps.
func (service *Service) Activities(ctx context.Context, session *identity.Context, limit int) ([]ActivityEntry, error) {
	result := session.Facade().GetUserActivities(ctx, limit)
	if !result.Success {
		return nil, asAppError(result.Error)
	}
	return BuildActivityFeed(result.Data, time.Now()), nil
}

// Sessions returns the session's active device sessions.
func (service *Service) Sessions(ctx context.Context, session *identity.Context) ([]backend.SessionRecord, error) {
	result := session.Facade().GetUserSessions(ctx)
	if !result.Success {
		return nil, asAppError(result.Error)
	}
	return result.Data, nil
}

// IsAdmin reports whether the session's user holds the admin role.
func (service *Service) IsAdmin(ctx context.Context, session *identity.Context) (bool, error) {
	result := session.Facade().IsAdmin(ctx)
	if !result.Success {
		return false, asAppError(result.Error)
	}
	return result.Data, nil
}

// # Dashboard

/*
Dashboard assembles the full dashboard aggregate.

Description: Activities and sessions are fetched concurrently; the
derivation does not depend on which one resolves first. A failed data load
surfaces as a retryable 502 instead of an empty view, so the page can offer
a retry instead of rendering zeroes.

Parameters:
  - ctx: context.Context
  - session: The request's identity cell.

Returns:
  - *DashboardView: The aggregate.
  - error: Unauthorized or a retryable remote failure.
*/
func (service *Service) Dashboard(ctx context.Context, session *identity.Context) (*DashboardView, error) {
	facade := session.Facade()
	user := facade.CurrentUser()
	if user == nil {
		return nil, apperr.Unauthorized(auth.MsgNotAuthenticated)
	}

	var (
		waitGroup       sync.WaitGroup
		activitiesRes   auth.Result[[]backend.Activity]
		sessionRowsRes  auth.Result[[]backend.SessionRecord]
	)

	waitGroup.Add(2)
	go func() {
		defer waitGroup.Done()
		activitiesRes = facade.GetUserActivities(ctx, auth.DefaultActivityLimit)
	}()
	go func() {
		defer waitGroup.Done()
		sessionRowsRes = facade.GetUserSessions(ctx)
	}()
	waitGroup.Wait()

	if !activitiesRes.Success {
		return nil, apperr.RemoteUnavailable(activitiesRes.Error, nil)
	}
	if !sessionRowsRes.Success {
		return nil, apperr.RemoteUnavailable(sessionRowsRes.Error, nil)
	}

	// The profile is soft data: the dashboard still renders without it.
	profile := session.Profile(ctx)

	now := time.Now()
	return &DashboardView{
		Profile:       profile,
		SecurityScore: BuildSecurityScore(activitiesRes.Data, sessionRowsRes.Data),
		Stats:         BuildUserStats(sessionRowsRes.Data, profile, now),
		RecentEvents:  BuildRecentEvents(activitiesRes.Data),
		Header:        BuildHeaderSnapshot(profile, user.Email),
	}, nil
}
