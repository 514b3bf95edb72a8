// Copyright (c) 2026 AuthFlow. All rights reserved.

package account

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Adititesting969/authflow-6448/internal/platform/apperr"
	"github.com/Adititesting969/authflow-6448/internal/platform/middleware"
	requestutil "github.com/Adititesting969/authflow-6448/internal/platform/request"
	"github.com/Adititesting969/authflow-6448/internal/platform/respond"
	"github.com/Adititesting969/authflow-6448/internal/users/auth"
	"github.com/Adititesting969/authflow-6448/internal/users/identity"
)

// # Definitions & Constructors

// Handler implements the signed-in account HTTP endpoints.
//
// # Scope
//
// Everything behind the session: profile, activity feed, device sessions,
// admin probe, and the dashboard aggregate. All routes require an
// authenticated gateway session cookie.
type Handler struct {
	accountService *Service
	identities     *identity.Registry
	sessions       auth.SessionStore
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, identities *identity.Registry, sessions auth.SessionStore) *Handler {
	return &Handler{
		accountService: service,
		identities:     identities,
		sessions:       sessions,
	}
}

// Routes returns a [chi.Router] with the account endpoints mounted.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/profile", handler.profile)
	router.Patch("/profile", handler.updateProfile)
	router.Get("/activities", handler.activities)
	router.Get("/sessions", handler.deviceSessions)
	router.Get("/dashboard", handler.dashboard)
	router.Get("/admin", handler.admin)

	return router
}

// boundIdentity resolves the request's gateway session to its identity cell.
//
// Bearer-only requests pass authentication but carry no gateway session;
// the account surface needs the session's facade, so they are rejected.
func (handler *Handler) boundIdentity(request *http.Request) (*identity.Context, error) {
	sessionToken := requestutil.SessionToken(request)
	if sessionToken == "" {
		return nil, apperr.Unauthorized("Gateway session required")
	}

	stored, err := handler.sessions.Find(request.Context(), sessionToken)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Session is invalid or expired")
		}
		return nil, err
	}

	return handler.identities.For(request.Context(), sessionToken, stored), nil
}

// # Profile

/*
Profile returns the authenticated user's profile.

GET /api/v1/account/profile

Response:
  - 200: Profile row
  - 401: No live gateway session
  - 422: Remote rejection
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.boundIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.Profile(request.Context(), session)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
UpdateProfile renames the account.

PATCH /api/v1/account/profile

Request:
  - Body: {fullName}

Response:
  - 200: Updated profile row
  - 400: Name too short after normalization
  - 401: No live gateway session
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.boundIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		FullName string `json:"fullName"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.UpdateProfile(request.Context(), session, input.FullName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// # Activity & Sessions

/*
Activities returns the user's newest activities.

GET /api/v1/account/activities?limit=N

Response:
  - 200: Activity feed entries, newest first, relative timestamps included
  - 401: No live gateway session
*/
func (handler *Handler) activities(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.boundIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	limit, _ := strconv.Atoi(request.URL.Query().Get("limit"))

	rows, err := handler.accountService.Activities(request.Context(), session, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, rows)
}

/*
Sessions returns the user's active device sessions.

GET /api/v1/account/sessions

Response:
  - 200: Active session rows, newest first
  - 401: No live gateway session
*/
func (handler *Handler) deviceSessions(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.boundIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	rows, err := handler.accountService.Sessions(request.Context(), session)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, rows)
}

// # Dashboard & Admin

/*
Dashboard returns the aggregated dashboard view.

GET /api/v1/account/dashboard

Response:
  - 200: DashboardView (security score, stats, recent events, header)
  - 401: No live gateway session
  - 502: Retryable remote failure; the client should offer a retry
*/
func (handler *Handler) dashboard(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.boundIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.accountService.Dashboard(request.Context(), session)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
Admin reports whether the authenticated user holds the admin role.

GET /api/v1/account/admin

Response:
  - 200: {isAdmin}
  - 401: No live gateway session
*/
func (handler *Handler) admin(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.boundIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	isAdmin, err := handler.accountService.IsAdmin(request.Context(), session)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"isAdmin": isAdmin})
}
