// Copyright (c) 2026 AuthFlow. All rights reserved.

package auth

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/Adititesting969/authflow-6448/internal/platform/apperr"
	"github.com/Adititesting969/authflow-6448/internal/platform/constants"
	"github.com/Adititesting969/authflow-6448/internal/platform/middleware"
	requestutil "github.com/Adititesting969/authflow-6448/internal/platform/request"
	"github.com/Adititesting969/authflow-6448/internal/platform/respond"
	"github.com/Adititesting969/authflow-6448/internal/platform/sec"
	"github.com/Adititesting969/authflow-6448/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the authentication HTTP endpoints.
//
// # Scope
//
// Entry and exit points of a gateway session: sign-in, sign-up, sign-out,
// recovery, password change, and the session presence probe the login page
// uses to skip itself.
type Handler struct {
	facades          *Factory
	sessions         SessionStore
	resetRedirectURL string
}

// NewHandler constructs a new [Handler].
func NewHandler(facades *Factory, sessions SessionStore, resetRedirectURL string) *Handler {
	return &Handler{
		facades:          facades,
		sessions:         sessions,
		resetRedirectURL: resetRedirectURL,
	}
}

// Routes returns a [chi.Router] with the authentication endpoints mounted.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/login", handler.login)
	router.Post("/register", handler.register)
	router.Post("/logout", handler.logout)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Get("/session", handler.session)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Helpers

// formError converts a form validation map into a 400 validation error with
// per-field details, ordered by field name for stable output.
func formError(errs map[string]string) *apperr.AppError {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]apperr.FieldError, 0, len(fields))
	for _, field := range fields {
		details = append(details, apperr.FieldError{Field: field, Message: errs[field]})
	}
	return apperr.ValidationError("Validation failed", details...)
}

// setSessionCookie writes the opaque gateway session cookie.
func setSessionCookie(writer http.ResponseWriter, token string, remembered bool) {
	ttl := constants.SessionTTL
	if remembered {
		ttl = constants.RememberedSessionTTL
	}
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(ttl.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookie expires the gateway session cookie.
func clearSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// boundFacade rebuilds the request's facade from the gateway session cookie.
func (handler *Handler) boundFacade(request *http.Request) (*Facade, string, error) {
	sessionToken := requestutil.SessionToken(request)
	if sessionToken == "" {
		return nil, "", apperr.Unauthorized("Authentication required")
	}

	stored, err := handler.sessions.Find(request.Context(), sessionToken)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, "", apperr.Unauthorized("Session is invalid or expired")
		}
		return nil, "", err
	}

	return handler.facades.ForSession(sessionToken, stored), sessionToken, nil
}

// # Session Entry

/*
Login authenticates a user and establishes a gateway session.

POST /api/v1/auth/login

Description: Form-validates the credentials, exchanges them with the remote
provider, mints an opaque session token, persists the remote session in the
store, and injects the session cookie. With remember-me the session and
cookie live 30 days instead of 24 hours.

Request:
  - Body: LoginForm (Email, Password, RememberMe)

Response:
  - 200: User plus strength-free session metadata
  - 400: Validation failure with per-field messages
  - 401: Remote rejection (provider message verbatim)
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var form LoginForm
	if err := requestutil.DecodeJSON(request, &form); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if errs := ValidateLoginForm(form); len(errs) > 0 {
		respond.Error(writer, request, formError(errs))
		return
	}

	sessionToken, err := sec.GenerateSecureToken(GatewaySessionTokenLength)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	facade := handler.facades.New()
	facade.BindSessionToken(sessionToken)

	result := facade.SignIn(request.Context(), form.Email, form.Password)
	if !result.Success {
		respond.Error(writer, request, apperr.Unauthorized(result.Error))
		return
	}

	session := result.Data
	stored := &StoredSession{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		UserID:       session.User.ID,
		Email:        session.User.Email,
		Remembered:   form.RememberMe,
		CreatedAt:    timeNow(),
	}

	ttl := constants.SessionTTL
	if form.RememberMe {
		ttl = constants.RememberedSessionTTL
	}
	if err := handler.sessions.Save(request.Context(), sessionToken, stored, ttl); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	setSessionCookie(writer, sessionToken, form.RememberMe)

	respond.OK(writer, map[string]any{
		"user": session.User,
	})
}

/*
Register creates a new account.

POST /api/v1/auth/register

Description: Runs the full registration form validation including the
password policy, then registers with the remote provider. When the provider
auto-confirms, a gateway session is established exactly as in login; when
email confirmation is pending, no session exists yet.

Request:
  - Body: RegistrationForm (FullName, Email, Password, ConfirmPassword, AcceptTerms)

Response:
  - 201: User (session established) or pending-confirmation notice
  - 400: Validation failure with per-field messages
  - 422: Remote rejection (provider message verbatim)
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var form RegistrationForm
	if err := requestutil.DecodeJSON(request, &form); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if errs := ValidateRegistrationForm(form); len(errs) > 0 {
		respond.Error(writer, request, formError(errs))
		return
	}

	sessionToken, err := sec.GenerateSecureToken(GatewaySessionTokenLength)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	facade := handler.facades.New()
	facade.BindSessionToken(sessionToken)

	result := facade.SignUp(request.Context(), form.Email, form.Password, form.FullName)
	if !result.Success {
		respond.Error(writer, request, apperr.Rejected(result.Error))
		return
	}

	// Pending email confirmation: account exists, session does not.
	if result.Data == nil {
		respond.Created(writer, map[string]any{
			"pendingConfirmation": true,
			"message":             "Please check your email to confirm your account.",
		})
		return
	}

	session := result.Data
	stored := &StoredSession{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		UserID:       session.User.ID,
		Email:        session.User.Email,
		CreatedAt:    timeNow(),
	}

	if err := handler.sessions.Save(request.Context(), sessionToken, stored, constants.SessionTTL); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	setSessionCookie(writer, sessionToken, false)

	respond.Created(writer, map[string]any{
		"pendingConfirmation": false,
		"user":                session.User,
	})
}

// # Session Exit

/*
Logout ends the gateway session.

POST /api/v1/auth/logout

Description: Fail-open: the stored session and cookie are removed whatever
the remote provider answers, so the client is always signed out locally.

Response:
  - 204: Signed out
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	sessionToken := requestutil.SessionToken(request)

	if sessionToken != "" {
		if stored, err := handler.sessions.Find(request.Context(), sessionToken); err == nil {
			facade := handler.facades.ForSession(sessionToken, stored)
			_ = facade.SignOut(request.Context())
		}
		_ = handler.sessions.Delete(request.Context(), sessionToken)
	}

	clearSessionCookie(writer)
	respond.NoContent(writer)
}

// # Recovery & Password

/*
ForgotPassword triggers the out-of-band password recovery email.

POST /api/v1/auth/forgot-password

Description: Always answers with the same notice whether or not the address
exists; the remote provider never discloses account presence either.

Request:
  - Body: {email}

Response:
  - 200: Generic recovery notice
  - 400: Validation failure
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if message := validateEmail(input.Email); message != "" {
		respond.Error(writer, request, validate.RequiredError(FieldEmail, message))
		return
	}

	facade := handler.facades.New()
	result := facade.ResetPassword(request.Context(), input.Email, handler.resetRedirectURL)
	if !result.Success {
		respond.Error(writer, request, apperr.Rejected(result.Error))
		return
	}

	respond.OK(writer, map[string]string{
		constants.FieldMessage: "If this email is registered, a reset link has been sent.",
	})
}

/*
ChangePassword sets a new password on the authenticated account.

POST /api/v1/auth/change-password

Description: The new password must clear the full registration policy, not
just the login length floor.

Request:
  - Body: {newPassword, confirmPassword}

Response:
  - 200: Confirmation message
  - 400: Policy or confirmation failure
  - 401: No active gateway session
  - 422: Remote rejection
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	facade, _, err := handler.boundFacade(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	errs := map[string]string{}
	if message := validateRegistrationPassword(input.NewPassword); message != "" {
		errs[FieldNewPassword] = message
	}
	if message := validateConfirmPassword(input.NewPassword, input.ConfirmPassword); message != "" {
		errs[FieldConfirmPassword] = message
	}
	if len(errs) > 0 {
		respond.Error(writer, request, formError(errs))
		return
	}

	result := facade.UpdatePassword(request.Context(), input.NewPassword)
	if !result.Success {
		respond.Error(writer, request, apperr.Rejected(result.Error))
		return
	}

	respond.OK(writer, map[string]string{
		constants.FieldMessage: "Password changed successfully",
	})
}

// # Session Probe

/*
Session reports whether the request carries a live gateway session.

GET /api/v1/auth/session

Description: The login page's redirect gate: token presence in the session
store is what "already signed in" means, without a remote round-trip. The
identity endpoints perform the authoritative remote validation.

Response:
  - 200: SessionSnapshot (authenticated flag plus the stored identity)
*/
func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) {
	sessionToken := requestutil.SessionToken(request)
	if sessionToken == "" {
		respond.OK(writer, SessionSnapshot{Authenticated: false})
		return
	}

	stored, err := handler.sessions.Find(request.Context(), sessionToken)
	if err != nil {
		respond.OK(writer, SessionSnapshot{Authenticated: false})
		return
	}

	facade := handler.facades.ForSession(sessionToken, stored)
	respond.OK(writer, SessionSnapshot{
		Authenticated: true,
		User:          facade.CurrentUser(),
	})
}
