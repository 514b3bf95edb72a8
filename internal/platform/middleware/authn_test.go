// Copyright (c) 2026 AuthFlow. All rights reserved.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adititesting969/authflow-6448/internal/platform/constants"
	"github.com/Adititesting969/authflow-6448/internal/platform/ctxutil"
	"github.com/Adititesting969/authflow-6448/internal/platform/sec"
)

// # Fakes

type fakeVerifier struct {
	claims *sec.AuthClaims
	err    error
}

func (fake *fakeVerifier) VerifyToken(tokenString string) (*sec.AuthClaims, error) {
	if fake.err != nil {
		return nil, fake.err
	}
	return fake.claims, nil
}

type fakeResolver struct {
	tokens map[string]string
}

func (fake *fakeResolver) AccessToken(ctx context.Context, sessionToken string) (string, error) {
	if token, found := fake.tokens[sessionToken]; found {
		return token, nil
	}
	return "", errors.New("session not found")
}

func memberClaims() *sec.AuthClaims {
	return &sec.AuthClaims{Email: "jane@example.com", Role: string(sec.RoleMember)}
}

// captureHandler records the request context it was invoked with.
func captureHandler(invoked *bool, ctx *context.Context) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*invoked = true
		if ctx != nil {
			*ctx = request.Context()
		}
		writer.WriteHeader(http.StatusOK)
	})
}

// # Authenticate

func TestAuthenticate_SessionCookieResolvesClaims(t *testing.T) {
	verifier := &fakeVerifier{claims: memberClaims()}
	resolver := &fakeResolver{tokens: map[string]string{"gateway-token": "access-token"}}

	var invoked bool
	var seen context.Context
	handler := Authenticate(verifier, resolver)(captureHandler(&invoked, &seen))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "gateway-token"})
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	require.True(t, invoked)
	claims := ctxutil.GetAuthUser(seen)
	require.NotNil(t, claims)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "gateway-token", ctxutil.GetSessionToken(seen))
}

func TestAuthenticate_UnknownCookieProceedsAnonymous(t *testing.T) {
	verifier := &fakeVerifier{claims: memberClaims()}
	resolver := &fakeResolver{}

	var invoked bool
	var seen context.Context
	handler := Authenticate(verifier, resolver)(captureHandler(&invoked, &seen))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "stale-token"})
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	require.True(t, invoked)
	assert.Nil(t, ctxutil.GetAuthUser(seen))
}

func TestAuthenticate_BearerHeader(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantClaims bool
	}{
		{name: "valid bearer", header: "Bearer access-token", wantStatus: http.StatusOK, wantClaims: true},
		{name: "case-insensitive scheme", header: "bearer access-token", wantStatus: http.StatusOK, wantClaims: true},
		{name: "malformed header", header: "access-token", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			verifier := &fakeVerifier{claims: memberClaims()}
			resolver := &fakeResolver{}

			var invoked bool
			var seen context.Context
			handler := Authenticate(verifier, resolver)(captureHandler(&invoked, &seen))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set(constants.HeaderAuthorization, tc.header)
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tc.wantStatus, recorder.Code)
			if tc.wantClaims {
				require.True(t, invoked)
				require.NotNil(t, ctxutil.GetAuthUser(seen))
			} else {
				assert.False(t, invoked)
			}
		})
	}
}

func TestAuthenticate_RejectedTokenIsUnauthorized(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("signature mismatch")}
	resolver := &fakeResolver{}

	var invoked bool
	handler := Authenticate(verifier, resolver)(captureHandler(&invoked, nil))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer forged-token")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.False(t, invoked)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

// # Gates

func TestRequireAuth(t *testing.T) {
	var invoked bool
	handler := RequireAuth(captureHandler(&invoked, nil))

	t.Run("anonymous is blocked", func(t *testing.T) {
		invoked = false
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.False(t, invoked)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("authenticated passes", func(t *testing.T) {
		invoked = false
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := ctxutil.WithAuthUser(request.Context(), memberClaims())
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.True(t, invoked)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		claims     *sec.AuthClaims
		required   sec.UserRole
		wantStatus int
	}{
		{name: "anonymous", claims: nil, required: sec.RoleAdmin, wantStatus: http.StatusUnauthorized},
		{name: "member denied admin route", claims: memberClaims(), required: sec.RoleAdmin, wantStatus: http.StatusForbidden},
		{
			name:       "admin allowed",
			claims:     &sec.AuthClaims{Role: string(sec.RoleAdmin)},
			required:   sec.RoleAdmin,
			wantStatus: http.StatusOK,
		},
		{
			name:       "admin exceeds member requirement",
			claims:     &sec.AuthClaims{Role: string(sec.RoleAdmin)},
			required:   sec.RoleMember,
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var invoked bool
			handler := RequireRole(tc.required)(captureHandler(&invoked, nil))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.claims != nil {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), tc.claims))
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tc.wantStatus, recorder.Code)
			assert.Equal(t, tc.wantStatus == http.StatusOK, invoked)
		})
	}
}
