// Copyright (c) 2026 AuthFlow. All rights reserved.

// Package middleware provides the HTTP middleware chain for the AuthFlow gateway.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthN, Rate Limiting, and CORS.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Adititesting969/authflow-6448/internal/platform/apperr"
	"github.com/Adititesting969/authflow-6448/internal/platform/constants"
	"github.com/Adititesting969/authflow-6448/internal/platform/ctxutil"
	"github.com/Adititesting969/authflow-6448/internal/platform/respond"
	"github.com/Adititesting969/authflow-6448/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify access tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the sec package
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// SessionResolver resolves an opaque gateway session token to the access
// token the remote provider issued for it.
//
// Implemented by the Redis-backed session store. A missing or expired entry
// returns an error; the request then proceeds as anonymous.
type SessionResolver interface {
	AccessToken(ctx context.Context, sessionToken string) (string, error)
}

// Authenticate reconstructs the active user from either the gateway session
// cookie or an explicit Authorization header.
//
// # Flow
//  1. Check for the opaque session cookie; resolve it to an access token.
//  2. Otherwise check for 'Authorization: Bearer <token>'.
//  3. If neither is present, the request proceeds as anonymous.
//  4. Verify the access token's claims via [TokenVerifier].
//  5. Inject [*sec.AuthClaims] and the session token into the request context.
func Authenticate(verifier TokenVerifier, sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Gateway Session Cookie ─────────────────────────────────────
			var accessToken, sessionToken string
			if cookie, err := request.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
				sessionToken = cookie.Value
				if token, err := sessions.AccessToken(request.Context(), sessionToken); err == nil {
					accessToken = token
				}
			}

			// ── 2. Authorization Header ───────────────────────────────────────
			if accessToken == "" {
				authHeader := request.Header.Get(constants.HeaderAuthorization)
				if authHeader != "" {
					parts := strings.Split(authHeader, " ")
					if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
						respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
						return
					}
					accessToken = parts[1]
				}
			}

			// ── 3. Anonymous Access ───────────────────────────────────────────
			if accessToken == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 4. Claim Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(accessToken)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			if sessionToken != "" {
				ctx = ctxutil.WithSessionToken(ctx, sessionToken)
			}
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetAuthUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically implies
// [RequireAuth] so you don't need to mount both.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !sec.UserRole(claims.Role).AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
