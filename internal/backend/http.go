// Copyright (c) 2026 AuthFlow. All rights reserved.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Adititesting969/authflow-6448/internal/platform/constants"
	"github.com/Adititesting969/authflow-6448/internal/platform/metrics"
)

// # HTTP Implementation

/*
HTTPClient is the production [Client] backed by the hosted identity platform.

All requests carry the project API key; user-scoped requests additionally carry
the acting session's bearer token. Each remote call is recorded against the
metrics recorder with a success/rejected/transport outcome.
*/
type HTTPClient struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	recorder metrics.Recorder
	logger   *slog.Logger
}

/*
NewHTTPClient creates a backend client for the given platform project.

Parameters:
  - baseURL: Project base URL, without a trailing slash.
  - apiKey: Project API key, sent on every request.
  - recorder: Destination for per-operation call outcome metrics.
  - logger: Structured logger for transport-level diagnostics.

Returns:
  - *HTTPClient: A ready-to-use client.
*/
func NewHTTPClient(baseURL, apiKey string, recorder metrics.Recorder, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: constants.RemoteCallTimeout,
		},
		recorder: recorder,
		logger:   logger,
	}
}

var _ Client = (*HTTPClient)(nil)

// # Auth Endpoints

// SignInWithPassword implements [Client].
func (client *HTTPClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var session Session
	err := client.call(ctx, callSpec{
		operation: "sign_in",
		method:    http.MethodPost,
		path:      "/auth/v1/token",
		query:     url.Values{"grant_type": {"password"}},
		body:      body,
		out:       &session,
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SignUp implements [Client].
func (client *HTTPClient) SignUp(ctx context.Context, email, password string, metadata SignUpMetadata) (*Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data": map[string]string{
			"full_name": metadata.FullName,
			"role":      metadata.Role,
		},
	}

	var session Session
	err := client.call(ctx, callSpec{
		operation: "sign_up",
		method:    http.MethodPost,
		path:      "/auth/v1/signup",
		body:      body,
		out:       &session,
	})
	if err != nil {
		return nil, err
	}

	// With email confirmation enabled the provider answers with a user but
	// no token bundle. Treat an empty access token as "no session yet".
	if session.AccessToken == "" {
		return nil, nil
	}
	return &session, nil
}

// SignOut implements [Client].
func (client *HTTPClient) SignOut(ctx context.Context, accessToken string) error {
	return client.call(ctx, callSpec{
		operation:   "sign_out",
		method:      http.MethodPost,
		path:        "/auth/v1/logout",
		accessToken: accessToken,
	})
}

// GetUser implements [Client].
func (client *HTTPClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	err := client.call(ctx, callSpec{
		operation:   "get_user",
		method:      http.MethodGet,
		path:        "/auth/v1/user",
		accessToken: accessToken,
		out:         &user,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserPassword implements [Client].
func (client *HTTPClient) UpdateUserPassword(ctx context.Context, accessToken, newPassword string) error {
	return client.call(ctx, callSpec{
		operation:   "update_password",
		method:      http.MethodPut,
		path:        "/auth/v1/user",
		accessToken: accessToken,
		body:        map[string]string{"password": newPassword},
	})
}

// ResetPasswordForEmail implements [Client].
func (client *HTTPClient) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	query := url.Values{}
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}
	return client.call(ctx, callSpec{
		operation: "reset_password",
		method:    http.MethodPost,
		path:      "/auth/v1/recover",
		query:     query,
		body:      map[string]string{"email": email},
	})
}

// # Data Endpoints

// SelectProfile implements [Client].
func (client *HTTPClient) SelectProfile(ctx context.Context, accessToken, userID string) (*Profile, error) {
	var rows []Profile
	err := client.call(ctx, callSpec{
		operation:   "select_profile",
		method:      http.MethodGet,
		path:        "/rest/v1/user_profiles",
		query:       url.Values{"id": {"eq." + userID}, "select": {"*"}},
		accessToken: accessToken,
		out:         &rows,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &RemoteError{StatusCode: http.StatusNotFound, Message: "Profile not found"}
	}
	return &rows[0], nil
}

// UpdateProfile implements [Client].
func (client *HTTPClient) UpdateProfile(ctx context.Context, accessToken, userID string, changes map[string]any) (*Profile, error) {
	var rows []Profile
	err := client.call(ctx, callSpec{
		operation:   "update_profile",
		method:      http.MethodPatch,
		path:        "/rest/v1/user_profiles",
		query:       url.Values{"id": {"eq." + userID}},
		accessToken: accessToken,
		body:        changes,
		headers:     map[string]string{"Prefer": "return=representation"},
		out:         &rows,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &RemoteError{StatusCode: http.StatusNotFound, Message: "Profile not found"}
	}
	return &rows[0], nil
}

// SelectActivities implements [Client].
func (client *HTTPClient) SelectActivities(ctx context.Context, accessToken, userID string, limit int) ([]Activity, error) {
	query := url.Values{
		"user_id": {"eq." + userID},
		"select":  {"*"},
		"order":   {"created_at.desc"},
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var rows []Activity
	err := client.call(ctx, callSpec{
		operation:   "select_activities",
		method:      http.MethodGet,
		path:        "/rest/v1/user_activities",
		query:       query,
		accessToken: accessToken,
		out:         &rows,
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SelectActiveSessions implements [Client].
func (client *HTTPClient) SelectActiveSessions(ctx context.Context, accessToken, userID string) ([]SessionRecord, error) {
	var rows []SessionRecord
	err := client.call(ctx, callSpec{
		operation: "select_sessions",
		method:    http.MethodGet,
		path:      "/rest/v1/user_sessions",
		query: url.Values{
			"user_id":   {"eq." + userID},
			"is_active": {"eq.true"},
			"select":    {"*"},
			"order":     {"created_at.desc"},
		},
		accessToken: accessToken,
		out:         &rows,
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LogActivity implements [Client].
func (client *HTTPClient) LogActivity(ctx context.Context, accessToken string, input ActivityInput) error {
	return client.call(ctx, callSpec{
		operation:   "log_activity",
		method:      http.MethodPost,
		path:        "/rest/v1/rpc/log_user_activity",
		accessToken: accessToken,
		body:        input,
	})
}

// IsAdmin implements [Client].
func (client *HTTPClient) IsAdmin(ctx context.Context, accessToken string) (bool, error) {
	var isAdmin bool
	err := client.call(ctx, callSpec{
		operation:   "is_admin",
		method:      http.MethodPost,
		path:        "/rest/v1/rpc/is_admin",
		accessToken: accessToken,
		body:        map[string]any{},
		out:         &isAdmin,
	})
	if err != nil {
		return false, err
	}
	return isAdmin, nil
}

// # Probes

// Health checks reachability of the remote auth surface. Used by the
// readiness endpoint only; not part of [Client].
func (client *HTTPClient) Health(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"/auth/v1/health", nil)
	if err != nil {
		return fmt.Errorf("building health request: %w", err)
	}
	request.Header.Set("apikey", client.apiKey)

	response, err := client.http.Do(request)
	if err != nil {
		return fmt.Errorf("probing backend: %w", err)
	}
	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, 1<<12))

	if response.StatusCode >= 500 {
		return fmt.Errorf("backend health answered with status %d", response.StatusCode)
	}
	return nil
}

// # Request Plumbing

// callSpec describes one remote call for the shared request path.
type callSpec struct {
	operation   string
	method      string
	path        string
	query       url.Values
	accessToken string
	body        any
	headers     map[string]string
	out         any
}

// errorBody covers the error envelopes the auth and data surfaces use.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

// message returns the first populated field, preferring the most specific.
func (body errorBody) message() string {
	for _, candidate := range []string{body.ErrorDescription, body.Msg, body.Message, body.Error} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

/*
call executes one remote request and classifies the outcome.

A 2xx answer decodes into spec.out (when set) and counts as success. A 4xx
answer becomes a [RemoteError] carrying the provider's message. Everything
else, including 5xx answers and undecodable bodies, is a transport fault.

Parameters:
  - ctx: Carries cancellation and the per-call deadline.
  - spec: The request to execute.

Returns:
  - error: nil, a *RemoteError, or a transport fault.
*/
func (client *HTTPClient) call(ctx context.Context, spec callSpec) error {
	outcome := metrics.OutcomeTransport
	defer func() {
		client.recorder.RecordRemoteCall(spec.operation, outcome)
	}()

	endpoint := client.baseURL + spec.path
	if len(spec.query) > 0 {
		endpoint += "?" + spec.query.Encode()
	}

	var payload io.Reader
	if spec.body != nil {
		encoded, err := json.Marshal(spec.body)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", spec.operation, err)
		}
		payload = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, spec.method, endpoint, payload)
	if err != nil {
		return fmt.Errorf("building %s request: %w", spec.operation, err)
	}

	request.Header.Set("apikey", client.apiKey)
	bearer := spec.accessToken
	if bearer == "" {
		bearer = client.apiKey
	}
	request.Header.Set(constants.HeaderAuthorization, "Bearer "+bearer)
	if spec.body != nil {
		request.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}
	for name, value := range spec.headers {
		request.Header.Set(name, value)
	}

	response, err := client.http.Do(request)
	if err != nil {
		client.logger.WarnContext(ctx, "backend call failed",
			slog.String("operation", spec.operation),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("calling backend %s: %w", spec.operation, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading backend %s response: %w", spec.operation, err)
	}

	switch {
	case response.StatusCode >= 200 && response.StatusCode < 300:
		outcome = metrics.OutcomeSuccess
		if spec.out == nil || len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, spec.out); err != nil {
			outcome = metrics.OutcomeTransport
			return fmt.Errorf("decoding backend %s response: %w", spec.operation, err)
		}
		return nil

	case response.StatusCode >= 400 && response.StatusCode < 500:
		outcome = metrics.OutcomeRejected
		var body errorBody
		_ = json.Unmarshal(raw, &body)
		message := body.message()
		if message == "" {
			message = http.StatusText(response.StatusCode)
		}
		return &RemoteError{StatusCode: response.StatusCode, Message: message}

	default:
		client.logger.WarnContext(ctx, "backend answered with server error",
			slog.String("operation", spec.operation),
			slog.Int("status", response.StatusCode),
		)
		return fmt.Errorf("backend %s answered with status %d", spec.operation, response.StatusCode)
	}
}
