// Copyright (c) 2026 AuthFlow. All rights reserved.

package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	testCases := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{
			// NotFound takes a resource NAME and composes the message itself;
			// passing a full sentence would double up the suffix.
			name:       "not found composes from resource name",
			err:        NotFound("Session"),
			wantCode:   "NOT_FOUND",
			wantStatus: http.StatusNotFound,
			wantMsg:    "Session not found",
		},
		{
			name:       "unauthorized",
			err:        Unauthorized("Authentication required"),
			wantCode:   "UNAUTHORIZED",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Authentication required",
		},
		{
			name:       "rejected carries the remote message verbatim",
			err:        Rejected("Invalid login credentials"),
			wantCode:   "REMOTE_REJECTED",
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "Invalid login credentials",
		},
		{
			name:       "remote unavailable",
			err:        RemoteUnavailable("Failed to load dashboard data.", nil),
			wantCode:   "REMOTE_UNAVAILABLE",
			wantStatus: http.StatusBadGateway,
			wantMsg:    "Failed to load dashboard data.",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.wantCode, testCase.err.Code)
			assert.Equal(t, testCase.wantStatus, testCase.err.HTTPStatus)
			assert.Equal(t, testCase.wantMsg, testCase.err.Error())
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("Session")))
	assert.False(t, IsNotFound(Unauthorized("Authentication required")))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestAs_TraversesWrapping(t *testing.T) {
	wrapped := Internal(errors.New("boom"))

	appErr := As(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
}
