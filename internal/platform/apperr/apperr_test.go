// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/penbook/internal/platform/apperr"
)

/*
TestConstructors_StatusMapping verifies each constructor maps to its HTTP status.
*/
func TestConstructors_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		code   string
		status int
	}{
		{"not_found", apperr.NotFound("Post"), "NOT_FOUND", http.StatusNotFound},
		{"not_found_message", apperr.NotFoundMessage("Invalid page."), "NOT_FOUND", http.StatusNotFound},
		{"unauthorized", apperr.Unauthorized("no"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"not_authenticated", apperr.NotAuthenticated("no"), "NOT_AUTHENTICATED", http.StatusForbidden},
		{"forbidden", apperr.Forbidden("no"), "FORBIDDEN", http.StatusForbidden},
		{"validation", apperr.ValidationError("bad"), "VALIDATION_ERROR", http.StatusBadRequest},
		{"method_not_allowed", apperr.MethodNotAllowed("TRACE"), "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed},
		{"rate_limited", apperr.TooManyRequests(), "TOO_MANY_REQUESTS", http.StatusTooManyRequests},
		{"internal", apperr.Internal(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

/*
TestAs_WrappedChain verifies that AppErrors are found through fmt.Errorf wrapping.
*/
func TestAs_WrappedChain(t *testing.T) {
	wrapped := fmt.Errorf("post_service_get_failed: %w", apperr.NotFound("Post"))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "Post not found", ae.Message)
	assert.True(t, apperr.HasCode(wrapped, "NOT_FOUND"))
	assert.False(t, apperr.HasCode(errors.New("plain"), "NOT_FOUND"))
}

/*
TestInternal_HidesCause ensures the client message never contains the cause.
*/
func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("pq: relation does not exist")
	err := apperr.Internal(cause)

	assert.NotContains(t, err.Error(), "relation")
	assert.ErrorIs(t, err, cause)
}
