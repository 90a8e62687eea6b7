// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/penbook/internal/platform/apperr"
	"github.com/taibuivan/penbook/internal/platform/constants"
	"github.com/taibuivan/penbook/internal/platform/ctxutil"
	"github.com/taibuivan/penbook/internal/platform/sec"
)

type stubResolver struct {
	actors map[string]*sec.Actor
	err    error
}

func (resolver stubResolver) ResolveToken(_ context.Context, token string) (*sec.Actor, error) {
	if resolver.err != nil {
		return nil, resolver.err
	}
	actor, ok := resolver.actors[token]
	if !ok {
		return nil, apperr.Unauthorized("Invalid token")
	}
	return actor, nil
}

// captureActor records the actor seen by the downstream handler.
func captureActor(seen **sec.Actor) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*seen = ctxutil.GetActor(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestAuthenticate covers header parsing and token resolution outcomes.
*/
func TestAuthenticate(t *testing.T) {
	alice := &sec.Actor{UserID: "u-alice", Username: "alice", Role: sec.RoleMember}
	resolver := stubResolver{actors: map[string]*sec.Actor{"tok-alice": alice}}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantActor  *sec.Actor
	}{
		{"anonymous", "", http.StatusOK, nil},
		{"token_scheme", "Token tok-alice", http.StatusOK, alice},
		{"bearer_scheme", "Bearer tok-alice", http.StatusOK, alice},
		{"case_insensitive_scheme", "token tok-alice", http.StatusOK, alice},
		{"unknown_token_is_anonymous", "Token revoked", http.StatusOK, nil},
		{"bad_scheme", "Basic dXNlcjpwdw==", http.StatusUnauthorized, nil},
		{"missing_token", "Token", http.StatusUnauthorized, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *sec.Actor
			handler := Authenticate(resolver)(captureActor(&seen))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set(constants.HeaderAuthorization, tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantActor, seen)
		})
	}
}

/*
TestAuthenticate_ResolverFailure surfaces infrastructure errors as 500.
*/
func TestAuthenticate_ResolverFailure(t *testing.T) {
	var seen *sec.Actor
	handler := Authenticate(stubResolver{err: errors.New("redis down")})(captureActor(&seen))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderAuthorization, "Token abc")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Nil(t, seen)
}

/*
TestRequireAuth rejects anonymous requests with 401.
*/
func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	}))

	anonymous := httptest.NewRecorder()
	handler.ServeHTTP(anonymous, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithActor(request.Context(), &sec.Actor{UserID: "u1"}))
	authenticated := httptest.NewRecorder()
	handler.ServeHTTP(authenticated, request)
	assert.Equal(t, http.StatusNoContent, authenticated.Code)
}

/*
TestRateLimiter_BurstAndSweep exhausts a bucket and verifies idle clients are dropped.
*/
func TestRateLimiter_BurstAndSweep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := NewRateLimiter(ctx, 1, 2)
	now := time.Now()

	assert.True(t, limiter.allow("10.0.0.1", now))
	assert.True(t, limiter.allow("10.0.0.1", now))
	assert.False(t, limiter.allow("10.0.0.1", now))
	assert.True(t, limiter.allow("10.0.0.2", now))

	limiter.sweep(now.Add(constants.RateLimitClientTTL + time.Second))
	assert.Empty(t, limiter.clients)
}

/*
TestRateLimiter_Middleware answers 429 once the bucket is empty.
*/
func TestRateLimiter_Middleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := NewRateLimiter(ctx, 0.001, 1).Middleware(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

/*
TestCORS_AllowList only reflects origins present in the allow-list.
*/
func TestCORS_AllowList(t *testing.T) {
	handler := CORS([]string{"http://localhost:5173"})(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	allowed := httptest.NewRequest(http.MethodGet, "/api/blogs", nil)
	allowed.Header.Set("Origin", "http://localhost:5173")
	allowedRecorder := httptest.NewRecorder()
	handler.ServeHTTP(allowedRecorder, allowed)

	assert.Equal(t, "http://localhost:5173", allowedRecorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", allowedRecorder.Header().Get("Access-Control-Allow-Credentials"))

	denied := httptest.NewRequest(http.MethodGet, "/api/blogs", nil)
	denied.Header.Set("Origin", "https://evil.example")
	deniedRecorder := httptest.NewRecorder()
	handler.ServeHTTP(deniedRecorder, denied)

	assert.Empty(t, deniedRecorder.Header().Get("Access-Control-Allow-Origin"))
}

/*
TestRequestID_PropagatesHeader reuses a client-provided correlation ID.
*/
func TestRequestID_PropagatesHeader(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "req-42")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", recorder.Header().Get(constants.HeaderXRequestID))

	generated := httptest.NewRecorder()
	handler.ServeHTTP(generated, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, generated.Header().Get(constants.HeaderXRequestID))
}

/*
TestRealIP prefers proxy headers over the socket address.
*/
func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:4321"
	assert.Equal(t, "192.0.2.1", RealIP(request))

	request.Header.Set(constants.HeaderXForwardedFor, "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", RealIP(request))

	request.Header.Set(constants.HeaderXRealIP, "198.51.100.7")
	assert.Equal(t, "198.51.100.7", RealIP(request))
}
