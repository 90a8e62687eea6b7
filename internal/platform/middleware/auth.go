// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/penbook/internal/platform/apperr"
	"github.com/taibuivan/penbook/internal/platform/constants"
	"github.com/taibuivan/penbook/internal/platform/ctxutil"
	"github.com/taibuivan/penbook/internal/platform/respond"
	"github.com/taibuivan/penbook/internal/platform/sec"
)

// TokenResolver turns an opaque token into the actor that owns it.
//
// It returns an UNAUTHORIZED [apperr.AppError] when the token is unknown or
// revoked, and any other error for infrastructure failures.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*sec.Actor, error)
}

// Authenticate resolves the Authorization header into a [*sec.Actor].
//
// # Flow
//  1. No header: the request proceeds as anonymous.
//  2. Header not of the form "Token <key>" or "Bearer <key>": 401.
//  3. Unknown or revoked token: the request proceeds as anonymous, so that
//     protected routes answer with their own policy and logout stays tolerant.
//  4. Otherwise the actor is stored in the request context.
func Authenticate(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			token, ok := parseAuthorization(authHeader)
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Resolution ───────────────────────────────────────────
			actor, err := resolver.ResolveToken(request.Context(), token)
			if err != nil {
				if apperr.HasCode(err, "UNAUTHORIZED") {
					ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "token_not_resolved")
					next.ServeHTTP(writer, request)
					return
				}
				respond.Error(writer, request, err)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithActor(request.Context(), actor)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", actor.UserID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated with a 401.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !ctxutil.GetActor(request.Context()).IsAuthenticated() {
			respond.Error(writer, request, apperr.Unauthorized("Authentication credentials were not provided"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// parseAuthorization splits "<scheme> <token>" and accepts the Token and Bearer schemes.
func parseAuthorization(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}

	switch strings.ToLower(parts[0]) {
	case constants.AuthSchemeToken, constants.AuthSchemeBearer:
		return parts[1], true
	default:
		return "", false
	}
}
