// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/penbook/internal/platform/apperr"
)

func newTokenRepository(t *testing.T, ttl time.Duration) (*RedisTokenRepository, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewTokenRepository(client, ttl), server
}

/*
TestRedisTokenRepository_IssueOrGet keeps one live token per user.
*/
func TestRedisTokenRepository_IssueOrGet(t *testing.T) {
	repository, server := newTokenRepository(t, 0)
	ctx := context.Background()

	first, err := repository.IssueOrGet(ctx, "u-alice", "token-a")
	require.NoError(t, err)
	assert.Equal(t, "token-a", first)

	second, err := repository.IssueOrGet(ctx, "u-alice", "token-b")
	require.NoError(t, err)
	assert.Equal(t, "token-a", second)

	// The losing candidate must not stay resolvable
	assert.False(t, server.Exists("auth:token:token-b"))

	other, err := repository.IssueOrGet(ctx, "u-bob", "token-c")
	require.NoError(t, err)
	assert.Equal(t, "token-c", other)
}

/*
TestRedisTokenRepository_ResolveAndRevoke covers the full token lifecycle.
*/
func TestRedisTokenRepository_ResolveAndRevoke(t *testing.T) {
	repository, _ := newTokenRepository(t, 0)
	ctx := context.Background()

	_, err := repository.IssueOrGet(ctx, "u-alice", "token-a")
	require.NoError(t, err)

	userID, err := repository.Resolve(ctx, "token-a")
	require.NoError(t, err)
	assert.Equal(t, "u-alice", userID)

	require.NoError(t, repository.Revoke(ctx, "u-alice"))

	_, err = repository.Resolve(ctx, "token-a")
	assert.True(t, apperr.HasCode(err, "UNAUTHORIZED"))

	// Revoking again is a no-op
	assert.NoError(t, repository.Revoke(ctx, "u-alice"))

	// A fresh token is issued after revocation
	fresh, err := repository.IssueOrGet(ctx, "u-alice", "token-z")
	require.NoError(t, err)
	assert.Equal(t, "token-z", fresh)
}

/*
TestRedisTokenRepository_TTL expires both keys together.
*/
func TestRedisTokenRepository_TTL(t *testing.T) {
	repository, server := newTokenRepository(t, time.Hour)
	ctx := context.Background()

	_, err := repository.IssueOrGet(ctx, "u-alice", "token-a")
	require.NoError(t, err)

	assert.Equal(t, time.Hour, server.TTL("auth:token:token-a"))
	assert.Equal(t, time.Hour, server.TTL("auth:user_token:u-alice"))

	server.FastForward(2 * time.Hour)

	_, err = repository.Resolve(ctx, "token-a")
	assert.True(t, apperr.HasCode(err, "UNAUTHORIZED"))
}

/*
TestRedisTokenRepository_StaleSlot replaces a user slot whose token has expired.
*/
func TestRedisTokenRepository_StaleSlot(t *testing.T) {
	repository, server := newTokenRepository(t, time.Hour)
	ctx := context.Background()

	_, err := repository.IssueOrGet(ctx, "u-alice", "token-a")
	require.NoError(t, err)

	// The token key is gone while the user key survives
	server.Del("auth:token:token-a")
	require.True(t, server.Exists("auth:user_token:u-alice"))

	token, err := repository.IssueOrGet(ctx, "u-alice", "token-b")
	require.NoError(t, err)
	assert.Equal(t, "token-b", token)

	userID, err := repository.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u-alice", userID)

	slot, err := server.Get("auth:user_token:u-alice")
	require.NoError(t, err)
	assert.Equal(t, "token-b", slot)
	assert.Equal(t, time.Hour, server.TTL("auth:user_token:u-alice"))
}

/*
TestRedisTokenRepository_Unavailable surfaces connectivity failures as non-auth errors.
*/
func TestRedisTokenRepository_Unavailable(t *testing.T) {
	repository, server := newTokenRepository(t, 0)
	server.SetError("ERR broken")

	_, err := repository.Resolve(context.Background(), "token-a")
	require.Error(t, err)
	assert.False(t, apperr.HasCode(err, "UNAUTHORIZED"))
}
