// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/penbook/internal/platform/apperr"
	"github.com/taibuivan/penbook/internal/platform/constants"
)

// RedisTokenRepository implements [TokenRepository] with two keys per token:
// token → user ID for resolution, and user ID → token for idempotent issue
// and revocation.
type RedisTokenRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenRepository creates a Redis-backed token store. A zero ttl keeps
// tokens until they are revoked.
func NewTokenRepository(client *redis.Client, ttl time.Duration) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, ttl: ttl}
}

func tokenKey(token string) string { return constants.RedisPrefixToken + token }
func userKey(userID string) string { return constants.RedisPrefixUserToken + userID }

// releaseStale deletes KEYS[1] only while it still holds ARGV[1].
var releaseStale = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

/*
IssueOrGet claims the user's token slot for candidate.

Description: The token key is written first so a claimed slot always points
at a resolvable token. If SETNX loses to an existing token, the candidate's
key is removed and the existing token is returned while it still resolves.
A slot pointing at an expired token is released and claimed again.

Parameters:
  - context: context.Context
  - userID: string
  - candidate: string (freshly generated token)

Returns:
  - string: The live token
  - error: Connectivity errors
*/
func (repository *RedisTokenRepository) IssueOrGet(context context.Context, userID, candidate string) (string, error) {
	for attempt := 0; attempt < issueAttempts; attempt++ {

		// Make the candidate resolvable before publishing it
		if err := repository.client.Set(context, tokenKey(candidate), userID, repository.ttl).Err(); err != nil {
			return "", fmt.Errorf("redis_token_set_failed: %w", err)
		}

		claimed, err := repository.client.SetNX(context, userKey(userID), candidate, repository.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("redis_token_claim_failed: %w", err)
		}
		if claimed {
			return candidate, nil
		}

		// Another token already owns the slot
		if err := repository.client.Del(context, tokenKey(candidate)).Err(); err != nil {
			return "", fmt.Errorf("redis_token_discard_failed: %w", err)
		}

		existing, err := repository.client.Get(context, userKey(userID)).Result()
		if errors.Is(err, redis.Nil) {
			// Revoked or expired in between; claim again
			continue
		}
		if err != nil {
			return "", fmt.Errorf("redis_token_get_failed: %w", err)
		}

		live, err := repository.client.Exists(context, tokenKey(existing)).Result()
		if err != nil {
			return "", fmt.Errorf("redis_token_exists_failed: %w", err)
		}
		if live == 1 {
			return existing, nil
		}

		// The slot outlived its token
		if err := releaseStale.Run(context, repository.client, []string{userKey(userID)}, existing).Err(); err != nil {
			return "", fmt.Errorf("redis_token_release_failed: %w", err)
		}
	}

	return "", fmt.Errorf("redis_token_issue_failed: user %s: contention", userID)
}

/*
Resolve returns the user ID bound to token.

Returns:
  - string: UserID
  - error: apperr.Unauthorized if absent, otherwise connectivity errors
*/
func (repository *RedisTokenRepository) Resolve(context context.Context, token string) (string, error) {
	userID, err := repository.client.Get(context, tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.Unauthorized(MsgInvalidToken)
		}
		return "", fmt.Errorf("redis_token_resolve_failed: %w", err)
	}
	return userID, nil
}

// Revoke deletes both keys of the user's token, if any.
func (repository *RedisTokenRepository) Revoke(context context.Context, userID string) error {
	token, err := repository.client.Get(context, userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("redis_token_lookup_failed: %w", err)
	}

	if err := repository.client.Del(context, tokenKey(token), userKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis_token_revoke_failed: %w", err)
	}
	return nil
}
