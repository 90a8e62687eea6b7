// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound when absent, otherwise storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsername returns the account with the given username (exact match).
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email (case-insensitive).
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account.

		Returns:
		  - error: a field-level validation error when username or email is
		    already taken, otherwise storage failures
	*/
	Create(context context.Context, user *User) error
}

// # Token Data Access

// TokenRepository stores opaque tokens, at most one live token per user.
type TokenRepository interface {

	/*
		IssueOrGet binds candidate to userID unless the user already holds a
		token, in which case the existing token is returned and candidate is
		discarded.

		Returns:
		  - string: The user's live token
		  - error: Storage failures
	*/
	IssueOrGet(context context.Context, userID, candidate string) (string, error)

	/*
		Resolve returns the user ID bound to token.

		Returns:
		  - error: apperr.Unauthorized when the token is unknown or revoked
	*/
	Resolve(context context.Context, token string) (string, error)

	/*
		Revoke deletes the user's token. It is a no-op when none exists.
	*/
	Revoke(context context.Context, userID string) error
}
