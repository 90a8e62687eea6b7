// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/penbook/internal/platform/apperr"
	"github.com/taibuivan/penbook/internal/platform/sec"
	"github.com/taibuivan/penbook/pkg/uuid"
)

// Service implements the identity use cases consumed by the API layer.
type Service struct {
	userRepository  UserRepository
	tokenRepository TokenRepository
	logger          *slog.Logger
}

// NewService constructs a new [Service] with its repositories.
func NewService(userRepo UserRepository, tokenRepo TokenRepository, logger *slog.Logger) *Service {
	return &Service{
		userRepository:  userRepo,
		tokenRepository: tokenRepo,
		logger:          logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new user.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

/*
Register checks identity uniqueness, hashes the password, and persists a new user.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Validation error naming each taken field, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	var taken []apperr.FieldError

	// Report both duplicates at once when both are taken
	if exists, err := service.exists(context, service.userRepository.FindByUsername, input.Username); err != nil {
		return nil, err
	} else if exists {
		taken = append(taken, apperr.FieldError{Field: FieldUsername, Message: MsgUsernameTaken})
	}

	if exists, err := service.exists(context, service.userRepository.FindByEmail, input.Email); err != nil {
		return nil, err
	} else if exists {
		taken = append(taken, apperr.FieldError{Field: FieldEmail, Message: MsgEmailTaken})
	}

	if len(taken) > 0 {
		return nil, apperr.ValidationError("Validation failed", taken...)
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         sec.RoleMember,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.As(err) != nil {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// exists reports whether find locates a record, treating NOT_FOUND as absence.
func (service *Service) exists(context context.Context, find func(context.Context, string) (*User, error), value string) (bool, error) {
	_, err := find(context, value)
	switch {
	case err == nil:
		return true, nil
	case apperr.HasCode(err, "NOT_FOUND"):
		return false, nil
	default:
		return false, fmt.Errorf("auth_service_lookup_failed: %w", err)
	}
}

// # Authentication Flow

/*
Authenticate verifies a username and password pair.

Description: Unknown usernames and wrong passwords produce the same error,
and unknown usernames still pay for one bcrypt comparison.

Returns:
  - *User: The authenticated account
  - error: A validation error with the generic credentials message
*/
func (service *Service) Authenticate(context context.Context, username, password string) (*User, error) {
	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		if !apperr.HasCode(err, "NOT_FOUND") {
			return nil, fmt.Errorf("auth_service_authenticate_failed: %w", err)
		}
		sec.BurnPasswordCheck(password)
		return nil, apperr.ValidationError(MsgInvalidCredential)
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.ValidationError(MsgInvalidCredential)
	}

	return user, nil
}

// LoginResult is a successful login: the live token and its owner.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Login authenticates the credentials and returns the user's token, issuing
// one if none is live.
func (service *Service) Login(context context.Context, username, password string) (*LoginResult, error) {
	user, err := service.Authenticate(context, username, password)
	if err != nil {
		return nil, err
	}

	token, err := service.IssueOrGetToken(context, user.ID)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))

	return &LoginResult{Token: token, User: user}, nil
}

// # Token Lifecycle

/*
IssueOrGetToken returns the user's live token, creating one if absent.

Returns:
  - string: 40-character hex token
  - error: Generation or storage failures
*/
func (service *Service) IssueOrGetToken(context context.Context, userID string) (string, error) {
	candidate, err := sec.GenerateOpaqueToken(TokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	token, err := service.tokenRepository.IssueOrGet(context, userID, candidate)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	return token, nil
}

// RevokeToken deletes the user's token; revoking an absent token succeeds.
func (service *Service) RevokeToken(context context.Context, userID string) error {
	if err := service.tokenRepository.Revoke(context, userID); err != nil {
		return fmt.Errorf("auth_service_token_revoke_failed: %w", err)
	}
	return nil
}

// Logout revokes the actor's token. Anonymous callers are a no-op.
func (service *Service) Logout(context context.Context, actor *sec.Actor) error {
	if !actor.IsAuthenticated() {
		return nil
	}

	if err := service.RevokeToken(context, actor.ID()); err != nil {
		return err
	}

	service.logger.InfoContext(context, "user_logged_out", slog.String("user_id", actor.ID()))
	return nil
}

/*
ResolveToken maps an opaque token to the actor that owns it.

Returns:
  - *sec.Actor: The token owner
  - error: apperr.Unauthorized for unknown tokens or deleted owners
*/
func (service *Service) ResolveToken(context context.Context, token string) (*sec.Actor, error) {
	userID, err := service.tokenRepository.Resolve(context, token)
	if err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, apperr.Unauthorized(MsgInvalidToken)
		}
		return nil, fmt.Errorf("auth_service_resolve_failed: %w", err)
	}

	return user.Actor(), nil
}

// CurrentUser loads the account behind an authenticated actor.
func (service *Service) CurrentUser(context context.Context, actor *sec.Actor) (*User, error) {
	if !actor.IsAuthenticated() {
		return nil, apperr.Unauthorized("Authentication credentials were not provided")
	}

	user, err := service.userRepository.FindByID(context, actor.UserID)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, apperr.Unauthorized(MsgInvalidToken)
		}
		return nil, fmt.Errorf("auth_service_current_user_failed: %w", err)
	}

	return user, nil
}
