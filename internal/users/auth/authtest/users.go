// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authtest provides an in-memory user directory for tests that
// exercise the identity service without PostgreSQL.
package authtest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/penbook/internal/platform/apperr"
	"github.com/taibuivan/penbook/internal/platform/validate"
	"github.com/taibuivan/penbook/internal/users/auth"
)

// UserRepository is a concurrency-safe, map-backed [auth.UserRepository]
// enforcing the same uniqueness rules as the users.account table.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*auth.User
}

// NewUserRepository returns an empty directory.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*auth.User)}
}

// Create stores a copy of user.
func (repository *UserRepository) Create(_ context.Context, user *auth.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.users {
		if existing.Username == user.Username {
			return validate.FieldErr(auth.FieldUsername, auth.MsgUsernameTaken)
		}
		if strings.EqualFold(existing.Email, user.Email) {
			return validate.FieldErr(auth.FieldEmail, auth.MsgEmailTaken)
		}
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	stored := *user
	repository.users[user.ID] = &stored
	return nil
}

// FindByID returns the user with the given ID.
func (repository *UserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	return repository.find(func(user *auth.User) bool { return user.ID == id })
}

// FindByUsername returns the user with the given username.
func (repository *UserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return repository.find(func(user *auth.User) bool { return user.Username == username })
}

// FindByEmail returns the user with the given email, ignoring case.
func (repository *UserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return repository.find(func(user *auth.User) bool { return strings.EqualFold(user.Email, email) })
}

// Delete removes a user, mimicking an account deleted out of band.
func (repository *UserRepository) Delete(id string) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	delete(repository.users, id)
}

func (repository *UserRepository) find(match func(*auth.User) bool) (*auth.User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	for _, user := range repository.users {
		if match(user) {
			found := *user
			return &found, nil
		}
	}
	return nil, apperr.NotFound("User")
}
