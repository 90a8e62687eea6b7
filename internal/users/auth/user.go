// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements user identity and opaque token management.

It owns the user directory (PostgreSQL), the token store (Redis) and the
service that turns credentials into tokens and tokens back into actors.

# Architecture

  - Service: registration, credential checks, token issue/resolve/revoke.
  - Repositories: [UserRepository] for accounts, [TokenRepository] for tokens.
  - Handler: the /api/auth endpoints.
*/
package auth

import (
	"time"

	"github.com/taibuivan/penbook/internal/platform/sec"
)

// # Domain Entities

// User represents a registered Penbook account.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Role         sec.UserRole `json:"-"`
	CreatedAt    time.Time    `json:"-"`
	UpdatedAt    time.Time    `json:"-"`
}

// Actor projects the user into the identity carried through service calls.
func (user *User) Actor() *sec.Actor {
	return &sec.Actor{UserID: user.ID, Username: user.Username, Role: user.Role}
}

// # Field Identifiers

const (
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
)
