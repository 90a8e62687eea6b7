// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/penbook/internal/platform/apperr"
	"github.com/taibuivan/penbook/internal/platform/database/schema"
	"github.com/taibuivan/penbook/internal/platform/dberr"
	"github.com/taibuivan/penbook/internal/platform/postgres"
	"github.com/taibuivan/penbook/internal/platform/sec"
	"github.com/taibuivan/penbook/internal/platform/validate"
)

// Unique constraints declared by the users migration.
const (
	constraintUsername = "account_username_key"
	constraintEmail    = "account_email_key"
)

var userColumns = strings.Join(schema.UserAccount.Columns(), ", ")

// # User Repository

// PostgresUserRepository implements [UserRepository] on users.account.
type PostgresUserRepository struct {
	db postgres.DB
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

/*
Create persists a new user record into the users.account table.

Description: Initializes timestamps and maps unique-constraint races onto the
same field errors the service reports for pre-checked duplicates.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Validation error on duplicates, otherwise storage errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.UserAccount.Table, userColumns)

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		string(user.Role),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err == nil {
		return nil
	}

	if constraint, ok := dberr.UniqueViolation(err); ok {
		switch constraint {
		case constraintUsername:
			return validate.FieldErr(FieldUsername, MsgUsernameTaken)
		case constraintEmail:
			return validate.FieldErr(FieldEmail, MsgEmailTaken)
		}
	}

	return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
}

// FindByID retrieves a user by primary key.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.ID+" = $1", id)
}

// FindByUsername retrieves a user by exact username.
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.Username+" = $1", username)
}

// FindByEmail retrieves a user by email, ignoring case.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, "LOWER("+schema.UserAccount.Email+") = LOWER($1)", email)
}

func (repository *PostgresUserRepository) findOne(context context.Context, predicate string, arg any) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, userColumns, schema.UserAccount.Table, predicate)

	var role string
	user := &User{}
	err := repository.db.QueryRow(context, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	user.Role = sec.UserRole(role)
	return user, nil
}
