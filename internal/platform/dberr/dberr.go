// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies PostgreSQL errors so repositories can translate
// them into [apperr.AppError] values without leaking SQL details.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/penbook/internal/platform/apperr"
)

// Wrap maps a database error onto an [apperr.AppError].
//
// pgx.ErrNoRows becomes a 404 naming resource; anything else becomes a 500
// that keeps err as its cause for logging.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if ae := apperr.As(err); ae != nil {
		return ae
	}

	if IsNoRows(err) {
		return apperr.NotFound(resource)
	}

	return apperr.Internal(err)
}

// IsNoRows reports whether err means the query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// UniqueViolation returns the violated constraint name when err is a 23505.
func UniqueViolation(err error) (string, bool) {
	return constraintFor(err, pgerrcode.UniqueViolation)
}

// ForeignKeyViolation returns the violated constraint name when err is a 23503.
func ForeignKeyViolation(err error) (string, bool) {
	return constraintFor(err, pgerrcode.ForeignKeyViolation)
}

func constraintFor(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}
