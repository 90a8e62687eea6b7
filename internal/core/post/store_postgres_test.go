// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/penbook/internal/platform/apperr"
)

var postColumns = []string{"id", "title", "slug", "content", "authorid", "username", "createdat", "updatedat"}

func newMockRepository(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewPostgresRepository(mock), mock
}

func TestPostgresRepository_Create(t *testing.T) {
	repository, mock := newMockRepository(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &Post{ID: "p-1", Title: "Hi", Slug: "hi", Content: "World", AuthorID: "u-1", CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec(`INSERT INTO blog\.post`).
		WithArgs("p-1", "Hi", "hi", "World", "u-1", now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repository.Create(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Create_MissingAuthor(t *testing.T) {
	repository, mock := newMockRepository(t)

	mock.ExpectExec(`INSERT INTO blog\.post`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "post_authorid_fkey"})

	err := repository.Create(context.Background(), &Post{ID: "p-1", AuthorID: "u-gone"})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, FieldAuthor, ae.Details[0].Field)
}

func TestPostgresRepository_FindByID(t *testing.T) {
	repository, mock := newMockRepository(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`JOIN users\.account u ON u\.id = p\.authorid WHERE p\.id = \$1`).
		WithArgs("p-1").
		WillReturnRows(pgxmock.NewRows(postColumns).
			AddRow("p-1", "Hi", "hi", "World", "u-1", "alice", created, created))

	p, err := repository.FindByID(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.AuthorUsername)
	assert.Equal(t, created, p.CreatedAt)

	mock.ExpectQuery(`WHERE p\.id = \$1`).
		WithArgs("p-2").
		WillReturnError(pgx.ErrNoRows)

	_, err = repository.FindByID(context.Background(), "p-2")
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_List(t *testing.T) {
	repository, mock := newMockRepository(t)
	newer := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM blog\.post`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))

	mock.ExpectQuery(`ORDER BY p\.createdat DESC, p\.id DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(2, 10).
		WillReturnRows(pgxmock.NewRows(postColumns).
			AddRow("p-12", "B", "b", "b", "u-1", "alice", newer, newer).
			AddRow("p-11", "A", "a", "a", "u-1", "alice", older, older))

	posts, total, err := repository.List(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, posts, 2)
	assert.Equal(t, "p-12", posts[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_UpdateAndDelete(t *testing.T) {
	repository, mock := newMockRepository(t)
	now := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE blog\.post SET title = \$2, slug = \$3, content = \$4, updatedat = \$5 WHERE id = \$1`).
		WithArgs("p-1", "New", "new", "Body", now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repository.Update(context.Background(), &Post{ID: "p-1", Title: "New", Slug: "new", Content: "Body", UpdatedAt: now}))

	mock.ExpectExec(`DELETE FROM blog\.post WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repository.Delete(context.Background(), "p-1")
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
