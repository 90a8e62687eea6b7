// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"fmt"

	"github.com/taibuivan/penbook/internal/platform/apperr"
	"github.com/taibuivan/penbook/internal/platform/database/schema"
	"github.com/taibuivan/penbook/internal/platform/dberr"
	"github.com/taibuivan/penbook/internal/platform/postgres"
	"github.com/taibuivan/penbook/internal/platform/validate"
)

// PostgresRepository implements [Repository] on blog.post.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository creates a new PostgreSQL post store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectPosts joins the author so every read carries author_username.
var selectPosts = fmt.Sprintf(`
	SELECT p.%s, p.%s, p.%s, p.%s, p.%s, u.%s, p.%s, p.%s
	FROM %s p
	JOIN %s u ON u.%s = p.%s`,
	schema.BlogPost.ID, schema.BlogPost.Title, schema.BlogPost.Slug, schema.BlogPost.Content,
	schema.BlogPost.AuthorID, schema.UserAccount.Username, schema.BlogPost.CreatedAt, schema.BlogPost.UpdatedAt,
	schema.BlogPost.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.BlogPost.AuthorID)

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*Post, error) {
	post := &Post{}
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&post.AuthorID,
		&post.AuthorUsername,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	return post, err
}

/*
Create inserts a post.

Description: A foreign-key violation on the author column means the author
vanished after it was resolved; it is reported as a validation error on
"author" rather than a server fault.

Parameters:
  - context: context.Context
  - post: *Post (ID, timestamps and slug already set)

Returns:
  - error: Validation or storage errors
*/
func (repository *PostgresRepository) Create(context context.Context, post *Post) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.BlogPost.Table,
		schema.BlogPost.ID, schema.BlogPost.Title, schema.BlogPost.Slug, schema.BlogPost.Content,
		schema.BlogPost.AuthorID, schema.BlogPost.CreatedAt, schema.BlogPost.UpdatedAt)

	_, err := repository.db.Exec(context, query,
		post.ID, post.Title, post.Slug, post.Content, post.AuthorID, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		if _, ok := dberr.ForeignKeyViolation(err); ok {
			return invalidAuthor(post.AuthorID)
		}
		return fmt.Errorf("postgres_post_repo_create_failed: %w", err)
	}
	return nil
}

// FindByID returns a single post with its author's username.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Post, error) {
	query := selectPosts + fmt.Sprintf(` WHERE p.%s = $1`, schema.BlogPost.ID)

	post, err := scanPost(repository.db.QueryRow(context, query, id))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("Post")
		}
		return nil, fmt.Errorf("postgres_post_repo_find_failed: %w", err)
	}
	return post, nil
}

// List returns a page of posts, newest first, and the total count.
func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Post, int, error) {
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.BlogPost.Table)
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_post_repo_count_failed: %w", err)
	}

	query := selectPosts + fmt.Sprintf(` ORDER BY p.%s DESC, p.%s DESC LIMIT $1 OFFSET $2`,
		schema.BlogPost.CreatedAt, schema.BlogPost.ID)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_post_repo_list_failed: %w", err)
	}
	defer rows.Close()

	posts := make([]*Post, 0, limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_post_repo_scan_failed: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_post_repo_rows_failed: %w", err)
	}

	return posts, total, nil
}

// Update writes the mutable columns of post.
func (repository *PostgresRepository) Update(context context.Context, post *Post) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5 WHERE %s = $1`,
		schema.BlogPost.Table,
		schema.BlogPost.Title, schema.BlogPost.Slug, schema.BlogPost.Content, schema.BlogPost.UpdatedAt,
		schema.BlogPost.ID)

	tag, err := repository.db.Exec(context, query, post.ID, post.Title, post.Slug, post.Content, post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres_post_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Post")
	}
	return nil
}

// Delete removes a post permanently.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.BlogPost.Table, schema.BlogPost.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_post_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Post")
	}
	return nil
}

// invalidAuthor is the validation error for an author that does not resolve.
func invalidAuthor(id string) error {
	return validate.FieldErr(FieldAuthor, fmt.Sprintf("Invalid pk %q - object does not exist.", id))
}
