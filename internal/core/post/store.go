// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"

	"github.com/taibuivan/penbook/internal/users/auth"
)

// Repository defines the persistence contract for posts.
//
// Reads return posts with AuthorUsername populated. Missing rows are
// reported as apperr.NotFound.
type Repository interface {
	Create(context context.Context, post *Post) error
	FindByID(context context.Context, id string) (*Post, error)

	// List returns one page in reverse-chronological order (ties broken by
	// descending ID) together with the total number of posts.
	List(context context.Context, limit, offset int) ([]*Post, int, error)

	// Update persists title, slug, content, and updatedat.
	Update(context context.Context, post *Post) error

	// Delete removes the row permanently.
	Delete(context context.Context, id string) error
}

// AuthorDirectory resolves author IDs to accounts.
type AuthorDirectory interface {
	FindByID(context context.Context, id string) (*auth.User, error)
}
