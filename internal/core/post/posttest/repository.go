// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package posttest provides an in-memory post store for tests that exercise
// the post lifecycle without PostgreSQL.
package posttest

import (
	"context"
	"sort"
	"sync"

	"github.com/taibuivan/penbook/internal/core/post"
	"github.com/taibuivan/penbook/internal/platform/apperr"
)

// Repository is a concurrency-safe, map-backed [post.Repository].
type Repository struct {
	mu    sync.RWMutex
	posts map[string]post.Post
}

// NewRepository returns an empty store.
func NewRepository() *Repository {
	return &Repository{posts: make(map[string]post.Post)}
}

// Create stores a copy of p.
func (repository *Repository) Create(_ context.Context, p *post.Post) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.posts[p.ID] = *p
	return nil
}

// FindByID returns a copy of the stored post.
func (repository *Repository) FindByID(_ context.Context, id string) (*post.Post, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	stored, ok := repository.posts[id]
	if !ok {
		return nil, apperr.NotFound("Post")
	}
	return &stored, nil
}

// List orders by creation time then ID, both descending.
func (repository *Repository) List(_ context.Context, limit, offset int) ([]*post.Post, int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	all := make([]*post.Post, 0, len(repository.posts))
	for _, stored := range repository.posts {
		copied := stored
		all = append(all, &copied)
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	total := len(all)
	if offset >= total {
		return []*post.Post{}, total, nil
	}

	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// Update overwrites the mutable fields of a stored post.
func (repository *Repository) Update(_ context.Context, p *post.Post) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.posts[p.ID]
	if !ok {
		return apperr.NotFound("Post")
	}

	stored.Title = p.Title
	stored.Slug = p.Slug
	stored.Content = p.Content
	stored.UpdatedAt = p.UpdatedAt
	repository.posts[p.ID] = stored
	return nil
}

// Delete removes a post.
func (repository *Repository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.posts[id]; !ok {
		return apperr.NotFound("Post")
	}
	delete(repository.posts, id)
	return nil
}
