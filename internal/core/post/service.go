// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/penbook/internal/platform/apperr"
	"github.com/taibuivan/penbook/internal/platform/sec"
	"github.com/taibuivan/penbook/internal/platform/validate"
	"github.com/taibuivan/penbook/internal/users/auth"
	"github.com/taibuivan/penbook/pkg/pagination"
	"github.com/taibuivan/penbook/pkg/pointer"
	"github.com/taibuivan/penbook/pkg/slug"
	"github.com/taibuivan/penbook/pkg/uuid"
)

// Service implements the post lifecycle.
type Service struct {
	repo    Repository
	authors AuthorDirectory
	logger  *slog.Logger
	now     func() time.Time
}

// NewService constructs a post [Service].
func NewService(repo Repository, authors AuthorDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		authors: authors,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

/*
Create publishes a new post.

Description: Anonymous actors are rejected. The effective author is the
actor, unless an elevated actor names another user in input.AuthorID.
The effective author must exist.

Parameters:
  - context: context.Context
  - actor: *sec.Actor (nil for anonymous)
  - input: CreateInput

Returns:
  - *Post: The stored post with author_username
  - error: NOT_AUTHENTICATED, VALIDATION_ERROR or storage errors
*/
func (service *Service) Create(context context.Context, actor *sec.Actor, input CreateInput) (*Post, error) {
	if err := guard(actor, OpCreate, nil); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).
		MaxLen(FieldTitle, title, TitleMaxLength).
		Required(FieldContent, content)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	authorID := actor.UserID
	if input.AuthorID != "" && actor.IsElevated() {
		authorID = input.AuthorID
	}

	author, err := service.resolveAuthor(context, authorID)
	if err != nil {
		return nil, err
	}

	now := service.now()
	post := &Post{
		ID:             uuid.New(),
		Title:          title,
		Slug:           slug.From(title),
		Content:        content,
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := service.repo.Create(context, post); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "post_created",
		slog.String("post_id", post.ID),
		slog.String("author_id", post.AuthorID),
		slog.String("actor_id", actor.ID()),
	)

	return post, nil
}

// Get returns a post by ID. Reads are public.
func (service *Service) Get(context context.Context, id string) (*Post, error) {
	if err := guard(nil, OpRetrieve, nil); err != nil {
		return nil, err
	}
	return service.find(context, id)
}

// List returns one page of posts, newest first, and the total count.
// Pages past the end (other than the first) are NOT_FOUND.
func (service *Service) List(context context.Context, params pagination.Params) ([]*Post, int, error) {
	if err := guard(nil, OpList, nil); err != nil {
		return nil, 0, err
	}

	posts, total, err := service.repo.List(context, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}

	if err := params.Validate(total); err != nil {
		return nil, 0, apperr.NotFoundMessage(err.Error())
	}

	return posts, total, nil
}

/*
Update applies the supplied fields to a post owned by actor.

Description: The post is resolved first, so a missing post is NOT_FOUND
for everyone; only then is ownership checked. The author is never
reassigned. updatedat always moves forward.

Returns:
  - *Post: The updated post
  - error: NOT_FOUND, FORBIDDEN, VALIDATION_ERROR or storage errors
*/
func (service *Service) Update(context context.Context, actor *sec.Actor, id string, input UpdateInput) (*Post, error) {
	post, err := service.find(context, id)
	if err != nil {
		return nil, err
	}

	if err := guard(actor, OpUpdate, post); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Replace {
		validator.Custom(FieldTitle, input.Title == nil, msgRequired).
			Custom(FieldContent, input.Content == nil, msgRequired)
	}
	if input.Title != nil {
		post.Title = strings.TrimSpace(*input.Title)
		validator.Required(FieldTitle, post.Title).MaxLen(FieldTitle, post.Title, TitleMaxLength)
	}
	post.Content = strings.TrimSpace(pointer.Fallback(input.Content, post.Content))
	if input.Content != nil {
		validator.Required(FieldContent, post.Content)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	post.Slug = slug.From(post.Title)

	now := service.now()
	if !now.After(post.UpdatedAt) {
		now = post.UpdatedAt.Add(time.Microsecond)
	}
	post.UpdatedAt = now

	if err := service.repo.Update(context, post); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "post_updated",
		slog.String("post_id", post.ID),
		slog.String("actor_id", actor.ID()),
	)

	return post, nil
}

// Delete removes a post owned by actor.
func (service *Service) Delete(context context.Context, actor *sec.Actor, id string) error {
	post, err := service.find(context, id)
	if err != nil {
		return err
	}

	if err := guard(actor, OpDelete, post); err != nil {
		return err
	}

	if err := service.repo.Delete(context, post.ID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "post_deleted",
		slog.String("post_id", post.ID),
		slog.String("actor_id", actor.ID()),
	)

	return nil
}

// find resolves a post; malformed IDs cannot exist and are NOT_FOUND.
func (service *Service) find(context context.Context, id string) (*Post, error) {
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound("Post")
	}
	return service.repo.FindByID(context, id)
}

// resolveAuthor loads the effective author or fails validation on "author".
func (service *Service) resolveAuthor(context context.Context, id string) (*auth.User, error) {
	if !uuid.IsValid(id) {
		return nil, invalidAuthor(id)
	}

	user, err := service.authors.FindByID(context, id)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, invalidAuthor(id)
		}
		return nil, fmt.Errorf("post_service_author_lookup_failed: %w", err)
	}

	return user, nil
}
