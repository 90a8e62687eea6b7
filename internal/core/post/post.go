// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package post implements the blog post lifecycle.

Every operation receives the calling actor explicitly and consults the
per-operation policy table before touching storage. Reads are public;
creation needs an authenticated actor; updates and deletes are reserved
for the post's author.
*/
package post

import "time"

// Post is a blog entry owned by exactly one author.
type Post struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Content        string    `json:"content"`
	AuthorID       string    `json:"author"`
	AuthorUsername string    `json:"author_username"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateInput carries the client-supplied fields of a new post.
//
// AuthorID is honored only for elevated actors; everyone else authors
// their own posts.
type CreateInput struct {
	Title    string
	Content  string
	AuthorID string
}

// UpdateInput carries an update; nil fields are left untouched unless
// Replace is set, in which case every writable field must be present.
type UpdateInput struct {
	Title   *string
	Content *string
	Replace bool
}

// Global field names for validation
const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldAuthor  = "author"
)

// TitleMaxLength bounds titles in characters.
const TitleMaxLength = 200

const msgRequired = "This field is required."
