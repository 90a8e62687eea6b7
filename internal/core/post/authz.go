// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"github.com/taibuivan/penbook/internal/platform/apperr"
	"github.com/taibuivan/penbook/internal/platform/sec"
)

// # Authorization

// Action is what an actor attempts to do with a resolved post.
type Action int

const (
	// ActionRead covers retrieval.
	ActionRead Action = iota
	// ActionWrite covers update and delete.
	ActionWrite
)

// Authorize decides whether actor may perform action on p.
//
// It is pure: reads are always allowed, writes only for the author.
// A nil actor is anonymous. p must already be resolved.
func Authorize(actor *sec.Actor, action Action, p *Post) bool {
	switch action {
	case ActionRead:
		return true
	case ActionWrite:
		return actor.IsAuthenticated() && p != nil && actor.UserID == p.AuthorID
	default:
		return false
	}
}

// Operation names a post endpoint.
type Operation string

const (
	OpList     Operation = "list"
	OpRetrieve Operation = "retrieve"
	OpCreate   Operation = "create"
	OpUpdate   Operation = "update"
	OpDelete   Operation = "delete"
)

// Requirement is the check an operation demands before it runs.
type Requirement int

const (
	RequireNone Requirement = iota
	RequireAuthenticated
	RequireOwner
)

// policy is the per-operation dispatch table.
var policy = map[Operation]Requirement{
	OpList:     RequireNone,
	OpRetrieve: RequireNone,
	OpCreate:   RequireAuthenticated,
	OpUpdate:   RequireOwner,
	OpDelete:   RequireOwner,
}

// RequirementFor returns the check registered for op. Unknown operations
// require ownership, which nobody holds without a post.
func RequirementFor(op Operation) Requirement {
	requirement, ok := policy[op]
	if !ok {
		return RequireOwner
	}
	return requirement
}

// guard enforces op's requirement for actor against the resolved post p
// (nil for operations that have no target yet).
func guard(actor *sec.Actor, op Operation, p *Post) error {
	switch RequirementFor(op) {
	case RequireNone:
		return nil
	case RequireAuthenticated:
		if !actor.IsAuthenticated() {
			return apperr.NotAuthenticated("Authentication credentials were not provided.")
		}
		return nil
	default:
		if !Authorize(actor, ActionWrite, p) {
			return apperr.Forbidden("You do not have permission to perform this action.")
		}
		return nil
	}
}
