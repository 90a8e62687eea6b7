// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides identity primitives shared by the transport and domain layers:
// the resolved [Actor], role hierarchy, password hashing and opaque token generation.
package sec

// Actor is the identity making a request, resolved from its bearer token.
//
// A nil *Actor is the anonymous caller. Every method is nil-safe so callers
// never need to special-case anonymous requests before asking a question.
type Actor struct {
	UserID   string
	Username string
	Role     UserRole
}

// IsAuthenticated reports whether the actor represents a logged-in user.
func (a *Actor) IsAuthenticated() bool {
	return a != nil && a.UserID != ""
}

// IsElevated reports whether the actor may act on behalf of other users.
func (a *Actor) IsElevated() bool {
	return a.IsAuthenticated() && a.Role.AtLeast(RoleStaff)
}

// ID returns the actor's user ID, or an empty string for anonymous callers.
func (a *Actor) ID() string {
	if a == nil {
		return ""
	}
	return a.UserID
}
