// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Authentication Constraints

const (
	// TokenLength is the byte length of an opaque token; hex encoding doubles it to 40 characters.
	TokenLength = 20

	// UsernameMaxLength bounds usernames, names, and other short profile fields.
	UsernameMaxLength = 150

	// EmailMaxLength is the longest address accepted at registration.
	EmailMaxLength = 254

	// issueAttempts bounds retries when a concurrent issue races on the same user.
	issueAttempts = 3
)

// # Client Messages

const (
	MsgUsernameTaken     = "Username already in use."
	MsgEmailTaken        = "Email already in use."
	MsgInvalidUsername   = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	MsgInvalidCredential = "Unable to log in with provided credentials."
	MsgInvalidToken      = "Invalid token."
	MsgRegistered        = "User registered successfully."
	MsgLoggedOut         = "Successfully logged out."
)
