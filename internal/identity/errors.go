// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package identity

import "errors"

// Sentinel errors matched with errors.Is across the persistence boundary.
var (
	// ErrNotFound is returned when a requested user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is returned when a create or update collides with an
	// existing username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrTokenMissing marks the partial-failure state where a user record was
	// committed but no auth token could be issued or persisted for it. The
	// record stays committed; IssueMissingToken is the repair.
	ErrTokenMissing = errors.New("user committed without auth token")

	// ErrTokenStale marks the partial-failure state where a password change
	// was committed but token rotation failed, leaving the previous token in
	// place.
	ErrTokenStale = errors.New("auth token not rotated after password change")
)
