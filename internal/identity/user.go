// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package identity

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hearsay-chat/hearsay/internal/room"
)

// User is a persisted account record. PasswordHash and AuthToken never leave
// the server; callers receive a View instead.
type User struct {
	ID           ulid.ULID
	Username     string
	Email        string
	PasswordHash string

	// AuthToken is the stored bearer token. Empty marks the orphaned state:
	// the record was committed but token issuance failed.
	AuthToken string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// View is the credential-stripped representation of a user returned to
// callers. AuthToken is set only on the create and rotation paths.
type View struct {
	UID       string      `json:"uid"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	AuthToken string      `json:"authToken,omitempty"`
	Rooms     []room.Room `json:"rooms,omitempty"`
}

// View builds the external representation of the user. The password hash is
// dropped unconditionally; the token is included only when withToken is set.
func (u *User) View(withToken bool) View {
	v := View{
		UID:      u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
	}
	if withToken {
		v.AuthToken = u.AuthToken
	}
	return v
}

// CreateInput is the raw material for a new account. Password is plaintext
// on input only; it is replaced by its hash during creation and never stored.
type CreateInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Field implements constraint.Record.
func (in CreateInput) Field(name string) (string, bool) {
	switch name {
	case "username":
		return in.Username, true
	case "password":
		return in.Password, true
	case "email":
		return in.Email, true
	default:
		return "", false
	}
}

// UpdateInput is a partial update. Empty fields mean "keep the current
// value"; an empty Password leaves the existing hash and token untouched.
type UpdateInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// mergedRecord is the validation view of an update: supplied delta fields
// overlay the existing record, and password is reported present only when
// the delta carries one.
type mergedRecord struct {
	existing *User
	delta    UpdateInput
}

func (m mergedRecord) Field(name string) (string, bool) {
	switch name {
	case "username":
		if m.delta.Username != "" {
			return m.delta.Username, true
		}
		return m.existing.Username, true
	case "password":
		if m.delta.Password != "" {
			return m.delta.Password, true
		}
		return "", false
	case "email":
		if m.delta.Email != "" {
			return m.delta.Email, true
		}
		return m.existing.Email, true
	default:
		return "", false
	}
}

// UserRepository is the persistence collaborator for user records.
// Implementations return errors wrapping ErrNotFound for lookup misses and
// ErrUsernameTaken for uniqueness violations; all other storage errors pass
// through unmodified for the caller to classify.
type UserRepository interface {
	// Create stores a new user record.
	Create(ctx context.Context, user *User) error

	// Update rewrites an existing user record.
	Update(ctx context.Context, user *User) error

	// UpdateAuthToken persists only the auth token for a user.
	UpdateAuthToken(ctx context.Context, id ulid.ULID, token string) error

	// GetByUsername retrieves a user by username (case-insensitive).
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByAuthToken retrieves a user by its stored bearer token.
	GetByAuthToken(ctx context.Context, token string) (*User, error)

	// Delete removes a user record.
	Delete(ctx context.Context, id ulid.ULID) error
}

// RoomLoader loads the rooms associated with a user for the fetch paths.
type RoomLoader interface {
	// ByAuthor retrieves all rooms created by a user, newest first.
	ByAuthor(ctx context.Context, authorID ulid.ULID) ([]room.Room, error)
}
