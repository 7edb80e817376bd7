// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package identity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service orchestrates the user lifecycle: validation, credential hashing,
// record persistence and token issuance, in that order. It never retries,
// never imposes timeouts, and never serializes concurrent operations on the
// same identity; those concerns belong to callers and the store.
type Service struct {
	users  UserRepository
	rooms  RoomLoader
	hasher PasswordHasher
	issuer TokenIssuer
	logger *slog.Logger
}

// NewService creates a Service. All dependencies are required.
func NewService(users UserRepository, rooms RoomLoader, hasher PasswordHasher, issuer TokenIssuer) (*Service, error) {
	return NewServiceWithLogger(users, rooms, hasher, issuer, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, rooms RoomLoader, hasher PasswordHasher, issuer TokenIssuer, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if rooms == nil {
		return nil, oops.Errorf("room loader is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if issuer == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{users: users, rooms: rooms, hasher: hasher, issuer: issuer, logger: logger}, nil
}

// Create registers a new user.
//
// Sequence: validate, hash the password, persist the record, issue a token,
// persist the token. Nothing is written before validation and hashing
// succeed. If a token step fails after the record committed, the returned
// error matches ErrTokenMissing and the record stays committed — callers
// must not assume rejection implies no durable state change.
func (s *Service) Create(ctx context.Context, in CreateInput) (View, error) {
	if msg := ValidateCreate(in); msg != "" {
		return View{}, oops.Code("IDENTITY_INVALID_DATA").
			With("schema", "user").
			Errorf("%s", msg)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return View{}, err
	}
	// The plaintext is dead from here on; only the digest travels further.

	now := time.Now().UTC()
	user := &User{
		ID:           ulid.Make(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: digest,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return View{}, oops.Code("IDENTITY_CREATE_FAILED").
			With("username", in.Username).
			Wrap(err)
	}

	if err := s.attachToken(ctx, user); err != nil {
		s.logger.WarnContext(ctx, "user committed without auth token",
			"user_id", user.ID.String())
		return View{}, oops.Code("TOKEN_ISSUE_FAILED").
			With("user_id", user.ID.String()).
			With("state", "record_committed").
			Wrap(errors.Join(ErrTokenMissing, err))
	}

	return user.View(true), nil
}

// Update applies a partial delta to an existing user.
//
// Absent delta fields keep their current values. A new password triggers
// hashing and token rotation; without one, the existing hash and token are
// untouched and the operation ends after the record write. A rotation
// failure after the record committed surfaces as ErrTokenStale with the
// record left committed.
func (s *Service) Update(ctx context.Context, existing *User, delta UpdateInput) (View, error) {
	if existing == nil {
		return View{}, oops.Code("IDENTITY_INVALID_DATA").Errorf("existing user is required")
	}

	merged := mergedRecord{existing: existing, delta: delta}
	if msg := userDeltaSchema.Validate(merged); msg != "" {
		return View{}, oops.Code("IDENTITY_INVALID_DATA").
			With("schema", "user").
			Errorf("%s", msg)
	}

	updated := *existing
	if delta.Username != "" {
		updated.Username = delta.Username
	}
	if delta.Email != "" {
		updated.Email = delta.Email
	}

	rotate := delta.Password != ""
	if rotate {
		digest, err := s.hasher.Hash(delta.Password)
		if err != nil {
			return View{}, err
		}
		updated.PasswordHash = digest
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, &updated); err != nil {
		return View{}, oops.Code("IDENTITY_UPDATE_FAILED").
			With("user_id", updated.ID.String()).
			Wrap(err)
	}

	if !rotate {
		return updated.View(false), nil
	}

	if err := s.attachToken(ctx, &updated); err != nil {
		s.logger.WarnContext(ctx, "auth token not rotated after password change",
			"user_id", updated.ID.String())
		return View{}, oops.Code("TOKEN_ISSUE_FAILED").
			With("user_id", updated.ID.String()).
			With("state", "record_committed").
			Wrap(errors.Join(ErrTokenStale, err))
	}

	return updated.View(true), nil
}

// GetByUsername retrieves a user and their rooms by username.
// A lookup miss returns an error matching ErrNotFound; a room-load failure
// propagates without returning a partial view.
func (s *Service) GetByUsername(ctx context.Context, username string) (View, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return View{}, oops.Code("IDENTITY_GET_FAILED").
			With("username", username).
			Wrap(err)
	}
	return s.withRooms(ctx, user)
}

// GetByID retrieves a user and their rooms by ID.
func (s *Service) GetByID(ctx context.Context, id ulid.ULID) (View, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return View{}, oops.Code("IDENTITY_GET_FAILED").
			With("user_id", id.String()).
			Wrap(err)
	}
	return s.withRooms(ctx, user)
}

// Delete removes a user record. Storage errors propagate verbatim; no
// cascading cleanup happens here beyond what the store itself performs.
func (s *Service) Delete(ctx context.Context, existing *User) error {
	if existing == nil {
		return oops.Code("IDENTITY_INVALID_DATA").Errorf("existing user is required")
	}
	if err := s.users.Delete(ctx, existing.ID); err != nil {
		return oops.Code("IDENTITY_DELETE_FAILED").
			With("user_id", existing.ID.String()).
			Wrap(err)
	}
	return nil
}

// IssueMissingToken repairs the orphaned state: it issues and persists a
// token for an existing user that lacks one. Idempotent in effect — calling
// it on a user that already has a token simply rotates it.
func (s *Service) IssueMissingToken(ctx context.Context, existing *User) (View, error) {
	if existing == nil {
		return View{}, oops.Code("IDENTITY_INVALID_DATA").Errorf("existing user is required")
	}
	repaired := *existing
	if err := s.attachToken(ctx, &repaired); err != nil {
		return View{}, oops.Code("TOKEN_ISSUE_FAILED").
			With("user_id", repaired.ID.String()).
			Wrap(err)
	}
	return repaired.View(true), nil
}

// attachToken issues a fresh token for user and persists it, updating
// user.AuthToken on success. The token derives from the identity reference
// plus fresh entropy only — never from credential material.
func (s *Service) attachToken(ctx context.Context, user *User) error {
	token, err := s.issuer.Issue(user.ID.String())
	if err != nil {
		return err
	}
	if err := s.users.UpdateAuthToken(ctx, user.ID, token); err != nil {
		return err
	}
	user.AuthToken = token
	return nil
}

// withRooms loads the user's rooms and assembles the fetch-path view
// (no token, no credential material).
func (s *Service) withRooms(ctx context.Context, user *User) (View, error) {
	rooms, err := s.rooms.ByAuthor(ctx, user.ID)
	if err != nil {
		return View{}, oops.Code("IDENTITY_ROOMS_FAILED").
			With("user_id", user.ID.String()).
			Wrap(err)
	}
	v := user.View(false)
	v.Rooms = rooms
	return v, nil
}
