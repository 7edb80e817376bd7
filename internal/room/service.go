// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package room

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service provides validated access to room and comment operations.
type Service struct {
	rooms    Repository
	comments CommentRepository
}

// NewService creates a Service. Both repositories are required.
func NewService(rooms Repository, comments CommentRepository) (*Service, error) {
	if rooms == nil {
		return nil, oops.Errorf("room repository is required")
	}
	if comments == nil {
		return nil, oops.Errorf("comment repository is required")
	}
	return &Service{rooms: rooms, comments: comments}, nil
}

// CreateRoom validates and persists a new room authored by authorID.
// The room ID is minted here; CreatedAt is set to the current time.
func (s *Service) CreateRoom(ctx context.Context, authorID ulid.ULID, r *Room) (*Room, error) {
	if authorID == (ulid.ULID{}) {
		return nil, oops.Code("ROOM_INVALID_DATA").Errorf("author id cannot be zero")
	}
	r.AuthorID = authorID
	if msg := ValidateRoom(r); msg != "" {
		return nil, oops.Code("ROOM_INVALID_DATA").With("schema", "room").Errorf("%s", msg)
	}
	r.ID = ulid.Make()
	r.CreatedAt = time.Now().UTC()
	if err := s.rooms.Create(ctx, r); err != nil {
		return nil, oops.Code("ROOM_CREATE_FAILED").With("id", r.ID.String()).Wrap(err)
	}
	return r, nil
}

// GetRoom retrieves a room by ID.
func (s *Service) GetRoom(ctx context.Context, id ulid.ULID) (*Room, error) {
	r, err := s.rooms.Get(ctx, id)
	if err != nil {
		return nil, oops.Code("ROOM_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return r, nil
}

// Feed lists rooms filtered by their archived flag, newest first.
// The client feed shows active rooms by default and archived on request.
func (s *Service) Feed(ctx context.Context, archived bool) ([]Room, error) {
	rooms, err := s.rooms.ListByArchived(ctx, archived)
	if err != nil {
		return nil, oops.Code("ROOM_FEED_FAILED").With("archived", archived).Wrap(err)
	}
	return rooms, nil
}

// Archive flips a room's archived flag.
func (s *Service) Archive(ctx context.Context, id ulid.ULID, archived bool) error {
	if err := s.rooms.SetArchived(ctx, id, archived); err != nil {
		return oops.Code("ROOM_ARCHIVE_FAILED").
			With("id", id.String()).
			With("archived", archived).
			Wrap(err)
	}
	return nil
}

// DeleteRoom removes a room.
func (s *Service) DeleteRoom(ctx context.Context, id ulid.ULID) error {
	if err := s.rooms.Delete(ctx, id); err != nil {
		return oops.Code("ROOM_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	return nil
}

// AddComment validates and persists a comment in a room.
func (s *Service) AddComment(ctx context.Context, roomID, authorID ulid.ULID, content string) (*Comment, error) {
	c := &Comment{
		RoomID:   roomID,
		AuthorID: authorID,
		Content:  content,
	}
	if msg := ValidateComment(c); msg != "" {
		return nil, oops.Code("COMMENT_INVALID_DATA").With("schema", "comment").Errorf("%s", msg)
	}
	c.ID = ulid.Make()
	c.CreatedAt = time.Now().UTC()
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, oops.Code("COMMENT_CREATE_FAILED").
			With("room_id", roomID.String()).
			Wrap(err)
	}
	return c, nil
}

// Comments lists all comments in a room, oldest first.
func (s *Service) Comments(ctx context.Context, roomID ulid.ULID) ([]Comment, error) {
	comments, err := s.comments.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, oops.Code("COMMENT_LIST_FAILED").With("room_id", roomID.String()).Wrap(err)
	}
	return comments, nil
}
