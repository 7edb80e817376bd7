// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/hearsay-chat/hearsay/internal/room"
)

// RoomRepository implements room.Repository using PostgreSQL.
type RoomRepository struct {
	pool poolIface
}

// NewRoomRepository creates a new RoomRepository.
func NewRoomRepository(pool poolIface) *RoomRepository {
	return &RoomRepository{pool: pool}
}

var _ room.Repository = (*RoomRepository)(nil)

const roomColumns = `id, author_id, title, topic_type, topic_content,
	       lat, lng, radius, archived, created_at`

// Create stores a new room.
func (r *RoomRepository) Create(ctx context.Context, rm *room.Room) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO rooms (
			id, author_id, title, topic_type, topic_content,
			lat, lng, radius, archived, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		rm.ID.String(),
		rm.AuthorID.String(),
		rm.Title,
		rm.Topic.Type,
		rm.Topic.Content,
		rm.Location.Lat,
		rm.Location.Lng,
		rm.Location.Radius,
		rm.Archived,
		rm.CreatedAt,
	)
	if err != nil {
		return oops.Code("ROOM_INSERT_FAILED").
			With("operation", "insert room").
			With("id", rm.ID.String()).
			Wrap(err)
	}
	return nil
}

// Get retrieves a room by ID.
func (r *RoomRepository) Get(ctx context.Context, id ulid.ULID) (*room.Room, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+roomColumns+`
		FROM rooms
		WHERE id = $1
	`, id.String())

	rm, err := scanRoom(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ROOM_NOT_FOUND").
			With("id", id.String()).
			Wrap(room.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ROOM_GET_FAILED").
			With("operation", "get room by id").
			With("id", id.String()).
			Wrap(err)
	}
	return rm, nil
}

// ByAuthor retrieves all rooms created by a user, newest first.
func (r *RoomRepository) ByAuthor(ctx context.Context, authorID ulid.ULID) ([]room.Room, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+roomColumns+`
		FROM rooms
		WHERE author_id = $1
		ORDER BY id DESC
	`, authorID.String())
	if err != nil {
		return nil, oops.Code("ROOM_LIST_FAILED").
			With("operation", "list rooms by author").
			With("author_id", authorID.String()).
			Wrap(err)
	}
	return collectRooms(rows)
}

// ListByArchived retrieves rooms filtered by their archived flag, newest
// first.
func (r *RoomRepository) ListByArchived(ctx context.Context, archived bool) ([]room.Room, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+roomColumns+`
		FROM rooms
		WHERE archived = $1
		ORDER BY id DESC
	`, archived)
	if err != nil {
		return nil, oops.Code("ROOM_LIST_FAILED").
			With("operation", "list rooms by archived").
			Wrap(err)
	}
	return collectRooms(rows)
}

// SetArchived flips a room's archived flag.
func (r *RoomRepository) SetArchived(ctx context.Context, id ulid.ULID, archived bool) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE rooms SET archived = $2 WHERE id = $1
	`, id.String(), archived)
	if err != nil {
		return oops.Code("ROOM_ARCHIVE_FAILED").
			With("operation", "set archived").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ROOM_NOT_FOUND").
			With("id", id.String()).
			Wrap(room.ErrNotFound)
	}
	return nil
}

// Delete removes a room. Comments cascade at the schema level.
func (r *RoomRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM rooms WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("ROOM_DELETE_FAILED").
			With("operation", "delete room").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ROOM_NOT_FOUND").
			With("id", id.String()).
			Wrap(room.ErrNotFound)
	}
	return nil
}

// scanRoom scans a single row into a Room.
// Callers are responsible for handling pgx.ErrNoRows.
func scanRoom(row pgx.Row) (*room.Room, error) {
	var (
		idStr       string
		authorIDStr string
		rm          room.Room
		createdAt   time.Time
	)

	err := row.Scan(
		&idStr,
		&authorIDStr,
		&rm.Title,
		&rm.Topic.Type,
		&rm.Topic.Content,
		&rm.Location.Lat,
		&rm.Location.Lng,
		&rm.Location.Radius,
		&rm.Archived,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if rm.ID, err = ulid.Parse(idStr); err != nil {
		return nil, oops.Code("ROOM_SCAN_FAILED").
			With("operation", "parse room id").
			Wrap(err)
	}
	if rm.AuthorID, err = ulid.Parse(authorIDStr); err != nil {
		return nil, oops.Code("ROOM_SCAN_FAILED").
			With("operation", "parse author id").
			Wrap(err)
	}
	rm.CreatedAt = createdAt
	return &rm, nil
}

// collectRooms drains rows into a slice, closing them when done.
func collectRooms(rows pgx.Rows) ([]room.Room, error) {
	defer rows.Close()

	var rooms []room.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, oops.Code("ROOM_SCAN_FAILED").
				With("operation", "scan room row").
				Wrap(err)
		}
		rooms = append(rooms, *rm)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("ROOM_LIST_FAILED").
			With("operation", "iterate rooms").
			Wrap(err)
	}
	return rooms, nil
}
