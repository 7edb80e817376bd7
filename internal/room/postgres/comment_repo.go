// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/hearsay-chat/hearsay/internal/room"
)

// CommentRepository implements room.CommentRepository using PostgreSQL.
type CommentRepository struct {
	pool poolIface
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(pool poolIface) *CommentRepository {
	return &CommentRepository{pool: pool}
}

var _ room.CommentRepository = (*CommentRepository)(nil)

// Create stores a new comment.
func (r *CommentRepository) Create(ctx context.Context, comment *room.Comment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO comments (id, room_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		comment.ID.String(),
		comment.RoomID.String(),
		comment.AuthorID.String(),
		comment.Content,
		comment.CreatedAt,
	)
	if err != nil {
		// The room_id foreign key failing means the room is gone, not a
		// storage fault.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return oops.Code("ROOM_NOT_FOUND").
				With("room_id", comment.RoomID.String()).
				Wrap(room.ErrNotFound)
		}
		return oops.Code("COMMENT_INSERT_FAILED").
			With("operation", "insert comment").
			With("room_id", comment.RoomID.String()).
			Wrap(err)
	}
	return nil
}

// ListByRoom retrieves all comments in a room, oldest first.
func (r *CommentRepository) ListByRoom(ctx context.Context, roomID ulid.ULID) ([]room.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, room_id, author_id, content, created_at
		FROM comments
		WHERE room_id = $1
		ORDER BY created_at ASC
	`, roomID.String())
	if err != nil {
		return nil, oops.Code("COMMENT_LIST_FAILED").
			With("operation", "list comments by room").
			With("room_id", roomID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var comments []room.Comment
	for rows.Next() {
		var (
			c           room.Comment
			idStr       string
			roomIDStr   string
			authorIDStr string
			createdAt   time.Time
		)
		if err := rows.Scan(&idStr, &roomIDStr, &authorIDStr, &c.Content, &createdAt); err != nil {
			return nil, oops.Code("COMMENT_SCAN_FAILED").
				With("operation", "scan comment row").
				Wrap(err)
		}
		if c.ID, err = ulid.Parse(idStr); err != nil {
			return nil, oops.Code("COMMENT_SCAN_FAILED").
				With("operation", "parse comment id").
				Wrap(err)
		}
		if c.RoomID, err = ulid.Parse(roomIDStr); err != nil {
			return nil, oops.Code("COMMENT_SCAN_FAILED").
				With("operation", "parse room id").
				Wrap(err)
		}
		if c.AuthorID, err = ulid.Parse(authorIDStr); err != nil {
			return nil, oops.Code("COMMENT_SCAN_FAILED").
				With("operation", "parse author id").
				Wrap(err)
		}
		c.CreatedAt = createdAt
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("COMMENT_LIST_FAILED").
			With("operation", "iterate comments").
			Wrap(err)
	}
	return comments, nil
}
