// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

// Package room provides the room and comment domain types for Hearsay.
//
// Rooms are chat spaces anchored to a geographic point with one of three
// fixed visibility radii. Both entity types are validated through the shared
// constraint engine before persistence.
package room

import (
	"context"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
)

// Topic types a room can carry.
const (
	TopicURL      = "url"
	TopicPhoto    = "photo"
	TopicLocation = "location"
)

// Visibility radii in meters and the scope names they map to.
const (
	RadiusBlock        = 100
	RadiusNeighborhood = 800
	RadiusCity         = 8000
)

// ScopeForRadius maps an enumerated radius to its scope name.
// Returns false for any radius outside the enumerated set, including
// numerically close values.
func ScopeForRadius(radius int) (string, bool) {
	switch radius {
	case RadiusBlock:
		return "block", true
	case RadiusNeighborhood:
		return "neighborhood", true
	case RadiusCity:
		return "city", true
	default:
		return "", false
	}
}

// Topic is what a room is about: a URL, a photo, or a place.
type Topic struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Location anchors a room to a point and a visibility radius.
type Location struct {
	Lat    string `json:"lat"`
	Lng    string `json:"lng"`
	Radius int    `json:"radius"`
}

// Scope returns the named scope for the location's radius ("block",
// "neighborhood" or "city"), or an empty string for an invalid radius.
func (l Location) Scope() string {
	scope, _ := ScopeForRadius(l.Radius)
	return scope
}

// Room is a geolocation-anchored chat space.
type Room struct {
	ID        ulid.ULID `json:"id"`
	AuthorID  ulid.ULID `json:"authorId"`
	Title     string    `json:"title"`
	Topic     Topic     `json:"topic"`
	Location  Location  `json:"location"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"createdAt"`
}

// Field implements constraint.Record. Nested fields use dotted names so the
// room schema can address them the way the constraint tables are written.
func (r *Room) Field(name string) (string, bool) {
	switch name {
	case "title":
		return r.Title, true
	case "topic.content":
		return r.Topic.Content, true
	case "topic.type":
		return r.Topic.Type, true
	case "location.lat":
		return r.Location.Lat, true
	case "location.lng":
		return r.Location.Lng, true
	case "location.radius":
		return strconv.Itoa(r.Location.Radius), true
	default:
		return "", false
	}
}

// Comment is a message posted in a room.
type Comment struct {
	ID        ulid.ULID `json:"id"`
	RoomID    ulid.ULID `json:"roomId"`
	AuthorID  ulid.ULID `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Field implements constraint.Record.
func (c *Comment) Field(name string) (string, bool) {
	if name == "content" {
		return c.Content, true
	}
	return "", false
}

// Repository manages room persistence.
type Repository interface {
	// Create stores a new room.
	Create(ctx context.Context, room *Room) error

	// Get retrieves a room by ID.
	Get(ctx context.Context, id ulid.ULID) (*Room, error)

	// ByAuthor retrieves all rooms created by a user, newest first.
	ByAuthor(ctx context.Context, authorID ulid.ULID) ([]Room, error)

	// ListByArchived retrieves rooms filtered by their archived flag,
	// newest first.
	ListByArchived(ctx context.Context, archived bool) ([]Room, error)

	// SetArchived flips a room's archived flag.
	SetArchived(ctx context.Context, id ulid.ULID, archived bool) error

	// Delete removes a room.
	Delete(ctx context.Context, id ulid.ULID) error
}

// CommentRepository manages comment persistence.
type CommentRepository interface {
	// Create stores a new comment.
	Create(ctx context.Context, comment *Comment) error

	// ListByRoom retrieves all comments in a room, oldest first.
	ListByRoom(ctx context.Context, roomID ulid.ULID) ([]Comment, error)
}
