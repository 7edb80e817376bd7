// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package room

import (
	"strconv"

	"github.com/hearsay-chat/hearsay/internal/constraint"
)

// MaxCommentLength bounds comment content. The upstream data model left the
// upper bound open; 2000 bytes comfortably covers chat-length messages while
// keeping rows small.
const MaxCommentLength = 2000

// roomSchema is the constraint table for rooms. Built once, never mutated.
// The coordinate pre-check runs before any field rule so a malformed lat/lng
// produces its dedicated message instead of generic field errors.
var roomSchema = &constraint.Schema{
	Name: "room",
	PreChecks: []constraint.PreCheck{
		constraint.FloatFields("invalid lat/lng", "location.lat", "location.lng"),
	},
	Fields: []constraint.FieldRules{
		{Field: "title", Rules: []constraint.Rule{
			constraint.Presence{},
			constraint.Length{Min: 1, Max: 100},
		}},
		{Field: "topic.content", Rules: []constraint.Rule{
			constraint.Presence{},
			constraint.Length{Min: 1, Max: 100},
		}},
		{Field: "topic.type", Rules: []constraint.Rule{
			constraint.Presence{},
			constraint.OneOf{Allowed: []string{TopicURL, TopicPhoto, TopicLocation}},
		}},
		{Field: "location.radius", Rules: []constraint.Rule{
			constraint.Presence{},
			constraint.OneOf{Allowed: []string{
				strconv.Itoa(RadiusBlock),
				strconv.Itoa(RadiusNeighborhood),
				strconv.Itoa(RadiusCity),
			}},
		}},
	},
}

// commentSchema is the constraint table for comments.
var commentSchema = &constraint.Schema{
	Name: "comment",
	Fields: []constraint.FieldRules{
		{Field: "content", Rules: []constraint.Rule{
			constraint.Presence{},
			constraint.Length{Min: 1, Max: MaxCommentLength},
		}},
	},
}

// ValidateRoom checks a room against the room constraint table.
// Returns an empty string when valid, otherwise the first violation message.
func ValidateRoom(r *Room) string {
	return roomSchema.Validate(r)
}

// ValidateComment checks a comment against the comment constraint table.
func ValidateComment(c *Comment) string {
	return commentSchema.Validate(c)
}
