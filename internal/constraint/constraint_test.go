// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package constraint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hearsay-chat/hearsay/internal/constraint"
)

// mapRecord adapts a plain map to constraint.Record for tests.
type mapRecord map[string]string

func (m mapRecord) Field(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func TestPresence(t *testing.T) {
	schema := &constraint.Schema{
		Name: "test",
		Fields: []constraint.FieldRules{
			{Field: "name", Rules: []constraint.Rule{constraint.Presence{}}},
		},
	}

	t.Run("present value passes", func(t *testing.T) {
		assert.Empty(t, schema.Validate(mapRecord{"name": "alice"}))
	})

	t.Run("absent field fails", func(t *testing.T) {
		assert.Equal(t, "name can't be blank", schema.Validate(mapRecord{}))
	})

	t.Run("empty value fails", func(t *testing.T) {
		assert.Equal(t, "name can't be blank", schema.Validate(mapRecord{"name": ""}))
	})
}

func TestLength(t *testing.T) {
	schema := &constraint.Schema{
		Name: "test",
		Fields: []constraint.FieldRules{
			{Field: "name", Rules: []constraint.Rule{constraint.Length{Min: 4, Max: 14}}},
		},
	}

	t.Run("within bounds passes", func(t *testing.T) {
		assert.Empty(t, schema.Validate(mapRecord{"name": "abcd"}))
		assert.Empty(t, schema.Validate(mapRecord{"name": "abcdefghijklmn"}))
	})

	t.Run("below minimum fails", func(t *testing.T) {
		assert.Equal(t, "name is too short (minimum is 4 characters)",
			schema.Validate(mapRecord{"name": "abc"}))
	})

	t.Run("above maximum fails", func(t *testing.T) {
		assert.Equal(t, "name is too long (maximum is 14 characters)",
			schema.Validate(mapRecord{"name": "abcdefghijklmno"}))
	})

	t.Run("absent field is skipped", func(t *testing.T) {
		assert.Empty(t, schema.Validate(mapRecord{}))
	})

	t.Run("multi-byte input counts characters not bytes", func(t *testing.T) {
		// 9 runes, 18 bytes: inside the 4-14 character bounds.
		assert.Empty(t, schema.Validate(mapRecord{"name": "ααααααααα"}))
	})

	t.Run("multi-byte input past the maximum fails", func(t *testing.T) {
		assert.Equal(t, "name is too long (maximum is 14 characters)",
			schema.Validate(mapRecord{"name": "ααααααααααααααα"}))
	})
}

func TestOneOf(t *testing.T) {
	schema := &constraint.Schema{
		Name: "test",
		Fields: []constraint.FieldRules{
			{Field: "radius", Rules: []constraint.Rule{constraint.OneOf{Allowed: []string{"100", "800", "8000"}}}},
		},
	}

	t.Run("member passes", func(t *testing.T) {
		assert.Empty(t, schema.Validate(mapRecord{"radius": "800"}))
	})

	t.Run("numerically close non-member fails", func(t *testing.T) {
		assert.NotEmpty(t, schema.Validate(mapRecord{"radius": "500"}))
		assert.NotEmpty(t, schema.Validate(mapRecord{"radius": "801"}))
	})
}

func TestEmailShape(t *testing.T) {
	schema := &constraint.Schema{
		Name: "test",
		Fields: []constraint.FieldRules{
			{Field: "email", Rules: []constraint.Rule{constraint.Presence{}, constraint.EmailShape{}}},
		},
	}

	t.Run("well-formed address passes", func(t *testing.T) {
		assert.Empty(t, schema.Validate(mapRecord{"email": "a@b.com"}))
	})

	t.Run("malformed addresses fail", func(t *testing.T) {
		for _, bad := range []string{"plainaddress", "a@b", "a b@c.com", "@b.com"} {
			assert.Equal(t, "email is not a valid email", schema.Validate(mapRecord{"email": bad}), bad)
		}
	})
}

func TestFloatFieldsPreCheck(t *testing.T) {
	schema := &constraint.Schema{
		Name:      "test",
		PreChecks: []constraint.PreCheck{constraint.FloatFields("invalid lat/lng", "lat", "lng")},
		Fields: []constraint.FieldRules{
			{Field: "title", Rules: []constraint.Rule{constraint.Presence{}}},
		},
	}

	t.Run("parseable coordinates fall through to field rules", func(t *testing.T) {
		rec := mapRecord{"lat": "43.65", "lng": "-79.38", "title": "x"}
		assert.Empty(t, schema.Validate(rec))
	})

	t.Run("malformed coordinate short-circuits before field errors", func(t *testing.T) {
		// title is also missing; the coordinate message must win.
		rec := mapRecord{"lat": "abc", "lng": "-79.38"}
		assert.Equal(t, "invalid lat/lng", schema.Validate(rec))
	})

	t.Run("missing coordinate short-circuits", func(t *testing.T) {
		rec := mapRecord{"lat": "43.65", "title": "x"}
		assert.Equal(t, "invalid lat/lng", schema.Validate(rec))
	})
}

func TestValidateIsDeterministicAndOrdered(t *testing.T) {
	schema := &constraint.Schema{
		Name: "test",
		Fields: []constraint.FieldRules{
			{Field: "first", Rules: []constraint.Rule{constraint.Presence{}}},
			{Field: "second", Rules: []constraint.Rule{constraint.Presence{}}},
		},
	}

	rec := mapRecord{}
	want := schema.Validate(rec)
	assert.Equal(t, "first can't be blank", want)
	for range 10 {
		assert.Equal(t, want, schema.Validate(rec))
	}
}
