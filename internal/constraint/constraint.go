// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

// Package constraint provides a small declarative validation engine shared by
// the user, room and comment entity types.
//
// A Schema is an immutable set of per-field rules built once at package init
// and never mutated afterwards. Validation is side-effect-free and
// deterministic: rules run in declaration order and the first violation wins.
package constraint

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Record is the flat view of an entity that schemas validate against.
// Nested fields use dotted names (e.g. "topic.content", "location.lat").
type Record interface {
	// Field returns the value for a field name and whether the field is
	// present on the record at all.
	Field(name string) (value string, present bool)
}

// Rule checks a single field value. It returns an empty string when the
// value satisfies the rule, otherwise a human-readable violation message.
type Rule interface {
	check(field, value string, present bool) string
}

// PreCheck runs before the per-field rules and may short-circuit validation
// with a dedicated message. Used for checks that do not fit the per-field
// model, such as coordinate parsing.
type PreCheck func(rec Record) string

// FieldRules binds an ordered rule list to one field.
type FieldRules struct {
	Field string
	Rules []Rule
}

// Schema is the declarative constraint set for one entity type.
type Schema struct {
	Name      string
	PreChecks []PreCheck
	Fields    []FieldRules
}

// Validate runs the schema against rec. It returns an empty string when the
// record is valid, otherwise the first violation message in schema order.
// The record is never mutated.
func (s *Schema) Validate(rec Record) string {
	for _, pre := range s.PreChecks {
		if msg := pre(rec); msg != "" {
			return msg
		}
	}
	for _, fr := range s.Fields {
		value, present := rec.Field(fr.Field)
		for _, rule := range fr.Rules {
			if msg := rule.check(fr.Field, value, present); msg != "" {
				return msg
			}
		}
	}
	return ""
}

// Presence requires the field to be present and non-empty.
type Presence struct{}

func (Presence) check(field, value string, present bool) string {
	if !present || value == "" {
		return fmt.Sprintf("%s can't be blank", field)
	}
	return ""
}

// Length bounds the field's length in characters, not bytes, so multi-byte
// input counts the way users read it. Absent fields are skipped; pair with
// Presence to make a field required.
type Length struct {
	Min int
	Max int
}

func (l Length) check(field, value string, present bool) string {
	if !present {
		return ""
	}
	count := utf8.RuneCountInString(value)
	if count < l.Min {
		return fmt.Sprintf("%s is too short (minimum is %d characters)", field, l.Min)
	}
	if l.Max > 0 && count > l.Max {
		return fmt.Sprintf("%s is too long (maximum is %d characters)", field, l.Max)
	}
	return ""
}

// OneOf requires the value to equal exactly one member of an enumerated set.
// Values are compared as set members, never as numeric ranges.
type OneOf struct {
	Allowed []string
}

func (o OneOf) check(field, value string, present bool) string {
	if !present {
		return ""
	}
	for _, allowed := range o.Allowed {
		if value == allowed {
			return ""
		}
	}
	return fmt.Sprintf("%s is not included in the list (%s)", field, strings.Join(o.Allowed, ", "))
}

// emailRegex is deliberately loose: one @, no whitespace, a dot in the domain.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// EmailShape requires the value to look like an email address.
// Absent fields are skipped.
type EmailShape struct{}

func (EmailShape) check(field, value string, present bool) string {
	if !present {
		return ""
	}
	if !emailRegex.MatchString(value) {
		return fmt.Sprintf("%s is not a valid email", field)
	}
	return ""
}

// FloatFields returns a PreCheck requiring every named field to parse as a
// floating-point number. A malformed or missing field short-circuits with
// msg instead of falling through to the generic field errors.
func FloatFields(msg string, fields ...string) PreCheck {
	return func(rec Record) string {
		for _, field := range fields {
			value, present := rec.Field(field)
			if !present {
				return msg
			}
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return msg
			}
		}
		return ""
	}
}
