// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package identity

import "github.com/hearsay-chat/hearsay/internal/constraint"

// Username and password length bounds.
const (
	MinUsernameLength = 4
	MaxUsernameLength = 14
	MinPasswordLength = 4
	MaxPasswordLength = 14
)

// userSchema is the constraint table for new accounts: all three fields are
// required. Built once, never mutated.
var userSchema = &constraint.Schema{
	Name: "user",
	Fields: []constraint.FieldRules{
		{Field: "username", Rules: []constraint.Rule{
			constraint.Presence{},
			constraint.Length{Min: MinUsernameLength, Max: MaxUsernameLength},
		}},
		{Field: "password", Rules: []constraint.Rule{
			constraint.Presence{},
			constraint.Length{Min: MinPasswordLength, Max: MaxPasswordLength},
		}},
		{Field: "email", Rules: []constraint.Rule{
			constraint.Presence{},
			constraint.EmailShape{},
		}},
	},
}

// userDeltaSchema is the constraint table for updates. Identical to
// userSchema except the password is optional: the length bound applies only
// when the delta supplies a new password.
var userDeltaSchema = &constraint.Schema{
	Name: "user",
	Fields: []constraint.FieldRules{
		{Field: "username", Rules: []constraint.Rule{
			constraint.Presence{},
			constraint.Length{Min: MinUsernameLength, Max: MaxUsernameLength},
		}},
		{Field: "password", Rules: []constraint.Rule{
			constraint.Length{Min: MinPasswordLength, Max: MaxPasswordLength},
		}},
		{Field: "email", Rules: []constraint.Rule{
			constraint.Presence{},
			constraint.EmailShape{},
		}},
	},
}

// ValidateCreate checks create input against the user constraint table.
// Returns an empty string when valid, otherwise the first violation message.
func ValidateCreate(in CreateInput) string {
	return userSchema.Validate(in)
}
