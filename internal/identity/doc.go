// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

// Package identity provides the user account and credential lifecycle for
// Hearsay.
//
// # Components
//
// The package separates four concerns:
//   - constraint validation of user input (schema.go, built on the shared
//     internal/constraint engine)
//   - one-way password hashing (PasswordHasher / BcryptHasher)
//   - opaque bearer-token issuance (TokenIssuer / DigestTokenIssuer)
//   - the lifecycle orchestration that sequences them (Service)
//
// # Ordering and partial failure
//
// Create and Update are strictly ordered: validate, hash, persist the record,
// then issue and persist the token. The store gives no atomicity across the
// record write and the token write, so a token-step failure leaves a
// committed record behind. The Service surfaces that state as an error
// matching ErrTokenMissing (create) or ErrTokenStale (update) rather than
// attempting a rollback; IssueMissingToken is the idempotent repair for
// callers that detect it. Plaintext passwords never survive past the hashing
// step and are never logged.
package identity
