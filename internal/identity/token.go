// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/samber/oops"
)

// TokenEntropyBytes is the amount of fresh randomness mixed into every
// issued token. 32 bytes keeps tokens unguessable regardless of how
// predictable the identity reference is.
const TokenEntropyBytes = 32

// TokenIssuer derives opaque bearer tokens for an identity.
//
// Tokens carry no claims or expiry; validity is decided by equality against
// the value stored for the identity. Two calls with the same reference must
// produce different tokens, and a token must not be derivable from the
// identity reference or from any credential material.
type TokenIssuer interface {
	// Issue produces a fixed-length hex token for the identity reference.
	Issue(identityRef string) (string, error)
}

// DigestTokenIssuer implements TokenIssuer by digesting the identity
// reference together with fresh randomness. Output is 64 hex characters.
type DigestTokenIssuer struct{}

// NewDigestTokenIssuer creates a new DigestTokenIssuer.
func NewDigestTokenIssuer() *DigestTokenIssuer {
	return &DigestTokenIssuer{}
}

// Issue produces a SHA-256 digest over the identity reference and
// TokenEntropyBytes of randomness from crypto/rand. A failing random source
// is an error, never a fallback to weaker entropy.
func (i *DigestTokenIssuer) Issue(identityRef string) (string, error) {
	if identityRef == "" {
		return "", oops.Code("TOKEN_ISSUE_FAILED").Errorf("identity reference cannot be empty")
	}

	entropy := make([]byte, TokenEntropyBytes)
	if _, err := rand.Read(entropy); err != nil {
		return "", oops.Code("TOKEN_ISSUE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", TokenEntropyBytes).
			Wrap(err)
	}

	h := sha256.New()
	h.Write([]byte(identityRef))
	h.Write(entropy)
	return hex.EncodeToString(h.Sum(nil)), nil
}
