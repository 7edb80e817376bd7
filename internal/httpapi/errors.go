// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/samber/oops"

	"github.com/hearsay-chat/hearsay/internal/identity"
	"github.com/hearsay-chat/hearsay/internal/room"
)

// errorCode extracts the classification code carried by the error chain,
// or an empty string when there is none.
func errorCode(err error) string {
	var oopsErr oops.OopsError
	if errors.As(err, &oopsErr) {
		if code, ok := oopsErr.Code().(string); ok {
			return code
		}
	}
	return ""
}

// respondError translates a service error into an HTTP response. Validation
// rejections keep their human-readable message; everything else gets a
// generic one so storage details never reach clients.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	code := errorCode(err)

	switch {
	case errors.Is(err, identity.ErrNotFound), errors.Is(err, room.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")

	case errors.Is(err, identity.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "USERNAME_TAKEN", "username already taken")

	case errors.Is(err, identity.ErrTokenMissing):
		h.countTokenFailure()
		writeError(w, http.StatusInternalServerError, "TOKEN_MISSING",
			"account created but token issuance failed; log in to obtain a token")

	case errors.Is(err, identity.ErrTokenStale):
		h.countTokenFailure()
		writeError(w, http.StatusInternalServerError, "TOKEN_STALE",
			"password changed but token rotation failed; log in to obtain a fresh token")

	case strings.HasSuffix(code, "_INVALID_DATA"):
		h.countValidationFailure(code)
		writeError(w, http.StatusBadRequest, code, err.Error())

	default:
		h.log.Error("request failed", "error", err, "code", code)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}

func (h *Handler) countTokenFailure() {
	if h.metrics != nil {
		h.metrics.TokenIssueFailuresTotal.Inc()
	}
}

func (h *Handler) countValidationFailure(code string) {
	if h.metrics == nil {
		return
	}
	schema := strings.ToLower(strings.TrimSuffix(code, "_INVALID_DATA"))
	h.metrics.ValidationFailuresTotal.WithLabelValues(schema).Inc()
}
