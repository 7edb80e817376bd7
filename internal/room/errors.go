// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package room

import "errors"

// ErrNotFound indicates the requested room does not exist.
var ErrNotFound = errors.New("room not found")
