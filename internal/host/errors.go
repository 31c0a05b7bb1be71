// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

package host

import "errors"

// Error codes attached to oops errors. Load failures deliberately collapse
// every cause (open failure, missing export, bad signature, hook failure)
// into the single CodeLoadFailed code; callers get a readable message, not a
// cause taxonomy.
const (
	CodeLoadFailed    = "PLUGIN_LOAD_FAILED"
	CodeEnableFailed  = "PLUGIN_ENABLE_FAILED"
	CodeDisableFailed = "PLUGIN_DISABLE_FAILED"
	CodeLoadPartial   = "HOST_LOAD_PARTIAL"
)

// Sentinel errors for programmatic checking with errors.Is.
var (
	// ErrNotRegistered is returned when operating on a name absent from the
	// registry.
	ErrNotRegistered = errors.New("plugin not registered")

	// ErrAlreadyRegistered is returned when a load produces a name that is
	// already registered.
	ErrAlreadyRegistered = errors.New("plugin already registered")

	// ErrIllegalTransition is returned for enable/disable calls on a state
	// the operation cannot leave from.
	ErrIllegalTransition = errors.New("illegal state transition")
)
