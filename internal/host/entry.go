// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

package host

import (
	"log/slog"

	"github.com/modhost/modhost/pkg/sdk"
)

// Entry owns one plugin instance together with the module handle that
// produced it. Instance and handle are released as a single unit: the
// instance's code lives in the module's mapped memory, so the handle must
// outlive every call into the instance.
type Entry struct {
	plugin sdk.Plugin
	module Module
	state  State

	// reason holds the hook failure message when state is StateErrored.
	reason string
}

// Plugin returns the owned plugin instance.
func (e *Entry) Plugin() sdk.Plugin { return e.plugin }

// State returns the entry's current lifecycle state.
func (e *Entry) State() State { return e.state }

// ErrorReason returns the recorded hook failure, or "" when the entry is not
// in StateErrored.
func (e *Entry) ErrorReason() string { return e.reason }

// Release finalizes the entry: the unload hook runs first, then the optional
// teardown export, and the module handle is closed last. The unload hook's
// error is returned after the release has nonetheless completed.
func (e *Entry) Release() error {
	hookErr := e.plugin.OnUnload()

	// Best effort: a missing or mismatched teardown export is tolerated.
	if sym, err := e.module.Lookup(sdk.TeardownSymbol); err == nil {
		if teardown, ok := sym.(sdk.Teardown); ok {
			teardown()
		}
	}

	if err := e.module.Close(); err != nil {
		slog.Warn("failed to close module handle",
			"plugin", e.plugin.Name(),
			"error", err)
	}

	e.state = StateUnloaded
	return hookErr
}
