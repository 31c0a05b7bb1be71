// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

package host

// State is a plugin's position in the lifecycle. It is mutated only by the
// Manager; the loader, event bus, and dispatch path never write it.
type State uint8

// Lifecycle states.
const (
	StateUnloaded State = iota
	StateLoaded
	StateEnabled
	StateDisabled
	StateErrored
)

// String returns the state name. Unrecognized values return "unknown".
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateEnabled:
		return "enabled"
	case StateDisabled:
		return "disabled"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}
