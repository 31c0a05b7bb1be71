// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

package host

import (
	"plugin"

	"github.com/samber/oops"
)

// Module is an opened native module. It is the only surface through which
// the host touches loaded code; all symbol resolution goes through Lookup.
type Module interface {
	// Lookup resolves an exported symbol by name.
	Lookup(symbol string) (any, error)

	// Close releases the module handle. It must be called only after the
	// plugin instance the module produced has been fully finalized, since
	// the instance's executable code lives in the module's mapped memory.
	Close() error
}

// Opener opens native modules. The production implementation wraps the
// runtime's shared-object loader; tests substitute fakes so lifecycle logic
// can be exercised without building real modules.
type Opener interface {
	Open(path string) (Module, error)
}

// soOpener opens Go shared objects built with -buildmode=plugin.
type soOpener struct{}

// NewSharedObjectOpener returns the production Opener.
func NewSharedObjectOpener() Opener {
	return soOpener{}
}

func (soOpener) Open(path string) (Module, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return &soModule{p: p}, nil
}

// soModule wraps a stdlib plugin handle.
type soModule struct {
	p *plugin.Plugin
}

func (m *soModule) Lookup(symbol string) (any, error) {
	sym, err := m.p.Lookup(symbol)
	if err != nil {
		return nil, err //nolint:wrapcheck // loader collapses causes into LoadError
	}
	return sym, nil
}

// Close marks the release point for the handle. The Go runtime never unmaps
// a loaded shared object, so there is nothing to free here; the call exists
// so release ordering stays explicit and observable through the Module seam.
func (m *soModule) Close() error {
	m.p = nil
	return nil
}
