// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

package host_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/modhost/modhost/internal/host"
	"github.com/modhost/modhost/pkg/sdk"
)

// callLog records hook and delivery invocations in order. The host is
// single-threaded per operation, so no locking is needed here.
type callLog struct {
	entries []string
}

func (l *callLog) add(entry string) {
	l.entries = append(l.entries, entry)
}

// fakePlugin is a configurable sdk.Plugin double.
type fakePlugin struct {
	name    string
	version string
	desc    string
	events  []string

	loadErr    error
	enableErr  error
	disableErr error
	unloadErr  error
	handleErr  error

	log *callLog
}

func newFakePlugin(name string, events ...string) *fakePlugin {
	return &fakePlugin{
		name:    name,
		version: "1.0.0",
		desc:    "fake plugin " + name,
		events:  events,
		log:     &callLog{},
	}
}

func (p *fakePlugin) Name() string               { return p.name }
func (p *fakePlugin) Version() string            { return p.version }
func (p *fakePlugin) Description() string        { return p.desc }
func (p *fakePlugin) SubscribedEvents() []string { return p.events }

func (p *fakePlugin) OnLoad() error {
	p.log.add(p.name + ":on_load")
	return p.loadErr
}

func (p *fakePlugin) OnEnable() error {
	p.log.add(p.name + ":on_enable")
	return p.enableErr
}

func (p *fakePlugin) OnDisable() error {
	p.log.add(p.name + ":on_disable")
	return p.disableErr
}

func (p *fakePlugin) OnUnload() error {
	p.log.add(p.name + ":on_unload")
	return p.unloadErr
}

func (p *fakePlugin) HandleEvent(event *sdk.Event) error {
	p.log.add(p.name + ":handle:" + event.Name)
	return p.handleErr
}

// fakeModule is an in-memory host.Module with a symbol table.
type fakeModule struct {
	symbols map[string]any
	closed  bool
	log     *callLog
	name    string
}

func (m *fakeModule) Lookup(symbol string) (any, error) {
	if sym, ok := m.symbols[symbol]; ok {
		return sym, nil
	}
	return nil, fmt.Errorf("symbol %q not found", symbol)
}

func (m *fakeModule) Close() error {
	m.closed = true
	if m.log != nil {
		m.log.add(m.name + ":close")
	}
	return nil
}

// moduleFor wraps a plugin in a module exposing the factory export and, by
// default, a teardown export that records its invocation.
func moduleFor(p *fakePlugin) *fakeModule {
	m := &fakeModule{
		symbols: make(map[string]any),
		log:     p.log,
		name:    p.name,
	}
	m.symbols[sdk.FactorySymbol] = func() sdk.Plugin { return p }
	m.symbols[sdk.TeardownSymbol] = func() {
		p.log.add(p.name + ":teardown")
	}
	return m
}

// fakeOpener resolves paths to prepared modules.
type fakeOpener struct {
	modules map[string]host.Module
	errs    map[string]error
}

func newFakeOpener() *fakeOpener {
	return &fakeOpener{
		modules: make(map[string]host.Module),
		errs:    make(map[string]error),
	}
}

func (o *fakeOpener) add(path string, m host.Module) {
	o.modules[path] = m
}

func (o *fakeOpener) Open(path string) (host.Module, error) {
	if err, ok := o.errs[path]; ok {
		return nil, err
	}
	if m, ok := o.modules[path]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("no module at %s", path)
}

// newManager builds a manager whose loader opens modules through opener.
func newManager(dir string, opener host.Opener, opts ...host.ManagerOption) *host.Manager {
	loader := host.NewLoader(host.WithOpener(opener))
	opts = append(opts, host.WithLoader(loader))
	return host.NewManager(dir, opts...)
}

// writeCandidate creates an executable file with the platform module
// extension so it passes Loader.Validate; the fake opener supplies the
// actual module behind it.
func writeCandidate(t *testing.T, dir, base string) string {
	t.Helper()
	path := filepath.Join(dir, base+host.ModuleExt())
	require.NoError(t, os.WriteFile(path, []byte("\x7fELF"), 0o700)) //nolint:gosec // test fixture must be executable
	return path
}
