// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

// Package host implements the plugin host runtime: the loader that crosses
// the dynamic-loading boundary, the lifecycle state machine, the event
// subscription bus, and the broadcast path.
package host

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"

	"github.com/modhost/modhost/pkg/errutil"
	"github.com/modhost/modhost/pkg/sdk"
)

// Manager owns the name→entry registry and drives plugin lifecycle.
// Every entry is exclusively owned by the manager; insertion happens only
// through a successful load and removal only through unload.
type Manager struct {
	pluginsDir string
	loader     *Loader
	bus        *EventBus
	metrics    *Metrics
	entries    map[string]*Entry
	mu         sync.RWMutex
}

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithLoader sets the loader. Without it a default shared-object loader is
// used.
func WithLoader(l *Loader) ManagerOption {
	return func(m *Manager) {
		m.loader = l
	}
}

// WithMetrics sets the metrics sink. Without it metrics go to a private
// registry nothing scrapes.
func WithMetrics(metrics *Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates a plugin manager rooted at pluginsDir.
func NewManager(pluginsDir string, opts ...ManagerOption) *Manager {
	m := &Manager{
		pluginsDir: pluginsDir,
		bus:        NewEventBus(),
		entries:    make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.loader == nil {
		m.loader = NewLoader()
	}
	if m.metrics == nil {
		m.metrics = NewMetrics(prometheus.NewRegistry())
	}
	return m
}

// Load loads the module at path, registers the resulting entry, subscribes
// its declared events, and enables it. A load that produces an already
// registered name fails and releases the new module; the registered entry is
// untouched.
func (m *Manager) Load(path string) error {
	entry, err := m.loader.Load(path)
	if err != nil {
		m.metrics.LoadsTotal.WithLabelValues(resultError).Inc()
		return err
	}

	name := entry.plugin.Name()

	m.mu.Lock()
	if _, ok := m.entries[name]; ok {
		m.mu.Unlock()
		if relErr := entry.Release(); relErr != nil {
			slog.Warn("unload hook failed while discarding duplicate",
				"plugin", name,
				"error", relErr)
		}
		m.metrics.LoadsTotal.WithLabelValues(resultError).Inc()
		return oops.Code(CodeLoadFailed).With("path", path).Wrapf(ErrAlreadyRegistered, "plugin %q", name)
	}
	for _, event := range entry.plugin.SubscribedEvents() {
		m.bus.Subscribe(event, name)
	}
	m.entries[name] = entry
	m.mu.Unlock()

	m.metrics.LoadsTotal.WithLabelValues(resultOK).Inc()
	slog.Info("loaded plugin",
		"plugin", name,
		"version", entry.plugin.Version(),
		"path", path)

	return m.Enable(name)
}

// Enable transitions a Loaded plugin to Enabled, invoking its enable hook.
// Enabling an already Enabled plugin is a no-op success; the hook is not
// re-invoked. A failing hook moves the entry to StateErrored.
func (m *Manager) Enable(name string) error {
	enableErr := oops.Code(CodeEnableFailed).With("plugin", name)

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[name]
	if !ok {
		return enableErr.Wrapf(ErrNotRegistered, "enable %q", name)
	}

	switch entry.state {
	case StateEnabled:
		return nil
	case StateLoaded:
		if err := entry.plugin.OnEnable(); err != nil {
			entry.state = StateErrored
			entry.reason = err.Error()
			return enableErr.Wrapf(err, "on-enable hook")
		}
		entry.state = StateEnabled
		slog.Info("enabled plugin", "plugin", name)
		return nil
	default:
		return enableErr.Wrapf(ErrIllegalTransition, "cannot enable from state %q", entry.state)
	}
}

// Disable transitions an Enabled plugin to Disabled, invoking its disable
// hook. Disabling an already Disabled plugin is a no-op success. A failing
// hook moves the entry to StateErrored.
func (m *Manager) Disable(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disableLocked(name)
}

func (m *Manager) disableLocked(name string) error {
	disableErr := oops.Code(CodeDisableFailed).With("plugin", name)

	entry, ok := m.entries[name]
	if !ok {
		return disableErr.Wrapf(ErrNotRegistered, "disable %q", name)
	}

	switch entry.state {
	case StateDisabled:
		return nil
	case StateEnabled:
		if err := entry.plugin.OnDisable(); err != nil {
			entry.state = StateErrored
			entry.reason = err.Error()
			return disableErr.Wrapf(err, "on-disable hook")
		}
		entry.state = StateDisabled
		slog.Info("disabled plugin", "plugin", name)
		return nil
	default:
		return disableErr.Wrapf(ErrIllegalTransition, "cannot disable from state %q", entry.state)
	}
}

// Unload removes a plugin. An absent name is a no-op success. The steps run
// in strict order: snapshot subscribed events, disable if currently Enabled
// (a disable failure aborts the unload), unsubscribe the snapshotted events,
// remove the entry, then release instance and module handle together. An
// unload-hook failure is surfaced after the release has completed.
func (m *Manager) Unload(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unloadLocked(name)
}

func (m *Manager) unloadLocked(name string) error {
	entry, ok := m.entries[name]
	if !ok {
		return nil
	}

	// Snapshot before any hook runs; the unsubscription must cover the
	// interests registered at load time even if the plugin's answer changes.
	events := entry.plugin.SubscribedEvents()

	// Only an Enabled plugin has anything running to disable; Loaded,
	// Disabled, and Errored entries go straight to removal so no entry can
	// get stuck unloadable.
	if entry.state == StateEnabled {
		if err := m.disableLocked(name); err != nil {
			return err
		}
	}

	for _, event := range events {
		m.bus.Unsubscribe(event, name)
	}
	delete(m.entries, name)

	hookErr := entry.Release()

	m.metrics.UnloadsTotal.Inc()
	slog.Info("unloaded plugin", "plugin", name)

	if hookErr != nil {
		return oops.With("plugin", name).Wrapf(hookErr, "on-unload hook")
	}
	return nil
}

// Broadcast delivers event to every Enabled subscriber of its name.
// Recipients are ordered ascending by the count of events each plugin itself
// subscribes to, with the plugin name as tie-break; the event's Priority
// field is not consulted. A delivery failure is logged and does not prevent
// delivery to the remaining recipients.
func (m *Manager) Broadcast(event *sdk.Event) {
	m.metrics.BroadcastsTotal.Inc()

	type recipient struct {
		name   string
		plugin sdk.Plugin
		subs   int
	}

	m.mu.RLock()
	var recipients []recipient
	for _, name := range m.bus.Subscribers(event.Name) {
		entry, ok := m.entries[name]
		if !ok || entry.state != StateEnabled {
			continue
		}
		recipients = append(recipients, recipient{
			name:   name,
			plugin: entry.plugin,
			subs:   len(entry.plugin.SubscribedEvents()),
		})
	}
	m.mu.RUnlock()

	sort.Slice(recipients, func(i, j int) bool {
		if recipients[i].subs != recipients[j].subs {
			return recipients[i].subs < recipients[j].subs
		}
		return recipients[i].name < recipients[j].name
	})

	for _, r := range recipients {
		if err := r.plugin.HandleEvent(event); err != nil {
			m.metrics.DeliveriesTotal.WithLabelValues(resultError).Inc()
			slog.Error("plugin event handler failed",
				"plugin", r.name,
				"event", event.Name,
				"event_id", event.ID,
				"error", err)
			continue
		}
		m.metrics.DeliveriesTotal.WithLabelValues(resultOK).Inc()
	}
}

// LoadAll loads every acceptable candidate in the plugins directory,
// non-recursively. A missing or unreadable directory is fatal. Directories
// and ignore-pattern matches are skipped silently; regular files that fail
// validation and candidates that fail to load are collected into one
// aggregate error returned after every loadable file has nonetheless been
// loaded and registered. Partial success is intentional: plugins that loaded
// stay usable even when an aggregate error is returned.
func (m *Manager) LoadAll() error {
	dirEntries, err := os.ReadDir(m.pluginsDir)
	if err != nil {
		return oops.Code(CodeLoadFailed).With("dir", m.pluginsDir).Wrapf(err, "read plugins directory")
	}

	var failures []error
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		if m.loader.Ignored(de.Name()) {
			slog.Debug("ignoring plugin candidate", "file", de.Name())
			continue
		}
		path := filepath.Join(m.pluginsDir, de.Name())
		if !m.loader.Validate(path) {
			failures = append(failures, oops.Code(CodeLoadFailed).Errorf("not a loadable module: %s", path))
			continue
		}
		if err := m.Load(path); err != nil {
			failures = append(failures, err)
		}
	}

	if len(failures) > 0 {
		return oops.Code(CodeLoadPartial).
			With("dir", m.pluginsDir).
			Wrapf(errors.Join(failures...), "failed to load %d plugin candidate(s)", len(failures))
	}
	return nil
}

// Get returns the plugin instance registered under name.
func (m *Manager) Get(name string) (sdk.Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[name]
	if !ok {
		return nil, false
	}
	return entry.plugin, true
}

// State returns the lifecycle state of the plugin registered under name.
func (m *Manager) State(name string) (State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[name]
	if !ok {
		return StateUnloaded, false
	}
	return entry.state, true
}

// Plugins returns the names of all registered plugins, sorted.
func (m *Manager) Plugins() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Subscribers returns the plugin names currently subscribed to event.
func (m *Manager) Subscribers(event string) []string {
	return m.bus.Subscribers(event)
}

// Description summarizes a registered plugin.
type Description struct {
	Name        string
	Version     string
	Description string
	State       State
}

// Describe returns summaries of all registered plugins, sorted by name.
func (m *Manager) Describe() []Description {
	m.mu.RLock()
	defer m.mu.RUnlock()

	descs := make([]Description, 0, len(m.entries))
	for name, entry := range m.entries {
		descs = append(descs, Description{
			Name:        name,
			Version:     entry.plugin.Version(),
			Description: entry.plugin.Description(),
			State:       entry.state,
		})
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].Name < descs[j].Name })
	return descs
}

// Close unloads every registered plugin in sorted name order. Individual
// failures are logged and never escalated; teardown always completes.
func (m *Manager) Close(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := m.unloadLocked(name); err != nil {
			errutil.LogError(slog.Default(), "failed to unload plugin during shutdown", err)
		}
	}
	return nil
}
