// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

// Package sdk defines the contract between the modhost runtime and native
// plugin modules.
//
// A plugin is a Go shared object built with -buildmode=plugin that exports a
// factory function named NewPlugin returning a Plugin value. The host resolves
// the factory once at load time; afterwards it interacts with the instance
// only through the Plugin interface.
//
// Example plugin:
//
//	package main
//
//	import "github.com/modhost/modhost/pkg/sdk"
//
//	type greeter struct{}
//
//	func (g *greeter) Name() string                { return "greeter" }
//	func (g *greeter) Version() string             { return "1.0.0" }
//	func (g *greeter) Description() string         { return "Says hello on tick" }
//	func (g *greeter) SubscribedEvents() []string  { return []string{"tick"} }
//	func (g *greeter) OnLoad() error               { return nil }
//	func (g *greeter) OnEnable() error             { return nil }
//	func (g *greeter) OnDisable() error            { return nil }
//	func (g *greeter) OnUnload() error             { return nil }
//	func (g *greeter) HandleEvent(e *sdk.Event) error {
//		println("hello from greeter:", e.Name)
//		return nil
//	}
//
//	// NewPlugin is resolved by the host at load time.
//	func NewPlugin() sdk.Plugin { return &greeter{} }
//
// Build with:
//
//	go build -buildmode=plugin -o greeter.so .
package sdk

// Export symbol names resolved by the host. Both host and plugins must agree
// on these; changing either is a breaking contract change.
const (
	// FactorySymbol is the required export. It must have type Factory.
	FactorySymbol = "NewPlugin"

	// TeardownSymbol is an optional export of type Teardown, invoked
	// best-effort when the module is unloaded. Its absence is not an error.
	TeardownSymbol = "TeardownPlugin"
)

// Factory is the signature of the required factory export. Each invocation
// must return a newly constructed Plugin instance.
type Factory = func() Plugin

// Teardown is the signature of the optional teardown export.
type Teardown = func()

// Plugin is the capability set every loaded module must provide.
//
// The four lifecycle hooks are invoked by the host at the corresponding
// state transitions and may fail; a hook must not assume any particular
// goroutine. HandleEvent receives events the plugin subscribed to via
// SubscribedEvents and must return promptly: the host does not time-box
// plugin code.
type Plugin interface {
	// Name returns the unique plugin name. It is the registry key and must
	// be stable for the lifetime of the instance.
	Name() string

	// Version returns the plugin version as a semantic version string.
	Version() string

	// Description returns a short human-readable description.
	Description() string

	// SubscribedEvents returns the event names this plugin wants delivered.
	// The host reads it at load time and again when the plugin is unloaded.
	SubscribedEvents() []string

	OnLoad() error
	OnEnable() error
	OnDisable() error
	OnUnload() error

	// HandleEvent processes one event. It does not return derived events;
	// re-broadcast from plugins is not part of the current contract.
	HandleEvent(event *Event) error
}
