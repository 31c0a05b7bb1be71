// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

package host

import "sync"

// EventBus maps event names to the set of plugin names interested in them.
// Pure in-memory registry: entries appear as a side effect of a successful
// load and disappear as a side effect of unload, never otherwise.
type EventBus struct {
	mu   sync.RWMutex
	subs map[string]map[string]struct{}
}

// NewEventBus creates an empty event bus.
func NewEventBus() *EventBus {
	return &EventBus{
		subs: make(map[string]map[string]struct{}),
	}
}

// Subscribe registers interest of plugin in event. Idempotent.
func (b *EventBus) Subscribe(event, plugin string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.subs[event]
	if !ok {
		set = make(map[string]struct{})
		b.subs[event] = set
	}
	set[plugin] = struct{}{}
}

// Unsubscribe removes interest of plugin in event. Idempotent.
func (b *EventBus) Unsubscribe(event, plugin string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if set, ok := b.subs[event]; ok {
		delete(set, plugin)
		if len(set) == 0 {
			delete(b.subs, event)
		}
	}
}

// Subscribers returns an unordered snapshot of the plugin names subscribed
// to event. Empty if none.
func (b *EventBus) Subscribers(event string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	set := b.subs[event]
	if len(set) == 0 {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	return names
}
