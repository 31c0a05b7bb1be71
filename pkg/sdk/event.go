// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

package sdk

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// Event is the value delivered to subscribed plugins. It is constructed by a
// caller, consumed during one broadcast, and never persisted.
type Event struct {
	// ID is a ULID assigned at construction, used for log correlation.
	ID string

	// Name is the event name plugins subscribe to.
	Name string

	// Payload carries arbitrary string key/value data.
	Payload map[string]string

	// Priority is carried on the event but is not consulted by broadcast
	// ordering, which orders recipients by their own subscription count.
	Priority int
}

// NewEvent constructs an Event with a fresh ULID.
func NewEvent(name string, payload map[string]string, priority int) *Event {
	entropyLock.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	entropyLock.Unlock()

	return &Event{
		ID:       id.String(),
		Name:     name,
		Payload:  payload,
		Priority: priority,
	}
}
