// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

package host_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modhost/modhost/internal/host"
)

func TestEventBus_RoundTrip(t *testing.T) {
	bus := host.NewEventBus()

	bus.Subscribe("tick", "alpha")
	assert.Contains(t, bus.Subscribers("tick"), "alpha")

	bus.Unsubscribe("tick", "alpha")
	assert.NotContains(t, bus.Subscribers("tick"), "alpha")
}

func TestEventBus_SubscribeIdempotent(t *testing.T) {
	bus := host.NewEventBus()

	bus.Subscribe("tick", "alpha")
	bus.Subscribe("tick", "alpha")

	assert.Len(t, bus.Subscribers("tick"), 1)
}

func TestEventBus_UnsubscribeIdempotent(t *testing.T) {
	bus := host.NewEventBus()

	bus.Subscribe("tick", "alpha")
	bus.Unsubscribe("tick", "alpha")
	bus.Unsubscribe("tick", "alpha")
	bus.Unsubscribe("stop", "alpha")

	assert.Empty(t, bus.Subscribers("tick"))
}

func TestEventBus_UnknownEventEmpty(t *testing.T) {
	bus := host.NewEventBus()
	assert.Empty(t, bus.Subscribers("nope"))
}

func TestEventBus_MultipleSubscribers(t *testing.T) {
	bus := host.NewEventBus()

	bus.Subscribe("tick", "alpha")
	bus.Subscribe("tick", "beta")
	bus.Subscribe("stop", "beta")

	assert.ElementsMatch(t, []string{"alpha", "beta"}, bus.Subscribers("tick"))
	assert.ElementsMatch(t, []string{"beta"}, bus.Subscribers("stop"))
}
