// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

//go:build integration

package host_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/modhost/modhost/internal/host"
	"github.com/modhost/modhost/pkg/sdk"
)

var _ = Describe("plugin lifecycle", func() {
	var (
		dir    string
		opener *fakeOpener
		mgr    *host.Manager
		ticker *fakePlugin
		logger *fakePlugin
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		opener = newFakeOpener()
		mgr = newManager(dir, opener)

		ticker = newFakePlugin("ticker", "tick")
		logger = newFakePlugin("logger", "tick", "stop")

		write := func(base string, p *fakePlugin) {
			path := filepath.Join(dir, base+host.ModuleExt())
			Expect(os.WriteFile(path, []byte("\x7fELF"), 0o700)).To(Succeed())
			opener.add(path, moduleFor(p))
		}
		write("ticker", ticker)
		write("logger", logger)
	})

	AfterEach(func() {
		Expect(mgr.Close(context.Background())).To(Succeed())
	})

	It("loads, dispatches, and unloads in order", func() {
		Expect(mgr.LoadAll()).To(Succeed())
		Expect(mgr.Plugins()).To(ConsistOf("ticker", "logger"))

		log := &callLog{}
		ticker.log = log
		logger.log = log

		mgr.Broadcast(sdk.NewEvent("tick", map[string]string{"n": "1"}, 0))
		Expect(log.entries).To(Equal([]string{"ticker:handle:tick", "logger:handle:tick"}))

		By("unloading one subscriber")
		Expect(mgr.Unload("logger")).To(Succeed())

		log.entries = nil
		mgr.Broadcast(sdk.NewEvent("tick", nil, 0))
		Expect(log.entries).To(Equal([]string{"ticker:handle:tick"}))

		mgr.Broadcast(sdk.NewEvent("stop", nil, 0))
		Expect(log.entries).To(Equal([]string{"ticker:handle:tick"}))
	})

	It("keeps disabled plugins registered but silent", func() {
		Expect(mgr.LoadAll()).To(Succeed())
		Expect(mgr.Disable("ticker")).To(Succeed())

		log := &callLog{}
		ticker.log = log
		logger.log = log

		mgr.Broadcast(sdk.NewEvent("tick", nil, 0))
		Expect(log.entries).To(Equal([]string{"logger:handle:tick"}))

		state, ok := mgr.State("ticker")
		Expect(ok).To(BeTrue())
		Expect(state).To(Equal(host.StateDisabled))
	})
})
