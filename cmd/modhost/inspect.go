// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modhost/modhost/internal/host"
)

// NewInspectCmd creates the inspect subcommand.
func NewInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <module>",
		Short: "Validate and probe a plugin module",
		Long: `Validate a candidate file and, if it passes, load it to report its
name, version, description, and subscribed events. The module's load and
unload hooks run during the probe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectModule(cmd, args[0])
		},
	}
}

func inspectModule(cmd *cobra.Command, path string) error {
	loader := host.NewLoader()

	if !loader.Validate(path) {
		return fmt.Errorf("%s is not a loadable module (want an executable %s file)", path, host.ModuleExt())
	}

	entry, err := loader.Load(path)
	if err != nil {
		return fmt.Errorf("probe %s: %w", path, err)
	}

	p := entry.Plugin()
	cmd.Printf("Name:        %s\n", p.Name())
	cmd.Printf("Version:     %s\n", p.Version())
	cmd.Printf("Description: %s\n", p.Description())
	cmd.Printf("Events:      %s\n", strings.Join(p.SubscribedEvents(), ", "))

	if err := entry.Release(); err != nil {
		slog.Warn("unload hook failed during probe", "plugin", p.Name(), "error", err)
	}
	return nil
}
