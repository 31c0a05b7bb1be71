package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the modhost CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modhost",
		Short: "modhost - native plugin host runtime",
		Long: `Modhost loads native plugin modules at runtime, manages their
lifecycle, and routes events to the plugins that subscribed to them.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewInspectCmd())

	return cmd
}
