// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Hearsay CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hearsay",
		Short: "Hearsay - location-anchored chat rooms",
		Long: `Hearsay is a chat server built around geolocation-anchored rooms,
with token-authenticated user accounts and a PostgreSQL store.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
