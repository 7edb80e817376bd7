// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearsay-chat/hearsay/internal/config"
)

// serverStatus holds health information reported by a running server.
type serverStatus struct {
	Endpoint string `json:"endpoint"`
	Live     bool   `json:"live"`
	Ready    bool   `json:"ready"`
	Error    string `json:"error,omitempty"`
}

const statusTimeout = 3 * time.Second

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show health of a running Hearsay server",
		Long:  `Query the observability endpoint of a running server for liveness and readiness.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().String("observability-addr", "", "metrics listen address (overrides observability.addr)")

	return cmd
}

func runStatus(cmd *cobra.Command, jsonOutput bool) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	status := queryServerStatus(cmd.Context(), cfg.Observability.Addr)

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENDPOINT\tLIVE\tREADY\tERROR")
	fmt.Fprintf(w, "%s\t%v\t%v\t%s\n", status.Endpoint, status.Live, status.Ready, status.Error)
	return w.Flush()
}

func queryServerStatus(ctx context.Context, addr string) serverStatus {
	status := serverStatus{Endpoint: addr}

	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	status.Live, status.Error = probe(ctx, "http://"+addr+"/healthz/liveness")
	if status.Live {
		status.Ready, _ = probe(ctx, "http://"+addr+"/healthz/readiness")
	}
	return status
}

func probe(ctx context.Context, url string) (bool, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err.Error()
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, err.Error()
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK, ""
}
