// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hearsay-chat/hearsay/internal/httpapi"
	"github.com/hearsay-chat/hearsay/internal/observability"
	"github.com/hearsay-chat/hearsay/internal/store"
)

// ObservabilityServer is the subset of observability.Server used by serve.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// APIServer is the subset of httpapi.Server used by serve.
type APIServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

// Migrator is the subset of store.Migrator used by serve and migrate.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Force(version int) error
	Version() (uint, bool, error)
	PendingMigrations() ([]uint, error)
	Close() error
}

// ServeDeps contains injectable dependencies for the serve command.
// Nil fields fall back to the real implementations.
type ServeDeps struct {
	// ConnectFunc opens the database pool. Default: store.Connect.
	ConnectFunc func(ctx context.Context, databaseURL string) (*pgxpool.Pool, error)

	// MigratorFactory builds a migrator for --auto-migrate.
	// Default: store.NewMigrator.
	MigratorFactory func(databaseURL string) (Migrator, error)

	// ObservabilityServerFactory creates the metrics/health server.
	// Default: observability.NewServer.
	ObservabilityServerFactory func(addr string, ready observability.ReadinessChecker) ObservabilityServer

	// APIServerFactory creates the API server.
	// Default: httpapi.NewServer.
	APIServerFactory func(addr string, handler *httpapi.Handler, metrics *observability.Metrics) (APIServer, error)
}

func (d *ServeDeps) applyDefaults() {
	if d.ConnectFunc == nil {
		d.ConnectFunc = store.Connect
	}
	if d.MigratorFactory == nil {
		d.MigratorFactory = func(databaseURL string) (Migrator, error) {
			m, err := store.NewMigrator(databaseURL)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	if d.ObservabilityServerFactory == nil {
		d.ObservabilityServerFactory = func(addr string, ready observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, ready)
		}
	}
	if d.APIServerFactory == nil {
		d.APIServerFactory = func(addr string, handler *httpapi.Handler, metrics *observability.Metrics) (APIServer, error) {
			srv, err := httpapi.NewServer(addr, handler, metrics, nil)
			if err != nil {
				return nil, err
			}
			return srv, nil
		}
	}
}
