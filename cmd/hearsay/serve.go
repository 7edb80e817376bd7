// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/hearsay-chat/hearsay/internal/config"
	"github.com/hearsay-chat/hearsay/internal/httpapi"
	"github.com/hearsay-chat/hearsay/internal/identity"
	identitypg "github.com/hearsay-chat/hearsay/internal/identity/postgres"
	"github.com/hearsay-chat/hearsay/internal/logging"
	"github.com/hearsay-chat/hearsay/internal/observability"
	roompkg "github.com/hearsay-chat/hearsay/internal/room"
	roompg "github.com/hearsay-chat/hearsay/internal/room/postgres"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Hearsay API server",
		Long: `Start the API server together with the metrics/health endpoint.
Configuration comes from built-in defaults, the optional config file,
and command-line flags, in that order of precedence.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, autoMigrate, nil)
		},
	}

	cmd.Flags().String("server-addr", "", "API listen address (overrides server.addr)")
	cmd.Flags().String("database-url", "", "PostgreSQL URL (overrides database.url)")
	cmd.Flags().String("log-level", "", "log level (overrides log.level)")
	cmd.Flags().String("log-format", "", "log format, json or text (overrides log.format)")
	cmd.Flags().String("observability-addr", "", "metrics listen address (overrides observability.addr)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "run pending migrations before serving")

	return cmd
}

// runServe starts the server with injectable dependencies. A nil deps uses
// the real implementations.
func runServe(cmd *cobra.Command, autoMigrate bool, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	deps.applyDefaults()

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("hearsay", version, cfg.Log.Format, cfg.Log.Level)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if autoMigrate {
		if err := runAutoMigrate(deps, cfg.Database.URL); err != nil {
			return err
		}
	}

	pool, err := deps.ConnectFunc(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	slog.Info("connected to database")

	users := identitypg.NewUserRepository(pool)
	rooms := roompg.NewRoomRepository(pool)
	comments := roompg.NewCommentRepository(pool)

	identitySvc, err := identity.NewService(users, rooms,
		identity.NewBcryptHasher(), identity.NewDigestTokenIssuer())
	if err != nil {
		return err
	}
	roomSvc, err := roompkg.NewService(rooms, comments)
	if err != nil {
		return err
	}

	var obsServer ObservabilityServer
	if cfg.Observability.Enabled {
		obsServer = deps.ObservabilityServerFactory(cfg.Observability.Addr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
			defer pingCancel()
			return pool.Ping(pingCtx) == nil
		})
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return err
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
	}

	metrics := metricsOf(obsServer)
	handler, err := httpapi.NewHandler(identitySvc, roomSvc, users,
		identity.NewBcryptHasher(), metrics, slog.Default())
	if err != nil {
		return err
	}

	apiServer, err := deps.APIServerFactory(cfg.Server.Addr, handler, metrics)
	if err != nil {
		return err
	}
	apiErrCh, err := apiServer.Start()
	if err != nil {
		return err
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	cmd.Println("Hearsay server started")
	slog.Info("server ready", "api_addr", apiServer.Addr())

	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		slog.Warn("failed to stop api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("failed to stop observability server", "error", err)
		}
	}

	slog.Info("server stopped")
	return nil
}

func metricsOf(obsServer ObservabilityServer) *observability.Metrics {
	if obsServer == nil {
		return nil
	}
	return obsServer.Metrics()
}

// runAutoMigrate applies any pending migrations before the server accepts
// traffic.
func runAutoMigrate(deps *ServeDeps, databaseURL string) error {
	migrator, err := deps.MigratorFactory(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Warn("failed to close migrator", "error", closeErr)
		}
	}()

	pending, err := migrator.PendingMigrations()
	if err != nil {
		return oops.Code("MIGRATION_FAILED").Wrap(err)
	}
	if len(pending) == 0 {
		slog.Info("database schema up to date")
		return nil
	}

	slog.Info("applying pending migrations", "count", len(pending))
	if err := migrator.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").Wrap(err)
	}
	return nil
}

// monitorServerErrors cancels the run context when a server reports a fatal
// error. A closed channel (graceful stop) is not an error.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, name string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		slog.Error("server failed", "server", name, "error", err)
		cancel()
	case <-ctx.Done():
	}
}
