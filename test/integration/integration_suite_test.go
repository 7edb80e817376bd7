// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

//go:build integration

// Package integration provides end-to-end integration tests for Hearsay.
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/hearsay-chat/hearsay/internal/identity"
	identitypg "github.com/hearsay-chat/hearsay/internal/identity/postgres"
	"github.com/hearsay-chat/hearsay/internal/room"
	roompg "github.com/hearsay-chat/hearsay/internal/room/postgres"
	"github.com/hearsay-chat/hearsay/internal/store"
)

func TestIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Integration Suite")
}

// testEnv holds all resources needed for integration tests.
type testEnv struct {
	ctx       context.Context
	pool      *pgxpool.Pool
	container testcontainers.Container

	Users    *identitypg.UserRepository
	Rooms    *roompg.RoomRepository
	Comments *roompg.CommentRepository

	Identity *identity.Service
	RoomSvc  *room.Service
}

var env *testEnv

var _ = BeforeSuite(func() {
	var err error
	env, err = setupTestEnv()
	Expect(err).NotTo(HaveOccurred())
})

var _ = AfterSuite(func() {
	if env != nil {
		env.cleanup()
	}
})

func setupTestEnv() (*testEnv, error) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("hearsay_test"),
		postgres.WithUsername("hearsay"),
		postgres.WithPassword("hearsay"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}
	if err := migrator.Close(); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	pool, err := store.Connect(ctx, connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	users := identitypg.NewUserRepository(pool)
	rooms := roompg.NewRoomRepository(pool)
	comments := roompg.NewCommentRepository(pool)

	identitySvc, err := identity.NewService(users, rooms,
		identity.NewBcryptHasher(), identity.NewDigestTokenIssuer())
	if err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}
	roomSvc, err := room.NewService(rooms, comments)
	if err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &testEnv{
		ctx:       ctx,
		pool:      pool,
		container: container,
		Users:     users,
		Rooms:     rooms,
		Comments:  comments,
		Identity:  identitySvc,
		RoomSvc:   roomSvc,
	}, nil
}

func (e *testEnv) cleanup() {
	if e.pool != nil {
		e.pool.Close()
	}
	if e.container != nil {
		_ = e.container.Terminate(e.ctx)
	}
}
