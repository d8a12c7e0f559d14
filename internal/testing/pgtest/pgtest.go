// Package pgtest starts a throwaway PostgreSQL container for integration tests.
package pgtest

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const image = "postgres:15-alpine"

// Start runs a container and returns its connection string plus a terminate
// func. It returns an empty string when Docker is unavailable so callers can
// skip instead of failing.
func Start(ctx context.Context) (connString string, terminate func()) {
	// testcontainers panics when no Docker socket is reachable.
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic starting postgres container: %v\n", r)
			connString, terminate = "", func() {}
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		image,
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return "", func() {}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		_ = pgContainer.Terminate(ctx)
		return "", func() {}
	}

	return connStr, func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}
}
