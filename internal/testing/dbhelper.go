// Package testing provides helpers for tests that need a PostgreSQL server.
package testing

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/sprocgen/internal/db"
	"github.com/vvka-141/sprocgen/internal/testinfra"
)

// ConnEnvVar names the environment variable pointing tests at an existing server.
const ConnEnvVar = "SPROCGEN_TEST_CONN"

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		container, err := testinfra.StartSimplePostgres(context.Background())
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: SPROCGEN_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv(ConnEnvVar); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", ConnEnvVar, err)
	}
	return connString
}

// RequireDatabase skips the test in short mode and otherwise returns the
// connection string of the test server.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	return GetTestConnectionString(t)
}

// NewTestDatabase creates a database of its own for the test and returns a
// pool connected to it. The database is dropped when the test completes.
func NewTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	connString := RequireDatabase(t)
	dbName := "sprocgen_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	ctx := context.Background()

	admin, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect for test DB creation: %v", err)
	}
	if _, err := admin.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", dbName)); err != nil {
		admin.Close()
		t.Fatalf("Failed to create test database %s: %v", dbName, err)
	}
	admin.Close()

	cfg, err := db.ParseConnectionString(connString)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}
	cfg.Database = dbName

	pool, err := pgxpool.New(ctx, db.BuildConnectionString(cfg))
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		cleanupTestDB(t, connString, dbName)
	})
	return pool
}

// cleanupTestDB drops the test database, terminating its connections first.
func cleanupTestDB(t *testing.T, connString, dbName string) {
	t.Helper()

	ctx := context.Background()
	admin, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Logf("Warning: Failed to connect for cleanup: %v", err)
		return
	}
	defer admin.Close()

	_, err = admin.Exec(ctx, `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()
	`, dbName)
	if err != nil {
		t.Logf("Warning: Failed to terminate connections to %s: %v", dbName, err)
	}

	if _, err := admin.Exec(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName)); err != nil {
		t.Logf("Warning: Failed to drop database %s: %v", dbName, err)
	}
}
