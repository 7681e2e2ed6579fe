//go:build integration

// Package postgres_test exercises connection management and schema
// migrations against a real PostgreSQL instance. Requires Docker; gated
// behind the "integration" build tag.
package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/compsred/comps-engine/internal/infrastructure/database/postgres"
	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
)

const migrationsPath = "file://../../../../migrations"

// startPostgres launches a PostgreSQL 16 container and returns its config
// plus a URL form of the DSN.
func startPostgres(t *testing.T) (postgres.PostgresConfig, string) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "comps_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := postgres.PostgresConfig{
		Host:     host,
		Port:     port.Int(),
		Database: "comps_test",
		Username: "test",
		Password: "test",
		SSLMode:  "disable",
	}
	dbURL := fmt.Sprintf("postgres://test:test@%s:%s/comps_test?sslmode=disable", host, port.Port())
	return cfg, dbURL
}

func TestNewConnection_AgainstLiveDatabase(t *testing.T) {
	cfg, _ := startPostgres(t)

	conn, err := postgres.NewConnection(cfg, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	assert.NoError(t, conn.HealthCheck(context.Background()))
	assert.NotNil(t, conn.DB())

	stats := conn.Stats()
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
}

func TestMigrations_ApplyStatusRollback(t *testing.T) {
	_, dbURL := startPostgres(t)

	require.NoError(t, postgres.ApplyMigrations(dbURL, migrationsPath))

	version, dirty, err := postgres.MigrationStatus(dbURL, migrationsPath)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), version)

	// re-applying on an up-to-date schema is a no-op
	require.NoError(t, postgres.ApplyMigrations(dbURL, migrationsPath))

	require.NoError(t, postgres.RollbackMigration(dbURL, migrationsPath, 1))
	version, _, err = postgres.MigrationStatus(dbURL, migrationsPath)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestMigrations_SchemaIsUsable(t *testing.T) {
	cfg, dbURL := startPostgres(t)
	require.NoError(t, postgres.ApplyMigrations(dbURL, migrationsPath))

	conn, err := postgres.NewConnection(cfg, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx := context.Background()
	_, err = conn.DB().ExecContext(ctx, `
		INSERT INTO property_records (id, address, payload)
		VALUES ('zpid-1', '123 Main St', '{"id":"zpid-1"}')`)
	require.NoError(t, err)

	var count int
	require.NoError(t, conn.DB().QueryRowContext(ctx,
		`SELECT count(*) FROM property_records`).Scan(&count))
	assert.Equal(t, 1, count)
}

//Personal.AI order the ending
