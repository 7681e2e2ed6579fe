//go:build integration

// Package repositories_test provides integration tests for the PostgreSQL
// repositories. Tests require Docker and are gated behind the "integration"
// build tag.
package repositories_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	proptypes "github.com/compsred/comps-engine/pkg/types/property"
)

// noopLogger satisfies repositories.Logger without producing output.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// startPostgres launches a PostgreSQL 16 container, applies the schema, and
// returns an open pool.
func startPostgres(t *testing.T) *sql.DB {
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

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/comps_test?sslmode=disable", host, port.Port())
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.Eventually(t, func() bool { return db.PingContext(ctx) == nil },
		30*time.Second, 250*time.Millisecond)

	applySchema(t, db)
	return db
}

func applySchema(t *testing.T, db *sql.DB) {
	t.Helper()

	ddl := `
	CREATE TABLE IF NOT EXISTS property_records (
		id             TEXT PRIMARY KEY,
		address        TEXT NOT NULL,
		price          BIGINT NOT NULL DEFAULT 0,
		sqft           BIGINT NOT NULL DEFAULT 1,
		beds           INTEGER NOT NULL DEFAULT 0,
		baths          NUMERIC(4,1) NOT NULL DEFAULT 0,
		property_type  TEXT NOT NULL DEFAULT '',
		listing_status TEXT NOT NULL DEFAULT '',
		payload        JSONB NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS decks (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		analysis   JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS deck_cards (
		id         TEXT PRIMARY KEY,
		deck_id    TEXT NOT NULL REFERENCES decks(id) ON DELETE CASCADE,
		position   INTEGER NOT NULL,
		is_master  BOOLEAN NOT NULL DEFAULT false,
		label      TEXT NOT NULL,
		property   JSONB NOT NULL,
		comparison JSONB,
		added_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (deck_id, position)
	);
	`
	_, err := db.Exec(ddl)
	require.NoError(t, err)
}

func newTestProperty(id, address string, price int64) *proptypes.PropertyRecord {
	return &proptypes.PropertyRecord{
		ID:            id,
		Address:       address,
		Price:         price,
		PricePerSqft:  price / 1500,
		Beds:          3,
		Baths:         2,
		Sqft:          1500,
		LotSize:       6000,
		YearBuilt:     2005,
		PropertyType:  "SINGLE_FAMILY",
		ListingStatus: proptypes.StatusForSale,
		DaysOnMarket:  14,
		ListDate:      "2024-03-01",
		Neighborhood:  "Mueller",
		GarageSpaces:  2,
	}
}

//Personal.AI order the ending
