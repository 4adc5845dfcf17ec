package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	query := "SELECT id FROM transactions WHERE owner_id = ? AND (date < ? OR (date = ? AND id < ?))"

	assert.Equal(t, query, SQLite.Rebind(query))
	assert.Equal(t,
		"SELECT id FROM transactions WHERE owner_id = $1 AND (date < $2 OR (date = $3 AND id < $4))",
		Postgres.Rebind(query),
	)
}

func TestParseDialect(t *testing.T) {
	for input, want := range map[string]Dialect{
		"pgx":        Postgres,
		"postgres":   Postgres,
		"postgresql": Postgres,
		"sqlite3":    SQLite,
		"sqlite":     SQLite,
	} {
		got, err := ParseDialect(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseDialect("mysql")
	assert.Error(t, err)
}

func TestNewDBServiceRequiresConnectionString(t *testing.T) {
	_, err := NewDBService("sqlite3", "")
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	service, err := NewDBService("sqlite3", filepath.Join(t.TempDir(), "nested", "dashboard.db"))
	require.NoError(t, err)
	defer service.Close()

	require.NoError(t, service.Migrate(ctx))
	require.NoError(t, service.Migrate(ctx))

	var applied int
	require.NoError(t, service.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 1, applied)

	for _, table := range []string{"accounts", "transactions", "goals"} {
		var name string
		err := service.DB.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestHealth(t *testing.T) {
	service, err := NewDBService("sqlite3", filepath.Join(t.TempDir(), "health.db"))
	require.NoError(t, err)

	stats := service.Health(context.Background())
	assert.Equal(t, "up", stats["status"])

	require.NoError(t, service.Close())
	stats = service.Health(context.Background())
	assert.Equal(t, "down", stats["status"])
}
