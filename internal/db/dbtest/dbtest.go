// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentportal/internal/app/migrations"
	"github.com/yigit/studentportal/internal/config"
	"github.com/yigit/studentportal/internal/db"
)

// Open returns a fresh database with every migration applied. It is closed
// when the test ends.
func Open(t *testing.T) *db.Database {
	t.Helper()

	conn, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	database := db.New(conn, config.DriverSQLite)
	require.NoError(t, migrations.NewMigrator(database, zerolog.Nop()).Migrate(context.Background()))
	return database
}

// Exec runs fixture statements, failing the test on the first error.
func Exec(t *testing.T, database *db.Database, statements ...string) {
	t.Helper()
	for _, stmt := range statements {
		_, err := database.Conn.Exec(stmt)
		require.NoError(t, err, stmt)
	}
}
