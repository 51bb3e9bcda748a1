package migrations_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentportal/internal/app/migrations"
	"github.com/yigit/studentportal/internal/db/dbtest"
)

func TestMigrateIsIdempotent(t *testing.T) {
	database := dbtest.Open(t)

	// a second run must skip the recorded version
	require.NoError(t, migrations.NewMigrator(database, zerolog.Nop()).Migrate(context.Background()))

	var versions []string
	require.NoError(t, database.Conn.Select(&versions, "SELECT version FROM schema_migrations"))
	assert.Equal(t, []string{"001"}, versions)
}

func TestFilesPerDriver(t *testing.T) {
	database := dbtest.Open(t)

	files, err := migrations.NewMigrator(database, zerolog.Nop()).Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"sql/sqlite3/001_init.sql"}, files)

	database.Driver = "oracle"
	_, err = migrations.NewMigrator(database, zerolog.Nop()).Files()
	assert.Error(t, err)
}
