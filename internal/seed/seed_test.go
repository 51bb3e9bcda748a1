package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentportal/internal/config"
	"github.com/yigit/studentportal/internal/db/dbtest"
	"github.com/yigit/studentportal/internal/pkg/auth"
)

func TestCreateDefaultDataIsRepeatable(t *testing.T) {
	database := dbtest.Open(t)
	ctx := context.Background()

	require.NoError(t, CreateDefaultData(ctx, database, config.PasswordModePlaintext, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, database, config.PasswordModePlaintext, zerolog.Nop()))

	var students, subjects int
	require.NoError(t, database.Conn.Get(&students, "SELECT COUNT(*) FROM student"))
	require.NoError(t, database.Conn.Get(&subjects, "SELECT COUNT(*) FROM subject"))
	assert.Equal(t, len(demoStudents), students)
	assert.Equal(t, len(demoSubjects), subjects)

	var password string
	require.NoError(t, database.Conn.Get(&password, "SELECT password FROM student WHERE username = 'asha'"))
	assert.Equal(t, "asha123", password)
}

func TestCreateDefaultDataHashesInBcryptMode(t *testing.T) {
	database := dbtest.Open(t)

	require.NoError(t, CreateDefaultData(context.Background(), database, config.PasswordModeBcrypt, zerolog.Nop()))

	var password string
	require.NoError(t, database.Conn.Get(&password, "SELECT password FROM student WHERE username = 'ravi'"))
	assert.True(t, auth.CheckPassword(password, "ravi123"))
}
