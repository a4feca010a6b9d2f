package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garmently/garmently/config"
	"github.com/garmently/garmently/constants"
)

func TestNewSqliteStorage_FileCreation(t *testing.T) {
	t.Run("WithSubdir", func(t *testing.T) {
		nested := filepath.Join(t.TempDir(), "nested", "subdir")
		dsn := filepath.Join(nested, "test.db")

		s, err := NewSqliteStorage(config.Database{Engine: constants.EngineSQLite, Name: dsn})
		require.NoError(t, err)
		defer s.Close()

		info, err := os.Stat(nested)
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		require.NoError(t, s.Ping(context.Background()))
		_, err = os.Stat(dsn)
		assert.NoError(t, err)
	})

	t.Run("InMemory", func(t *testing.T) {
		s, err := NewSqliteStorage(config.Database{Engine: constants.EngineSQLite, Name: ":memory:"})
		require.NoError(t, err)
		defer s.Close()
		assert.NoError(t, s.Ping(context.Background()))
	})
}

func TestOpen(t *testing.T) {
	cfg := config.Database{
		Engine:     constants.EngineSQLite,
		Name:       filepath.Join(t.TempDir(), "app.db"),
		ConnMaxAge: 600 * time.Second,
	}
	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, constants.EngineSQLite, s.Engine())
	require.NoError(t, s.Ping(context.Background()))

	var one int
	require.NoError(t, s.DB().QueryRowContext(context.Background(), "SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}

func TestOpen_UnsupportedEngine(t *testing.T) {
	_, err := Open(context.Background(), config.Database{Engine: "mysql"})
	assert.ErrorIs(t, err, ErrUnsupportedEngine)
}
