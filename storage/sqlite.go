package storage

import (
	"os"
	"path/filepath"

	"github.com/garmently/garmently/config"
	"github.com/garmently/garmently/constants"
	"github.com/garmently/garmently/logger"
)

const sqliteMemory = ":memory:"

// NewSqliteStorage opens a SQLite database, creating its parent directory.
func NewSqliteStorage(cfg config.Database) (*SQLStorage, error) {
	dsn := cfg.Name
	// Only create parent directories if not using in-memory SQLite (":memory:").
	if dsn != sqliteMemory && dsn != "" {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, logger.Errorf("failed to create db directory %q: %w", dir, err)
		}
	}
	return newSQLStorage(constants.StorageDriverSQLite, dsn, cfg)
}
