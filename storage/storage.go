package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/garmently/garmently/config"
	"github.com/garmently/garmently/constants"
)

// ErrUnsupportedEngine is returned for engines without a registered driver.
var ErrUnsupportedEngine = errors.New("unsupported database engine")

// Storage is the database handle the application serves requests with.
type Storage interface {
	Engine() string
	Ping(ctx context.Context) error
	DB() *sql.DB
	Close() error
}

// SQLStorage implements Storage on top of database/sql.
type SQLStorage struct {
	db     *sql.DB
	engine string
}

var _ Storage = (*SQLStorage)(nil)

// Open returns a pooled handle for the configured database. Connections are
// established lazily; call Ping to verify reachability.
func Open(ctx context.Context, cfg config.Database) (*SQLStorage, error) {
	switch cfg.Engine {
	case constants.EngineSQLite:
		return NewSqliteStorage(cfg)
	case constants.EnginePostgres:
		return NewPostgresStorage(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEngine, cfg.Engine)
	}
}

func newSQLStorage(driver, dsn string, cfg config.Database) (*SQLStorage, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Engine, err)
	}
	// Zero keeps connections open indefinitely, matching a missing max age.
	db.SetConnMaxLifetime(cfg.ConnMaxAge)
	return &SQLStorage{db: db, engine: cfg.Engine}, nil
}

func (s *SQLStorage) Engine() string {
	return s.engine
}

func (s *SQLStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach %s database: %w", s.engine, err)
	}
	return nil
}

func (s *SQLStorage) DB() *sql.DB {
	return s.db
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}
