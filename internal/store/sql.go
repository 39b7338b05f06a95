package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/city-explorer/internal/common"
	"github.com/i474232898/city-explorer/internal/explorer"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

// SQL is a database/sql backed store. PostgreSQL and SQLite share the same
// queries; only the schema files differ.
type SQL struct {
	db      *sql.DB
	driver  string
	dialect goose.Dialect
	log     *logrus.Entry
}

// Open connects to databaseURL and applies pending migrations. URLs starting
// with postgres:// or postgresql:// use lib/pq, anything else is handed to
// go-sqlite3 after stripping an optional sqlite:// prefix.
func Open(ctx context.Context, databaseURL string) (*SQL, error) {
	s := &SQL{log: logrus.WithField("component", "store")}

	dsn := databaseURL
	if _, ok := common.HasAnyPrefix(databaseURL, "postgres://", "postgresql://"); ok {
		s.driver, s.dialect = "postgres", goose.DialectPostgres
	} else {
		s.driver, s.dialect = "sqlite3", goose.DialectSQLite3
		dsn = strings.TrimPrefix(databaseURL, "sqlite://")
	}

	db, err := sql.Open(s.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", s.driver, err)
	}

	if s.driver == "sqlite3" {
		// SQLite serialises writers, and every new connection to :memory:
		// would see an empty database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxIdleConns)
		db.SetConnMaxLifetime(connMaxLifetime)
	}
	s.db = db

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to %s database: %w", s.driver, err)
	}

	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQL) migrate(ctx context.Context) error {
	dir := "migrations/postgres"
	if s.dialect == goose.DialectSQLite3 {
		dir = "migrations/sqlite"
	}

	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("failed to create sub filesystem: %w", err)
	}

	provider, err := goose.NewProvider(s.dialect, s.db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	for _, r := range results {
		s.log.Infof("[Store] migrated %s (%s)", r.Source.Path, r.Duration)
	}
	return nil
}

// Driver returns the database/sql driver name in use.
func (s *SQL) Driver() string {
	return s.driver
}

// Ping reports whether the database is reachable.
func (s *SQL) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", explorer.ErrStoreUnavailable, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *SQL) Close() error {
	return s.db.Close()
}

// Stores returns the per-category views of the database.
func (s *SQL) Stores() explorer.Stores {
	return explorer.Stores{
		Locations:  &sqlLocations{db: s.db},
		Weather:    weatherTable(s.db),
		Businesses: businessTable(s.db),
		Movies:     movieTable(s.db),
		Meetups:    meetupTable(s.db),
		Trails:     trailTable(s.db),
	}
}

func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", explorer.ErrStoreUnavailable, op, err)
}
