// Package postgres is the PostgreSQL implementation of storage.Store.
package postgres

import (
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/leozw/domainhub/internal/storage"
)

//go:embed migrations/*.sql
var migrations embed.FS

var _ storage.Store = (*DB)(nil)

type DB struct {
	*sqlx.DB
	now func() time.Time
}

func NewConnection(databaseURL string, maxOpen, maxIdle int) (*DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &DB{DB: db, now: time.Now}, nil
}

// WithClock replaces the time source used for LastUpdated and stats.
func (db *DB) WithClock(now func() time.Time) *DB {
	db.now = now
	return db
}

// Migrate brings the schema at databaseURL up to date.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
