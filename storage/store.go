// Package storage persists crawl results to Postgres or SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tripadvisor-scraper/config"
)

var (
	// ErrDisabled is returned by Open when persistence is switched off.
	ErrDisabled = errors.New("storage disabled")
	// ErrEmptyTable is returned by SaveCombined for a table without rows.
	ErrEmptyTable = errors.New("combined table has no rows")
)

// Store writes crawl results through database/sql. Queries are written with
// $n placeholders and rebound for the active dialect.
type Store struct {
	db      *sql.DB
	dialect string
}

// Open connects to the database selected by cfg.DBDriver and makes sure the
// schema exists.
func Open(ctx context.Context, cfg config.Config) (*Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		return NewPostgresStore(ctx, cfg.PostgresDSN())
	case "sqlite":
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	case "none", "":
		return nil, ErrDisabled
	}
	return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
}

func newStore(ctx context.Context, db *sql.DB, dialect string) (*Store, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	store := &Store{db: db, dialect: dialect}
	schemaCtx, schemaCancel := context.WithTimeout(ctx, 10*time.Second)
	defer schemaCancel()
	if err := store.ensureSchema(schemaCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Dialect names the backing database.
func (s *Store) Dialect() string {
	return s.dialect
}

// rebind turns $n placeholders into ?n for SQLite.
func (s *Store) rebind(query string) string {
	if s.dialect == "sqlite" {
		return strings.ReplaceAll(query, "$", "?")
	}
	return query
}
