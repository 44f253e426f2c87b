package storage

import (
	"context"
	"fmt"
)

// Types are chosen to be valid in both Postgres and SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		categories INTEGER NOT NULL DEFAULT 0,
		activities INTEGER NOT NULL DEFAULT 0,
		attractions INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		url TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		region TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		discovered DATE,
		run_id TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		url TEXT NOT NULL,
		category_url TEXT NOT NULL,
		title TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL DEFAULT -1,
		region TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		discovered DATE,
		run_id TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (url, category_url)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_category ON activities(category_url)`,
	`CREATE TABLE IF NOT EXISTS attractions (
		url TEXT PRIMARY KEY,
		ta_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		reviews INTEGER NOT NULL DEFAULT 0,
		pct_excellent DOUBLE PRECISION NOT NULL DEFAULT 0,
		pct_very_good DOUBLE PRECISION NOT NULL DEFAULT 0,
		pct_average DOUBLE PRECISION NOT NULL DEFAULT 0,
		pct_poor DOUBLE PRECISION NOT NULL DEFAULT 0,
		pct_terrible DOUBLE PRECISION NOT NULL DEFAULT 0,
		address TEXT NOT NULL DEFAULT '',
		postcode_city TEXT NOT NULL DEFAULT '',
		postcode TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		lat DOUBLE PRECISION NOT NULL DEFAULT 0,
		lon DOUBLE PRECISION NOT NULL DEFAULT 0,
		run_id TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS attractions_combined (
		url TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		region TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL DEFAULT -1,
		added DATE,
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		reviews INTEGER NOT NULL DEFAULT 0,
		pct_excellent DOUBLE PRECISION NOT NULL DEFAULT 0,
		pct_very_good DOUBLE PRECISION NOT NULL DEFAULT 0,
		pct_average DOUBLE PRECISION NOT NULL DEFAULT 0,
		pct_poor DOUBLE PRECISION NOT NULL DEFAULT 0,
		pct_terrible DOUBLE PRECISION NOT NULL DEFAULT 0,
		categories TEXT NOT NULL DEFAULT '',
		run_id TEXT NOT NULL
	)`,
}

func (s *Store) ensureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
