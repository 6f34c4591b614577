package cache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database that caches raw service payloads.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite cache database and runs migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS threads (
			permalink TEXT NOT NULL,
			sort TEXT NOT NULL DEFAULT '',
			payload BLOB NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (permalink, sort)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_threads_fetched_at ON threads(fetched_at)`,

		`CREATE TABLE IF NOT EXISTS link_pages (
			subreddit TEXT NOT NULL,
			after TEXT NOT NULL DEFAULT '',
			payload BLOB NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (subreddit, after)
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
