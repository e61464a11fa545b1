// Package store persists the site's privacy-conscious visitor analytics,
// outbound link clicks and contact messages in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is how timestamps are written. It sorts lexically.
const timeLayout = "2006-01-02 15:04:05"

// DB wraps a sql.DB with the portfolio's queries.
type DB struct {
	*sql.DB
	path string

	// Now is the clock used for new rows and relative queries.
	Now func() time.Time
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return initDB(sqlDB, path)
}

// OpenMemory creates an in-memory database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// every pooled connection would otherwise get its own empty database
	sqlDB.SetMaxOpenConns(1)
	return initDB(sqlDB, ":memory:")
}

func initDB(sqlDB *sql.DB, path string) (*DB, error) {
	d := &DB{DB: sqlDB, path: path, Now: time.Now}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

// Path returns the database location.
func (d *DB) Path() string {
	return d.path
}

func (d *DB) now() time.Time {
	return d.Now().UTC()
}

func stamp(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseStamp(s string) time.Time {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,
		user_agent TEXT,
		path TEXT,
		timestamp TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp)`,
	`CREATE TABLE IF NOT EXISTS link_clicks (
		slug TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		clicks INTEGER NOT NULL DEFAULT 0,
		last_clicked TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		body TEXT NOT NULL,
		hashed_ip TEXT,
		created_at TEXT NOT NULL,
		delivered INTEGER NOT NULL DEFAULT 0
	)`,
}

func (d *DB) migrate() error {
	for _, m := range migrations {
		if _, err := d.Exec(m); err != nil {
			return err
		}
	}
	return nil
}
