package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS analytics_events (
    id BIGSERIAL PRIMARY KEY,
    event_id UUID NOT NULL,
    event_name TEXT NOT NULL,
    event_time TIMESTAMPTZ NOT NULL,
    user_id INTEGER,
    session_id TEXT,
    platform TEXT NOT NULL,
    app_version TEXT NOT NULL DEFAULT '',
    device_locale TEXT,
    source_event_key TEXT UNIQUE,
    properties JSONB NOT NULL DEFAULT '{}'::jsonb
);
CREATE INDEX IF NOT EXISTS analytics_events_name_time ON analytics_events (event_name, event_time);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS analytics_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    event_id TEXT NOT NULL,
    event_name TEXT NOT NULL,
    event_time TIMESTAMP NOT NULL,
    user_id INTEGER,
    session_id TEXT,
    platform TEXT NOT NULL,
    app_version TEXT NOT NULL DEFAULT '',
    device_locale TEXT,
    source_event_key TEXT UNIQUE,
    properties TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS analytics_events_name_time ON analytics_events (event_name, event_time);
`

// Connect opens and pings a database for driver "postgres" or "sqlite3".
func Connect(driver, connString string) (*sql.DB, error) {
	db, err := sql.Open(driver, connString)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	// every :memory: connection is its own database
	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return db, nil
}

// Migrate creates the analytics tables in the driver's dialect.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var schema string
	switch driver {
	case "postgres":
		schema = postgresSchema
	case "sqlite3":
		schema = sqliteSchema
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate %s: %w", driver, err)
	}
	return nil
}
