// Package chronicle provides SQLite-based storage for the planet's
// history: the append-only event log and periodic summary snapshots.
package chronicle

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/varkess/ecosphere/internal/world"
)

// DB wraps a SQLite connection for chronicle storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		year INTEGER NOT NULL,
		layer TEXT NOT NULL,
		kind TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		year INTEGER PRIMARY KEY,
		summary_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_year ON events(year);
	CREATE INDEX IF NOT EXISTS idx_events_layer ON events(layer);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// AppendEvents appends a batch of world events to the log.
func (db *DB) AppendEvents(events []world.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (year, layer, kind, description) VALUES (?, ?, ?, ?)",
			e.Year, e.Layer, e.Kind, e.Description,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveSnapshot stores the world summary for a year as JSON, replacing
// any snapshot already recorded for that year.
func (db *DB) SaveSnapshot(year int, summary world.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = db.conn.Exec(
		"INSERT OR REPLACE INTO snapshots (year, summary_json) VALUES (?, ?)",
		year, string(data),
	)
	return err
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// eventRow mirrors the events table for sqlx scanning.
type eventRow struct {
	Year        int    `db:"year"`
	Layer       string `db:"layer"`
	Kind        string `db:"kind"`
	Description string `db:"description"`
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]world.Event, error) {
	var rows []eventRow
	err := db.conn.Select(&rows,
		"SELECT year, layer, kind, description FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}

	events := make([]world.Event, len(rows))
	for i, r := range rows {
		events[i] = world.Event{Year: r.Year, Layer: r.Layer, Kind: r.Kind, Description: r.Description}
	}
	return events, nil
}
