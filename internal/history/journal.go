// Package history journals planned routes to SQLite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DefaultPath is the default journal location
const DefaultPath = ".wayfinder/routes.db"

// Entry is one journaled route
type Entry struct {
	ID         string    `json:"id"`
	RecordedAt time.Time `json:"recorded_at"`
	Goal       string    `json:"goal"`
	Water      string    `json:"water,omitempty"`
	ViaWater   bool      `json:"via_water"`
	Cost       float64   `json:"cost"`
	Nodes      []string  `json:"nodes"`
}

// Journal is a SQLite-backed route log
type Journal struct {
	db   *sql.DB
	path string
}

// Open opens or creates the journal at path
func Open(path string) (*Journal, error) {
	if path == "" {
		path = DefaultPath
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS routes (
		id TEXT PRIMARY KEY,
		recorded_at INTEGER NOT NULL,
		goal TEXT NOT NULL,
		water TEXT,
		via_water INTEGER NOT NULL,
		cost REAL NOT NULL,
		nodes TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_routes_recorded ON routes(recorded_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Journal{db: db, path: path}, nil
}

// Path returns the database file
func (j *Journal) Path() string {
	return j.path
}

// Record stores e, filling in its ID and timestamp when unset
func (j *Journal) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}

	nodes, err := json.Marshal(e.Nodes)
	if err != nil {
		return e, fmt.Errorf("encoding route nodes: %w", err)
	}

	_, err = j.db.ExecContext(ctx,
		`INSERT INTO routes (id, recorded_at, goal, water, via_water, cost, nodes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.RecordedAt.UnixNano(), e.Goal, e.Water, e.ViaWater, e.Cost, string(nodes))
	if err != nil {
		return e, fmt.Errorf("failed to record route: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, recorded_at, goal, water, via_water, cost, nodes
		 FROM routes ORDER BY recorded_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			recorded int64
			water    sql.NullString
			nodes    string
		)
		if err := rows.Scan(&e.ID, &recorded, &e.Goal, &water, &e.ViaWater, &e.Cost, &nodes); err != nil {
			return nil, fmt.Errorf("failed to scan route: %w", err)
		}
		e.RecordedAt = time.Unix(0, recorded)
		e.Water = water.String
		if err := json.Unmarshal([]byte(nodes), &e.Nodes); err != nil {
			return nil, fmt.Errorf("decoding route nodes: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database
func (j *Journal) Close() error {
	return j.db.Close()
}
