// Package history records delivered reminders in a local SQLite database
// so past runs can be audited.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a send-history audit store backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Delivery is one recorded reminder email.
type Delivery struct {
	RunID   string
	User    string
	Email   string
	Actions int
	SentAt  time.Time
}

// Open opens (or creates) the history database at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return s, nil
}

// initSchema creates the database schema
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		days INTEGER NOT NULL,
		mode TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS deliveries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		user TEXT NOT NULL,
		email TEXT NOT NULL,
		actions INTEGER NOT NULL,
		sent_at TIMESTAMP NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_deliveries_run_id ON deliveries(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// StartRun records the beginning of a run.
func (s *Store) StartRun(id string, days int, mode string) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, started_at, days, mode) VALUES (?, ?, ?, ?)`,
		id, time.Now().UTC(), days, mode,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecordDelivery records one sent reminder for the run.
func (s *Store) RecordDelivery(runID, user, email string, actions int) error {
	_, err := s.db.Exec(
		`INSERT INTO deliveries (run_id, user, email, actions, sent_at) VALUES (?, ?, ?, ?, ?)`,
		runID, user, email, actions, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}
	return nil
}

// Deliveries returns the deliveries recorded for a run, oldest first.
func (s *Store) Deliveries(runID string) ([]Delivery, error) {
	rows, err := s.db.Query(
		`SELECT run_id, user, email, actions, sent_at FROM deliveries WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []Delivery
	for rows.Next() {
		var d Delivery
		if err := rows.Scan(&d.RunID, &d.User, &d.Email, &d.Actions, &d.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
