// Package sqlite keeps a local append-only log of check outcomes, so an
// operator can inspect past runs without querying the tracking service.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the pure-Go sqlite driver

	"github.com/hecksum/hecksum/internal/domain/entities"
)

const schema = `
CREATE TABLE IF NOT EXISTS checks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project TEXT NOT NULL,
	tracker_id TEXT NOT NULL,
	status TEXT NOT NULL,
	checksum TEXT,
	checksum_url TEXT,
	download_url TEXT,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS checks_project_idx ON checks (project, created_at);
`

// HistoryStore is a SQLite-backed log of completed checks.
type HistoryStore struct {
	db *sql.DB
}

// HistoryRow is one logged check.
type HistoryRow struct {
	Project     string
	TrackerID   string
	Status      entities.Status
	Checksum    string
	ChecksumURL string
	DownloadURL string
	CreatedAt   time.Time
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		//nolint:errcheck,gosec // G104: Best effort close on init failure
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// Record appends one completed check.
func (s *HistoryStore) Record(ctx context.Context, check *entities.Check) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checks (project, tracker_id, status, checksum, checksum_url, download_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		check.Project.Name, check.Project.TrackerID, string(check.Status),
		check.Checksum, check.ChecksumURL, check.DownloadURL, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record check: %w", err)
	}
	return nil
}

// Recent returns the newest limit rows, newest first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]HistoryRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT project, tracker_id, status, checksum, checksum_url, download_url, created_at
		 FROM checks ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	//nolint:errcheck // Defer close on rows
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var r HistoryRow
		var status string
		var createdAt int64
		if err := rows.Scan(&r.Project, &r.TrackerID, &status, &r.Checksum,
			&r.ChecksumURL, &r.DownloadURL, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		r.Status = entities.Status(status)
		r.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}
