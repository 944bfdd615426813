// Package store provides SQLite-backed persistence for annotation history.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the annotation-history persistence layer.
type Store struct {
	db *sql.DB
}

// New creates a new Store, initializing the database if needed.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- One row per annotation pass
	CREATE TABLE IF NOT EXISTS runs (
		id              TEXT PRIMARY KEY,
		base_url        TEXT NOT NULL,
		style           TEXT NOT NULL,
		commit_count    INTEGER NOT NULL,
		annotated_count INTEGER NOT NULL,
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- One row per commit that received a link
	CREATE TABLE IF NOT EXISTS annotations (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id      TEXT NOT NULL,
		commit_hash TEXT NOT NULL,
		branch      TEXT NOT NULL,
		ticket      TEXT NOT NULL,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,

		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_annotations_run ON annotations(run_id);
	CREATE INDEX IF NOT EXISTS idx_annotations_ticket ON annotations(ticket);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Run records one annotation pass over a commit collection.
type Run struct {
	ID             string
	BaseURL        string
	Style          string
	CommitCount    int
	AnnotatedCount int
	CreatedAt      time.Time
}

// Annotation records one ticket link applied during a run.
type Annotation struct {
	RunID      string
	CommitHash string
	Branch     string
	Ticket     string
	CreatedAt  time.Time
}
