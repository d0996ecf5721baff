package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/go-disaster-feed/internal/models"
)

// snapshotKey is the only row the table ever holds.
const snapshotKey = "latest"

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteStore{
		db: db,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			total INTEGER NOT NULL,
			last_updated DATETIME NOT NULL,
			body BLOB NOT NULL,
			saved_at DATETIME NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save overwrites the stored snapshot.
func (s *SQLiteStore) Save(ctx context.Context, snap models.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("error encoding snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, state, total, last_updated, body, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			state = excluded.state,
			total = excluded.total,
			last_updated = excluded.last_updated,
			body = excluded.body,
			saved_at = excluded.saved_at
	`, snapshotKey, string(snap.State), snap.Total, snap.LastUpdated.UTC(), body, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error saving snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (models.Snapshot, bool, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM snapshots WHERE key = ?`, snapshotKey).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Snapshot{}, false, nil
	}
	if err != nil {
		return models.Snapshot{}, false, fmt.Errorf("error loading snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return models.Snapshot{}, false, fmt.Errorf("error decoding snapshot: %w", err)
	}
	return snap, true, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
