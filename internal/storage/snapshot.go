package storage

import (
	"database/sql"
	"time"
)

// PutSnapshot replaces the stored portfolio document.
func (s *Store) PutSnapshot(document string) error {
	_, err := s.db.Exec(`
		INSERT INTO portfolio_snapshot (id, document, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		document, time.Now().UTC().Format(timeLayout),
	)
	return err
}

// GetSnapshot returns the stored portfolio document, or ErrNotFound.
func (s *Store) GetSnapshot() (string, error) {
	var doc string
	err := s.db.QueryRow("SELECT document FROM portfolio_snapshot WHERE id = 1").Scan(&doc)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return doc, err
}

// DeleteSnapshot removes the stored portfolio document so the built-in one is used again.
func (s *Store) DeleteSnapshot() error {
	_, err := s.db.Exec("DELETE FROM portfolio_snapshot WHERE id = 1")
	return err
}
