package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SaveChat inserts a chat record. A missing ID or CreatedAt is filled in.
func (s *Store) SaveChat(r ChatRecord) (ChatRecord, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC()

	_, err := s.db.Exec(`
		INSERT INTO chat_log (id, created_at, user_message, history_turns, reply, outcome, provider, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt.Format(timeLayout), r.UserMessage, r.HistoryTurns,
		r.Reply, r.Outcome, r.Provider, r.DurationMs,
	)
	if err != nil {
		return ChatRecord{}, fmt.Errorf("saving chat %s: %w", r.ID, err)
	}
	return r, nil
}

// Record stores one chat exchange. It satisfies the request boundary's
// recorder hook.
func (s *Store) Record(ctx context.Context, r ChatRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.SaveChat(r)
	return err
}

func (s *Store) GetChat(id string) (ChatRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, created_at, user_message, history_turns, reply, outcome, provider, duration_ms
		FROM chat_log WHERE id = ?`, id,
	)
	r, err := scanChat(row)
	if err == sql.ErrNoRows {
		return ChatRecord{}, ErrNotFound
	}
	return r, err
}

// RecentChats returns up to limit records, newest first.
func (s *Store) RecentChats(limit int) ([]ChatRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, user_message, history_turns, reply, outcome, provider, duration_ms
		FROM chat_log ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ChatRecord
	for rows.Next() {
		r, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChat(sc scanner) (ChatRecord, error) {
	var r ChatRecord
	var createdAt string
	if err := sc.Scan(&r.ID, &createdAt, &r.UserMessage, &r.HistoryTurns, &r.Reply, &r.Outcome, &r.Provider, &r.DurationMs); err != nil {
		return ChatRecord{}, err
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return ChatRecord{}, fmt.Errorf("parsing created_at: %w", err)
	}
	r.CreatedAt = t
	return r, nil
}
