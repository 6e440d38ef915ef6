package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// timeLayout is fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// ChatRecord is one answered chat request.
type ChatRecord struct {
	ID           string
	CreatedAt    time.Time
	UserMessage  string
	HistoryTurns int
	Reply        string
	Outcome      string // "success", "both_failed", "single_failed", "offline", "unexpected"
	Provider     string // provider that answered; empty unless Outcome is "success"
	DurationMs   int64
}
