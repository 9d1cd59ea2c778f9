package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxEvent is a domain event recorded in the same transaction as the
// mutation it describes. Seq gives the dispatcher insertion order; PublishedAt
// stays nil until an external dispatcher delivers the event.
type OutboxEvent struct {
	ID          uuid.UUID       `db:"id"`
	Seq         int64           `db:"seq"`
	EventType   string          `db:"event_type"`
	Payload     json.RawMessage `db:"payload"`
	CreatedAt   time.Time       `db:"created_at"`
	PublishedAt *time.Time      `db:"published_at"`
}
