package events

import (
	"encoding/json"

	"github.com/google/uuid"
)

// EventType represents different types of domain events in the system
type EventType string

const (
	EventTypeDepositCompleted EventType = "DepositCompleted"
	EventTypeBetPlaced        EventType = "BetPlaced"
)

// Event is the base interface for all domain events. Events are recorded on
// the transactional outbox; an external dispatcher delivers them.
type Event interface {
	Type() EventType
}

// DepositCompletedEvent records a confirmed deposit
type DepositCompletedEvent struct {
	DepositID uuid.UUID `json:"depositId"`
	UserID    uuid.UUID `json:"userId"`
	Amount    int64     `json:"amount"`
}

func (e DepositCompletedEvent) Type() EventType {
	return EventTypeDepositCompleted
}

// OutcomeSnapshot captures an outcome as it was at bet placement
type OutcomeSnapshot struct {
	OutcomeID uuid.UUID `json:"outcomeId"`
	Name      string    `json:"name"`
	Odds      float64   `json:"odds"`
}

// BetPlacedEvent records a placed bet with its outcome snapshot
type BetPlacedEvent struct {
	BetID    uuid.UUID         `json:"betId"`
	UserID   uuid.UUID         `json:"userId"`
	Stake    int64             `json:"stake"`
	Outcomes []OutcomeSnapshot `json:"outcomes"`
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// Marshal serializes an event payload for the outbox.
func Marshal(e Event) (json.RawMessage, error) {
	return json.Marshal(e)
}
