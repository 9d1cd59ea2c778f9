package models

import (
	"time"

	"github.com/google/uuid"
)

// DepositStatus represents the lifecycle state of a deposit intent
type DepositStatus string

const (
	DepositStatusPending   DepositStatus = "PENDING"
	DepositStatusCompleted DepositStatus = "COMPLETED"
)

// DepositIntent represents a user's intent to deposit funds. It transitions
// PENDING to COMPLETED exactly once and is immutable afterwards.
type DepositIntent struct {
	ID               uuid.UUID     `db:"id" json:"id"`
	UserID           uuid.UUID     `db:"user_id" json:"userId"`
	Amount           int64         `db:"amount" json:"amount"`
	Status           DepositStatus `db:"status" json:"status"`
	CompletedAt      *time.Time    `db:"completed_at" json:"completedAt,omitempty"`
	DepositJournalID *uuid.UUID    `db:"deposit_journal_id" json:"depositJournalId,omitempty"`
	CreatedAt        time.Time     `db:"created_at" json:"createdAt"`
}
