package models

import (
	"time"

	"github.com/google/uuid"
)

// BetStatus represents the lifecycle state of a bet
type BetStatus string

const (
	BetStatusPending BetStatus = "PENDING"
	BetStatusSettled BetStatus = "SETTLED"
	BetStatusVoided  BetStatus = "VOIDED"
)

// BetLegResult represents the settlement state of a single leg
type BetLegResult string

const (
	BetLegResultPending BetLegResult = "PENDING"
	BetLegResultWon     BetLegResult = "WON"
	BetLegResultLost    BetLegResult = "LOST"
)

// Outcome is a wagerable outcome with its current odds. Odds are copied onto
// bet legs at placement time; later changes never affect placed bets.
type Outcome struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Odds      float64   `db:"odds" json:"odds"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Bet represents a placed bet funded by a stake journal
type Bet struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"userId"`
	Stake          int64     `db:"stake" json:"stake"`
	StakeJournalID uuid.UUID `db:"stake_journal_id" json:"stakeJournalId"`
	Status         BetStatus `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	Legs           []BetLeg  `db:"-" json:"legs,omitempty"`
}

// BetLeg ties a bet to one outcome with the odds captured at placement
type BetLeg struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	BetID     uuid.UUID    `db:"bet_id" json:"betId"`
	OutcomeID uuid.UUID    `db:"outcome_id" json:"outcomeId"`
	Odds      float64      `db:"odds" json:"odds"`
	Result    BetLegResult `db:"result" json:"result"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
}
