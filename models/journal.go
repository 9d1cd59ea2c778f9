package models

import (
	"time"

	"github.com/google/uuid"
)

// Journal groups the ledger entries of one economic event
type Journal struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

// LedgerEntry is one signed posting against one account within one journal.
// Amounts are minor currency units; the entries of a journal sum to zero.
type LedgerEntry struct {
	ID        uuid.UUID `db:"id"`
	JournalID uuid.UUID `db:"journal_id"`
	AccountID uuid.UUID `db:"account_id"`
	Amount    int64     `db:"amount"`
	CreatedAt time.Time `db:"created_at"`
}

// EntrySum returns the sum of the given entries' amounts.
func EntrySum(entries []LedgerEntry) int64 {
	var sum int64
	for _, e := range entries {
		sum += e.Amount
	}
	return sum
}
