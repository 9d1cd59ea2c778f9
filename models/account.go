package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountCategory classifies an account within the ledger
type AccountCategory string

const (
	AccountCategoryUser     AccountCategory = "USER"
	AccountCategoryExternal AccountCategory = "EXTERNAL"
	AccountCategoryWager    AccountCategory = "WAGER"
	AccountCategoryProfit   AccountCategory = "PROFIT"
)

// Account represents a ledger account. Balance is maintained alongside the
// account's ledger entries and always equals their sum.
type Account struct {
	ID        uuid.UUID       `db:"id"`
	UserID    *uuid.UUID      `db:"user_id"`
	Category  AccountCategory `db:"category"`
	Balance   int64           `db:"balance"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// IsSystem reports whether the account is one of the system-wide singletons.
func (a *Account) IsSystem() bool {
	return a.Category == AccountCategoryExternal || a.Category == AccountCategoryWager
}
