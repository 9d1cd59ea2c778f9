package service

import (
	"context"
	"encoding/json"

	"bookie/events"
	"bookie/models"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for ledger account data access
type AccountRepository interface {
	// GetByID retrieves an account by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)

	// GetUserAccount retrieves the USER account owned by the given user
	GetUserAccount(ctx context.Context, userID uuid.UUID) (*models.Account, error)

	// GetSystemAccount retrieves the system-wide singleton account of the
	// given category (EXTERNAL or WAGER)
	GetSystemAccount(ctx context.Context, category models.AccountCategory) (*models.Account, error)

	// Create creates a new account with a zero balance
	Create(ctx context.Context, account *models.Account) error

	// GetBalance returns the current balance of an account
	GetBalance(ctx context.Context, id uuid.UUID) (int64, error)
}

// LedgerRepository defines the interface for posting balanced journals
type LedgerRepository interface {
	// PostJournal atomically creates one journal and its entries, applying
	// each amount to its account. It composes inside the caller's transaction
	// and never commits on its own. Fails with an IMBALANCED_JOURNAL error if
	// the entries do not sum to zero, and with INSUFFICIENT_BALANCE if a user
	// account would be driven negative.
	PostJournal(ctx context.Context, entries []models.LedgerEntry) (*models.Journal, error)

	// GetJournalEntries returns all entries of a journal
	GetJournalEntries(ctx context.Context, journalID uuid.UUID) ([]models.LedgerEntry, error)
}

// DepositRepository defines the interface for deposit intent data access
type DepositRepository interface {
	// Create creates a new deposit intent
	Create(ctx context.Context, intent *models.DepositIntent) error

	// GetByID retrieves a deposit intent by its ID, locking the row for the
	// duration of the transaction
	GetByID(ctx context.Context, id uuid.UUID) (*models.DepositIntent, error)

	// MarkCompleted transitions a PENDING intent to COMPLETED with its
	// journal reference
	MarkCompleted(ctx context.Context, id uuid.UUID, journalID uuid.UUID) (*models.DepositIntent, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// Create creates a new bet record
	Create(ctx context.Context, bet *models.Bet) error

	// CreateLeg creates a bet leg with the odds captured at placement
	CreateLeg(ctx context.Context, leg *models.BetLeg) error

	// GetByID retrieves a bet with its legs
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error)
}

// OutcomeRepository defines the interface for outcome data access
type OutcomeRepository interface {
	// GetByIDs retrieves the outcomes with the given ids. Missing ids are
	// simply absent from the result; callers decide whether that is an error.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Outcome, error)

	// Create creates a new outcome
	Create(ctx context.Context, outcome *models.Outcome) error
}

// OutboxRepository defines the interface for the transactional outbox
type OutboxRepository interface {
	// Append records a domain event in the current transaction
	Append(ctx context.Context, event events.Event) (*models.OutboxEvent, error)

	// ListUnpublished returns unpublished events in insertion order
	ListUnpublished(ctx context.Context, limit int) ([]models.OutboxEvent, error)

	// MarkPublished stamps an event as delivered
	MarkPublished(ctx context.Context, id uuid.UUID) error
}

// IdempotencyRepository defines the interface for idempotency records
type IdempotencyRepository interface {
	// Insert atomically inserts a reservation for the key. Fails with
	// ErrDuplicateKey when the key is already reserved.
	Insert(ctx context.Context, record *models.IdempotencyRecord) error

	// GetByKey retrieves the record for a key, or nil when absent
	GetByKey(ctx context.Context, key string) (*models.IdempotencyRecord, error)

	// StoreResponse sets the response on a reservation exactly once
	StoreResponse(ctx context.Context, key string, status int, body json.RawMessage) error

	// Delete removes a reservation so the key can be retried
	Delete(ctx context.Context, key string) error
}

// UnitOfWork represents a transactional boundary with access to repositories
type UnitOfWork interface {
	// Begin starts the transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction; a no-op after commit
	Rollback() error

	// AccountRepository returns the account repository for this unit of work
	AccountRepository() AccountRepository

	// LedgerRepository returns the ledger repository for this unit of work
	LedgerRepository() LedgerRepository

	// DepositRepository returns the deposit repository for this unit of work
	DepositRepository() DepositRepository

	// BetRepository returns the bet repository for this unit of work
	BetRepository() BetRepository

	// OutcomeRepository returns the outcome repository for this unit of work
	OutcomeRepository() OutcomeRepository

	// OutboxRepository returns the outbox repository for this unit of work
	OutboxRepository() OutboxRepository

	// IdempotencyRepository returns the idempotency repository for this unit of work
	IdempotencyRepository() IdempotencyRepository
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// Handler is the unit of domain work executed through the Coordinator. It
// runs inside the unit of work's transaction and returns the serialized
// command result.
type Handler func(ctx context.Context, uow UnitOfWork) (json.RawMessage, error)

// Coordinator deduplicates command execution by client-supplied idempotency key
type Coordinator interface {
	// Execute runs the handler inside a unit of work, at most once per key.
	// An empty key opts out of deduplication. A retry after success replays
	// the stored response verbatim; a concurrent attempt on an in-flight key
	// fails with CONFLICT_IN_PROGRESS.
	Execute(ctx context.Context, key string, identity models.Identity, route models.Route, handler Handler) (json.RawMessage, error)
}

// DepositService defines deposit money-movement operations
type DepositService interface {
	// CreateDeposit records a PENDING deposit intent; no ledger postings
	CreateDeposit(ctx context.Context, identity models.Identity, key string, amount int64) (*models.DepositIntent, error)

	// ConfirmDeposit settles a pending deposit: one balanced journal moving
	// funds from the EXTERNAL account to the user's account, the intent
	// marked COMPLETED, and a DepositCompleted outbox event. Privileged.
	ConfirmDeposit(ctx context.Context, identity models.Identity, key string, depositID uuid.UUID) (*models.DepositIntent, error)
}

// BetService defines bet placement operations
type BetService interface {
	// PlaceBet stakes funds against the wager pool and creates a bet with
	// one leg per outcome, odds captured at placement
	PlaceBet(ctx context.Context, identity models.Identity, key string, stake int64, outcomeIDs []uuid.UUID) (*models.Bet, error)

	// GetBet retrieves a bet with its legs
	GetBet(ctx context.Context, id uuid.UUID) (*models.Bet, error)
}
