package repository

import (
	"context"
	"fmt"

	"bookie/database"
	"bookie/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db              *database.DB
	tx              pgx.Tx
	ctx             context.Context
	accountRepo     service.AccountRepository
	ledgerRepo      service.LedgerRepository
	depositRepo     service.DepositRepository
	betRepo         service.BetRepository
	outcomeRepo     service.OutcomeRepository
	outboxRepo      service.OutboxRepository
	idempotencyRepo service.IdempotencyRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

type unitOfWorkFactory struct {
	db *database.DB
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{db: f.db}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.accountRepo = newAccountRepositoryWithTx(tx)
	u.ledgerRepo = newLedgerRepositoryWithTx(tx)
	u.depositRepo = newDepositRepositoryWithTx(tx)
	u.betRepo = newBetRepositoryWithTx(tx)
	u.outcomeRepo = newOutcomeRepositoryWithTx(tx)
	u.outboxRepo = newOutboxRepositoryWithTx(tx)
	u.idempotencyRepo = newIdempotencyRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// LedgerRepository returns the ledger repository for this unit of work
func (u *unitOfWork) LedgerRepository() service.LedgerRepository {
	if u.ledgerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ledgerRepo
}

// DepositRepository returns the deposit repository for this unit of work
func (u *unitOfWork) DepositRepository() service.DepositRepository {
	if u.depositRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.depositRepo
}

// BetRepository returns the bet repository for this unit of work
func (u *unitOfWork) BetRepository() service.BetRepository {
	if u.betRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.betRepo
}

// OutcomeRepository returns the outcome repository for this unit of work
func (u *unitOfWork) OutcomeRepository() service.OutcomeRepository {
	if u.outcomeRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.outcomeRepo
}

// OutboxRepository returns the outbox repository for this unit of work
func (u *unitOfWork) OutboxRepository() service.OutboxRepository {
	if u.outboxRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.outboxRepo
}

// IdempotencyRepository returns the idempotency repository for this unit of work
func (u *unitOfWork) IdempotencyRepository() service.IdempotencyRepository {
	if u.idempotencyRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.idempotencyRepo
}
