package repository

import (
	"context"
	"fmt"

	"bookie/database"
	"bookie/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LedgerRepository implements the LedgerRepository interface. Journals are
// append-only; posting one applies every entry to its account row, so account
// balances always equal the sum of their entries.
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a new ledger repository with a transaction
func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// PostJournal atomically creates one journal and its entries. The balance
// UPDATE row-locks each account, so concurrent postings against the same
// account serialize and funds are re-validated at commit scope. A USER account
// driven negative aborts the caller's transaction with INSUFFICIENT_BALANCE.
func (r *LedgerRepository) PostJournal(ctx context.Context, entries []models.LedgerEntry) (*models.Journal, error) {
	if len(entries) < 2 {
		return nil, models.NewDomainErrorf(models.KindImbalancedJournal,
			"journal requires at least 2 entries, got %d", len(entries))
	}
	if sum := models.EntrySum(entries); sum != 0 {
		return nil, models.NewImbalancedJournalError(sum, len(entries))
	}

	journal := &models.Journal{ID: uuid.New()}
	err := r.q.QueryRow(ctx,
		`INSERT INTO journals (id) VALUES ($1) RETURNING created_at`,
		journal.ID,
	).Scan(&journal.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create journal: %w", err)
	}

	for i := range entries {
		entry := &entries[i]
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		entry.JournalID = journal.ID

		err := r.q.QueryRow(ctx, `
			INSERT INTO ledger_entries (id, journal_id, account_id, amount)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at
		`, entry.ID, entry.JournalID, entry.AccountID, entry.Amount).Scan(&entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to create ledger entry for account %s: %w", entry.AccountID, err)
		}

		var balance int64
		var category models.AccountCategory
		err = r.q.QueryRow(ctx, `
			UPDATE accounts
			SET balance = balance + $1, updated_at = NOW()
			WHERE id = $2
			RETURNING balance, category
		`, entry.Amount, entry.AccountID).Scan(&balance, &category)
		if err == pgx.ErrNoRows {
			return nil, models.NewDomainErrorf(models.KindNotFound, "account %s not found", entry.AccountID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to apply entry to account %s: %w", entry.AccountID, err)
		}

		// User accounts may never go negative; system accounts may.
		if category == models.AccountCategoryUser && balance < 0 {
			return nil, models.NewInsufficientBalanceError(balance-entry.Amount, -entry.Amount)
		}
	}

	return journal, nil
}

// GetJournalEntries returns all entries of a journal
func (r *LedgerRepository) GetJournalEntries(ctx context.Context, journalID uuid.UUID) ([]models.LedgerEntry, error) {
	query := `
		SELECT id, journal_id, account_id, amount, created_at
		FROM ledger_entries
		WHERE journal_id = $1
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries of journal %s: %w", journalID, err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.JournalID,
			&entry.AccountID,
			&entry.Amount,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}
