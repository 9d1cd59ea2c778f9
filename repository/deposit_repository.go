package repository

import (
	"context"
	"fmt"

	"bookie/database"
	"bookie/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DepositRepository implements the DepositRepository interface
type DepositRepository struct {
	q queryable
}

// NewDepositRepository creates a new deposit repository
func NewDepositRepository(db *database.DB) *DepositRepository {
	return &DepositRepository{q: db.Pool}
}

// newDepositRepositoryWithTx creates a new deposit repository with a transaction
func newDepositRepositoryWithTx(tx queryable) *DepositRepository {
	return &DepositRepository{q: tx}
}

// Create creates a new deposit intent
func (r *DepositRepository) Create(ctx context.Context, intent *models.DepositIntent) error {
	if intent.ID == uuid.Nil {
		intent.ID = uuid.New()
	}
	if intent.Status == "" {
		intent.Status = models.DepositStatusPending
	}

	query := `
		INSERT INTO deposit_intents (id, user_id, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		intent.ID,
		intent.UserID,
		intent.Amount,
		intent.Status,
	).Scan(&intent.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create deposit intent for user %s: %w", intent.UserID, err)
	}

	return nil
}

// GetByID retrieves a deposit intent by its ID. When backed by a transaction
// the row is locked until commit so concurrent confirmations serialize.
func (r *DepositRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DepositIntent, error) {
	query := `
		SELECT id, user_id, amount, status, completed_at, deposit_journal_id, created_at
		FROM deposit_intents
		WHERE id = $1
		FOR UPDATE
	`

	var intent models.DepositIntent
	err := r.q.QueryRow(ctx, query, id).Scan(
		&intent.ID,
		&intent.UserID,
		&intent.Amount,
		&intent.Status,
		&intent.CompletedAt,
		&intent.DepositJournalID,
		&intent.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deposit intent %s: %w", id, err)
	}

	return &intent, nil
}

// MarkCompleted transitions a PENDING intent to COMPLETED exactly once
func (r *DepositRepository) MarkCompleted(ctx context.Context, id uuid.UUID, journalID uuid.UUID) (*models.DepositIntent, error) {
	query := `
		UPDATE deposit_intents
		SET status = $2, completed_at = NOW(), deposit_journal_id = $3
		WHERE id = $1 AND status = $4
		RETURNING id, user_id, amount, status, completed_at, deposit_journal_id, created_at
	`

	var intent models.DepositIntent
	err := r.q.QueryRow(ctx, query, id, models.DepositStatusCompleted, journalID, models.DepositStatusPending).Scan(
		&intent.ID,
		&intent.UserID,
		&intent.Amount,
		&intent.Status,
		&intent.CompletedAt,
		&intent.DepositJournalID,
		&intent.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.NewDomainErrorf(models.KindAlreadyCompleted, "deposit %s already completed", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to complete deposit intent %s: %w", id, err)
	}

	return &intent, nil
}
