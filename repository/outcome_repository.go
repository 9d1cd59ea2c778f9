package repository

import (
	"context"
	"fmt"

	"bookie/database"
	"bookie/models"

	"github.com/google/uuid"
)

// OutcomeRepository implements the OutcomeRepository interface
type OutcomeRepository struct {
	q queryable
}

// NewOutcomeRepository creates a new outcome repository
func NewOutcomeRepository(db *database.DB) *OutcomeRepository {
	return &OutcomeRepository{q: db.Pool}
}

// newOutcomeRepositoryWithTx creates a new outcome repository with a transaction
func newOutcomeRepositoryWithTx(tx queryable) *OutcomeRepository {
	return &OutcomeRepository{q: tx}
}

// GetByIDs retrieves the outcomes with the given ids. Missing ids are absent
// from the result.
func (r *OutcomeRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Outcome, error) {
	query := `
		SELECT id, name, odds, created_at
		FROM outcomes
		WHERE id = ANY($1)
	`

	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []models.Outcome
	for rows.Next() {
		var outcome models.Outcome
		err := rows.Scan(
			&outcome.ID,
			&outcome.Name,
			&outcome.Odds,
			&outcome.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		outcomes = append(outcomes, outcome)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outcomes: %w", err)
	}

	return outcomes, nil
}

// Create creates a new outcome
func (r *OutcomeRepository) Create(ctx context.Context, outcome *models.Outcome) error {
	if outcome.ID == uuid.Nil {
		outcome.ID = uuid.New()
	}

	query := `
		INSERT INTO outcomes (id, name, odds)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query, outcome.ID, outcome.Name, outcome.Odds).Scan(&outcome.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create outcome %q: %w", outcome.Name, err)
	}

	return nil
}
