package repository

import (
	"context"
	"fmt"

	"bookie/database"
	"bookie/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BetRepository implements the BetRepository interface
type BetRepository struct {
	q queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a new bet repository with a transaction
func newBetRepositoryWithTx(tx queryable) *BetRepository {
	return &BetRepository{q: tx}
}

// Create creates a new bet record
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	if bet.ID == uuid.Nil {
		bet.ID = uuid.New()
	}
	if bet.Status == "" {
		bet.Status = models.BetStatusPending
	}

	query := `
		INSERT INTO bets (id, user_id, stake, stake_journal_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.ID,
		bet.UserID,
		bet.Stake,
		bet.StakeJournalID,
		bet.Status,
	).Scan(&bet.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bet for user %s: %w", bet.UserID, err)
	}

	return nil
}

// CreateLeg creates a bet leg with the odds captured at placement
func (r *BetRepository) CreateLeg(ctx context.Context, leg *models.BetLeg) error {
	if leg.ID == uuid.Nil {
		leg.ID = uuid.New()
	}
	if leg.Result == "" {
		leg.Result = models.BetLegResultPending
	}

	query := `
		INSERT INTO bet_legs (id, bet_id, outcome_id, odds, result)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		leg.ID,
		leg.BetID,
		leg.OutcomeID,
		leg.Odds,
		leg.Result,
	).Scan(&leg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bet leg for bet %s: %w", leg.BetID, err)
	}

	return nil
}

// GetByID retrieves a bet with its legs
func (r *BetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	query := `
		SELECT id, user_id, stake, stake_journal_id, status, created_at
		FROM bets
		WHERE id = $1
	`

	var bet models.Bet
	err := r.q.QueryRow(ctx, query, id).Scan(
		&bet.ID,
		&bet.UserID,
		&bet.Stake,
		&bet.StakeJournalID,
		&bet.Status,
		&bet.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %s: %w", id, err)
	}

	legs, err := r.getLegs(ctx, id)
	if err != nil {
		return nil, err
	}
	bet.Legs = legs

	return &bet, nil
}

func (r *BetRepository) getLegs(ctx context.Context, betID uuid.UUID) ([]models.BetLeg, error) {
	query := `
		SELECT id, bet_id, outcome_id, odds, result, created_at
		FROM bet_legs
		WHERE bet_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.q.Query(ctx, query, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get legs of bet %s: %w", betID, err)
	}
	defer rows.Close()

	var legs []models.BetLeg
	for rows.Next() {
		var leg models.BetLeg
		err := rows.Scan(
			&leg.ID,
			&leg.BetID,
			&leg.OutcomeID,
			&leg.Odds,
			&leg.Result,
			&leg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet leg: %w", err)
		}
		legs = append(legs, leg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bet legs: %w", err)
	}

	return legs, nil
}
