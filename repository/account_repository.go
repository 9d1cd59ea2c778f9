package repository

import (
	"context"
	"fmt"

	"bookie/database"
	"bookie/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `id, user_id, category, balance, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.Category,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}

	return account, nil
}

// GetUserAccount retrieves the USER account owned by the given user
func (r *AccountRepository) GetUserAccount(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND category = $2`

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID, models.AccountCategoryUser))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user account for user %s: %w", userID, err)
	}

	return account, nil
}

// GetSystemAccount retrieves the system-wide singleton account of the given category
func (r *AccountRepository) GetSystemAccount(ctx context.Context, category models.AccountCategory) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE category = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, category))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get system account %s: %w", category, err)
	}

	return account, nil
}

// Create creates a new account with a zero balance
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	query := `
		INSERT INTO accounts (id, user_id, category, balance)
		VALUES ($1, $2, $3, 0)
		RETURNING balance, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		account.ID,
		account.UserID,
		account.Category,
	).Scan(&account.Balance, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create %s account %s: %w", account.Category, account.ID, err)
	}

	return nil
}

// GetBalance returns the current balance of an account
func (r *AccountRepository) GetBalance(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `SELECT balance FROM accounts WHERE id = $1`

	var balance int64
	err := r.q.QueryRow(ctx, query, id).Scan(&balance)
	if err == pgx.ErrNoRows {
		return 0, models.NewDomainErrorf(models.KindNotFound, "account %s not found", id)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance of account %s: %w", id, err)
	}

	return balance, nil
}
