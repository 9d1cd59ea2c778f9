package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bookie/database"
	"bookie/models"
	"bookie/service"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IdempotencyRepository implements the IdempotencyRepository interface. The
// unique constraint on key gives the coordinator its atomic insert-if-absent.
type IdempotencyRepository struct {
	q queryable
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *database.DB) *IdempotencyRepository {
	return &IdempotencyRepository{q: db.Pool}
}

// newIdempotencyRepositoryWithTx creates a new idempotency repository with a transaction
func newIdempotencyRepositoryWithTx(tx queryable) *IdempotencyRepository {
	return &IdempotencyRepository{q: tx}
}

// Insert atomically inserts a reservation for the key. Returns
// service.ErrDuplicateKey when the key is already reserved.
func (r *IdempotencyRepository) Insert(ctx context.Context, record *models.IdempotencyRecord) error {
	query := `
		INSERT INTO idempotency_keys (key, request_path, request_method, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		record.Key,
		record.RequestPath,
		record.RequestMethod,
		record.UserID,
	).Scan(&record.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return service.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert idempotency record %q: %w", record.Key, err)
	}

	return nil
}

// GetByKey retrieves the record for a key, or nil when absent
func (r *IdempotencyRepository) GetByKey(ctx context.Context, key string) (*models.IdempotencyRecord, error) {
	query := `
		SELECT key, request_path, request_method, user_id, response_status, response_body, created_at
		FROM idempotency_keys
		WHERE key = $1
	`

	var record models.IdempotencyRecord
	err := r.q.QueryRow(ctx, query, key).Scan(
		&record.Key,
		&record.RequestPath,
		&record.RequestMethod,
		&record.UserID,
		&record.ResponseStatus,
		&record.ResponseBody,
		&record.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idempotency record %q: %w", key, err)
	}

	return &record, nil
}

// StoreResponse sets the response on a reservation exactly once
func (r *IdempotencyRepository) StoreResponse(ctx context.Context, key string, status int, body json.RawMessage) error {
	query := `
		UPDATE idempotency_keys
		SET response_status = $2, response_body = $3
		WHERE key = $1 AND response_body IS NULL
	`

	tag, err := r.q.Exec(ctx, query, key, status, body)
	if err != nil {
		return fmt.Errorf("failed to store response for idempotency record %q: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("idempotency record %q missing or already resolved", key)
	}

	return nil
}

// Delete removes a reservation so the key can be retried
func (r *IdempotencyRepository) Delete(ctx context.Context, key string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM idempotency_keys WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete idempotency record %q: %w", key, err)
	}

	return nil
}
