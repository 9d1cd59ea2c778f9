package repository

import (
	"context"
	"fmt"

	"bookie/database"
	"bookie/events"
	"bookie/metrics"
	"bookie/models"

	"github.com/google/uuid"
)

// OutboxRepository implements the OutboxRepository interface. Appends run on
// the unit of work's transaction, so an event exists if and only if the
// mutation it describes committed. The bigserial seq gives the external
// dispatcher insertion order; nothing here ever publishes.
type OutboxRepository struct {
	q queryable
}

// NewOutboxRepository creates a new outbox repository
func NewOutboxRepository(db *database.DB) *OutboxRepository {
	return &OutboxRepository{q: db.Pool}
}

// newOutboxRepositoryWithTx creates a new outbox repository with a transaction
func newOutboxRepositoryWithTx(tx queryable) *OutboxRepository {
	return &OutboxRepository{q: tx}
}

// Append records a domain event in the current transaction
func (r *OutboxRepository) Append(ctx context.Context, event events.Event) (*models.OutboxEvent, error) {
	payload, err := events.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event payload: %w", event.Type(), err)
	}

	row := &models.OutboxEvent{
		ID:        uuid.New(),
		EventType: string(event.Type()),
		Payload:   payload,
	}

	query := `
		INSERT INTO outbox_events (id, event_type, payload)
		VALUES ($1, $2, $3)
		RETURNING seq, created_at
	`

	err = r.q.QueryRow(ctx, query, row.ID, row.EventType, row.Payload).Scan(&row.Seq, &row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append %s outbox event: %w", row.EventType, err)
	}

	metrics.OutboxAppendsTotal.WithLabelValues(row.EventType).Inc()

	return row, nil
}

// ListUnpublished returns unpublished events in insertion order
func (r *OutboxRepository) ListUnpublished(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	query := `
		SELECT id, seq, event_type, payload, created_at, published_at
		FROM outbox_events
		WHERE published_at IS NULL
		ORDER BY seq
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpublished outbox events: %w", err)
	}
	defer rows.Close()

	var outboxEvents []models.OutboxEvent
	for rows.Next() {
		var ev models.OutboxEvent
		err := rows.Scan(
			&ev.ID,
			&ev.Seq,
			&ev.EventType,
			&ev.Payload,
			&ev.CreatedAt,
			&ev.PublishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		outboxEvents = append(outboxEvents, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outbox events: %w", err)
	}

	return outboxEvents, nil
}

// MarkPublished stamps an event as delivered
func (r *OutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE outbox_events SET published_at = NOW() WHERE id = $1 AND published_at IS NULL`

	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event %s published: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("outbox event %s not found or already published", id)
	}

	return nil
}
