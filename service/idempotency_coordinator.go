package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bookie/metrics"
	"bookie/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type coordinator struct {
	uowFactory UnitOfWorkFactory
	keys       IdempotencyRepository
}

// NewCoordinator creates a new idempotency coordinator. The keys repository
// must run outside the domain transaction so reservations are visible to
// concurrent requests the moment they are inserted.
func NewCoordinator(uowFactory UnitOfWorkFactory, keys IdempotencyRepository) Coordinator {
	return &coordinator{
		uowFactory: uowFactory,
		keys:       keys,
	}
}

// Execute runs the handler inside a unit of work, at most once per key.
func (c *coordinator) Execute(ctx context.Context, key string, identity models.Identity, route models.Route, handler Handler) (json.RawMessage, error) {
	// No key is an explicit opt-out of deduplication.
	if key == "" {
		result, err := c.run(ctx, "", handler)
		if err != nil {
			metrics.CommandsTotal.WithLabelValues(route.Path, metrics.ResultError).Inc()
			return nil, models.WrapDomainError(models.KindHandler, "command failed", err)
		}
		metrics.CommandsTotal.WithLabelValues(route.Path, metrics.ResultOK).Inc()
		return result, nil
	}

	record := &models.IdempotencyRecord{
		Key:           key,
		RequestPath:   route.Path,
		RequestMethod: route.Method,
	}
	if identity.UserID != uuid.Nil {
		userID := identity.UserID
		record.UserID = &userID
	}

	if err := c.keys.Insert(ctx, record); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return c.resolveDuplicate(ctx, key, route)
		}
		metrics.CommandsTotal.WithLabelValues(route.Path, metrics.ResultError).Inc()
		return nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}

	result, err := c.run(ctx, key, handler)
	if err != nil {
		// Release the reservation so a retry with the same key runs fresh.
		if delErr := c.keys.Delete(ctx, key); delErr != nil {
			log.WithFields(log.Fields{
				"key":   key,
				"error": delErr,
			}).Warn("Failed to release idempotency reservation after command failure")
		}
		metrics.CommandsTotal.WithLabelValues(route.Path, metrics.ResultError).Inc()
		return nil, models.WrapDomainError(models.KindHandler, "command failed", err)
	}

	metrics.CommandsTotal.WithLabelValues(route.Path, metrics.ResultOK).Inc()
	return result, nil
}

// resolveDuplicate decides between replaying a stored response and reporting
// an in-flight conflict. Replay keys solely on the idempotency key; a retry
// with a different body still gets the first response.
func (c *coordinator) resolveDuplicate(ctx context.Context, key string, route models.Route) (json.RawMessage, error) {
	existing, err := c.keys.GetByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing idempotency record: %w", err)
	}

	if existing != nil && existing.ResponseBody != nil {
		log.WithFields(log.Fields{
			"key":  key,
			"path": route.Path,
		}).Info("Replaying stored response for idempotency key")
		metrics.CommandsTotal.WithLabelValues(route.Path, metrics.ResultReplay).Inc()
		return existing.ResponseBody, nil
	}

	metrics.CommandsTotal.WithLabelValues(route.Path, metrics.ResultConflict).Inc()
	return nil, models.NewDomainErrorf(models.KindConflictInProgress,
		"request with idempotency key %q is already in progress", key)
}

// run executes the handler inside one transaction. With a key, the response is
// stored on the reservation in the same transaction, so there is no window
// where the command committed without its stored result.
func (c *coordinator) run(ctx context.Context, key string, handler Handler) (json.RawMessage, error) {
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	result, err := handler(ctx, uow)
	if err != nil {
		return nil, err
	}

	if key != "" {
		if err := uow.IdempotencyRepository().StoreResponse(ctx, key, 200, result); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

// Run executes fn through the coordinator and decodes the fresh or replayed
// response into T, so callers work with typed results while replays stay
// byte-for-byte identical.
func Run[T any](ctx context.Context, c Coordinator, key string, identity models.Identity, route models.Route, fn func(ctx context.Context, uow UnitOfWork) (T, error)) (T, error) {
	var zero T

	body, err := c.Execute(ctx, key, identity, route, func(ctx context.Context, uow UnitOfWork) (json.RawMessage, error) {
		value, err := fn(ctx, uow)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode command result: %w", err)
		}
		return payload, nil
	})
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, fmt.Errorf("failed to decode command result: %w", err)
	}

	return out, nil
}
