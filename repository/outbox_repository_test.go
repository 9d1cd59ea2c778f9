package repository

import (
	"context"
	"testing"

	"bookie/events"
	"bookie/repository/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewOutboxRepository(testDB.DB)
	userID := uuid.New()

	deposit := events.DepositCompletedEvent{
		DepositID: uuid.New(),
		UserID:    userID,
		Amount:    10000,
	}
	bet := events.BetPlacedEvent{
		BetID:  uuid.New(),
		UserID: userID,
		Stake:  1000,
		Outcomes: []events.OutcomeSnapshot{
			{OutcomeID: uuid.New(), Name: "Team A wins", Odds: 1.8},
		},
	}

	first, err := repo.Append(ctx, deposit)
	require.NoError(t, err)
	second, err := repo.Append(ctx, bet)
	require.NoError(t, err)

	t.Run("append assigns monotonic sequence numbers", func(t *testing.T) {
		assert.Equal(t, string(events.EventTypeDepositCompleted), first.EventType)
		assert.Equal(t, string(events.EventTypeBetPlaced), second.EventType)
		assert.Greater(t, second.Seq, first.Seq)
		assert.Nil(t, first.PublishedAt)
		assert.False(t, first.CreatedAt.IsZero())
	})

	t.Run("lists unpublished events in sequence order", func(t *testing.T) {
		pending, err := repo.ListUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, first.ID, pending[0].ID)
		assert.Equal(t, second.ID, pending[1].ID)

		limited, err := repo.ListUnpublished(ctx, 1)
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, first.ID, limited[0].ID)
	})

	t.Run("payload round trips through the outbox", func(t *testing.T) {
		pending, err := repo.ListUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, pending, 2)

		expected, err := events.Marshal(deposit)
		require.NoError(t, err)
		assert.JSONEq(t, string(expected), string(pending[0].Payload))
	})

	t.Run("marking published removes the event from the backlog", func(t *testing.T) {
		require.NoError(t, repo.MarkPublished(ctx, first.ID))

		pending, err := repo.ListUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, second.ID, pending[0].ID)
	})

	t.Run("marking an already published event fails", func(t *testing.T) {
		err := repo.MarkPublished(ctx, first.ID)
		require.Error(t, err)
	})

	t.Run("marking an unknown event fails", func(t *testing.T) {
		err := repo.MarkPublished(ctx, uuid.New())
		require.Error(t, err)
	})
}
