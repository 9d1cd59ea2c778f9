package repository

import (
	"context"
	"encoding/json"
	"testing"

	"bookie/repository/testutil"
	"bookie/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewIdempotencyRepository(testDB.DB)
	userID := uuid.New()

	t.Run("inserts a fresh reservation", func(t *testing.T) {
		record := testutil.CreateTestIdempotencyRecord("key-fresh", userID)
		require.NoError(t, repo.Insert(ctx, record))

		stored, err := repo.GetByKey(ctx, "key-fresh")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "key-fresh", stored.Key)
		assert.Equal(t, "/bets", stored.RequestPath)
		assert.Equal(t, "POST", stored.RequestMethod)
		require.NotNil(t, stored.UserID)
		assert.Equal(t, userID, *stored.UserID)
		assert.Nil(t, stored.ResponseStatus)
		assert.Nil(t, stored.ResponseBody)
		assert.False(t, stored.CreatedAt.IsZero())
	})

	t.Run("duplicate key reports ErrDuplicateKey", func(t *testing.T) {
		record := testutil.CreateTestIdempotencyRecord("key-dup", userID)
		require.NoError(t, repo.Insert(ctx, record))

		err := repo.Insert(ctx, testutil.CreateTestIdempotencyRecord("key-dup", userID))
		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrDuplicateKey)
	})

	t.Run("stores the response exactly once", func(t *testing.T) {
		record := testutil.CreateTestIdempotencyRecord("key-resp", userID)
		require.NoError(t, repo.Insert(ctx, record))

		body := json.RawMessage(`{"betId":"abc"}`)
		require.NoError(t, repo.StoreResponse(ctx, "key-resp", 200, body))

		stored, err := repo.GetByKey(ctx, "key-resp")
		require.NoError(t, err)
		require.NotNil(t, stored)
		require.NotNil(t, stored.ResponseStatus)
		assert.Equal(t, 200, *stored.ResponseStatus)
		assert.JSONEq(t, `{"betId":"abc"}`, string(stored.ResponseBody))

		// A second write must not overwrite the stored response
		err = repo.StoreResponse(ctx, "key-resp", 200, json.RawMessage(`{"betId":"other"}`))
		require.Error(t, err)

		stored, err = repo.GetByKey(ctx, "key-resp")
		require.NoError(t, err)
		assert.JSONEq(t, `{"betId":"abc"}`, string(stored.ResponseBody))
	})

	t.Run("delete releases the reservation", func(t *testing.T) {
		record := testutil.CreateTestIdempotencyRecord("key-del", userID)
		require.NoError(t, repo.Insert(ctx, record))
		require.NoError(t, repo.Delete(ctx, "key-del"))

		stored, err := repo.GetByKey(ctx, "key-del")
		require.NoError(t, err)
		assert.Nil(t, stored)

		// The key is reusable after release
		require.NoError(t, repo.Insert(ctx, testutil.CreateTestIdempotencyRecord("key-del", userID)))
	})

	t.Run("unknown key returns nil", func(t *testing.T) {
		stored, err := repo.GetByKey(ctx, "key-missing")
		require.NoError(t, err)
		assert.Nil(t, stored)
	})
}
