package repository

import (
	"context"
	"sync"
	"testing"

	"bookie/models"
	"bookie/repository/testutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepository_PostJournal(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	accountRepo := NewAccountRepository(testDB.DB)

	external := testutil.CreateTestSystemAccount(models.AccountCategoryExternal)
	require.NoError(t, accountRepo.Create(ctx, external))

	userID := uuid.New()
	userAccount := testutil.CreateTestUserAccount(userID)
	require.NoError(t, accountRepo.Create(ctx, userAccount))

	t.Run("rejects journals with fewer than two entries", func(t *testing.T) {
		err := testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
			repo := newLedgerRepositoryWithTx(tx)
			_, err := repo.PostJournal(ctx, []models.LedgerEntry{
				{AccountID: userAccount.ID, Amount: 100},
			})
			return err
		})
		require.Error(t, err)
		assert.True(t, models.IsKind(err, models.KindImbalancedJournal))
	})

	t.Run("rejects imbalanced journals", func(t *testing.T) {
		err := testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
			repo := newLedgerRepositoryWithTx(tx)
			_, err := repo.PostJournal(ctx, []models.LedgerEntry{
				{AccountID: external.ID, Amount: -100},
				{AccountID: userAccount.ID, Amount: 150},
			})
			return err
		})
		require.Error(t, err)
		assert.True(t, models.IsKind(err, models.KindImbalancedJournal))

		// Nothing was posted
		var journals int
		require.NoError(t, testDB.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM journals`).Scan(&journals))
		assert.Equal(t, 0, journals)
	})

	t.Run("posts a balanced journal and applies balances", func(t *testing.T) {
		var journal *models.Journal
		err := testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
			repo := newLedgerRepositoryWithTx(tx)
			var err error
			journal, err = repo.PostJournal(ctx, []models.LedgerEntry{
				{AccountID: external.ID, Amount: -10000},
				{AccountID: userAccount.ID, Amount: 10000},
			})
			return err
		})
		require.NoError(t, err)
		require.NotNil(t, journal)

		userBalance, err := accountRepo.GetBalance(ctx, userAccount.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), userBalance)

		externalBalance, err := accountRepo.GetBalance(ctx, external.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(-10000), externalBalance)

		ledgerRepo := NewLedgerRepository(testDB.DB)
		entries, err := ledgerRepo.GetJournalEntries(ctx, journal.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(0), models.EntrySum(entries))
	})

	t.Run("balance always equals the sum of entries", func(t *testing.T) {
		for _, accountID := range []uuid.UUID{userAccount.ID, external.ID} {
			balance, err := accountRepo.GetBalance(ctx, accountID)
			require.NoError(t, err)

			var entrySum int64
			err = testDB.DB.Pool.QueryRow(ctx,
				`SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE account_id = $1`,
				accountID,
			).Scan(&entrySum)
			require.NoError(t, err)

			assert.Equal(t, entrySum, balance)
		}
	})

	t.Run("insufficient funds aborts with no partial postings", func(t *testing.T) {
		var journalsBefore, entriesBefore int
		require.NoError(t, testDB.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM journals`).Scan(&journalsBefore))
		require.NoError(t, testDB.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_entries`).Scan(&entriesBefore))

		balanceBefore, err := accountRepo.GetBalance(ctx, userAccount.ID)
		require.NoError(t, err)

		err = testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
			repo := newLedgerRepositoryWithTx(tx)
			_, err := repo.PostJournal(ctx, []models.LedgerEntry{
				{AccountID: userAccount.ID, Amount: -(balanceBefore + 1)},
				{AccountID: external.ID, Amount: balanceBefore + 1},
			})
			return err
		})
		require.Error(t, err)
		assert.True(t, models.IsKind(err, models.KindInsufficientBalance))

		var journalsAfter, entriesAfter int
		require.NoError(t, testDB.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM journals`).Scan(&journalsAfter))
		require.NoError(t, testDB.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_entries`).Scan(&entriesAfter))
		assert.Equal(t, journalsBefore, journalsAfter)
		assert.Equal(t, entriesBefore, entriesAfter)

		balanceAfter, err := accountRepo.GetBalance(ctx, userAccount.ID)
		require.NoError(t, err)
		assert.Equal(t, balanceBefore, balanceAfter)
	})

	t.Run("unknown account fails the posting", func(t *testing.T) {
		err := testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
			repo := newLedgerRepositoryWithTx(tx)
			_, err := repo.PostJournal(ctx, []models.LedgerEntry{
				{AccountID: uuid.New(), Amount: -100},
				{AccountID: userAccount.ID, Amount: 100},
			})
			return err
		})
		require.Error(t, err)
	})
}

func TestLedgerRepository_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	accountRepo := NewAccountRepository(testDB.DB)

	wagerPool := testutil.CreateTestSystemAccount(models.AccountCategoryWager)
	require.NoError(t, accountRepo.Create(ctx, wagerPool))
	external := testutil.CreateTestSystemAccount(models.AccountCategoryExternal)
	require.NoError(t, accountRepo.Create(ctx, external))

	userAccount := testutil.CreateTestUserAccount(uuid.New())
	require.NoError(t, accountRepo.Create(ctx, userAccount))

	// Fund the user with 1000
	err := testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
		repo := newLedgerRepositoryWithTx(tx)
		_, err := repo.PostJournal(ctx, []models.LedgerEntry{
			{AccountID: external.ID, Amount: -1000},
			{AccountID: userAccount.ID, Amount: 1000},
		})
		return err
	})
	require.NoError(t, err)

	const workers = 5
	const stake = 400

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
				repo := newLedgerRepositoryWithTx(tx)
				_, err := repo.PostJournal(ctx, []models.LedgerEntry{
					{AccountID: userAccount.ID, Amount: -stake},
					{AccountID: wagerPool.ID, Amount: stake},
				})
				return err
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.True(t, models.IsKind(err, models.KindInsufficientBalance), "unexpected error: %v", err)
	}

	// Only as many stakes as the balance covers
	assert.Equal(t, 2, successes)

	balance, err := accountRepo.GetBalance(ctx, userAccount.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000-successes*stake), balance)
	assert.GreaterOrEqual(t, balance, int64(0))
}
