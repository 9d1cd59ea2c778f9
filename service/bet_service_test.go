package service

import (
	"context"
	"testing"

	"bookie/events"
	"bookie/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type betServiceMocks struct {
	uow      *MockUnitOfWork
	factory  *MockUnitOfWorkFactory
	keys     *MockIdempotencyRepository
	accounts *MockAccountRepository
	ledger   *MockLedgerRepository
	bets     *MockBetRepository
	outcomes *MockOutcomeRepository
	outbox   *MockOutboxRepository
}

func newBetServiceMocks() *betServiceMocks {
	m := &betServiceMocks{
		uow:      new(MockUnitOfWork),
		factory:  new(MockUnitOfWorkFactory),
		keys:     new(MockIdempotencyRepository),
		accounts: new(MockAccountRepository),
		ledger:   new(MockLedgerRepository),
		bets:     new(MockBetRepository),
		outcomes: new(MockOutcomeRepository),
		outbox:   new(MockOutboxRepository),
	}
	m.uow.SetRepositories(m.accounts, m.ledger, nil, m.bets, m.outcomes, m.outbox, nil)
	return m
}

func (m *betServiceMocks) service() BetService {
	return NewBetService(NewCoordinator(m.factory, m.keys), m.factory)
}

func TestBetService_PlaceBet_Validation(t *testing.T) {
	ctx := context.Background()
	identity := models.Identity{UserID: uuid.New()}

	m := newBetServiceMocks()
	svc := m.service()

	_, err := svc.PlaceBet(ctx, identity, "", 0, []uuid.UUID{uuid.New()})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindInvalidAmount))

	_, err = svc.PlaceBet(ctx, identity, "", 1000, nil)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindValidation))

	m.factory.AssertNotCalled(t, "Create")
}

func TestBetService_PlaceBet_MissingUserAccount(t *testing.T) {
	ctx := context.Background()
	identity := models.Identity{UserID: uuid.New()}

	m := newBetServiceMocks()
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	svc := m.service()

	m.accounts.On("GetUserAccount", ctx, identity.UserID).Return(nil, nil)

	_, err := svc.PlaceBet(ctx, identity, "", 1000, []uuid.UUID{uuid.New()})

	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindNotFound))
	m.uow.AssertNotCalled(t, "Commit")
}

func TestBetService_PlaceBet_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	identity := models.Identity{UserID: uuid.New()}

	m := newBetServiceMocks()
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	svc := m.service()

	account := &models.Account{ID: uuid.New(), UserID: &identity.UserID, Category: models.AccountCategoryUser, Balance: 500}
	m.accounts.On("GetUserAccount", ctx, identity.UserID).Return(account, nil)

	_, err := svc.PlaceBet(ctx, identity, "", 1000, []uuid.UUID{uuid.New()})

	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindInsufficientBalance))
	m.ledger.AssertNotCalled(t, "PostJournal", mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
}

func TestBetService_PlaceBet_UnknownOutcomeAbortsWholeCommand(t *testing.T) {
	ctx := context.Background()
	identity := models.Identity{UserID: uuid.New()}

	m := newBetServiceMocks()
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	svc := m.service()

	account := &models.Account{ID: uuid.New(), UserID: &identity.UserID, Category: models.AccountCategoryUser, Balance: 10000}
	known := models.Outcome{ID: uuid.New(), Name: "Home win", Odds: 1.8}
	unknown := uuid.New()

	m.accounts.On("GetUserAccount", ctx, identity.UserID).Return(account, nil)
	m.outcomes.On("GetByIDs", ctx, []uuid.UUID{known.ID, unknown}).Return([]models.Outcome{known}, nil)

	_, err := svc.PlaceBet(ctx, identity, "", 1000, []uuid.UUID{known.ID, unknown})

	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindOutcomeNotFound))

	// Nothing was created for the partially resolved bet
	m.ledger.AssertNotCalled(t, "PostJournal", mock.Anything, mock.Anything)
	m.bets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.bets.AssertNotCalled(t, "CreateLeg", mock.Anything, mock.Anything)
	m.outbox.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
}

func TestBetService_PlaceBet_Success(t *testing.T) {
	ctx := context.Background()
	identity := models.Identity{UserID: uuid.New()}

	m := newBetServiceMocks()
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	svc := m.service()

	account := &models.Account{ID: uuid.New(), UserID: &identity.UserID, Category: models.AccountCategoryUser, Balance: 10000}
	wagerPool := &models.Account{ID: uuid.New(), Category: models.AccountCategoryWager}
	outcome1 := models.Outcome{ID: uuid.New(), Name: "Home win", Odds: 1.8}
	outcome2 := models.Outcome{ID: uuid.New(), Name: "Over 2.5", Odds: 2.1}
	outcomeIDs := []uuid.UUID{outcome1.ID, outcome2.ID}
	journal := &models.Journal{ID: uuid.New()}
	betID := uuid.New()

	m.accounts.On("GetUserAccount", ctx, identity.UserID).Return(account, nil)
	m.accounts.On("GetSystemAccount", ctx, models.AccountCategoryWager).Return(wagerPool, nil)
	m.outcomes.On("GetByIDs", ctx, outcomeIDs).Return([]models.Outcome{outcome1, outcome2}, nil)

	m.ledger.On("PostJournal", ctx, mock.MatchedBy(func(entries []models.LedgerEntry) bool {
		return len(entries) == 2 &&
			entries[0].AccountID == account.ID && entries[0].Amount == -1000 &&
			entries[1].AccountID == wagerPool.ID && entries[1].Amount == 1000
	})).Return(journal, nil)

	m.bets.On("Create", ctx, mock.MatchedBy(func(b *models.Bet) bool {
		return b.UserID == identity.UserID &&
			b.Stake == 1000 &&
			b.StakeJournalID == journal.ID &&
			b.Status == models.BetStatusPending
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Bet).ID = betID
	})

	m.bets.On("CreateLeg", ctx, mock.MatchedBy(func(l *models.BetLeg) bool {
		return l.BetID == betID && l.OutcomeID == outcome1.ID && l.Odds == 1.8 && l.Result == models.BetLegResultPending
	})).Return(nil)
	m.bets.On("CreateLeg", ctx, mock.MatchedBy(func(l *models.BetLeg) bool {
		return l.BetID == betID && l.OutcomeID == outcome2.ID && l.Odds == 2.1 && l.Result == models.BetLegResultPending
	})).Return(nil)

	m.outbox.On("Append", ctx, mock.MatchedBy(func(e events.Event) bool {
		ev, ok := e.(events.BetPlacedEvent)
		return ok && ev.BetID == betID && ev.UserID == identity.UserID && ev.Stake == 1000 &&
			len(ev.Outcomes) == 2 &&
			ev.Outcomes[0].Name == "Home win" && ev.Outcomes[0].Odds == 1.8 &&
			ev.Outcomes[1].Name == "Over 2.5" && ev.Outcomes[1].Odds == 2.1
	})).Return(&models.OutboxEvent{ID: uuid.New()}, nil)

	bet, err := svc.PlaceBet(ctx, identity, "", 1000, outcomeIDs)

	require.NoError(t, err)
	require.NotNil(t, bet)
	assert.Equal(t, betID, bet.ID)
	assert.Equal(t, models.BetStatusPending, bet.Status)
	require.Len(t, bet.Legs, 2)
	assert.Equal(t, 1.8, bet.Legs[0].Odds)
	assert.Equal(t, 2.1, bet.Legs[1].Odds)

	m.accounts.AssertExpectations(t)
	m.outcomes.AssertExpectations(t)
	m.ledger.AssertExpectations(t)
	m.bets.AssertExpectations(t)
	m.outbox.AssertExpectations(t)
	m.uow.AssertExpectations(t)
}

func TestBetService_GetBet(t *testing.T) {
	ctx := context.Background()

	m := newBetServiceMocks()
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	svc := m.service()

	t.Run("found", func(t *testing.T) {
		betID := uuid.New()
		m.bets.On("GetByID", ctx, betID).Return(&models.Bet{ID: betID, Stake: 1000}, nil).Once()

		bet, err := svc.GetBet(ctx, betID)
		require.NoError(t, err)
		assert.Equal(t, betID, bet.ID)
	})

	t.Run("missing", func(t *testing.T) {
		betID := uuid.New()
		m.bets.On("GetByID", ctx, betID).Return(nil, nil).Once()

		_, err := svc.GetBet(ctx, betID)
		require.Error(t, err)
		assert.True(t, models.IsKind(err, models.KindNotFound))
	})
}
