package service

import (
	"context"
	"fmt"

	"bookie/events"
	"bookie/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type betService struct {
	coordinator Coordinator
	uowFactory  UnitOfWorkFactory
}

// NewBetService creates a new bet service
func NewBetService(coordinator Coordinator, uowFactory UnitOfWorkFactory) BetService {
	return &betService{
		coordinator: coordinator,
		uowFactory:  uowFactory,
	}
}

// PlaceBet stakes funds against the wager pool and creates the bet with one
// leg per outcome. Preconditions are validated inside the transaction, so a
// concurrent balance change or outcome removal aborts the whole command.
func (s *betService) PlaceBet(ctx context.Context, identity models.Identity, key string, stake int64, outcomeIDs []uuid.UUID) (*models.Bet, error) {
	if stake <= 0 {
		return nil, models.NewDomainErrorf(models.KindInvalidAmount, "stake must be positive, got %d", stake)
	}
	if len(outcomeIDs) == 0 {
		return nil, models.NewDomainError(models.KindValidation, "bet requires at least one outcome")
	}

	route := models.Route{Path: "/bets", Method: "POST"}

	return Run(ctx, s.coordinator, key, identity, route, func(ctx context.Context, uow UnitOfWork) (*models.Bet, error) {
		account, err := uow.AccountRepository().GetUserAccount(ctx, identity.UserID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, models.NewDomainErrorf(models.KindNotFound, "user account not found for user %s", identity.UserID)
		}
		if account.Balance < stake {
			return nil, models.NewInsufficientBalanceError(account.Balance, stake)
		}

		outcomes, err := uow.OutcomeRepository().GetByIDs(ctx, outcomeIDs)
		if err != nil {
			return nil, err
		}
		byID := make(map[uuid.UUID]models.Outcome, len(outcomes))
		for _, o := range outcomes {
			byID[o.ID] = o
		}
		for _, id := range outcomeIDs {
			if _, ok := byID[id]; !ok {
				return nil, models.NewDomainErrorf(models.KindOutcomeNotFound, "outcome %s not found", id)
			}
		}

		wagerPool, err := uow.AccountRepository().GetSystemAccount(ctx, models.AccountCategoryWager)
		if err != nil {
			return nil, err
		}
		if wagerPool == nil {
			return nil, fmt.Errorf("wager account does not exist")
		}

		// The ledger re-validates funds under the account row lock, closing
		// the race left open by the balance pre-check above.
		journal, err := uow.LedgerRepository().PostJournal(ctx, []models.LedgerEntry{
			{AccountID: account.ID, Amount: -stake},
			{AccountID: wagerPool.ID, Amount: stake},
		})
		if err != nil {
			return nil, err
		}

		bet := &models.Bet{
			UserID:         identity.UserID,
			Stake:          stake,
			StakeJournalID: journal.ID,
			Status:         models.BetStatusPending,
		}
		if err := uow.BetRepository().Create(ctx, bet); err != nil {
			return nil, err
		}

		snapshots := make([]events.OutcomeSnapshot, 0, len(outcomeIDs))
		for _, id := range outcomeIDs {
			outcome := byID[id]
			leg := &models.BetLeg{
				BetID:     bet.ID,
				OutcomeID: outcome.ID,
				Odds:      outcome.Odds,
				Result:    models.BetLegResultPending,
			}
			if err := uow.BetRepository().CreateLeg(ctx, leg); err != nil {
				return nil, err
			}
			bet.Legs = append(bet.Legs, *leg)
			snapshots = append(snapshots, events.OutcomeSnapshot{
				OutcomeID: outcome.ID,
				Name:      outcome.Name,
				Odds:      outcome.Odds,
			})
		}

		_, err = uow.OutboxRepository().Append(ctx, events.BetPlacedEvent{
			BetID:    bet.ID,
			UserID:   bet.UserID,
			Stake:    bet.Stake,
			Outcomes: snapshots,
		})
		if err != nil {
			return nil, err
		}

		log.WithFields(log.Fields{
			"betId":     bet.ID,
			"userId":    bet.UserID,
			"stake":     bet.Stake,
			"legCount":  len(bet.Legs),
			"journalId": journal.ID,
		}).Info("Bet placed")

		return bet, nil
	})
}

// GetBet retrieves a bet with its legs
func (s *betService) GetBet(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // Read-only, never committed

	bet, err := uow.BetRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bet == nil {
		return nil, models.NewDomainErrorf(models.KindNotFound, "bet %s not found", id)
	}

	return bet, nil
}
