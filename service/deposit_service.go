package service

import (
	"context"
	"fmt"

	"bookie/events"
	"bookie/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type depositService struct {
	coordinator Coordinator
}

// NewDepositService creates a new deposit service
func NewDepositService(coordinator Coordinator) DepositService {
	return &depositService{
		coordinator: coordinator,
	}
}

// CreateDeposit records a PENDING deposit intent. No ledger postings happen
// until an operator confirms the deposit.
func (s *depositService) CreateDeposit(ctx context.Context, identity models.Identity, key string, amount int64) (*models.DepositIntent, error) {
	if amount <= 0 {
		return nil, models.NewDomainErrorf(models.KindInvalidAmount, "deposit amount must be positive, got %d", amount)
	}

	route := models.Route{Path: "/deposits", Method: "POST"}

	return Run(ctx, s.coordinator, key, identity, route, func(ctx context.Context, uow UnitOfWork) (*models.DepositIntent, error) {
		intent := &models.DepositIntent{
			UserID: identity.UserID,
			Amount: amount,
			Status: models.DepositStatusPending,
		}
		if err := uow.DepositRepository().Create(ctx, intent); err != nil {
			return nil, err
		}
		return intent, nil
	})
}

// ConfirmDeposit settles a pending deposit. The journal, the status
// transition and the outbox event commit as one unit or not at all.
func (s *depositService) ConfirmDeposit(ctx context.Context, identity models.Identity, key string, depositID uuid.UUID) (*models.DepositIntent, error) {
	if !identity.Permissions.Has(models.PermissionConfirmDeposit) {
		return nil, models.NewDomainError(models.KindPermissionDenied, "caller may not confirm deposits")
	}

	route := models.Route{Path: fmt.Sprintf("/deposits/%s/confirm", depositID), Method: "POST"}

	return Run(ctx, s.coordinator, key, identity, route, func(ctx context.Context, uow UnitOfWork) (*models.DepositIntent, error) {
		intent, err := uow.DepositRepository().GetByID(ctx, depositID)
		if err != nil {
			return nil, err
		}
		if intent == nil {
			return nil, models.NewDomainErrorf(models.KindNotFound, "deposit %s not found", depositID)
		}
		// Domain-level idempotent guard, independent of the coordinator.
		if intent.Status == models.DepositStatusCompleted {
			return nil, models.NewDomainErrorf(models.KindAlreadyCompleted, "deposit %s already completed", depositID)
		}

		external, err := uow.AccountRepository().GetSystemAccount(ctx, models.AccountCategoryExternal)
		if err != nil {
			return nil, err
		}
		if external == nil {
			return nil, fmt.Errorf("external account does not exist")
		}

		userAccount, err := uow.AccountRepository().GetUserAccount(ctx, intent.UserID)
		if err != nil {
			return nil, err
		}
		if userAccount == nil {
			// First confirmed deposit opens the user's account.
			userID := intent.UserID
			userAccount = &models.Account{
				UserID:   &userID,
				Category: models.AccountCategoryUser,
			}
			if err := uow.AccountRepository().Create(ctx, userAccount); err != nil {
				return nil, err
			}
		}

		// One debit to the external world, one matching credit to the user.
		journal, err := uow.LedgerRepository().PostJournal(ctx, []models.LedgerEntry{
			{AccountID: external.ID, Amount: -intent.Amount},
			{AccountID: userAccount.ID, Amount: intent.Amount},
		})
		if err != nil {
			return nil, err
		}

		completed, err := uow.DepositRepository().MarkCompleted(ctx, intent.ID, journal.ID)
		if err != nil {
			return nil, err
		}

		_, err = uow.OutboxRepository().Append(ctx, events.DepositCompletedEvent{
			DepositID: completed.ID,
			UserID:    completed.UserID,
			Amount:    completed.Amount,
		})
		if err != nil {
			return nil, err
		}

		log.WithFields(log.Fields{
			"depositId": completed.ID,
			"userId":    completed.UserID,
			"amount":    completed.Amount,
			"journalId": journal.ID,
		}).Info("Deposit confirmed")

		return completed, nil
	})
}
