package testutil

import (
	"bookie/models"

	"github.com/google/uuid"
)

// CreateTestUserAccount builds a USER account owned by the given user
func CreateTestUserAccount(userID uuid.UUID) *models.Account {
	return &models.Account{
		UserID:   &userID,
		Category: models.AccountCategoryUser,
	}
}

// CreateTestSystemAccount builds a system singleton account
func CreateTestSystemAccount(category models.AccountCategory) *models.Account {
	return &models.Account{
		Category: category,
	}
}

// CreateTestOutcome builds an outcome with the given odds
func CreateTestOutcome(name string, odds float64) *models.Outcome {
	return &models.Outcome{
		Name: name,
		Odds: odds,
	}
}

// CreateTestDepositIntent builds a PENDING deposit intent
func CreateTestDepositIntent(userID uuid.UUID, amount int64) *models.DepositIntent {
	return &models.DepositIntent{
		UserID: userID,
		Amount: amount,
		Status: models.DepositStatusPending,
	}
}

// CreateTestIdempotencyRecord builds a reservation for the given key
func CreateTestIdempotencyRecord(key string, userID uuid.UUID) *models.IdempotencyRecord {
	uid := userID
	return &models.IdempotencyRecord{
		Key:           key,
		RequestPath:   "/bets",
		RequestMethod: "POST",
		UserID:        &uid,
	}
}
