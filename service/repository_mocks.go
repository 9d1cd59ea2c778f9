package service

import (
	"context"
	"encoding/json"

	"bookie/events"
	"bookie/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetUserAccount(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetSystemAccount(ctx context.Context, category models.AccountCategory) (*models.Account, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetBalance(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) PostJournal(ctx context.Context, entries []models.LedgerEntry) (*models.Journal, error) {
	args := m.Called(ctx, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Journal), args.Error(1)
}

func (m *MockLedgerRepository) GetJournalEntries(ctx context.Context, journalID uuid.UUID) ([]models.LedgerEntry, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LedgerEntry), args.Error(1)
}

// MockDepositRepository is a mock implementation of DepositRepository
type MockDepositRepository struct {
	mock.Mock
}

func (m *MockDepositRepository) Create(ctx context.Context, intent *models.DepositIntent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

func (m *MockDepositRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DepositIntent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DepositIntent), args.Error(1)
}

func (m *MockDepositRepository) MarkCompleted(ctx context.Context, id uuid.UUID, journalID uuid.UUID) (*models.DepositIntent, error) {
	args := m.Called(ctx, id, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DepositIntent), args.Error(1)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) CreateLeg(ctx context.Context, leg *models.BetLeg) error {
	args := m.Called(ctx, leg)
	return args.Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

// MockOutcomeRepository is a mock implementation of OutcomeRepository
type MockOutcomeRepository struct {
	mock.Mock
}

func (m *MockOutcomeRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Outcome, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Outcome), args.Error(1)
}

func (m *MockOutcomeRepository) Create(ctx context.Context, outcome *models.Outcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}

// MockOutboxRepository is a mock implementation of OutboxRepository
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Append(ctx context.Context, event events.Event) (*models.OutboxEvent, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OutboxEvent), args.Error(1)
}

func (m *MockOutboxRepository) ListUnpublished(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OutboxEvent), args.Error(1)
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockIdempotencyRepository is a mock implementation of IdempotencyRepository
type MockIdempotencyRepository struct {
	mock.Mock
}

func (m *MockIdempotencyRepository) Insert(ctx context.Context, record *models.IdempotencyRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockIdempotencyRepository) GetByKey(ctx context.Context, key string) (*models.IdempotencyRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.IdempotencyRecord), args.Error(1)
}

func (m *MockIdempotencyRepository) StoreResponse(ctx context.Context, key string, status int, body json.RawMessage) error {
	args := m.Called(ctx, key, status, body)
	return args.Error(0)
}

func (m *MockIdempotencyRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	accountRepo     AccountRepository
	ledgerRepo      LedgerRepository
	depositRepo     DepositRepository
	betRepo         BetRepository
	outcomeRepo     OutcomeRepository
	outboxRepo      OutboxRepository
	idempotencyRepo IdempotencyRepository
}

// SetRepositories configures the repositories returned by this unit of work
func (m *MockUnitOfWork) SetRepositories(
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	depositRepo DepositRepository,
	betRepo BetRepository,
	outcomeRepo OutcomeRepository,
	outboxRepo OutboxRepository,
	idempotencyRepo IdempotencyRepository,
) {
	m.accountRepo = accountRepo
	m.ledgerRepo = ledgerRepo
	m.depositRepo = depositRepo
	m.betRepo = betRepo
	m.outcomeRepo = outcomeRepo
	m.outboxRepo = outboxRepo
	m.idempotencyRepo = idempotencyRepo
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) LedgerRepository() LedgerRepository {
	return m.ledgerRepo
}

func (m *MockUnitOfWork) DepositRepository() DepositRepository {
	return m.depositRepo
}

func (m *MockUnitOfWork) BetRepository() BetRepository {
	return m.betRepo
}

func (m *MockUnitOfWork) OutcomeRepository() OutcomeRepository {
	return m.outcomeRepo
}

func (m *MockUnitOfWork) OutboxRepository() OutboxRepository {
	return m.outboxRepo
}

func (m *MockUnitOfWork) IdempotencyRepository() IdempotencyRepository {
	return m.idempotencyRepo
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
