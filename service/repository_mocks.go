package service

import (
	"context"
	"time"

	"trenchwars/events"
	"trenchwars/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	args := m.Called(ctx, walletAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetOrCreate(ctx context.Context, walletAddress string) (*models.User, error) {
	args := m.Called(ctx, walletAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetStats(ctx context.Context, walletAddress string) (*models.UserStats, error) {
	args := m.Called(ctx, walletAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

// MockTokenRepository is a mock implementation of TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Create(ctx context.Context, token *models.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) GetByID(ctx context.Context, id int64) (*models.Token, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Token), args.Error(1)
}

func (m *MockTokenRepository) GetBySymbol(ctx context.Context, symbol string) (*models.Token, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Token), args.Error(1)
}

func (m *MockTokenRepository) GetAll(ctx context.Context) ([]*models.Token, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Token), args.Error(1)
}

func (m *MockTokenRepository) UpdatePrice(ctx context.Context, id int64, price, change24h float64) error {
	args := m.Called(ctx, id, price, change24h)
	return args.Error(0)
}

// MockPriceHistoryRepository is a mock implementation of PriceHistoryRepository
type MockPriceHistoryRepository struct {
	mock.Mock
}

func (m *MockPriceHistoryRepository) Record(ctx context.Context, point *models.PricePoint) error {
	args := m.Called(ctx, point)
	return args.Error(0)
}

func (m *MockPriceHistoryRepository) GetHistory(ctx context.Context, tokenID int64, limit int) ([]*models.PricePoint, error) {
	args := m.Called(ctx, tokenID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PricePoint), args.Error(1)
}

// MockWarRepository is a mock implementation of WarRepository
type MockWarRepository struct {
	mock.Mock
}

func (m *MockWarRepository) Create(ctx context.Context, war *models.War) error {
	args := m.Called(ctx, war)
	return args.Error(0)
}

func (m *MockWarRepository) GetByID(ctx context.Context, id int64) (*models.War, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.War), args.Error(1)
}

func (m *MockWarRepository) GetDetailByID(ctx context.Context, id int64) (*models.WarDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WarDetail), args.Error(1)
}

func (m *MockWarRepository) GetAll(ctx context.Context) ([]*models.War, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.War), args.Error(1)
}

func (m *MockWarRepository) GetActive(ctx context.Context, now time.Time) ([]*models.War, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.War), args.Error(1)
}

func (m *MockWarRepository) GetEndedUnsettled(ctx context.Context, now time.Time) ([]*models.War, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.War), args.Error(1)
}

func (m *MockWarRepository) IncrementPoolTotal(ctx context.Context, warID int64, side models.BetSide, amount int64) error {
	args := m.Called(ctx, warID, side, amount)
	return args.Error(0)
}

func (m *MockWarRepository) MarkSettled(ctx context.Context, warID int64, winner models.Winner, tokenAEndPrice, tokenBEndPrice float64, settledAt time.Time) error {
	args := m.Called(ctx, warID, winner, tokenAEndPrice, tokenBEndPrice, settledAt)
	return args.Error(0)
}

func (m *MockWarRepository) GetStats(ctx context.Context, warID int64) (*models.WarStats, error) {
	args := m.Called(ctx, warID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WarStats), args.Error(1)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, id int64) (*models.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetByTransactionSignature(ctx context.Context, signature string) (*models.Bet, error) {
	args := m.Called(ctx, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetByWar(ctx context.Context, warID int64, limit int) ([]*models.Bet, error) {
	args := m.Called(ctx, warID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetByUser(ctx context.Context, walletAddress string) ([]*models.BetWithWar, error) {
	args := m.Called(ctx, walletAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BetWithWar), args.Error(1)
}

func (m *MockBetRepository) MarkClaimed(ctx context.Context, betID int64, payoutAmount int64) error {
	args := m.Called(ctx, betID, payoutAmount)
	return args.Error(0)
}

// MockSettlementRepository is a mock implementation of SettlementRepository
type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) Create(ctx context.Context, settlement *models.Settlement) error {
	args := m.Called(ctx, settlement)
	return args.Error(0)
}

func (m *MockSettlementRepository) GetByWarID(ctx context.Context, warID int64) (*models.Settlement, error) {
	args := m.Called(ctx, warID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settlement), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	Events []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Events = append(m.Events, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return whatever was wired via SetRepositories rather than going through
// testify expectations.
type MockUnitOfWork struct {
	mock.Mock

	userRepo         UserRepository
	tokenRepo        TokenRepository
	priceHistoryRepo PriceHistoryRepository
	warRepo          WarRepository
	betRepo          BetRepository
	settlementRepo   SettlementRepository
	eventBus         *MockEventPublisher
}

// SetRepositories wires the repositories returned by the getter methods.
// Pass nil for repositories the test does not touch.
func (m *MockUnitOfWork) SetRepositories(
	userRepo UserRepository,
	tokenRepo TokenRepository,
	priceHistoryRepo PriceHistoryRepository,
	warRepo WarRepository,
	betRepo BetRepository,
	settlementRepo SettlementRepository,
) {
	m.userRepo = userRepo
	m.tokenRepo = tokenRepo
	m.priceHistoryRepo = priceHistoryRepo
	m.warRepo = warRepo
	m.betRepo = betRepo
	m.settlementRepo = settlementRepo
	m.eventBus = &MockEventPublisher{}
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

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) TokenRepository() TokenRepository {
	return m.tokenRepo
}

func (m *MockUnitOfWork) PriceHistoryRepository() PriceHistoryRepository {
	return m.priceHistoryRepo
}

func (m *MockUnitOfWork) WarRepository() WarRepository {
	return m.warRepo
}

func (m *MockUnitOfWork) BetRepository() BetRepository {
	return m.betRepo
}

func (m *MockUnitOfWork) SettlementRepository() SettlementRepository {
	return m.settlementRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// PublishedEvents returns the events published through this unit of work
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	if m.eventBus == nil {
		return nil
	}
	return m.eventBus.Events
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
