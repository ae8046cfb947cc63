package service

import (
	"context"
	"testing"
	"time"

	"trenchwars/config"
	"trenchwars/events"
	"trenchwars/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		FeeRateBps:     300,
		TiePolicy:      config.TiePolicyRefund,
		MinBetAmount:   1_000_000,
		MaxWarDuration: 168,
		Environment:    "test",
	}
}

func endedWar(id int64) *models.War {
	now := time.Now()
	return &models.War{
		ID:               id,
		TokenAID:         1,
		TokenBID:         2,
		StartTime:        now.Add(-25 * time.Hour),
		EndTime:          now.Add(-1 * time.Hour),
		TokenAStartPrice: 100,
		TokenBStartPrice: 100,
		TotalBetsA:       300,
		TotalBetsB:       700,
		MinBetAmount:     1_000_000,
	}
}

func TestSettlementService_SettleWar_TokenAWins(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockWarRepo := new(MockWarRepository)
	mockTokenRepo := new(MockTokenRepository)
	mockSettlementRepo := new(MockSettlementRepository)

	mockUoW.SetRepositories(nil, mockTokenRepo, nil, mockWarRepo, nil, mockSettlementRepo)

	svc := NewSettlementService(mockFactory, testConfig())

	war := endedWar(1)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockWarRepo.On("GetByID", ctx, int64(1)).Return(war, nil)

	// Token A moved +20%, token B -1%
	mockTokenRepo.On("GetByID", ctx, int64(1)).Return(&models.Token{ID: 1, Symbol: "DOGE", Price: 120}, nil)
	mockTokenRepo.On("GetByID", ctx, int64(2)).Return(&models.Token{ID: 2, Symbol: "PEPE", Price: 99}, nil)

	mockWarRepo.On("MarkSettled", ctx, int64(1), models.WinnerTokenA, float64(120), float64(99), mock.AnythingOfType("time.Time")).Return(nil)

	mockSettlementRepo.On("Create", ctx, mock.MatchedBy(func(s *models.Settlement) bool {
		return s.WarID == 1 &&
			s.Winner == models.WinnerTokenA &&
			s.TotalPool == 1000 &&
			s.PlatformFee == 30 &&
			s.DistributablePool == 970
	})).Return(nil)

	settlement, err := svc.SettleWar(ctx, 1)

	require.NoError(t, err)
	require.NotNil(t, settlement)
	assert.Equal(t, models.WinnerTokenA, settlement.Winner)
	assert.InDelta(t, 20.0, settlement.TokenAChange, 1e-9)
	assert.InDelta(t, -1.0, settlement.TokenBChange, 1e-9)
	assert.Equal(t, settlement.TotalPool, settlement.PlatformFee+settlement.DistributablePool)

	published := mockUoW.PublishedEvents()
	require.Len(t, published, 1)
	settled, ok := published[0].(events.WarSettledEvent)
	require.True(t, ok)
	assert.Equal(t, int64(1), settled.WarID)
	assert.Equal(t, models.WinnerTokenA, settled.Winner)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockWarRepo.AssertExpectations(t)
	mockTokenRepo.AssertExpectations(t)
	mockSettlementRepo.AssertExpectations(t)
}

func TestSettlementService_SettleWar_Tie(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockWarRepo := new(MockWarRepository)
	mockTokenRepo := new(MockTokenRepository)
	mockSettlementRepo := new(MockSettlementRepository)

	mockUoW.SetRepositories(nil, mockTokenRepo, nil, mockWarRepo, nil, mockSettlementRepo)

	svc := NewSettlementService(mockFactory, testConfig())

	war := endedWar(7)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockWarRepo.On("GetByID", ctx, int64(7)).Return(war, nil)

	// Both tokens moved exactly +10%
	mockTokenRepo.On("GetByID", ctx, int64(1)).Return(&models.Token{ID: 1, Price: 110}, nil)
	mockTokenRepo.On("GetByID", ctx, int64(2)).Return(&models.Token{ID: 2, Price: 110}, nil)

	mockWarRepo.On("MarkSettled", ctx, int64(7), models.WinnerTie, float64(110), float64(110), mock.AnythingOfType("time.Time")).Return(nil)

	// No fee on ties; the whole pool stays refundable
	mockSettlementRepo.On("Create", ctx, mock.MatchedBy(func(s *models.Settlement) bool {
		return s.Winner == models.WinnerTie &&
			s.PlatformFee == 0 &&
			s.DistributablePool == 1000
	})).Return(nil)

	settlement, err := svc.SettleWar(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, models.WinnerTie, settlement.Winner)
	assert.Equal(t, int64(0), settlement.PlatformFee)

	mockWarRepo.AssertExpectations(t)
	mockSettlementRepo.AssertExpectations(t)
}

func TestSettlementService_SettleWar_AlreadySettled(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockWarRepo := new(MockWarRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockWarRepo, nil, nil)

	svc := NewSettlementService(mockFactory, testConfig())

	war := endedWar(3)
	war.IsSettled = true

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockWarRepo.On("GetByID", ctx, int64(3)).Return(war, nil)

	_, err := svc.SettleWar(ctx, 3)

	assert.ErrorIs(t, err, models.ErrAlreadySettled)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestSettlementService_SettleWar_NotEnded(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockWarRepo := new(MockWarRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockWarRepo, nil, nil)

	svc := NewSettlementService(mockFactory, testConfig())

	war := endedWar(4)
	war.EndTime = time.Now().Add(2 * time.Hour)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockWarRepo.On("GetByID", ctx, int64(4)).Return(war, nil)

	_, err := svc.SettleWar(ctx, 4)

	assert.ErrorIs(t, err, models.ErrWarNotEnded)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestSettlementService_SettleWar_DegeneratePool(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockWarRepo := new(MockWarRepository)
	mockTokenRepo := new(MockTokenRepository)

	mockUoW.SetRepositories(nil, mockTokenRepo, nil, mockWarRepo, nil, nil)

	svc := NewSettlementService(mockFactory, testConfig())

	// All money is on token B but token A wins
	war := endedWar(5)
	war.TotalBetsA = 0
	war.TotalBetsB = 1000

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockWarRepo.On("GetByID", ctx, int64(5)).Return(war, nil)
	mockTokenRepo.On("GetByID", ctx, int64(1)).Return(&models.Token{ID: 1, Price: 150}, nil)
	mockTokenRepo.On("GetByID", ctx, int64(2)).Return(&models.Token{ID: 2, Price: 100}, nil)

	_, err := svc.SettleWar(ctx, 5)

	assert.ErrorIs(t, err, models.ErrDegeneratePool)
	mockWarRepo.AssertNotCalled(t, "MarkSettled", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestSettlementService_SettleWar_InvalidStartPrice(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockWarRepo := new(MockWarRepository)
	mockTokenRepo := new(MockTokenRepository)

	mockUoW.SetRepositories(nil, mockTokenRepo, nil, mockWarRepo, nil, nil)

	svc := NewSettlementService(mockFactory, testConfig())

	war := endedWar(6)
	war.TokenAStartPrice = 0

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockWarRepo.On("GetByID", ctx, int64(6)).Return(war, nil)
	mockTokenRepo.On("GetByID", ctx, int64(1)).Return(&models.Token{ID: 1, Price: 150}, nil)
	mockTokenRepo.On("GetByID", ctx, int64(2)).Return(&models.Token{ID: 2, Price: 100}, nil)

	_, err := svc.SettleWar(ctx, 6)

	assert.ErrorIs(t, err, models.ErrInvalidStartPrice)
}

func TestSettlementService_GetSettlement_NotSettled(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockSettlementRepo := new(MockSettlementRepository)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, mockSettlementRepo)

	svc := NewSettlementService(mockFactory, testConfig())

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSettlementRepo.On("GetByWarID", ctx, int64(9)).Return(nil, nil)

	_, err := svc.GetSettlement(ctx, 9)

	assert.ErrorIs(t, err, models.ErrWarNotSettled)
}
