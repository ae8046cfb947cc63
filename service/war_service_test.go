package service

import (
	"context"
	"testing"
	"time"

	"trenchwars/events"
	"trenchwars/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWarService_CreateWar(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTokenRepo := new(MockTokenRepository)
	mockWarRepo := new(MockWarRepository)

	mockUoW.SetRepositories(nil, mockTokenRepo, nil, mockWarRepo, nil, nil)

	svc := NewWarService(mockFactory, testConfig())

	tokenA := &models.Token{ID: 1, Symbol: "DOGE", Price: 0.12}
	tokenB := &models.Token{ID: 2, Symbol: "PEPE", Price: 0.000008}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockTokenRepo.On("GetBySymbol", ctx, "DOGE").Return(tokenA, nil)
	mockTokenRepo.On("GetBySymbol", ctx, "PEPE").Return(tokenB, nil)

	mockWarRepo.On("Create", ctx, mock.MatchedBy(func(w *models.War) bool {
		return w.TokenAID == 1 &&
			w.TokenBID == 2 &&
			w.TokenAStartPrice == 0.12 &&
			w.TokenBStartPrice == 0.000008 &&
			w.MinBetAmount == 1_000_000 &&
			w.EndTime.Sub(w.StartTime) == 24*time.Hour
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.War).ID = 11
	})

	detail, err := svc.CreateWar(ctx, CreateWarParams{
		TokenASymbol:  "doge",
		TokenBSymbol:  "pepe",
		DurationHours: 24,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), detail.War.ID)
	assert.Equal(t, "DOGE", detail.TokenA.Symbol)
	assert.Equal(t, "PEPE", detail.TokenB.Symbol)

	published := mockUoW.PublishedEvents()
	require.Len(t, published, 1)
	created, ok := published[0].(events.WarCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(11), created.WarID)

	mockWarRepo.AssertExpectations(t)
	mockTokenRepo.AssertExpectations(t)
}

func TestWarService_CreateWar_SameToken(t *testing.T) {
	svc := NewWarService(new(MockUnitOfWorkFactory), testConfig())

	_, err := svc.CreateWar(context.Background(), CreateWarParams{
		TokenASymbol:  "DOGE",
		TokenBSymbol:  "doge",
		DurationHours: 24,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "two different tokens")
}

func TestWarService_CreateWar_InvalidDuration(t *testing.T) {
	svc := NewWarService(new(MockUnitOfWorkFactory), testConfig())

	_, err := svc.CreateWar(context.Background(), CreateWarParams{
		TokenASymbol:  "DOGE",
		TokenBSymbol:  "PEPE",
		DurationHours: 0,
	})
	assert.Error(t, err)

	_, err = svc.CreateWar(context.Background(), CreateWarParams{
		TokenASymbol:  "DOGE",
		TokenBSymbol:  "PEPE",
		DurationHours: 500, // above the 168 hour maximum
	})
	assert.Error(t, err)
}

func TestWarService_CreateWar_TokenNotFound(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTokenRepo := new(MockTokenRepository)

	mockUoW.SetRepositories(nil, mockTokenRepo, nil, nil, nil, nil)

	svc := NewWarService(mockFactory, testConfig())

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockTokenRepo.On("GetBySymbol", ctx, "DOGE").Return(nil, nil)

	_, err := svc.CreateWar(ctx, CreateWarParams{
		TokenASymbol:  "DOGE",
		TokenBSymbol:  "PEPE",
		DurationHours: 24,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestWarService_CreateWar_ZeroPriceToken(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTokenRepo := new(MockTokenRepository)

	mockUoW.SetRepositories(nil, mockTokenRepo, nil, nil, nil, nil)

	svc := NewWarService(mockFactory, testConfig())

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockTokenRepo.On("GetBySymbol", ctx, "DOGE").Return(&models.Token{ID: 1, Symbol: "DOGE", Price: 0}, nil)
	mockTokenRepo.On("GetBySymbol", ctx, "PEPE").Return(&models.Token{ID: 2, Symbol: "PEPE", Price: 1}, nil)

	_, err := svc.CreateWar(ctx, CreateWarParams{
		TokenASymbol:  "DOGE",
		TokenBSymbol:  "PEPE",
		DurationHours: 24,
	})

	assert.ErrorIs(t, err, models.ErrInvalidStartPrice)
}

func TestWarService_GetWarStats(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockWarRepo := new(MockWarRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockWarRepo, nil, nil)

	svc := NewWarService(mockFactory, testConfig())

	stats := &models.WarStats{
		TotalBetsA:    300,
		TotalBetsB:    500,
		TotalPool:     800,
		BetCount:      12,
		UniqueBettors: 9,
		OddsA:         800.0 / 300.0,
		OddsB:         800.0 / 500.0,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockWarRepo.On("GetByID", ctx, int64(1)).Return(activeWar(1), nil)
	mockWarRepo.On("GetStats", ctx, int64(1)).Return(stats, nil)

	got, err := svc.GetWarStats(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, stats, got)
}
