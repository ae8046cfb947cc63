package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trenchwars/config"
	"trenchwars/events"
	"trenchwars/models"

	log "github.com/sirupsen/logrus"
)

type warService struct {
	uowFactory UnitOfWorkFactory
	config     *config.Config
}

// NewWarService creates a new war service
func NewWarService(uowFactory UnitOfWorkFactory, cfg *config.Config) WarService {
	return &warService{
		uowFactory: uowFactory,
		config:     cfg,
	}
}

// CreateWar opens a new war between two tokens. The tokens' current stored
// prices are frozen as the war's start prices at creation time.
func (s *warService) CreateWar(ctx context.Context, params CreateWarParams) (*models.WarDetail, error) {
	params.TokenASymbol = strings.ToUpper(strings.TrimSpace(params.TokenASymbol))
	params.TokenBSymbol = strings.ToUpper(strings.TrimSpace(params.TokenBSymbol))

	if params.TokenASymbol == "" || params.TokenBSymbol == "" {
		return nil, fmt.Errorf("both token symbols are required")
	}
	if params.TokenASymbol == params.TokenBSymbol {
		return nil, fmt.Errorf("a war needs two different tokens")
	}
	if params.DurationHours < 1 || params.DurationHours > s.config.MaxWarDuration {
		return nil, fmt.Errorf("duration must be between 1 and %d hours", s.config.MaxWarDuration)
	}
	if params.MinBetAmount <= 0 {
		params.MinBetAmount = s.config.MinBetAmount
	}
	if params.MinBetAmount < s.config.MinBetAmount {
		return nil, fmt.Errorf("minimum bet %d below platform floor %d", params.MinBetAmount, s.config.MinBetAmount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tokenA, err := uow.TokenRepository().GetBySymbol(ctx, params.TokenASymbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get token %s: %w", params.TokenASymbol, err)
	}
	if tokenA == nil {
		return nil, fmt.Errorf("token %s not found", params.TokenASymbol)
	}

	tokenB, err := uow.TokenRepository().GetBySymbol(ctx, params.TokenBSymbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get token %s: %w", params.TokenBSymbol, err)
	}
	if tokenB == nil {
		return nil, fmt.Errorf("token %s not found", params.TokenBSymbol)
	}

	if tokenA.Price <= 0 || tokenB.Price <= 0 {
		return nil, models.ErrInvalidStartPrice
	}

	now := time.Now()
	war := &models.War{
		TokenAID:         tokenA.ID,
		TokenBID:         tokenB.ID,
		StartTime:        now,
		EndTime:          now.Add(time.Duration(params.DurationHours) * time.Hour),
		TokenAStartPrice: tokenA.Price,
		TokenBStartPrice: tokenB.Price,
		MinBetAmount:     params.MinBetAmount,
		Description:      params.Description,
		CreatorWallet:    params.CreatorWallet,
	}
	if err := uow.WarRepository().Create(ctx, war); err != nil {
		return nil, fmt.Errorf("failed to create war: %w", err)
	}

	uow.EventBus().Publish(events.WarCreatedEvent{
		WarID:        war.ID,
		TokenASymbol: tokenA.Symbol,
		TokenBSymbol: tokenB.Symbol,
		EndTime:      war.EndTime.Unix(),
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"warID":   war.ID,
		"tokenA":  tokenA.Symbol,
		"tokenB":  tokenB.Symbol,
		"endTime": war.EndTime,
	}).Info("War created")

	return &models.WarDetail{War: war, TokenA: tokenA, TokenB: tokenB}, nil
}

// GetWar retrieves a war with its tokens
func (s *warService) GetWar(ctx context.Context, warID int64) (*models.WarDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	detail, err := uow.WarRepository().GetDetailByID(ctx, warID)
	if err != nil {
		return nil, fmt.Errorf("failed to get war: %w", err)
	}
	if detail == nil {
		return nil, fmt.Errorf("war %d not found", warID)
	}

	return detail, nil
}

// ListWars returns all wars, newest first
func (s *warService) ListWars(ctx context.Context) ([]*models.War, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	wars, err := uow.WarRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wars: %w", err)
	}

	return wars, nil
}

// ListActiveWars returns wars currently accepting bets
func (s *warService) ListActiveWars(ctx context.Context) ([]*models.War, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	wars, err := uow.WarRepository().GetActive(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list active wars: %w", err)
	}

	return wars, nil
}

// GetWarStats returns betting statistics and pari-mutuel odds for a war
func (s *warService) GetWarStats(ctx context.Context, warID int64) (*models.WarStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	war, err := uow.WarRepository().GetByID(ctx, warID)
	if err != nil {
		return nil, fmt.Errorf("failed to get war: %w", err)
	}
	if war == nil {
		return nil, fmt.Errorf("war %d not found", warID)
	}

	stats, err := uow.WarRepository().GetStats(ctx, warID)
	if err != nil {
		return nil, fmt.Errorf("failed to get war stats: %w", err)
	}

	return stats, nil
}
