package service

import (
	"context"
	"fmt"
	"time"

	"trenchwars/config"
	"trenchwars/events"
	"trenchwars/models"

	log "github.com/sirupsen/logrus"
)

type settlementService struct {
	uowFactory UnitOfWorkFactory
	config     *config.Config
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory, cfg *config.Config) SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
		config:     cfg,
	}
}

// SettleWar determines the winner from price changes, extracts the platform
// fee, and irreversibly marks the war settled. The flip of is_settled is a
// compare-and-set inside the transaction, so at most one settlement ever
// succeeds per war; the loser of a race gets models.ErrAlreadySettled.
func (s *settlementService) SettleWar(ctx context.Context, warID int64) (*models.Settlement, error) {
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

	now := time.Now()
	if war.IsSettled {
		return nil, models.ErrAlreadySettled
	}
	if !war.HasEnded(now) {
		return nil, models.ErrWarNotEnded
	}

	// End-of-war prices are the tokens' current stored prices
	tokenA, err := uow.TokenRepository().GetByID(ctx, war.TokenAID)
	if err != nil {
		return nil, fmt.Errorf("failed to get token A: %w", err)
	}
	tokenB, err := uow.TokenRepository().GetByID(ctx, war.TokenBID)
	if err != nil {
		return nil, fmt.Errorf("failed to get token B: %w", err)
	}
	if tokenA == nil || tokenB == nil {
		return nil, fmt.Errorf("tokens for war %d not found", warID)
	}

	outcome, err := models.DetermineWinner(
		war.TokenAStartPrice, tokenA.Price,
		war.TokenBStartPrice, tokenB.Price,
	)
	if err != nil {
		return nil, err
	}

	// Refuse to settle a non-tie outcome nobody backed; dividing the pool
	// by a zero winning total is undefined and the war stays open for
	// operator intervention.
	if winningSide, ok := winningSideOf(outcome.Winner); ok {
		if war.SideTotal(winningSide) == 0 && war.TotalPool() > 0 {
			return nil, models.ErrDegeneratePool
		}
	}

	platformFee, distributable := models.SplitPool(war.TotalPool(), s.config.FeeRateBps)
	if outcome.Winner == models.WinnerTie {
		// Ties refund stakes 1:1, so no fee is extracted
		platformFee, distributable = 0, war.TotalPool()
	}

	if err := uow.WarRepository().MarkSettled(ctx, warID, outcome.Winner, tokenA.Price, tokenB.Price, now); err != nil {
		return nil, err
	}

	settlement := &models.Settlement{
		WarID:             warID,
		Winner:            outcome.Winner,
		TokenAChange:      outcome.TokenAChange,
		TokenBChange:      outcome.TokenBChange,
		TotalPool:         war.TotalPool(),
		PlatformFee:       platformFee,
		DistributablePool: distributable,
		SettledAt:         now,
	}
	if err := uow.SettlementRepository().Create(ctx, settlement); err != nil {
		return nil, fmt.Errorf("failed to record settlement: %w", err)
	}

	uow.EventBus().Publish(events.WarSettledEvent{
		WarID:             warID,
		Winner:            outcome.Winner,
		TotalPool:         settlement.TotalPool,
		PlatformFee:       settlement.PlatformFee,
		DistributablePool: settlement.DistributablePool,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"warID":         warID,
		"winner":        outcome.Winner,
		"changeA":       outcome.TokenAChange,
		"changeB":       outcome.TokenBChange,
		"totalPool":     settlement.TotalPool,
		"platformFee":   settlement.PlatformFee,
		"distributable": settlement.DistributablePool,
	}).Info("War settled")

	return settlement, nil
}

// GetSettlement retrieves the settlement record for a war
func (s *settlementService) GetSettlement(ctx context.Context, warID int64) (*models.Settlement, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settlement, err := uow.SettlementRepository().GetByWarID(ctx, warID)
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	if settlement == nil {
		return nil, models.ErrWarNotSettled
	}

	return settlement, nil
}

func winningSideOf(winner models.Winner) (models.BetSide, bool) {
	switch winner {
	case models.WinnerTokenA:
		return models.BetSideTokenA, true
	case models.WinnerTokenB:
		return models.BetSideTokenB, true
	}
	return "", false
}
