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

type betService struct {
	uowFactory UnitOfWorkFactory
	config     *config.Config
}

// NewBetService creates a new bet service
func NewBetService(uowFactory UnitOfWorkFactory, cfg *config.Config) BetService {
	return &betService{
		uowFactory: uowFactory,
		config:     cfg,
	}
}

// PlaceBet records a bet on an active war. The bet row and the pool
// increment happen in the same transaction: both commit or neither does.
func (s *betService) PlaceBet(ctx context.Context, params PlaceBetParams) (*models.Bet, error) {
	// Validate inputs
	if params.Amount <= 0 {
		return nil, fmt.Errorf("bet amount must be positive")
	}
	if !params.Side.Valid() {
		return nil, fmt.Errorf("invalid bet side: %s", params.Side)
	}
	if params.WalletAddress == "" {
		return nil, fmt.Errorf("wallet address cannot be empty")
	}
	if params.TransactionSignature == "" {
		return nil, fmt.Errorf("transaction signature cannot be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	war, err := uow.WarRepository().GetByID(ctx, params.WarID)
	if err != nil {
		return nil, fmt.Errorf("failed to get war: %w", err)
	}
	if war == nil {
		return nil, fmt.Errorf("war %d not found", params.WarID)
	}

	if !war.CanAcceptBets(time.Now()) {
		return nil, models.ErrBettingClosed
	}
	if params.Amount < war.MinBetAmount {
		return nil, fmt.Errorf("bet amount %d below war minimum %d", params.Amount, war.MinBetAmount)
	}

	// Early duplicate check for a friendlier error; the unique index on
	// transaction_signature remains the authority under concurrency.
	existing, err := uow.BetRepository().GetByTransactionSignature(ctx, params.TransactionSignature)
	if err != nil {
		return nil, fmt.Errorf("failed to check transaction signature: %w", err)
	}
	if existing != nil {
		return nil, models.ErrDuplicateTransaction
	}

	user, err := uow.UserRepository().GetOrCreate(ctx, params.WalletAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}

	bet := &models.Bet{
		UserID:               user.ID,
		WarID:                params.WarID,
		Amount:               params.Amount,
		Side:                 params.Side,
		TransactionSignature: params.TransactionSignature,
	}
	if err := uow.BetRepository().Create(ctx, bet); err != nil {
		return nil, err
	}

	if err := uow.WarRepository().IncrementPoolTotal(ctx, params.WarID, params.Side, params.Amount); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.BetPlacedEvent{
		BetID:  bet.ID,
		WarID:  params.WarID,
		UserID: user.ID,
		Side:   params.Side,
		Amount: params.Amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"betID":  bet.ID,
		"warID":  params.WarID,
		"side":   params.Side,
		"amount": params.Amount,
	}).Info("Bet placed")

	return bet, nil
}

// PreviewWinnings estimates the payout for a hypothetical bet against the
// current pool. Purely a read followed by arithmetic; stored totals are
// never touched.
func (s *betService) PreviewWinnings(ctx context.Context, warID int64, choice models.BetSide, amount int64) (*models.WinningsPreview, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("bet amount must be positive")
	}
	if !choice.Valid() {
		return nil, fmt.Errorf("invalid bet side: %s", choice)
	}

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
	if war.IsSettled {
		return nil, models.ErrAlreadySettled
	}

	return models.PreviewWinnings(war.TotalBetsA, war.TotalBetsB, choice, amount, s.config.FeeRateBps)
}

// ClaimWinnings computes and records the payout for a bet on a settled war.
// The claim flag flips via a conditional UPDATE, so a second claim on the
// same bet fails with models.ErrAlreadyClaimed.
func (s *betService) ClaimWinnings(ctx context.Context, betID int64, walletAddress string) (*models.ClaimResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bet, err := uow.BetRepository().GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, fmt.Errorf("bet %d not found", betID)
	}

	user, err := uow.UserRepository().GetByWallet(ctx, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.ID != bet.UserID {
		return nil, fmt.Errorf("bet %d does not belong to wallet %s", betID, walletAddress)
	}

	if bet.IsClaimed {
		return nil, models.ErrAlreadyClaimed
	}

	war, err := uow.WarRepository().GetByID(ctx, bet.WarID)
	if err != nil {
		return nil, fmt.Errorf("failed to get war: %w", err)
	}
	if war == nil || !war.IsSettled {
		return nil, models.ErrWarNotSettled
	}

	settlement, err := uow.SettlementRepository().GetByWarID(ctx, bet.WarID)
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	if settlement == nil {
		return nil, models.ErrWarNotSettled
	}

	result := &models.ClaimResult{
		BetID:  betID,
		WarID:  bet.WarID,
		Wallet: walletAddress,
	}

	if settlement.Winner == models.WinnerTie {
		if s.config.TiePolicy == config.TiePolicyVoid {
			return nil, models.ErrTieVoided
		}
		// Fee-free 1:1 refund of the stake
		result.PayoutAmount = bet.Amount
		result.Refunded = true
	} else {
		winningSide, _ := settlement.WinningSide()
		payout, err := bet.Payout(settlement, war.SideTotal(winningSide))
		if err != nil {
			return nil, err
		}
		result.PayoutAmount = payout
		result.Won = payout > 0
	}

	if err := uow.BetRepository().MarkClaimed(ctx, betID, result.PayoutAmount); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.WinningsClaimedEvent{
		BetID:  betID,
		WarID:  bet.WarID,
		UserID: bet.UserID,
		Payout: result.PayoutAmount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

// GetUserBets returns a wallet's bets with war context
func (s *betService) GetUserBets(ctx context.Context, walletAddress string) ([]*models.BetWithWar, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bets, err := uow.BetRepository().GetByUser(ctx, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to get user bets: %w", err)
	}

	return bets, nil
}

// GetWarBets returns the most recent bets on a war
func (s *betService) GetWarBets(ctx context.Context, warID int64, limit int) ([]*models.Bet, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bets, err := uow.BetRepository().GetByWar(ctx, warID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get war bets: %w", err)
	}

	return bets, nil
}
