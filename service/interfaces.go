package service

import (
	"context"
	"time"

	"trenchwars/events"
	"trenchwars/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByWallet retrieves a user by wallet address
	GetByWallet(ctx context.Context, walletAddress string) (*models.User, error)

	// GetOrCreate retrieves a user by wallet address, creating the record
	// on first sight of the wallet
	GetOrCreate(ctx context.Context, walletAddress string) (*models.User, error)

	// GetStats returns aggregate betting statistics for a wallet
	GetStats(ctx context.Context, walletAddress string) (*models.UserStats, error)
}

// TokenRepository defines the interface for token data access
type TokenRepository interface {
	// Create registers a new token
	Create(ctx context.Context, token *models.Token) error

	// GetByID retrieves a token by its ID
	GetByID(ctx context.Context, id int64) (*models.Token, error)

	// GetBySymbol retrieves a token by its symbol
	GetBySymbol(ctx context.Context, symbol string) (*models.Token, error)

	// GetAll returns all registered tokens
	GetAll(ctx context.Context) ([]*models.Token, error)

	// UpdatePrice updates a token's current price and 24h change
	UpdatePrice(ctx context.Context, id int64, price, change24h float64) error
}

// PriceHistoryRepository defines the interface for price observations
type PriceHistoryRepository interface {
	// Record appends a price observation for a token
	Record(ctx context.Context, point *models.PricePoint) error

	// GetHistory returns the most recent observations for a token
	GetHistory(ctx context.Context, tokenID int64, limit int) ([]*models.PricePoint, error)
}

// WarRepository defines the interface for war data access
type WarRepository interface {
	// Create creates a new war
	Create(ctx context.Context, war *models.War) error

	// GetByID retrieves a war by its ID
	GetByID(ctx context.Context, id int64) (*models.War, error)

	// GetDetailByID retrieves a war with both of its tokens
	GetDetailByID(ctx context.Context, id int64) (*models.WarDetail, error)

	// GetAll returns all wars, newest first
	GetAll(ctx context.Context) ([]*models.War, error)

	// GetActive returns wars inside their betting window, soonest ending first
	GetActive(ctx context.Context, now time.Time) ([]*models.War, error)

	// GetEndedUnsettled returns wars past end_time that are not yet settled
	GetEndedUnsettled(ctx context.Context, now time.Time) ([]*models.War, error)

	// IncrementPoolTotal atomically adds amount to one side's pool total.
	// The increment is a single SQL update; callers never read-modify-write.
	IncrementPoolTotal(ctx context.Context, warID int64, side models.BetSide, amount int64) error

	// MarkSettled flips is_settled and records winner and end prices, but
	// only if the war is currently unsettled. Returns
	// models.ErrAlreadySettled when another settlement won the race.
	MarkSettled(ctx context.Context, warID int64, winner models.Winner, tokenAEndPrice, tokenBEndPrice float64, settledAt time.Time) error

	// GetStats returns pool totals, bet counts and unique bettors for a war
	GetStats(ctx context.Context, warID int64) (*models.WarStats, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// Create creates a new bet record. Returns
	// models.ErrDuplicateTransaction if the transaction signature is
	// already recorded.
	Create(ctx context.Context, bet *models.Bet) error

	// GetByID retrieves a bet by its ID
	GetByID(ctx context.Context, id int64) (*models.Bet, error)

	// GetByTransactionSignature retrieves a bet by its idempotency key
	GetByTransactionSignature(ctx context.Context, signature string) (*models.Bet, error)

	// GetByWar returns the most recent bets on a war
	GetByWar(ctx context.Context, warID int64, limit int) ([]*models.Bet, error)

	// GetByUser returns a wallet's bets joined with war context, newest first
	GetByUser(ctx context.Context, walletAddress string) ([]*models.BetWithWar, error)

	// MarkClaimed sets is_claimed and the payout amount, but only if the
	// bet is currently unclaimed. Returns models.ErrAlreadyClaimed when
	// the flag was already set.
	MarkClaimed(ctx context.Context, betID int64, payoutAmount int64) error
}

// SettlementRepository defines the interface for settlement records
type SettlementRepository interface {
	// Create persists a settlement record for a war
	Create(ctx context.Context, settlement *models.Settlement) error

	// GetByWarID retrieves the settlement for a war, nil if unsettled
	GetByWarID(ctx context.Context, warID int64) (*models.Settlement, error)
}

// WarService defines the interface for war operations
type WarService interface {
	// CreateWar opens a new war between two tokens, recording their
	// current prices as the start prices
	CreateWar(ctx context.Context, params CreateWarParams) (*models.WarDetail, error)

	// GetWar retrieves a war with its tokens
	GetWar(ctx context.Context, warID int64) (*models.WarDetail, error)

	// ListWars returns all wars
	ListWars(ctx context.Context) ([]*models.War, error)

	// ListActiveWars returns wars currently accepting bets
	ListActiveWars(ctx context.Context) ([]*models.War, error)

	// GetWarStats returns betting statistics and pari-mutuel odds for a war
	GetWarStats(ctx context.Context, warID int64) (*models.WarStats, error)
}

// CreateWarParams carries the validated inputs for opening a war
type CreateWarParams struct {
	TokenASymbol  string
	TokenBSymbol  string
	DurationHours int
	MinBetAmount  int64
	Description   string
	CreatorWallet string
}

// BetService defines the interface for betting operations
type BetService interface {
	// PlaceBet records a bet on an active war and atomically accrues the
	// amount into the chosen side's pool total
	PlaceBet(ctx context.Context, params PlaceBetParams) (*models.Bet, error)

	// PreviewWinnings estimates the payout for a hypothetical bet against
	// the current pool. Read-only; never mutates pool totals.
	PreviewWinnings(ctx context.Context, warID int64, choice models.BetSide, amount int64) (*models.WinningsPreview, error)

	// ClaimWinnings computes and records the payout for a bet on a settled
	// war. A second claim on the same bet fails.
	ClaimWinnings(ctx context.Context, betID int64, walletAddress string) (*models.ClaimResult, error)

	// GetUserBets returns a wallet's bets with war context
	GetUserBets(ctx context.Context, walletAddress string) ([]*models.BetWithWar, error)

	// GetWarBets returns the most recent bets on a war
	GetWarBets(ctx context.Context, warID int64, limit int) ([]*models.Bet, error)
}

// PlaceBetParams carries the validated inputs for placing a bet
type PlaceBetParams struct {
	WarID                int64
	WalletAddress        string
	Side                 models.BetSide
	Amount               int64
	TransactionSignature string
}

// SettlementService defines the interface for war settlement
type SettlementService interface {
	// SettleWar determines the winner from price changes, extracts the
	// platform fee, and irreversibly marks the war settled. Fails if the
	// war has not ended or is already settled.
	SettleWar(ctx context.Context, warID int64) (*models.Settlement, error)

	// GetSettlement retrieves the settlement record for a war
	GetSettlement(ctx context.Context, warID int64) (*models.Settlement, error)
}

// TokenService defines the interface for token and price operations
type TokenService interface {
	// RegisterToken registers a new token
	RegisterToken(ctx context.Context, symbol, name string, price float64, marketCap int64) (*models.Token, error)

	// GetToken retrieves a token by symbol
	GetToken(ctx context.Context, symbol string) (*models.Token, error)

	// ListTokens returns all registered tokens
	ListTokens(ctx context.Context) ([]*models.Token, error)

	// RecordPrice updates a token's current price and appends it to the
	// price history
	RecordPrice(ctx context.Context, symbol string, price, change24h float64) (*models.Token, error)

	// GetPriceHistory returns recent price observations for a token
	GetPriceHistory(ctx context.Context, symbol string, limit int) ([]*models.PricePoint, error)
}

// UserService defines the interface for user operations
type UserService interface {
	// GetOrCreateUser retrieves or creates a user by wallet address
	GetOrCreateUser(ctx context.Context, walletAddress string) (*models.User, error)

	// GetUserStats returns aggregate betting statistics for a wallet
	GetUserStats(ctx context.Context, walletAddress string) (*models.UserStats, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	TokenRepository() TokenRepository
	PriceHistoryRepository() PriceHistoryRepository
	WarRepository() WarRepository
	BetRepository() BetRepository
	SettlementRepository() SettlementRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
