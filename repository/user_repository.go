package repository

import (
	"context"
	"fmt"

	"trenchwars/database"
	"trenchwars/models"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByWallet retrieves a user by wallet address
func (r *UserRepository) GetByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	query := `
		SELECT id, wallet_address, created_at
		FROM users
		WHERE wallet_address = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, walletAddress).Scan(
		&user.ID,
		&user.WalletAddress,
		&user.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by wallet %s: %w", walletAddress, err)
	}

	return &user, nil
}

// GetOrCreate retrieves a user by wallet address, creating the record on
// first sight of the wallet
func (r *UserRepository) GetOrCreate(ctx context.Context, walletAddress string) (*models.User, error) {
	query := `
		INSERT INTO users (wallet_address)
		VALUES ($1)
		ON CONFLICT (wallet_address) DO UPDATE SET wallet_address = EXCLUDED.wallet_address
		RETURNING id, wallet_address, created_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, walletAddress).Scan(
		&user.ID,
		&user.WalletAddress,
		&user.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get or create user %s: %w", walletAddress, err)
	}

	return &user, nil
}

// GetStats returns aggregate betting statistics for a wallet
func (r *UserRepository) GetStats(ctx context.Context, walletAddress string) (*models.UserStats, error) {
	query := `
		SELECT
			COUNT(b.id) AS total_bets,
			COALESCE(SUM(b.amount), 0) AS total_wagered,
			COUNT(b.id) FILTER (
				WHERE w.is_settled AND w.winner = b.side
			) AS wars_won,
			COALESCE(SUM(b.payout_amount) FILTER (WHERE b.is_claimed), 0) AS total_claimed,
			COUNT(b.id) FILTER (WHERE w.is_settled AND NOT b.is_claimed) AS unclaimed_bets,
			COALESCE(SUM(b.amount) FILTER (WHERE NOT w.is_settled), 0) AS active_bet_amount
		FROM users u
		LEFT JOIN bets b ON b.user_id = u.id
		LEFT JOIN wars w ON w.id = b.war_id
		WHERE u.wallet_address = $1
		GROUP BY u.id
	`

	stats := &models.UserStats{WalletAddress: walletAddress}
	err := r.q.QueryRow(ctx, query, walletAddress).Scan(
		&stats.TotalBets,
		&stats.TotalWagered,
		&stats.WarsWon,
		&stats.TotalClaimed,
		&stats.UnclaimedBets,
		&stats.ActiveBetAmount,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats for wallet %s: %w", walletAddress, err)
	}

	return stats, nil
}
