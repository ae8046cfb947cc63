package repository

import (
	"context"
	"errors"
	"fmt"

	"trenchwars/database"
	"trenchwars/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres error code for unique constraint violations
const uniqueViolation = "23505"

// BetRepository implements the service.BetRepository interface
type BetRepository struct {
	q queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a new bet repository with a transaction
func newBetRepositoryWithTx(tx queryable) *BetRepository {
	return &BetRepository{q: tx}
}

const betColumns = `id, user_id, war_id, amount, side, transaction_signature, is_claimed, payout_amount, created_at`

func scanBet(row pgx.Row) (*models.Bet, error) {
	var bet models.Bet
	err := row.Scan(
		&bet.ID,
		&bet.UserID,
		&bet.WarID,
		&bet.Amount,
		&bet.Side,
		&bet.TransactionSignature,
		&bet.IsClaimed,
		&bet.PayoutAmount,
		&bet.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

// Create creates a new bet record. The unique index on
// transaction_signature is the idempotency authority: a duplicate
// submission surfaces as models.ErrDuplicateTransaction.
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (user_id, war_id, amount, side, transaction_signature)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_claimed, created_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.UserID,
		bet.WarID,
		bet.Amount,
		bet.Side,
		bet.TransactionSignature,
	).Scan(&bet.ID, &bet.IsClaimed, &bet.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to create bet: %w", err)
	}

	return nil
}

// GetByID retrieves a bet by its ID
func (r *BetRepository) GetByID(ctx context.Context, id int64) (*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`

	bet, err := scanBet(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %d: %w", id, err)
	}

	return bet, nil
}

// GetByTransactionSignature retrieves a bet by its idempotency key
func (r *BetRepository) GetByTransactionSignature(ctx context.Context, signature string) (*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE transaction_signature = $1`

	bet, err := scanBet(r.q.QueryRow(ctx, query, signature))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet by transaction signature: %w", err)
	}

	return bet, nil
}

// GetByWar returns the most recent bets on a war
func (r *BetRepository) GetByWar(ctx context.Context, warID int64, limit int) ([]*models.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE war_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, warID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets for war %d: %w", warID, err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bets: %w", err)
	}

	return bets, nil
}

// GetByUser returns a wallet's bets joined with war context, newest first
func (r *BetRepository) GetByUser(ctx context.Context, walletAddress string) ([]*models.BetWithWar, error) {
	query := `
		SELECT
			b.id, b.user_id, b.war_id, b.amount, b.side,
			b.transaction_signature, b.is_claimed, b.payout_amount, b.created_at,
			w.end_time, w.is_settled, w.winner,
			ta.symbol, tb.symbol
		FROM bets b
		JOIN users u ON u.id = b.user_id
		JOIN wars w ON w.id = b.war_id
		JOIN tokens ta ON ta.id = w.token_a_id
		JOIN tokens tb ON tb.id = w.token_b_id
		WHERE u.wallet_address = $1
		ORDER BY b.created_at DESC
	`

	rows, err := r.q.Query(ctx, query, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets for wallet %s: %w", walletAddress, err)
	}
	defer rows.Close()

	var bets []*models.BetWithWar
	for rows.Next() {
		var bet models.Bet
		var entry models.BetWithWar
		err := rows.Scan(
			&bet.ID,
			&bet.UserID,
			&bet.WarID,
			&bet.Amount,
			&bet.Side,
			&bet.TransactionSignature,
			&bet.IsClaimed,
			&bet.PayoutAmount,
			&bet.CreatedAt,
			&entry.WarEndTime,
			&entry.WarIsSettled,
			&entry.WarWinner,
			&entry.TokenASymbol,
			&entry.TokenBSymbol,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		entry.Bet = &bet
		bets = append(bets, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bets: %w", err)
	}

	return bets, nil
}

// MarkClaimed sets is_claimed and the payout amount, but only if the bet is
// currently unclaimed. The conditional UPDATE makes double claims lose.
func (r *BetRepository) MarkClaimed(ctx context.Context, betID int64, payoutAmount int64) error {
	query := `
		UPDATE bets
		SET is_claimed = TRUE, payout_amount = $2
		WHERE id = $1 AND is_claimed = FALSE
	`

	result, err := r.q.Exec(ctx, query, betID, payoutAmount)
	if err != nil {
		return fmt.Errorf("failed to mark bet %d claimed: %w", betID, err)
	}

	if result.RowsAffected() == 0 {
		bet, err := r.GetByID(ctx, betID)
		if err != nil {
			return fmt.Errorf("failed to check bet %d: %w", betID, err)
		}
		if bet == nil {
			return fmt.Errorf("bet %d not found", betID)
		}
		return models.ErrAlreadyClaimed
	}

	return nil
}
