package repository

import (
	"context"
	"fmt"
	"time"

	"trenchwars/database"
	"trenchwars/models"

	"github.com/jackc/pgx/v5"
)

// WarRepository implements the service.WarRepository interface
type WarRepository struct {
	q queryable
}

// NewWarRepository creates a new war repository
func NewWarRepository(db *database.DB) *WarRepository {
	return &WarRepository{q: db.Pool}
}

// newWarRepositoryWithTx creates a new war repository with a transaction
func newWarRepositoryWithTx(tx queryable) *WarRepository {
	return &WarRepository{q: tx}
}

const warColumns = `
	id, token_a_id, token_b_id, start_time, end_time,
	token_a_start_price, token_b_start_price, token_a_end_price, token_b_end_price,
	total_bets_a, total_bets_b, is_settled, winner,
	min_bet_amount, description, creator_wallet, created_at, settled_at`

func scanWar(row pgx.Row) (*models.War, error) {
	var war models.War
	err := row.Scan(
		&war.ID,
		&war.TokenAID,
		&war.TokenBID,
		&war.StartTime,
		&war.EndTime,
		&war.TokenAStartPrice,
		&war.TokenBStartPrice,
		&war.TokenAEndPrice,
		&war.TokenBEndPrice,
		&war.TotalBetsA,
		&war.TotalBetsB,
		&war.IsSettled,
		&war.Winner,
		&war.MinBetAmount,
		&war.Description,
		&war.CreatorWallet,
		&war.CreatedAt,
		&war.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	return &war, nil
}

// Create creates a new war
func (r *WarRepository) Create(ctx context.Context, war *models.War) error {
	query := `
		INSERT INTO wars (
			token_a_id, token_b_id, start_time, end_time,
			token_a_start_price, token_b_start_price,
			min_bet_amount, description, creator_wallet
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, total_bets_a, total_bets_b, is_settled, created_at
	`

	err := r.q.QueryRow(ctx, query,
		war.TokenAID,
		war.TokenBID,
		war.StartTime,
		war.EndTime,
		war.TokenAStartPrice,
		war.TokenBStartPrice,
		war.MinBetAmount,
		war.Description,
		war.CreatorWallet,
	).Scan(&war.ID, &war.TotalBetsA, &war.TotalBetsB, &war.IsSettled, &war.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create war: %w", err)
	}

	return nil
}

// GetByID retrieves a war by its ID
func (r *WarRepository) GetByID(ctx context.Context, id int64) (*models.War, error) {
	query := `SELECT` + warColumns + ` FROM wars WHERE id = $1`

	war, err := scanWar(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get war %d: %w", id, err)
	}

	return war, nil
}

// GetDetailByID retrieves a war with both of its tokens
func (r *WarRepository) GetDetailByID(ctx context.Context, id int64) (*models.WarDetail, error) {
	war, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if war == nil {
		return nil, nil
	}

	tokenRepo := &TokenRepository{q: r.q}
	tokenA, err := tokenRepo.GetByID(ctx, war.TokenAID)
	if err != nil {
		return nil, fmt.Errorf("failed to get token A for war %d: %w", id, err)
	}
	tokenB, err := tokenRepo.GetByID(ctx, war.TokenBID)
	if err != nil {
		return nil, fmt.Errorf("failed to get token B for war %d: %w", id, err)
	}

	return &models.WarDetail{
		War:    war,
		TokenA: tokenA,
		TokenB: tokenB,
	}, nil
}

// GetAll returns all wars, newest first
func (r *WarRepository) GetAll(ctx context.Context) ([]*models.War, error) {
	query := `SELECT` + warColumns + ` FROM wars ORDER BY created_at DESC`
	return r.queryWars(ctx, query)
}

// GetActive returns wars inside their betting window, soonest ending first
func (r *WarRepository) GetActive(ctx context.Context, now time.Time) ([]*models.War, error) {
	query := `
		SELECT` + warColumns + `
		FROM wars
		WHERE start_time <= $1 AND end_time > $1 AND is_settled = FALSE
		ORDER BY end_time ASC
	`
	return r.queryWars(ctx, query, now)
}

// GetEndedUnsettled returns wars past end_time that are not yet settled
func (r *WarRepository) GetEndedUnsettled(ctx context.Context, now time.Time) ([]*models.War, error) {
	query := `
		SELECT` + warColumns + `
		FROM wars
		WHERE end_time <= $1 AND is_settled = FALSE
		ORDER BY end_time ASC
	`
	return r.queryWars(ctx, query, now)
}

func (r *WarRepository) queryWars(ctx context.Context, query string, args ...any) ([]*models.War, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query wars: %w", err)
	}
	defer rows.Close()

	var wars []*models.War
	for rows.Next() {
		war, err := scanWar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan war: %w", err)
		}
		wars = append(wars, war)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wars: %w", err)
	}

	return wars, nil
}

// IncrementPoolTotal atomically adds amount to one side's pool total.
// The increment runs as a single conditional UPDATE so concurrent bets on
// the same war never lose updates; settled wars are frozen.
func (r *WarRepository) IncrementPoolTotal(ctx context.Context, warID int64, side models.BetSide, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if !side.Valid() {
		return fmt.Errorf("invalid bet side: %s", side)
	}

	column := "total_bets_b"
	if side == models.BetSideTokenA {
		column = "total_bets_a"
	}

	query := fmt.Sprintf(`
		UPDATE wars
		SET %s = %s + $1
		WHERE id = $2 AND is_settled = FALSE
	`, column, column)

	result, err := r.q.Exec(ctx, query, amount, warID)
	if err != nil {
		return fmt.Errorf("failed to increment pool total for war %d: %w", warID, err)
	}

	if result.RowsAffected() == 0 {
		war, err := r.GetByID(ctx, warID)
		if err != nil {
			return fmt.Errorf("failed to check war %d: %w", warID, err)
		}
		if war == nil {
			return fmt.Errorf("war %d not found", warID)
		}
		return models.ErrAlreadySettled
	}

	return nil
}

// MarkSettled flips is_settled and records winner and end prices, but only
// if the war is currently unsettled. The conditional UPDATE is the
// compare-and-set that guarantees at most one settlement per war.
func (r *WarRepository) MarkSettled(ctx context.Context, warID int64, winner models.Winner, tokenAEndPrice, tokenBEndPrice float64, settledAt time.Time) error {
	query := `
		UPDATE wars
		SET is_settled = TRUE,
		    winner = $2,
		    token_a_end_price = $3,
		    token_b_end_price = $4,
		    settled_at = $5
		WHERE id = $1 AND is_settled = FALSE
	`

	result, err := r.q.Exec(ctx, query, warID, winner, tokenAEndPrice, tokenBEndPrice, settledAt)
	if err != nil {
		return fmt.Errorf("failed to mark war %d settled: %w", warID, err)
	}

	if result.RowsAffected() == 0 {
		war, err := r.GetByID(ctx, warID)
		if err != nil {
			return fmt.Errorf("failed to check war %d: %w", warID, err)
		}
		if war == nil {
			return fmt.Errorf("war %d not found", warID)
		}
		return models.ErrAlreadySettled
	}

	return nil
}

// GetStats returns pool totals, bet counts and unique bettors for a war
func (r *WarRepository) GetStats(ctx context.Context, warID int64) (*models.WarStats, error) {
	query := `
		SELECT
			w.total_bets_a,
			w.total_bets_b,
			COUNT(b.id) AS bet_count,
			COUNT(DISTINCT b.user_id) AS unique_bettors
		FROM wars w
		LEFT JOIN bets b ON b.war_id = w.id
		WHERE w.id = $1
		GROUP BY w.id, w.total_bets_a, w.total_bets_b
	`

	var stats models.WarStats
	err := r.q.QueryRow(ctx, query, warID).Scan(
		&stats.TotalBetsA,
		&stats.TotalBetsB,
		&stats.BetCount,
		&stats.UniqueBettors,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats for war %d: %w", warID, err)
	}

	stats.TotalPool = stats.TotalBetsA + stats.TotalBetsB
	if stats.TotalBetsA > 0 {
		stats.OddsA = float64(stats.TotalPool) / float64(stats.TotalBetsA)
	}
	if stats.TotalBetsB > 0 {
		stats.OddsB = float64(stats.TotalPool) / float64(stats.TotalBetsB)
	}

	return &stats, nil
}
