package repository

import (
	"context"
	"fmt"

	"trenchwars/database"
	"trenchwars/models"

	"github.com/jackc/pgx/v5"
)

// SettlementRepository implements the service.SettlementRepository interface
type SettlementRepository struct {
	q queryable
}

// NewSettlementRepository creates a new settlement repository
func NewSettlementRepository(db *database.DB) *SettlementRepository {
	return &SettlementRepository{q: db.Pool}
}

// newSettlementRepositoryWithTx creates a new settlement repository with a transaction
func newSettlementRepositoryWithTx(tx queryable) *SettlementRepository {
	return &SettlementRepository{q: tx}
}

// Create persists a settlement record for a war
func (r *SettlementRepository) Create(ctx context.Context, settlement *models.Settlement) error {
	query := `
		INSERT INTO settlements (
			war_id, winner, token_a_change, token_b_change,
			total_pool, platform_fee, distributable_pool, settled_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		settlement.WarID,
		settlement.Winner,
		settlement.TokenAChange,
		settlement.TokenBChange,
		settlement.TotalPool,
		settlement.PlatformFee,
		settlement.DistributablePool,
		settlement.SettledAt,
	).Scan(&settlement.ID)

	if err != nil {
		return fmt.Errorf("failed to create settlement for war %d: %w", settlement.WarID, err)
	}

	return nil
}

// GetByWarID retrieves the settlement for a war, nil if unsettled
func (r *SettlementRepository) GetByWarID(ctx context.Context, warID int64) (*models.Settlement, error) {
	query := `
		SELECT id, war_id, winner, token_a_change, token_b_change,
		       total_pool, platform_fee, distributable_pool, settled_at
		FROM settlements
		WHERE war_id = $1
	`

	var settlement models.Settlement
	err := r.q.QueryRow(ctx, query, warID).Scan(
		&settlement.ID,
		&settlement.WarID,
		&settlement.Winner,
		&settlement.TokenAChange,
		&settlement.TokenBChange,
		&settlement.TotalPool,
		&settlement.PlatformFee,
		&settlement.DistributablePool,
		&settlement.SettledAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement for war %d: %w", warID, err)
	}

	return &settlement, nil
}
