package repository

import (
	"context"
	"fmt"

	"trenchwars/database"
	"trenchwars/models"
)

// PriceHistoryRepository implements the service.PriceHistoryRepository interface
type PriceHistoryRepository struct {
	q queryable
}

// NewPriceHistoryRepository creates a new price history repository
func NewPriceHistoryRepository(db *database.DB) *PriceHistoryRepository {
	return &PriceHistoryRepository{q: db.Pool}
}

// newPriceHistoryRepositoryWithTx creates a new price history repository with a transaction
func newPriceHistoryRepositoryWithTx(tx queryable) *PriceHistoryRepository {
	return &PriceHistoryRepository{q: tx}
}

// Record appends a price observation for a token
func (r *PriceHistoryRepository) Record(ctx context.Context, point *models.PricePoint) error {
	query := `
		INSERT INTO price_history (token_id, price)
		VALUES ($1, $2)
		RETURNING id, recorded_at
	`

	err := r.q.QueryRow(ctx, query, point.TokenID, point.Price).Scan(&point.ID, &point.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to record price for token %d: %w", point.TokenID, err)
	}

	return nil
}

// GetHistory returns the most recent observations for a token
func (r *PriceHistoryRepository) GetHistory(ctx context.Context, tokenID int64, limit int) ([]*models.PricePoint, error) {
	query := `
		SELECT id, token_id, price, recorded_at
		FROM price_history
		WHERE token_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, tokenID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history for token %d: %w", tokenID, err)
	}
	defer rows.Close()

	var points []*models.PricePoint
	for rows.Next() {
		var point models.PricePoint
		err := rows.Scan(&point.ID, &point.TokenID, &point.Price, &point.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		points = append(points, &point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate price points: %w", err)
	}

	return points, nil
}
