package repository

import (
	"context"
	"fmt"

	"trenchwars/database"
	"trenchwars/models"

	"github.com/jackc/pgx/v5"
)

// TokenRepository implements the service.TokenRepository interface
type TokenRepository struct {
	q queryable
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *database.DB) *TokenRepository {
	return &TokenRepository{q: db.Pool}
}

// newTokenRepositoryWithTx creates a new token repository with a transaction
func newTokenRepositoryWithTx(tx queryable) *TokenRepository {
	return &TokenRepository{q: tx}
}

const tokenColumns = `id, symbol, name, price, price_change_24h, market_cap, created_at, updated_at`

func scanToken(row pgx.Row) (*models.Token, error) {
	var token models.Token
	err := row.Scan(
		&token.ID,
		&token.Symbol,
		&token.Name,
		&token.Price,
		&token.PriceChange24h,
		&token.MarketCap,
		&token.CreatedAt,
		&token.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Create registers a new token
func (r *TokenRepository) Create(ctx context.Context, token *models.Token) error {
	query := `
		INSERT INTO tokens (symbol, name, price, price_change_24h, market_cap)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		token.Symbol,
		token.Name,
		token.Price,
		token.PriceChange24h,
		token.MarketCap,
	).Scan(&token.ID, &token.CreatedAt, &token.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create token %s: %w", token.Symbol, err)
	}

	return nil
}

// GetByID retrieves a token by its ID
func (r *TokenRepository) GetByID(ctx context.Context, id int64) (*models.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE id = $1`

	token, err := scanToken(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token %d: %w", id, err)
	}

	return token, nil
}

// GetBySymbol retrieves a token by its symbol
func (r *TokenRepository) GetBySymbol(ctx context.Context, symbol string) (*models.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE symbol = $1`

	token, err := scanToken(r.q.QueryRow(ctx, query, symbol))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token %s: %w", symbol, err)
	}

	return token, nil
}

// GetAll returns all registered tokens
func (r *TokenRepository) GetAll(ctx context.Context) ([]*models.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens ORDER BY symbol`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*models.Token
	for rows.Next() {
		token, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tokens: %w", err)
	}

	return tokens, nil
}

// UpdatePrice updates a token's current price and 24h change
func (r *TokenRepository) UpdatePrice(ctx context.Context, id int64, price, change24h float64) error {
	query := `
		UPDATE tokens
		SET price = $1, price_change_24h = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.q.Exec(ctx, query, price, change24h, id)
	if err != nil {
		return fmt.Errorf("failed to update price for token %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("token %d not found", id)
	}

	return nil
}
