package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trenchwars/events"
	"trenchwars/models"
)

type tokenService struct {
	uowFactory UnitOfWorkFactory
}

// NewTokenService creates a new token service
func NewTokenService(uowFactory UnitOfWorkFactory) TokenService {
	return &tokenService{uowFactory: uowFactory}
}

// RegisterToken registers a new token
func (s *tokenService) RegisterToken(ctx context.Context, symbol, name string, price float64, marketCap int64) (*models.Token, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("token symbol cannot be empty")
	}
	if name == "" {
		name = symbol
	}
	if price < 0 {
		return nil, fmt.Errorf("token price cannot be negative")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.TokenRepository().GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to check token symbol: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("token %s already registered", symbol)
	}

	token := &models.Token{
		Symbol:    symbol,
		Name:      name,
		Price:     price,
		MarketCap: marketCap,
	}
	if err := uow.TokenRepository().Create(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return token, nil
}

// GetToken retrieves a token by symbol
func (s *tokenService) GetToken(ctx context.Context, symbol string) (*models.Token, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	token, err := uow.TokenRepository().GetBySymbol(ctx, strings.ToUpper(symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	if token == nil {
		return nil, fmt.Errorf("token %s not found", symbol)
	}

	return token, nil
}

// ListTokens returns all registered tokens
func (s *tokenService) ListTokens(ctx context.Context) ([]*models.Token, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tokens, err := uow.TokenRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}

	return tokens, nil
}

// RecordPrice updates a token's stored price and appends the observation to
// the price history in the same transaction.
func (s *tokenService) RecordPrice(ctx context.Context, symbol string, price, change24h float64) (*models.Token, error) {
	if price <= 0 {
		return nil, fmt.Errorf("price must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	token, err := uow.TokenRepository().GetBySymbol(ctx, strings.ToUpper(symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	if token == nil {
		return nil, fmt.Errorf("token %s not found", symbol)
	}

	if err := uow.TokenRepository().UpdatePrice(ctx, token.ID, price, change24h); err != nil {
		return nil, fmt.Errorf("failed to update token price: %w", err)
	}

	point := &models.PricePoint{
		TokenID:    token.ID,
		Price:      price,
		RecordedAt: time.Now(),
	}
	if err := uow.PriceHistoryRepository().Record(ctx, point); err != nil {
		return nil, fmt.Errorf("failed to record price point: %w", err)
	}

	uow.EventBus().Publish(events.PriceRecordedEvent{
		TokenID: token.ID,
		Symbol:  token.Symbol,
		Price:   price,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	token.Price = price
	token.PriceChange24h = change24h
	return token, nil
}

// GetPriceHistory returns recent price observations for a token
func (s *tokenService) GetPriceHistory(ctx context.Context, symbol string, limit int) ([]*models.PricePoint, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	token, err := uow.TokenRepository().GetBySymbol(ctx, strings.ToUpper(symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	if token == nil {
		return nil, fmt.Errorf("token %s not found", symbol)
	}

	history, err := uow.PriceHistoryRepository().GetHistory(ctx, token.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}

	return history, nil
}
