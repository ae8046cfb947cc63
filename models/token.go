package models

import "time"

// Token represents a tradable meme token that wars are fought over
type Token struct {
	ID             int64     `db:"id" json:"id"`
	Symbol         string    `db:"symbol" json:"symbol"`
	Name           string    `db:"name" json:"name"`
	Price          float64   `db:"price" json:"price"`
	PriceChange24h float64   `db:"price_change_24h" json:"price_change_24h"`
	MarketCap      int64     `db:"market_cap" json:"market_cap"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// PricePoint is one observation in a token's price history
type PricePoint struct {
	ID         int64     `db:"id" json:"id"`
	TokenID    int64     `db:"token_id" json:"token_id"`
	Price      float64   `db:"price" json:"price"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}
