package models

import "time"

// User represents a bettor identified by their wallet address
type User struct {
	ID            int64     `db:"id" json:"id"`
	WalletAddress string    `db:"wallet_address" json:"wallet_address"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// UserStats aggregates a user's betting record
type UserStats struct {
	WalletAddress   string `json:"wallet_address"`
	TotalBets       int64  `json:"total_bets"`
	TotalWagered    int64  `json:"total_wagered"`
	WarsWon         int64  `json:"wars_won"`
	TotalClaimed    int64  `json:"total_claimed"`
	UnclaimedBets   int64  `json:"unclaimed_bets"`
	ActiveBetAmount int64  `json:"active_bet_amount"`
}
