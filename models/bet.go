package models

import "time"

// Bet represents one user's stake on one side of a war. Bets are created
// only while the war is active and are never deleted; the claim path is the
// sole mutation after settlement.
type Bet struct {
	ID                   int64     `db:"id" json:"id"`
	UserID               int64     `db:"user_id" json:"user_id"`
	WarID                int64     `db:"war_id" json:"war_id"`
	Amount               int64     `db:"amount" json:"amount"`
	Side                 BetSide   `db:"side" json:"side"`
	TransactionSignature string    `db:"transaction_signature" json:"transaction_signature"`
	IsClaimed            bool      `db:"is_claimed" json:"is_claimed"`
	PayoutAmount         *int64    `db:"payout_amount" json:"payout_amount,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// BetWithWar joins a bet with context from its war, for user-facing listings
type BetWithWar struct {
	Bet          *Bet      `json:"bet"`
	WarEndTime   time.Time `json:"war_end_time"`
	WarIsSettled bool      `json:"war_is_settled"`
	WarWinner    *Winner   `json:"war_winner,omitempty"`
	TokenASymbol string    `json:"token_a_symbol"`
	TokenBSymbol string    `json:"token_b_symbol"`
}

// ClaimResult is returned to the user after a successful claim
type ClaimResult struct {
	BetID        int64  `json:"bet_id"`
	WarID        int64  `json:"war_id"`
	PayoutAmount int64  `json:"payout_amount"`
	Won          bool   `json:"won"`
	Refunded     bool   `json:"refunded"`
	Wallet       string `json:"wallet"`
}
