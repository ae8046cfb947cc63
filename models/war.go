package models

import (
	"time"
)

// BetSide identifies which token of a war a bet backs
type BetSide string

const (
	BetSideTokenA BetSide = "token_a"
	BetSideTokenB BetSide = "token_b"
)

// Valid reports whether the side is one of the two recognized values
func (s BetSide) Valid() bool {
	return s == BetSideTokenA || s == BetSideTokenB
}

// Winner represents the outcome of a settled war
type Winner string

const (
	WinnerTokenA Winner = "token_a"
	WinnerTokenB Winner = "token_b"
	WinnerTie    Winner = "tie"
)

// War represents a time-boxed betting contest between two tokens
type War struct {
	ID               int64      `db:"id" json:"id"`
	TokenAID         int64      `db:"token_a_id" json:"token_a_id"`
	TokenBID         int64      `db:"token_b_id" json:"token_b_id"`
	StartTime        time.Time  `db:"start_time" json:"start_time"`
	EndTime          time.Time  `db:"end_time" json:"end_time"`
	TokenAStartPrice float64    `db:"token_a_start_price" json:"token_a_start_price"`
	TokenBStartPrice float64    `db:"token_b_start_price" json:"token_b_start_price"`
	TokenAEndPrice   *float64   `db:"token_a_end_price" json:"token_a_end_price,omitempty"`
	TokenBEndPrice   *float64   `db:"token_b_end_price" json:"token_b_end_price,omitempty"`
	TotalBetsA       int64      `db:"total_bets_a" json:"total_bets_a"`
	TotalBetsB       int64      `db:"total_bets_b" json:"total_bets_b"`
	IsSettled        bool       `db:"is_settled" json:"is_settled"`
	Winner           *Winner    `db:"winner" json:"winner,omitempty"`
	MinBetAmount     int64      `db:"min_bet_amount" json:"min_bet_amount"`
	Description      string     `db:"description" json:"description"`
	CreatorWallet    string     `db:"creator_wallet" json:"creator_wallet"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	SettledAt        *time.Time `db:"settled_at" json:"settled_at,omitempty"`
}

// WarDetail combines a war with its two tokens
type WarDetail struct {
	War    *War   `json:"war"`
	TokenA *Token `json:"token_a"`
	TokenB *Token `json:"token_b"`
}

// WarStats summarizes the betting activity on a war
type WarStats struct {
	TotalBetsA    int64   `json:"total_bets_a"`
	TotalBetsB    int64   `json:"total_bets_b"`
	TotalPool     int64   `json:"total_pool"`
	BetCount      int64   `json:"total_bets"`
	UniqueBettors int64   `json:"unique_bettors"`
	OddsA         float64 `json:"odds_a"`
	OddsB         float64 `json:"odds_b"`
}

// HasStarted checks if the war's betting window has opened
func (w *War) HasStarted(now time.Time) bool {
	return !now.Before(w.StartTime)
}

// HasEnded checks if the war's betting window has closed
func (w *War) HasEnded(now time.Time) bool {
	return !now.Before(w.EndTime)
}

// IsActive checks if the war is inside its betting window and unsettled
func (w *War) IsActive(now time.Time) bool {
	return w.HasStarted(now) && !w.HasEnded(now) && !w.IsSettled
}

// CanAcceptBets checks if a new bet may be recorded against the war
func (w *War) CanAcceptBets(now time.Time) bool {
	return w.IsActive(now)
}

// CanSettle checks if the war is eligible for settlement
func (w *War) CanSettle(now time.Time) bool {
	return w.HasEnded(now) && !w.IsSettled
}

// TotalPool returns the combined stake across both sides
func (w *War) TotalPool() int64 {
	return w.TotalBetsA + w.TotalBetsB
}

// SideTotal returns the accumulated stake on one side
func (w *War) SideTotal(side BetSide) int64 {
	if side == BetSideTokenA {
		return w.TotalBetsA
	}
	return w.TotalBetsB
}

// WinningSide maps a settled winner to the corresponding bet side.
// Returns false for ties and unsettled wars.
func (w *War) WinningSide() (BetSide, bool) {
	if w.Winner == nil {
		return "", false
	}
	switch *w.Winner {
	case WinnerTokenA:
		return BetSideTokenA, true
	case WinnerTokenB:
		return BetSideTokenB, true
	}
	return "", false
}
