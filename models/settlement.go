package models

import (
	"fmt"
	"time"
)

// Settlement is the persisted outcome of settling a war: the winner, the
// per-token price changes, and the pool split that all later claims are
// computed from.
type Settlement struct {
	ID                int64     `db:"id" json:"id"`
	WarID             int64     `db:"war_id" json:"war_id"`
	Winner            Winner    `db:"winner" json:"winner"`
	TokenAChange      float64   `db:"token_a_change" json:"token_a_change"`
	TokenBChange      float64   `db:"token_b_change" json:"token_b_change"`
	TotalPool         int64     `db:"total_pool" json:"total_pool"`
	PlatformFee       int64     `db:"platform_fee" json:"platform_fee"`
	DistributablePool int64     `db:"distributable_pool" json:"distributable_pool"`
	SettledAt         time.Time `db:"settled_at" json:"settled_at"`
}

// Outcome is the result of winner determination from price trajectories
type Outcome struct {
	Winner       Winner
	TokenAChange float64
	TokenBChange float64
}

// WinningsPreview is an estimate of what a hypothetical bet would pay out
// if the pool froze in its current shape. It is explicitly not a guarantee:
// later bets reshape the pool before settlement.
type WinningsPreview struct {
	EstimatedWinnings int64   `json:"estimated_winnings"`
	EstimatedProfit   int64   `json:"estimated_profit"`
	CurrentOdds       float64 `json:"current_odds"`
	TotalPool         int64   `json:"total_pool"`
	PlatformFee       int64   `json:"platform_fee"`
}

// PriceChangePercent computes the percentage move from start to end.
// A non-positive start price makes the change undefined and is rejected
// rather than being coerced to zero.
func PriceChangePercent(start, end float64) (float64, error) {
	if start <= 0 {
		return 0, ErrInvalidStartPrice
	}
	return (end - start) / start * 100, nil
}

// DetermineWinner compares the two tokens' percentage price changes.
// The strictly greater change wins; exact equality is a tie.
func DetermineWinner(aStart, aEnd, bStart, bEnd float64) (*Outcome, error) {
	changeA, err := PriceChangePercent(aStart, aEnd)
	if err != nil {
		return nil, err
	}
	changeB, err := PriceChangePercent(bStart, bEnd)
	if err != nil {
		return nil, err
	}

	winner := WinnerTie
	if changeA > changeB {
		winner = WinnerTokenA
	} else if changeB > changeA {
		winner = WinnerTokenB
	}

	return &Outcome{
		Winner:       winner,
		TokenAChange: changeA,
		TokenBChange: changeB,
	}, nil
}

// SplitPool divides a total pool into the platform fee and the distributable
// prize pool. Integer division floors the fee, so fee + distributable always
// equals the pool exactly and no fractional units are ever allocated.
func SplitPool(totalPool int64, feeRateBps int64) (platformFee, distributable int64) {
	platformFee = totalPool * feeRateBps / 10000
	distributable = totalPool - platformFee
	return platformFee, distributable
}

// ProportionalPayout calculates a winning bet's share of the distributable
// pool. Flooring loses at most one smallest unit per bet; the sum of all
// winning payouts never exceeds the distributable pool.
func ProportionalPayout(amount, distributable, winningSideTotal int64) (int64, error) {
	if winningSideTotal <= 0 {
		return 0, ErrDegeneratePool
	}
	return amount * distributable / winningSideTotal, nil
}

// WinningSide maps the settlement's winner to a bet side.
// Returns false for ties.
func (s *Settlement) WinningSide() (BetSide, bool) {
	switch s.Winner {
	case WinnerTokenA:
		return BetSideTokenA, true
	case WinnerTokenB:
		return BetSideTokenB, true
	}
	return "", false
}

// Payout computes this bet's payout under a settled war. Losing bets pay
// zero; ties are handled by the caller's refund policy before reaching here.
func (b *Bet) Payout(settlement *Settlement, winningSideTotal int64) (int64, error) {
	side, ok := settlement.WinningSide()
	if !ok {
		return 0, ErrDegeneratePool
	}
	if b.Side != side {
		return 0, nil
	}
	return ProportionalPayout(b.Amount, settlement.DistributablePool, winningSideTotal)
}

// PreviewWinnings estimates the payout for a hypothetical additional bet of
// amount on choice, against the current pool inflated by that amount. Same
// fee and flooring rules as settlement; read-only by construction.
func PreviewWinnings(totalBetsA, totalBetsB int64, choice BetSide, amount int64, feeRateBps int64) (*WinningsPreview, error) {
	if !choice.Valid() {
		return nil, fmt.Errorf("invalid bet side: %s", choice)
	}

	totalPool := totalBetsA + totalBetsB + amount
	platformFee, distributable := SplitPool(totalPool, feeRateBps)

	winningTotal := totalBetsB + amount
	if choice == BetSideTokenA {
		winningTotal = totalBetsA + amount
	}

	winnings, err := ProportionalPayout(amount, distributable, winningTotal)
	if err != nil {
		return nil, err
	}

	return &WinningsPreview{
		EstimatedWinnings: winnings,
		EstimatedProfit:   winnings - amount,
		CurrentOdds:       float64(distributable) / float64(winningTotal),
		TotalPool:         totalPool,
		PlatformFee:       platformFee,
	}, nil
}
