package models

import "errors"

// Domain errors surfaced by the settlement and betting flows. Handlers map
// these to 4xx responses; anything else is treated as an internal failure.
var (
	// ErrAlreadySettled is returned when settlement is attempted on a war
	// whose is_settled flag is already set, including losing a concurrent
	// settlement race.
	ErrAlreadySettled = errors.New("war is already settled")

	// ErrWarNotEnded is returned when settlement is attempted before the
	// war's end time has passed.
	ErrWarNotEnded = errors.New("war has not ended yet")

	// ErrWarNotSettled is returned when a payout is requested for a war
	// that has not been settled.
	ErrWarNotSettled = errors.New("war is not settled")

	// ErrDegeneratePool is returned when the winning side carries zero
	// stake, which would otherwise divide by zero.
	ErrDegeneratePool = errors.New("no stake on winning side")

	// ErrInvalidStartPrice is returned when a recorded start price is zero
	// or negative, making the price change undefined.
	ErrInvalidStartPrice = errors.New("start price must be positive")

	// ErrDuplicateTransaction is returned when a bet reuses a transaction
	// signature that has already been recorded.
	ErrDuplicateTransaction = errors.New("transaction already processed")

	// ErrAlreadyClaimed is returned when winnings are claimed twice for the
	// same bet.
	ErrAlreadyClaimed = errors.New("winnings already claimed")

	// ErrBettingClosed is returned when a bet is placed on a war that is
	// not accepting bets.
	ErrBettingClosed = errors.New("war is not accepting bets")

	// ErrTieVoided is returned by the claim path when the war tied and the
	// configured tie policy voids payouts instead of refunding stakes.
	ErrTieVoided = errors.New("tie payouts are voided")
)
