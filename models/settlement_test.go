package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceChangePercent(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		end      float64
		expected float64
		wantErr  error
	}{
		{name: "gain", start: 100, end: 120, expected: 20},
		{name: "loss", start: 100, end: 99, expected: -1},
		{name: "flat", start: 0.5, end: 0.5, expected: 0},
		{name: "sub-cent prices", start: 0.0004, end: 0.0005, expected: 25},
		{name: "zero start rejected", start: 0, end: 10, wantErr: ErrInvalidStartPrice},
		{name: "negative start rejected", start: -1, end: 10, wantErr: ErrInvalidStartPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, err := PriceChangePercent(tt.start, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, change, 1e-9)
		})
	}
}

func TestDetermineWinner(t *testing.T) {
	tests := []struct {
		name                   string
		aStart, aEnd           float64
		bStart, bEnd           float64
		expectedWinner         Winner
		expectedChangeA        float64
		expectedChangeB        float64
	}{
		{
			name:   "both up, larger gain wins",
			aStart: 100, aEnd: 120,
			bStart: 100, bEnd: 110,
			expectedWinner:  WinnerTokenA,
			expectedChangeA: 20, expectedChangeB: 10,
		},
		{
			name:   "gain beats loss",
			aStart: 100, aEnd: 120,
			bStart: 100, bEnd: 99,
			expectedWinner:  WinnerTokenA,
			expectedChangeA: 20, expectedChangeB: -1,
		},
		{
			name:   "both down, smaller loss wins",
			aStart: 100, aEnd: 90,
			bStart: 100, bEnd: 95,
			expectedWinner:  WinnerTokenB,
			expectedChangeA: -10, expectedChangeB: -5,
		},
		{
			name:   "exact equality is a tie",
			aStart: 100, aEnd: 110,
			bStart: 200, bEnd: 220,
			expectedWinner:  WinnerTie,
			expectedChangeA: 10, expectedChangeB: 10,
		},
		{
			name:   "both flat is a tie",
			aStart: 100, aEnd: 100,
			bStart: 50, bEnd: 50,
			expectedWinner:  WinnerTie,
			expectedChangeA: 0, expectedChangeB: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := DetermineWinner(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedWinner, outcome.Winner)
			assert.InDelta(t, tt.expectedChangeA, outcome.TokenAChange, 1e-9)
			assert.InDelta(t, tt.expectedChangeB, outcome.TokenBChange, 1e-9)
		})
	}
}

func TestDetermineWinner_InvalidStartPrice(t *testing.T) {
	_, err := DetermineWinner(0, 100, 100, 110)
	assert.ErrorIs(t, err, ErrInvalidStartPrice)

	_, err = DetermineWinner(100, 110, 0, 100)
	assert.ErrorIs(t, err, ErrInvalidStartPrice)
}

func TestDetermineWinner_ScaleInvariance(t *testing.T) {
	// Multiplying all prices by a constant must not change the outcome
	base, err := DetermineWinner(100, 115, 100, 112)
	require.NoError(t, err)

	scaled, err := DetermineWinner(100_000, 115_000, 100_000, 112_000)
	require.NoError(t, err)

	assert.Equal(t, base.Winner, scaled.Winner)
	assert.InDelta(t, base.TokenAChange, scaled.TokenAChange, 1e-9)
	assert.InDelta(t, base.TokenBChange, scaled.TokenBChange, 1e-9)
}

func TestSplitPool(t *testing.T) {
	tests := []struct {
		name                  string
		totalPool             int64
		feeRateBps            int64
		expectedFee           int64
		expectedDistributable int64
	}{
		{name: "3% of 1000", totalPool: 1000, feeRateBps: 300, expectedFee: 30, expectedDistributable: 970},
		{name: "fee floors down", totalPool: 999, feeRateBps: 300, expectedFee: 29, expectedDistributable: 970},
		{name: "zero pool", totalPool: 0, feeRateBps: 300, expectedFee: 0, expectedDistributable: 0},
		{name: "zero fee rate", totalPool: 1000, feeRateBps: 0, expectedFee: 0, expectedDistributable: 1000},
		{name: "pool smaller than fee granularity", totalPool: 3, feeRateBps: 300, expectedFee: 0, expectedDistributable: 3},
		{name: "lamport scale", totalPool: 5_000_000_000, feeRateBps: 300, expectedFee: 150_000_000, expectedDistributable: 4_850_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, distributable := SplitPool(tt.totalPool, tt.feeRateBps)
			assert.Equal(t, tt.expectedFee, fee)
			assert.Equal(t, tt.expectedDistributable, distributable)

			// Conservation: nothing created, nothing lost
			assert.Equal(t, tt.totalPool, fee+distributable)
		})
	}
}

func TestProportionalPayout(t *testing.T) {
	t.Run("concrete scenario", func(t *testing.T) {
		// 1000 pool at 3%: distributable 970; a 200 bet out of 500 on the
		// winning side gets floor(200*970/500) = 388
		fee, distributable := SplitPool(1000, 300)
		require.Equal(t, int64(30), fee)

		payout, err := ProportionalPayout(200, distributable, 500)
		require.NoError(t, err)
		assert.Equal(t, int64(388), payout)
	})

	t.Run("whole side gets whole distributable pool", func(t *testing.T) {
		payout, err := ProportionalPayout(500, 970, 500)
		require.NoError(t, err)
		assert.Equal(t, int64(970), payout)
	})

	t.Run("zero winning total rejected", func(t *testing.T) {
		_, err := ProportionalPayout(200, 970, 0)
		assert.ErrorIs(t, err, ErrDegeneratePool)
	})

	t.Run("payouts never exceed distributable pool", func(t *testing.T) {
		// Flooring each share means the sum can fall short, never overshoot
		bets := []int64{333, 333, 334, 1, 99_999}
		var winningTotal int64
		for _, b := range bets {
			winningTotal += b
		}
		_, distributable := SplitPool(winningTotal+50_000, 250)

		var paid int64
		for _, b := range bets {
			payout, err := ProportionalPayout(b, distributable, winningTotal)
			require.NoError(t, err)
			assert.LessOrEqual(t, payout, distributable)
			paid += payout
		}
		assert.LessOrEqual(t, paid, distributable)
		// Residual from flooring is bounded by one unit per winning bet
		assert.GreaterOrEqual(t, paid, distributable-int64(len(bets)))
	})
}

func TestBetPayout(t *testing.T) {
	settlement := &Settlement{
		Winner:            WinnerTokenA,
		TotalPool:         1000,
		PlatformFee:       30,
		DistributablePool: 970,
	}

	t.Run("winning bet", func(t *testing.T) {
		bet := &Bet{Amount: 200, Side: BetSideTokenA}
		payout, err := bet.Payout(settlement, 500)
		require.NoError(t, err)
		assert.Equal(t, int64(388), payout)
	})

	t.Run("losing bet pays zero", func(t *testing.T) {
		bet := &Bet{Amount: 200, Side: BetSideTokenB}
		payout, err := bet.Payout(settlement, 500)
		require.NoError(t, err)
		assert.Equal(t, int64(0), payout)
	})
}

func TestPreviewWinnings(t *testing.T) {
	t.Run("concrete scenario", func(t *testing.T) {
		// Pool 300/500 plus a new 200 bet on A: total 1000, fee 30,
		// distributable 970, winning total 500
		preview, err := PreviewWinnings(300, 500, BetSideTokenA, 200, 300)
		require.NoError(t, err)

		assert.Equal(t, int64(1000), preview.TotalPool)
		assert.Equal(t, int64(30), preview.PlatformFee)
		assert.Equal(t, int64(388), preview.EstimatedWinnings)
		assert.Equal(t, int64(188), preview.EstimatedProfit)
		assert.InDelta(t, 1.94, preview.CurrentOdds, 1e-9)
	})

	t.Run("first bet on empty war", func(t *testing.T) {
		preview, err := PreviewWinnings(0, 0, BetSideTokenA, 1000, 300)
		require.NoError(t, err)

		// Sole bettor recovers the whole distributable pool
		assert.Equal(t, int64(970), preview.EstimatedWinnings)
		assert.Equal(t, int64(-30), preview.EstimatedProfit)
	})

	t.Run("invalid side rejected", func(t *testing.T) {
		_, err := PreviewWinnings(300, 500, BetSide("token_c"), 200, 300)
		assert.Error(t, err)
	})
}

func TestWarHelpers(t *testing.T) {
	war := &War{TotalBetsA: 300, TotalBetsB: 500}

	assert.Equal(t, int64(800), war.TotalPool())
	assert.Equal(t, int64(300), war.SideTotal(BetSideTokenA))
	assert.Equal(t, int64(500), war.SideTotal(BetSideTokenB))

	_, ok := war.WinningSide()
	assert.False(t, ok)

	winner := WinnerTokenB
	war.Winner = &winner
	side, ok := war.WinningSide()
	assert.True(t, ok)
	assert.Equal(t, BetSideTokenB, side)

	tie := WinnerTie
	war.Winner = &tie
	_, ok = war.WinningSide()
	assert.False(t, ok)
}
