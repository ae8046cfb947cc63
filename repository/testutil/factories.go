package testutil

import (
	"fmt"
	"time"

	"trenchwars/models"

	"github.com/google/uuid"
)

// CreateTestToken creates a test token with default values
func CreateTestToken(symbol string, price float64) *models.Token {
	return &models.Token{
		Symbol:    symbol,
		Name:      fmt.Sprintf("%s Coin", symbol),
		Price:     price,
		MarketCap: 1_000_000_000,
	}
}

// CreateTestWar creates an active test war with sensible defaults
func CreateTestWar(tokenAID, tokenBID int64, aStart, bStart float64) *models.War {
	now := time.Now()
	return &models.War{
		TokenAID:         tokenAID,
		TokenBID:         tokenBID,
		StartTime:        now.Add(-1 * time.Hour),
		EndTime:          now.Add(23 * time.Hour),
		TokenAStartPrice: aStart,
		TokenBStartPrice: bStart,
		MinBetAmount:     1_000_000,
		Description:      "test war",
		CreatorWallet:    "test-creator-wallet",
	}
}

// CreateEndedTestWar creates a test war whose betting window has closed
func CreateEndedTestWar(tokenAID, tokenBID int64, aStart, bStart float64) *models.War {
	war := CreateTestWar(tokenAID, tokenBID, aStart, bStart)
	war.StartTime = time.Now().Add(-25 * time.Hour)
	war.EndTime = time.Now().Add(-1 * time.Hour)
	return war
}

// CreateTestBet creates a test bet with a unique transaction signature
func CreateTestBet(userID, warID int64, side models.BetSide, amount int64) *models.Bet {
	return &models.Bet{
		UserID:               userID,
		WarID:                warID,
		Amount:               amount,
		Side:                 side,
		TransactionSignature: UniqueSignature(),
	}
}

// UniqueSignature returns a transaction signature that will not collide with
// any other bet created in the same test run.
func UniqueSignature() string {
	return fmt.Sprintf("sig-%s", uuid.NewString())
}

// UniqueWallet returns a wallet address unique within the test run
func UniqueWallet() string {
	return fmt.Sprintf("wallet-%s", uuid.NewString())
}
