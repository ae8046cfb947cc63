package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// TiePolicy determines how claims behave when a war ends in an exact tie
type TiePolicy string

const (
	// TiePolicyRefund returns each stake 1:1 with no fee taken
	TiePolicyRefund TiePolicy = "refund"
	// TiePolicyVoid rejects all claims on a tied war
	TiePolicyVoid TiePolicy = "void"
)

// Config holds all application configuration
type Config struct {
	// HTTP server configuration
	Port        int
	CORSOrigins []string

	// Database configuration
	DatabaseURL string

	// Settlement configuration
	FeeRateBps int64     // platform fee in basis points, taken at settlement
	TiePolicy  TiePolicy // claim behavior on tied wars

	// Betting configuration
	MinBetAmount   int64 // floor for war-level minimum bets, in lamports
	MaxWarDuration int   // maximum war duration in hours

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Settlement defaults: 3% fee, stake refund on ties
		FeeRateBps: 300,
		TiePolicy:  TiePolicyRefund,

		// Betting defaults: 0.001 SOL minimum, 1 week maximum duration
		MinBetAmount:   1_000_000,
		MaxWarDuration: 168,

		// HTTP defaults
		Port: 8080,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if port := os.Getenv("PORT"); port != "" {
		parsedPort, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		config.Port = parsedPort
	}
	if feeBps := os.Getenv("FEE_RATE_BPS"); feeBps != "" {
		parsedFee, err := strconv.ParseInt(feeBps, 10, 64)
		if err != nil || parsedFee < 0 || parsedFee > 10000 {
			return nil, fmt.Errorf("FEE_RATE_BPS must be an integer in [0, 10000], got %q", feeBps)
		}
		config.FeeRateBps = parsedFee
	}
	if minBet := os.Getenv("MIN_BET_AMOUNT"); minBet != "" {
		if parsedMinBet, err := strconv.ParseInt(minBet, 10, 64); err == nil {
			config.MinBetAmount = parsedMinBet
		}
	}
	if tiePolicy := os.Getenv("TIE_POLICY"); tiePolicy != "" {
		switch TiePolicy(tiePolicy) {
		case TiePolicyRefund, TiePolicyVoid:
			config.TiePolicy = TiePolicy(tiePolicy)
		default:
			return nil, fmt.Errorf("TIE_POLICY must be %q or %q, got %q", TiePolicyRefund, TiePolicyVoid, tiePolicy)
		}
	}

	// Parse CORS origins
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				config.CORSOrigins = append(config.CORSOrigins, origin)
			}
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
