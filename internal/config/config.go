package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port         int
	DevMode      bool
	DatabasePath string
	LogLevel     string

	// DefaultTier selects the factor set used when a request does not
	// name one: basic, enhanced or ultimate.
	DefaultTier string

	// HistoryRetentionDays controls how long cached analysis reports are
	// kept before the pruning job removes them.
	HistoryRetentionDays int

	// Model parameter overrides. Zero values fall back to the engine
	// defaults (4% risk-free, 6% market premium, 3% terminal growth).
	RiskFreeRate      float64
	MarketRiskPremium float64
	TerminalGrowth    float64
	IndustryPE        float64
	IndustryPB        float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnvAsInt("PORT", 8080),
		DevMode:              getEnvAsBool("DEV_MODE", false),
		DatabasePath:         getEnv("DATABASE_PATH", "./data/advisor.db"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DefaultTier:          getEnv("DEFAULT_TIER", "basic"),
		HistoryRetentionDays: getEnvAsInt("HISTORY_RETENTION_DAYS", 30),
		RiskFreeRate:         getEnvAsFloat("RISK_FREE_RATE", 0),
		MarketRiskPremium:    getEnvAsFloat("MARKET_RISK_PREMIUM", 0),
		TerminalGrowth:       getEnvAsFloat("TERMINAL_GROWTH", 0),
		IndustryPE:           getEnvAsFloat("INDUSTRY_PE", 0),
		IndustryPB:           getEnvAsFloat("INDUSTRY_PB", 0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}

	switch c.DefaultTier {
	case "basic", "enhanced", "ultimate":
	default:
		return fmt.Errorf("DEFAULT_TIER must be basic, enhanced or ultimate, got %q", c.DefaultTier)
	}

	if c.HistoryRetentionDays < 1 {
		return fmt.Errorf("HISTORY_RETENTION_DAYS must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
