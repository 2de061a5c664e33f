package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port string `env:"PORT" envDefault:"3001"`

		// Path of the SQLite file backing the listing repository
		DatabasePath string `env:"DATABASE_PATH" envDefault:"database/estatify.db"`

		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

		// Origins allowed by the CORS middleware
		CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	}

	// Assistant configures the chat-completion provider
	Assistant AssistantConfig

	Sources struct {
		// Upper bound for a single fetch adapter call
		Timeout time.Duration `env:"SOURCE_TIMEOUT" envDefault:"10s"`
	}

	Import struct {
		// Number of listings persisted per batch during an import
		BatchSize int `env:"IMPORT_BATCH_SIZE" envDefault:"50"`
	}

	// Financing holds the defaults used when a projection request omits values
	Financing struct {
		DownPayment  float64 `env:"FINANCING_DOWN_PAYMENT" envDefault:"20"`
		InterestRate float64 `env:"FINANCING_INTEREST_RATE" envDefault:"3.5"`
		LoanTerm     int     `env:"FINANCING_LOAN_TERM" envDefault:"30"`
	}

	Assumptions Assumptions
}

type AssistantConfig struct {
	APIKey      string        `env:"OPENAI_API_KEY"`
	BaseURL     string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	Model       string        `env:"OPENAI_MODEL" envDefault:"gpt-4-turbo-preview"`
	Timeout     time.Duration `env:"ASSISTANT_TIMEOUT" envDefault:"30s"`
	Temperature float64       `env:"ASSISTANT_TEMPERATURE" envDefault:"0.7"`
	MaxTokens   int           `env:"ASSISTANT_MAX_TOKENS" envDefault:"1000"`
}

// Assumptions are the fixed economic policy constants used by the finance
// formulas. MonthlyUpkeepRate and AnnualExpenseRate share a default ratio
// (0.2% x 12 = 2.4%) but are independent settings.
type Assumptions struct {
	// Transaction overhead (fees, taxes) added on top of the purchase price
	AcquisitionCostRate float64 `env:"ACQUISITION_COST_RATE" envDefault:"0.10"`

	// Share of the price spent on upkeep every month, used for cash flow
	MonthlyUpkeepRate float64 `env:"MONTHLY_UPKEEP_RATE" envDefault:"0.002"`

	// Share of the price spent on operating expenses per year, used for the
	// operating ROI
	AnnualExpenseRate float64 `env:"ANNUAL_EXPENSE_RATE" envDefault:"0.024"`

	AppreciationRate float64 `env:"APPRECIATION_RATE" envDefault:"0.03"`
	RentGrowthRate   float64 `env:"RENT_GROWTH_RATE" envDefault:"0.02"`
	ProjectionYears  int     `env:"PROJECTION_YEARS" envDefault:"10"`

	// Fraction of the cash invested that is subtracted from the projected
	// value when estimating equity
	EquityCashFactor float64 `env:"EQUITY_CASH_FACTOR" envDefault:"0.95"`
}

// DefaultAssumptions returns the assumptions with their default values.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		AcquisitionCostRate: 0.10,
		MonthlyUpkeepRate:   0.002,
		AnnualExpenseRate:   0.024,
		AppreciationRate:    0.03,
		RentGrowthRate:      0.02,
		ProjectionYears:     10,
		EquityCashFactor:    0.95,
	}
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Import.BatchSize <= 0 {
		return nil, fmt.Errorf("IMPORT_BATCH_SIZE must be positive, got %d", cfg.Import.BatchSize)
	}
	return cfg, nil
}
