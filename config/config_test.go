package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.Assistant.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Sources.Timeout)
	assert.Equal(t, 50, cfg.Import.BatchSize)
	assert.Equal(t, 20.0, cfg.Financing.DownPayment)
	assert.Equal(t, 3.5, cfg.Financing.InterestRate)
	assert.Equal(t, 30, cfg.Financing.LoanTerm)
	assert.Equal(t, DefaultAssumptions(), cfg.Assumptions)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ACQUISITION_COST_RATE", "0.12")
	t.Setenv("MONTHLY_UPKEEP_RATE", "0.001")
	t.Setenv("ASSISTANT_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 0.12, cfg.Assumptions.AcquisitionCostRate)
	assert.Equal(t, 0.001, cfg.Assumptions.MonthlyUpkeepRate)
	// The annual expense rate is independent from the monthly upkeep rate
	assert.Equal(t, 0.024, cfg.Assumptions.AnnualExpenseRate)
	assert.Equal(t, 5*time.Second, cfg.Assistant.Timeout)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Server.CORSOrigins)
}

func TestLoadConfigInvalidBatchSize(t *testing.T) {
	t.Setenv("IMPORT_BATCH_SIZE", "0")

	_, err := LoadConfig()
	assert.Error(t, err)
}
