package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/categorizer"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/config"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/logging"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.AI.Enabled = false
	cfg.AI.Provider = config.ProviderGroq
	cfg.Cache.File = filepath.Join(t.TempDir(), "cache.json")
	return cfg
}

func TestBuildCategorizer_DegradedModeWithoutRemote(t *testing.T) {
	logger := logging.NewMockLogger()

	pipeline, err := BuildCategorizer(testConfig(t), logger)
	require.NoError(t, err)

	txs := []models.Transaction{
		models.NewTransaction(
			time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			decimal.NewFromInt(-50),
			"SUPERMERCADO ZAFFARI",
		),
	}
	stats := pipeline.Categorize(context.Background(), txs, categorizer.Options{})

	assert.Equal(t, 1, stats.Rule)
	assert.Equal(t, models.CategoryMarket, txs[0].Category)
	assert.True(t, logger.HasEntry("WARN", "Remote classification disabled, falling back to cache and keyword rules"))
}

func TestBuildCategorizer_MalformedRuleFileFails(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: [unclosed"), 0o644))
	cfg.Rules.File = path

	_, err := BuildCategorizer(cfg, logging.NewMockLogger())
	assert.Error(t, err)
}
