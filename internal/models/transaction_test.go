package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction(t *testing.T) {
	tx := NewTransaction(
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		decimal.NewFromFloat(-150.50),
		"SUPERMERCADO ZAFFARI",
	)

	assert.NotEmpty(t, tx.ID)
	assert.True(t, tx.IsExpense())
	assert.False(t, tx.IsIncome())
	assert.True(t, tx.AbsAmount().Equal(decimal.NewFromFloat(150.50)))
	assert.Equal(t, "2025-03", tx.MonthKey())
	assert.False(t, tx.IsCategorized())

	tx.Category = CategoryMarket
	assert.True(t, tx.IsCategorized())
}

func TestCategory(t *testing.T) {
	assert.True(t, CategoryMarket.Valid())
	assert.True(t, CategoryOther.Valid())
	assert.False(t, Category("Groceries").Valid())
	assert.False(t, Category("").Valid())

	all := AllCategories()
	assert.Len(t, all, 14)
	assert.Equal(t, CategoryFood, all[0])
	assert.Equal(t, CategoryOther, all[len(all)-1])
}

func TestCategorizationStats(t *testing.T) {
	stats := NewCategorizationStats()
	stats.Record(SourcePreset)
	stats.Record(SourceCache)
	stats.Record(SourceCache)
	stats.Record(SourceRemote)
	stats.Record(SourceRule)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 2, stats.Cache)
	assert.Equal(t, 1, stats.Remote)
	assert.Equal(t, 1, stats.Rule)

	// 2 cache hits out of 4 processed.
	assert.InDelta(t, 50.0, stats.CacheHitRate(), 1e-9)
}

func TestCacheHitRate_NoProcessed(t *testing.T) {
	stats := NewCategorizationStats()
	stats.Record(SourcePreset)
	assert.Equal(t, 0.0, stats.CacheHitRate())
}
