package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// expense builds an expense transaction on day 10 of the given month.
func expense(year int, month time.Month, amount float64, description string, category models.Category) models.Transaction {
	tx := models.NewTransaction(
		time.Date(year, month, 10, 0, 0, 0, 0, time.UTC),
		decimal.NewFromFloat(-amount),
		description,
	)
	tx.Category = category
	return tx
}

// income builds an income transaction on day 5 of the given month.
func income(year int, month time.Month, amount float64, description string) models.Transaction {
	tx := models.NewTransaction(
		time.Date(year, month, 5, 0, 0, 0, 0, time.UTC),
		decimal.NewFromFloat(amount),
		description,
	)
	tx.Category = models.CategoryIncome
	return tx
}

func TestMonthlyTotals(t *testing.T) {
	txs := []models.Transaction{
		expense(2025, time.February, 200, "mercado", models.CategoryMarket),
		income(2025, time.January, 5000, "salario"),
		expense(2025, time.January, 1000, "aluguel", models.CategoryHousing),
		expense(2025, time.January, 500, "mercado", models.CategoryMarket),
	}

	months := monthlyTotals(txs)
	require.Len(t, months, 2)

	assert.Equal(t, "2025-01", months[0].Month)
	assert.True(t, months[0].Income.Equal(decimal.NewFromInt(5000)))
	assert.True(t, months[0].Expense.Equal(decimal.NewFromInt(1500)))
	assert.True(t, months[0].Balance().Equal(decimal.NewFromInt(3500)))

	assert.Equal(t, "2025-02", months[1].Month)
	assert.True(t, months[1].Expense.Equal(decimal.NewFromInt(200)))
}

func TestSavingsRate(t *testing.T) {
	m := MonthTotals{
		Month:   "2025-01",
		Income:  decimal.NewFromInt(5000),
		Expense: decimal.NewFromInt(4000),
	}
	rate, err := m.SavingsRate()
	require.NoError(t, err)
	assert.InDelta(t, 0.2, rate, 1e-9)

	noIncome := MonthTotals{Month: "2025-01", Expense: decimal.NewFromInt(100)}
	_, err = noIncome.SavingsRate()
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestNextMonthKey(t *testing.T) {
	assert.Equal(t, "2025-02", nextMonthKey("2025-01"))
	assert.Equal(t, "2026-01", nextMonthKey("2025-12"))
	assert.Equal(t, "", nextMonthKey("garbage"))
}

func TestMonthsAreConsecutive(t *testing.T) {
	assert.True(t, monthsAreConsecutive("2025-01", "2025-02"))
	assert.True(t, monthsAreConsecutive("2025-12", "2026-01"))
	assert.False(t, monthsAreConsecutive("2025-01", "2025-03"))
	assert.False(t, monthsAreConsecutive("2025-02", "2025-01"))
}

func TestLinearTrend(t *testing.T) {
	slope, intercept, err := linearTrend([]float64{100, 110, 120})
	require.NoError(t, err)
	assert.InDelta(t, 10, slope, 1e-9)
	assert.InDelta(t, 100, intercept, 1e-9)

	_, _, err = linearTrend([]float64{100})
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestCoefficientOfVariation(t *testing.T) {
	cv, err := coefficientOfVariation([]float64{100, 100, 100})
	require.NoError(t, err)
	assert.InDelta(t, 0, cv, 1e-9)

	_, err = coefficientOfVariation([]float64{100})
	assert.ErrorIs(t, err, ErrInsufficientHistory)

	_, err = coefficientOfVariation([]float64{0, 0})
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}
