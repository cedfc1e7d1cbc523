package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// threeMonthHistory spends 100, 110 and 120 in January through March.
func threeMonthHistory() []models.Transaction {
	return []models.Transaction{
		expense(2025, time.January, 100, "mercado", models.CategoryMarket),
		expense(2025, time.February, 110, "mercado", models.CategoryMarket),
		expense(2025, time.March, 120, "mercado", models.CategoryMarket),
	}
}

func TestPredict_MovingAverage(t *testing.T) {
	forecast, err := Predict(threeMonthHistory(), MethodMovingAverage)
	require.NoError(t, err)

	assert.Equal(t, "2025-04", forecast.Period)
	assert.Equal(t, MethodMovingAverage, forecast.Method)
	assert.True(t, forecast.PredictedTotal.Equal(decimal.NewFromInt(110)),
		"got %s", forecast.PredictedTotal)
	assert.False(t, forecast.LowConfidence)
}

func TestPredict_LinearTrend(t *testing.T) {
	forecast, err := Predict(threeMonthHistory(), MethodLinearTrend)
	require.NoError(t, err)

	assert.Equal(t, MethodLinearTrend, forecast.Method)
	predicted, _ := forecast.PredictedTotal.Float64()
	assert.InDelta(t, 130, predicted, 0.01)
}

func TestPredict_SeasonalFallsBackWithoutAYear(t *testing.T) {
	forecast, err := Predict(threeMonthHistory(), MethodSeasonal)
	require.NoError(t, err)

	assert.Equal(t, MethodMovingAverage, forecast.Method)
	assert.True(t, forecast.PredictedTotal.Equal(decimal.NewFromInt(110)))
}

func TestPredict_SeasonalWithFullYear(t *testing.T) {
	var txs []models.Transaction
	// Two full years: every April costs 400, every other month 100.
	for year := 2023; year <= 2024; year++ {
		for month := time.January; month <= time.December; month++ {
			amount := 100.0
			if month == time.April {
				amount = 400
			}
			txs = append(txs, expense(year, month, amount, "mercado", models.CategoryMarket))
		}
	}
	// History ends in March 2025, so the forecast period is April.
	for month := time.January; month <= time.March; month++ {
		txs = append(txs, expense(2025, month, 100, "mercado", models.CategoryMarket))
	}

	forecast, err := Predict(txs, MethodSeasonal)
	require.NoError(t, err)

	assert.Equal(t, MethodSeasonal, forecast.Method)
	assert.Equal(t, "2025-04", forecast.Period)
	assert.True(t, forecast.PredictedTotal.Equal(decimal.NewFromInt(400)),
		"got %s", forecast.PredictedTotal)
}

func TestPredict_SingleMonthIsLowConfidence(t *testing.T) {
	txs := []models.Transaction{
		expense(2025, time.March, 250, "mercado", models.CategoryMarket),
	}

	for _, method := range []ForecastMethod{MethodMovingAverage, MethodLinearTrend, MethodSeasonal} {
		forecast, err := Predict(txs, method)
		require.NoError(t, err)

		assert.True(t, forecast.LowConfidence)
		assert.Equal(t, "2025-04", forecast.Period)
		assert.True(t, forecast.PredictedTotal.Equal(decimal.NewFromInt(250)))
	}
}

func TestPredict_EmptyHistoryFails(t *testing.T) {
	_, err := Predict(nil, MethodMovingAverage)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestPredict_PerCategory(t *testing.T) {
	txs := threeMonthHistory()
	// Food appears in only two months: below the per-category window.
	txs = append(txs,
		expense(2025, time.January, 50, "restaurante", models.CategoryFood),
		expense(2025, time.February, 50, "restaurante", models.CategoryFood),
	)

	forecast, err := Predict(txs, MethodMovingAverage)
	require.NoError(t, err)

	require.Contains(t, forecast.PerCategory, models.CategoryMarket)
	assert.NotContains(t, forecast.PerCategory, models.CategoryFood)
	assert.True(t, forecast.PerCategory[models.CategoryMarket].Equal(decimal.NewFromInt(110)))
}

func TestPredict_PerCategoryFollowsSelectedMethod(t *testing.T) {
	forecast, err := Predict(threeMonthHistory(), MethodLinearTrend)
	require.NoError(t, err)

	// The total and every category bucket come from the same model.
	predicted, _ := forecast.PredictedTotal.Float64()
	assert.InDelta(t, 130, predicted, 0.01)

	require.Contains(t, forecast.PerCategory, models.CategoryMarket)
	perCategory, _ := forecast.PerCategory[models.CategoryMarket].Float64()
	assert.InDelta(t, 130, perCategory, 0.01)
}

func TestPredict_PerCategorySeasonalFallsBackPerBucket(t *testing.T) {
	// Under a year of history the seasonal model cannot run, so both the
	// total and the buckets degrade to the moving average.
	forecast, err := Predict(threeMonthHistory(), MethodSeasonal)
	require.NoError(t, err)

	assert.Equal(t, MethodMovingAverage, forecast.Method)
	require.Contains(t, forecast.PerCategory, models.CategoryMarket)
	assert.True(t, forecast.PerCategory[models.CategoryMarket].Equal(decimal.NewFromInt(110)))
}

func TestPredict_TrendNeverGoesNegative(t *testing.T) {
	txs := []models.Transaction{
		expense(2025, time.January, 300, "mercado", models.CategoryMarket),
		expense(2025, time.February, 150, "mercado", models.CategoryMarket),
		expense(2025, time.March, 10, "mercado", models.CategoryMarket),
	}
	forecast, err := Predict(txs, MethodLinearTrend)
	require.NoError(t, err)

	assert.True(t, forecast.PredictedTotal.GreaterThanOrEqual(decimal.Zero))
}
