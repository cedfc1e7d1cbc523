package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// ForecastMethod selects the prediction model.
type ForecastMethod string

const (
	MethodMovingAverage ForecastMethod = "moving-average"
	MethodLinearTrend   ForecastMethod = "linear-trend"
	MethodSeasonal      ForecastMethod = "seasonal"
)

// movingAverageWindow is the number of trailing months the moving average
// looks at.
const movingAverageWindow = 3

// Forecast predicts next-month spending.
type Forecast struct {
	Period         string                              `json:"period"` // month being predicted
	Method         ForecastMethod                      `json:"method"` // method actually used
	PredictedTotal decimal.Decimal                     `json:"predicted_total"`
	PerCategory    map[models.Category]decimal.Decimal `json:"per_category,omitempty"`
	// LowConfidence marks predictions made from under two months of
	// history, where the number is little more than a repeat of the last
	// observation.
	LowConfidence bool `json:"low_confidence"`
}

// Predict forecasts next-month expenses with the requested method, applied
// to the total and to each category's series alike. Methods degrade rather
// than fail: seasonal falls back to the moving average until a full year of
// history exists, and with fewer than two months every method returns the
// last observed total flagged low-confidence. Only an empty history yields
// an error.
func Predict(txs []models.Transaction, method ForecastMethod) (Forecast, error) {
	months := monthlyTotals(txs)
	if len(months) == 0 {
		return Forecast{}, ErrInsufficientHistory
	}

	last := months[len(months)-1]
	forecast := Forecast{
		Period: nextMonthKey(last.Month),
	}

	if len(months) < 2 {
		forecast.Method = MethodMovingAverage
		forecast.PredictedTotal = last.Expense
		forecast.LowConfidence = true
		return forecast, nil
	}

	keys := make([]string, len(months))
	for i, m := range months {
		keys[i] = m.Month
	}

	total, used := predictSeries(monthlyExpenseSeries(months), keys, method)
	forecast.Method = used
	forecast.PredictedTotal = total
	forecast.PerCategory = predictPerCategory(txs, keys, method)
	return forecast, nil
}

// predictSeries runs one monthly series through the requested method and
// reports which method actually produced the number: seasonal falls back to
// the moving average when the series is too short for it.
func predictSeries(series []float64, monthKeys []string, method ForecastMethod) (decimal.Decimal, ForecastMethod) {
	switch method {
	case MethodLinearTrend:
		return predictTrend(series), MethodLinearTrend
	case MethodSeasonal:
		if prediction, ok := predictSeasonal(series, monthKeys); ok {
			return prediction, MethodSeasonal
		}
		return predictMovingAverage(series), MethodMovingAverage
	default:
		return predictMovingAverage(series), MethodMovingAverage
	}
}

// predictMovingAverage averages the trailing window of the series.
func predictMovingAverage(series []float64) decimal.Decimal {
	window := series
	if len(window) > movingAverageWindow {
		window = window[len(window)-movingAverageWindow:]
	}
	return decimal.NewFromFloat(mean(window)).Round(2)
}

// predictTrend extrapolates the least-squares line one step past the series.
func predictTrend(series []float64) decimal.Decimal {
	slope, intercept, err := linearTrend(series)
	if err != nil {
		return predictMovingAverage(series)
	}
	prediction := slope*float64(len(series)) + intercept
	if prediction < 0 {
		prediction = 0
	}
	return decimal.NewFromFloat(prediction).Round(2)
}

// predictSeasonal averages the series values for the same calendar month as
// the forecast period. It needs at least a year of months plus one prior
// observation of that month, otherwise it reports no prediction.
func predictSeasonal(series []float64, monthKeys []string) (decimal.Decimal, bool) {
	if len(monthKeys) < 12 || len(series) != len(monthKeys) {
		return decimal.Zero, false
	}

	target, err := time.Parse(monthKeyLayout, nextMonthKey(monthKeys[len(monthKeys)-1]))
	if err != nil {
		return decimal.Zero, false
	}

	var sum float64
	count := 0
	for i, key := range monthKeys {
		t, err := time.Parse(monthKeyLayout, key)
		if err != nil {
			continue
		}
		if t.Month() == target.Month() {
			sum += series[i]
			count++
		}
	}
	if count == 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(sum / float64(count)).Round(2), true
}

// predictPerCategory applies the selected method to each category's
// zero-filled monthly series over the global month range. Categories with
// fewer than three active months are left out; a bucket too short for the
// seasonal model falls back to its moving average, same as the total.
func predictPerCategory(txs []models.Transaction, monthKeys []string, method ForecastMethod) map[models.Category]decimal.Decimal {
	byCategory := make(map[models.Category]map[string]decimal.Decimal)
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		series, ok := byCategory[tx.Category]
		if !ok {
			series = make(map[string]decimal.Decimal)
			byCategory[tx.Category] = series
		}
		series[tx.MonthKey()] = series[tx.MonthKey()].Add(tx.AbsAmount())
	}

	out := make(map[models.Category]decimal.Decimal)
	for category, byMonth := range byCategory {
		if len(byMonth) < movingAverageWindow {
			continue
		}
		series := make([]float64, len(monthKeys))
		for i, key := range monthKeys {
			series[i], _ = byMonth[key].Float64()
		}
		prediction, _ := predictSeries(series, monthKeys, method)
		out[category] = prediction
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
