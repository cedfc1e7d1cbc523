// Package analytics derives financial-health metrics, anomaly alerts and
// short-horizon forecasts from categorized transaction history. Everything
// here is a pure function of its input: identical history yields identical
// output across runs.
package analytics

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// ErrInsufficientHistory reports that a computation lacks baseline data.
// Checks that need a trailing baseline are skipped when it occurs; it is
// never surfaced as a failure.
var ErrInsufficientHistory = errors.New("insufficient transaction history")

const monthKeyLayout = "2006-01"

// MonthTotals aggregates one calendar month of history.
type MonthTotals struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"` // absolute value
}

// Balance returns income minus expense for the month.
func (m MonthTotals) Balance() decimal.Decimal {
	return m.Income.Sub(m.Expense)
}

// SavingsRate returns (income − expense) / income, or an error when the
// month has no income.
func (m MonthTotals) SavingsRate() (float64, error) {
	if m.Income.IsZero() {
		return 0, ErrInsufficientHistory
	}
	rate, _ := m.Balance().Div(m.Income).Float64()
	return rate, nil
}

// monthlyTotals groups transactions into per-month income and expense
// totals, sorted chronologically.
func monthlyTotals(txs []models.Transaction) []MonthTotals {
	byMonth := make(map[string]*MonthTotals)
	for _, tx := range txs {
		key := tx.MonthKey()
		totals, ok := byMonth[key]
		if !ok {
			totals = &MonthTotals{Month: key}
			byMonth[key] = totals
		}
		if tx.IsExpense() {
			totals.Expense = totals.Expense.Add(tx.AbsAmount())
		} else {
			totals.Income = totals.Income.Add(tx.Amount)
		}
	}

	out := make([]MonthTotals, 0, len(byMonth))
	for _, totals := range byMonth {
		out = append(out, *totals)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// monthlyExpenseSeries returns the expense totals as float64 values in
// chronological order, for the statistical helpers.
func monthlyExpenseSeries(months []MonthTotals) []float64 {
	series := make([]float64, len(months))
	for i, m := range months {
		series[i], _ = m.Expense.Float64()
	}
	return series
}

// nextMonthKey returns the month key following key, or an empty string when
// key does not parse.
func nextMonthKey(key string) string {
	t, err := time.Parse(monthKeyLayout, key)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 1, 0).Format(monthKeyLayout)
}

// monthsAreConsecutive reports whether b is the calendar month right after a.
func monthsAreConsecutive(a, b string) bool {
	return nextMonthKey(a) == b
}

// mean returns the arithmetic mean of the series, zero for empty input.
func mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

// stddev returns the population standard deviation of the series.
func stddev(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	m := mean(series)
	var sum float64
	for _, v := range series {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(series)))
}

// coefficientOfVariation returns stddev/mean, or an error when the mean is
// zero or history is too short to measure spread.
func coefficientOfVariation(series []float64) (float64, error) {
	if len(series) < 2 {
		return 0, ErrInsufficientHistory
	}
	m := mean(series)
	if m == 0 {
		return 0, ErrInsufficientHistory
	}
	return stddev(series) / m, nil
}

// linearTrend fits a least-squares line over the series and returns its
// slope and intercept.
func linearTrend(series []float64) (slope, intercept float64, err error) {
	n := float64(len(series))
	if len(series) < 2 {
		return 0, 0, ErrInsufficientHistory
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0, ErrInsufficientHistory
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept, nil
}
