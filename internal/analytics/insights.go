package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// TrendDirection labels how a monthly series is moving.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// MonthlyInsights summarizes the month-by-month history for the report.
type MonthlyInsights struct {
	Months            []MonthTotals   `json:"months"`
	AverageIncome     decimal.Decimal `json:"average_income"`
	AverageExpense    decimal.Decimal `json:"average_expense"`
	AverageSavingsPct float64         `json:"average_savings_pct"`
	BestMonth         string          `json:"best_month,omitempty"`  // highest balance
	WorstMonth        string          `json:"worst_month,omitempty"` // lowest balance
	ExpenseTrend      TrendDirection  `json:"expense_trend"`
}

// Summarize computes monthly insights over the categorized history. It never
// fails: with no data it returns a zero summary, with short history the
// trend reports stable.
func Summarize(txs []models.Transaction) MonthlyInsights {
	months := monthlyTotals(txs)
	insights := MonthlyInsights{Months: months, ExpenseTrend: TrendStable}
	if len(months) == 0 {
		return insights
	}

	n := decimal.NewFromInt(int64(len(months)))
	var incomeSum, expenseSum decimal.Decimal
	var savingsSum float64
	savingsMonths := 0
	best, worst := months[0], months[0]

	for _, m := range months {
		incomeSum = incomeSum.Add(m.Income)
		expenseSum = expenseSum.Add(m.Expense)
		if rate, err := m.SavingsRate(); err == nil {
			savingsSum += rate
			savingsMonths++
		}
		if m.Balance().GreaterThan(best.Balance()) {
			best = m
		}
		if m.Balance().LessThan(worst.Balance()) {
			worst = m
		}
	}

	insights.AverageIncome = incomeSum.Div(n)
	insights.AverageExpense = expenseSum.Div(n)
	if savingsMonths > 0 {
		insights.AverageSavingsPct = savingsSum / float64(savingsMonths) * 100
	}
	insights.BestMonth = best.Month
	insights.WorstMonth = worst.Month

	if slope, _, err := linearTrend(monthlyExpenseSeries(months)); err == nil {
		switch {
		case slope > 0:
			insights.ExpenseTrend = TrendIncreasing
		case slope < 0:
			insights.ExpenseTrend = TrendDecreasing
		}
	}

	return insights
}
