package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/analytics"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/logging"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

func sampleReport() *AnalysisReport {
	return &AnalysisReport{
		GeneratedAt:  time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
		Transactions: 42,
		Insights: analytics.MonthlyInsights{
			Months: []analytics.MonthTotals{
				{Month: "2025-03", Income: decimal.NewFromInt(5000), Expense: decimal.NewFromInt(4000)},
			},
			AverageIncome:  decimal.NewFromInt(5000),
			AverageExpense: decimal.NewFromInt(4000),
			BestMonth:      "2025-03",
			WorstMonth:     "2025-03",
			ExpenseTrend:   analytics.TrendStable,
		},
		FixedCosts: analytics.FixedCosts{
			Merchants: map[string]analytics.FixedCostEvidence{
				"aluguel": {
					Merchant:    "aluguel",
					Description: "ALUGUEL",
					Category:    models.CategoryHousing,
					Months:      3,
					Average:     decimal.NewFromInt(1200),
				},
			},
		},
		Alerts: []analytics.Alert{
			{
				Kind:     analytics.AlertLowSavingsRate,
				Severity: analytics.SeverityWarning,
				Period:   "2025-03",
				Message:  "Savings rate in 2025-03 is only 2.0%",
			},
		},
		Health: analytics.HealthScore{
			Score: 72.5,
			Band:  analytics.BandGood,
			Components: []analytics.HealthComponent{
				{Name: "savings_rate", Score: 20, MaxScore: 30, Description: "Average savings rate: 15.0%"},
			},
		},
		Forecast: analytics.Forecast{
			Period:         "2025-04",
			Method:         analytics.MethodMovingAverage,
			PredictedTotal: decimal.NewFromInt(4100),
			PerCategory: map[models.Category]decimal.Decimal{
				models.CategoryMarket: decimal.NewFromInt(1500),
			},
		},
	}
}

func TestGenerator_JSON(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())

	out, err := g.Generate(sampleReport(), "json")
	require.NoError(t, err)

	var decoded AnalysisReport
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, 42, decoded.Transactions)
	assert.Equal(t, analytics.BandGood, decoded.Health.Band)
	assert.Equal(t, "2025-04", decoded.Forecast.Period)
	require.Len(t, decoded.Alerts, 1)
	assert.Equal(t, analytics.AlertLowSavingsRate, decoded.Alerts[0].Kind)
}

func TestGenerator_Text(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())

	out, err := g.Generate(sampleReport(), "txt")
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "FINANCIAL ANALYSIS REPORT")
	assert.Contains(t, text, "Transactions analyzed: 42")
	assert.Contains(t, text, "Score: 72.5/100 - Good")
	assert.Contains(t, text, "[WARNING] Savings rate in 2025-03 is only 2.0%")
	assert.Contains(t, text, "ALUGUEL")
	assert.Contains(t, text, "2025-04 expenses: R$ 4100.00 via moving-average")
}

func TestGenerator_UnknownFormat(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())

	_, err := g.Generate(sampleReport(), "xml")
	assert.Error(t, err)
}

func TestGenerator_LowConfidenceIsVisible(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())
	doc := sampleReport()
	doc.Forecast.LowConfidence = true

	out, err := g.Generate(doc, "txt")
	require.NoError(t, err)
	assert.Contains(t, string(out), "(low confidence)")
}
