// Package report renders the analysis results for humans and machines: an
// indented JSON document for downstream tooling and a plain-text summary for
// the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/analytics"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/logging"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// AnalysisReport bundles every analysis output into one document.
type AnalysisReport struct {
	GeneratedAt  time.Time                 `json:"generated_at"`
	Transactions int                       `json:"transactions"`
	Insights     analytics.MonthlyInsights `json:"insights"`
	FixedCosts   analytics.FixedCosts      `json:"fixed_costs"`
	Alerts       []analytics.Alert         `json:"alerts"`
	Health       analytics.HealthScore     `json:"health"`
	Forecast     analytics.Forecast        `json:"forecast"`
}

// Generator renders an AnalysisReport in the supported formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a report generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Generator{
		logger: logger.WithField(logging.FieldComponent, "report"),
	}
}

// Generate renders the report in the given format (json or txt). It returns
// an error for unknown formats.
func (g *Generator) Generate(report *AnalysisReport, format string) ([]byte, error) {
	switch format {
	case "json":
		return g.generateJSON(report)
	case "txt":
		return g.generateText(report), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(report *AnalysisReport) ([]byte, error) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return out, nil
}

func (g *Generator) generateText(report *AnalysisReport) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "FINANCIAL ANALYSIS REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Transactions analyzed: %d\n", report.Transactions)

	b.WriteString("\nMONTHLY SUMMARY\n")
	for _, m := range report.Insights.Months {
		fmt.Fprintf(&b, "  %s  income %s  expenses %s  balance %s\n",
			m.Month, money(m.Income), money(m.Expense), money(m.Balance()))
	}
	fmt.Fprintf(&b, "  Average income:  %s\n", money(report.Insights.AverageIncome))
	fmt.Fprintf(&b, "  Average expense: %s\n", money(report.Insights.AverageExpense))
	if report.Insights.BestMonth != "" {
		fmt.Fprintf(&b, "  Best month: %s, worst month: %s\n",
			report.Insights.BestMonth, report.Insights.WorstMonth)
	}
	fmt.Fprintf(&b, "  Expense trend: %s\n", report.Insights.ExpenseTrend)

	b.WriteString("\nFINANCIAL HEALTH\n")
	fmt.Fprintf(&b, "  Score: %.1f/100 - %s\n", report.Health.Score, report.Health.Band)
	for _, c := range report.Health.Components {
		fmt.Fprintf(&b, "  %-22s %5.1f/%g  %s\n", c.Name, c.Score, c.MaxScore, c.Description)
	}

	if len(report.Alerts) > 0 {
		b.WriteString("\nALERTS\n")
		for _, a := range report.Alerts {
			fmt.Fprintf(&b, "  [%s] %s\n", strings.ToUpper(string(a.Severity)), a.Message)
		}
	}

	if len(report.FixedCosts.Merchants) > 0 {
		b.WriteString("\nFIXED COSTS\n")
		for _, category := range sortedCategories(report.FixedCosts) {
			for _, ev := range report.FixedCosts.Categories()[category] {
				fmt.Fprintf(&b, "  %-14s %s (avg %s/month)\n",
					category, ev.Description, money(ev.Average))
			}
		}
	}

	b.WriteString("\nFORECAST\n")
	confidence := ""
	if report.Forecast.LowConfidence {
		confidence = " (low confidence)"
	}
	fmt.Fprintf(&b, "  %s expenses: %s via %s%s\n", report.Forecast.Period,
		money(report.Forecast.PredictedTotal), report.Forecast.Method, confidence)
	for _, category := range models.AllCategories() {
		if prediction, ok := report.Forecast.PerCategory[category]; ok {
			fmt.Fprintf(&b, "    %-14s %s\n", category, money(prediction))
		}
	}

	return []byte(b.String())
}

func sortedCategories(fixed analytics.FixedCosts) []models.Category {
	grouped := fixed.Categories()
	categories := make([]models.Category, 0, len(grouped))
	for category := range grouped {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	return categories
}

func money(v decimal.Decimal) string {
	return "R$ " + v.StringFixed(2)
}
