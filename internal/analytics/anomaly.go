package analytics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// AlertKind identifies which check produced an alert.
type AlertKind string

const (
	AlertExpenseSpike          AlertKind = "expense_spike"
	AlertUnusualTransaction    AlertKind = "unusual_transaction"
	AlertCategoryConcentration AlertKind = "category_concentration"
	AlertLowSavingsRate        AlertKind = "low_savings_rate"
	AlertFixedCostAnomaly      AlertKind = "fixed_cost_anomaly"
)

// Severity orders alerts for the report.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is one finding from the anomaly checks.
type Alert struct {
	Kind     AlertKind       `json:"kind"`
	Severity Severity        `json:"severity"`
	Period   string          `json:"period,omitempty"`
	Category models.Category `json:"category,omitempty"`
	Message  string          `json:"message"`
	Value    decimal.Decimal `json:"value"`
	Baseline decimal.Decimal `json:"baseline,omitempty"`
}

// AlertThresholds tunes the anomaly checks. Zero values fall back to the
// built-in defaults.
type AlertThresholds struct {
	SpikeRatio     float64 // current month vs trailing average, default 1.5
	ZThreshold     float64 // per-transaction z-score, default 3
	CategoryLimit  float64 // share of monthly expenses, default 0.3
	LowSavingsRate float64 // monthly savings floor, default 0.1
	FixedCostDrift float64 // deviation from a fixed cost's average, default 0.2
}

func (t AlertThresholds) withDefaults() AlertThresholds {
	if t.SpikeRatio <= 0 {
		t.SpikeRatio = 1.5
	}
	if t.ZThreshold <= 0 {
		t.ZThreshold = 3
	}
	if t.CategoryLimit <= 0 {
		t.CategoryLimit = 0.3
	}
	if t.LowSavingsRate <= 0 {
		t.LowSavingsRate = 0.1
	}
	if t.FixedCostDrift <= 0 {
		t.FixedCostDrift = 0.2
	}
	return t
}

// AlertEngine runs the anomaly checks over categorized history.
type AlertEngine struct {
	thresholds AlertThresholds
}

// NewAlertEngine builds an engine with the given thresholds.
func NewAlertEngine(thresholds AlertThresholds) *AlertEngine {
	return &AlertEngine{thresholds: thresholds.withDefaults()}
}

// Evaluate runs every check and returns the alerts sorted critical-first,
// then by period. Only the spike check needs a multi-month baseline and is
// skipped when the history spans fewer than two months; the other checks
// baseline on the transaction distribution or the fixed-cost averages and
// run even over a single dense month.
func (e *AlertEngine) Evaluate(txs []models.Transaction, fixed FixedCosts) []Alert {
	months := monthlyTotals(txs)
	if len(months) == 0 {
		return nil
	}

	var alerts []Alert
	current := months[len(months)-1]

	if len(months) >= 2 {
		alerts = append(alerts, e.checkExpenseSpike(months)...)
	}
	alerts = append(alerts, e.checkUnusualTransactions(txs, current.Month)...)
	alerts = append(alerts, e.checkFixedCostDrift(txs, fixed, current.Month)...)
	alerts = append(alerts, e.checkCategoryConcentration(txs, current)...)
	alerts = append(alerts, e.checkSavingsRate(current)...)

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Severity != alerts[j].Severity {
			return severityRank(alerts[i].Severity) > severityRank(alerts[j].Severity)
		}
		return alerts[i].Period < alerts[j].Period
	})
	return alerts
}

func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// checkExpenseSpike flags the latest month when its spend exceeds the
// trailing average by the spike ratio.
func (e *AlertEngine) checkExpenseSpike(months []MonthTotals) []Alert {
	current := months[len(months)-1]
	baseline := mean(monthlyExpenseSeries(months[:len(months)-1]))
	if baseline == 0 {
		return nil
	}

	currentExpense, _ := current.Expense.Float64()
	if currentExpense <= baseline*e.thresholds.SpikeRatio {
		return nil
	}

	severity := SeverityWarning
	if currentExpense > baseline*e.thresholds.SpikeRatio*1.5 {
		severity = SeverityCritical
	}
	return []Alert{{
		Kind:     AlertExpenseSpike,
		Severity: severity,
		Period:   current.Month,
		Message: fmt.Sprintf("Expenses in %s are %.1fx the previous average",
			current.Month, currentExpense/baseline),
		Value:    current.Expense,
		Baseline: decimal.NewFromFloat(baseline).Round(2),
	}}
}

// checkUnusualTransactions flags current-month expenses whose amount is a
// statistical outlier against the full expense history.
func (e *AlertEngine) checkUnusualTransactions(txs []models.Transaction, currentMonth string) []Alert {
	var history []float64
	for _, tx := range txs {
		if tx.IsExpense() {
			v, _ := tx.AbsAmount().Float64()
			history = append(history, v)
		}
	}
	sd := stddev(history)
	if sd == 0 {
		return nil
	}
	avg := mean(history)

	var alerts []Alert
	for _, tx := range txs {
		if !tx.IsExpense() || tx.MonthKey() != currentMonth {
			continue
		}
		amount, _ := tx.AbsAmount().Float64()
		if (amount-avg)/sd < e.thresholds.ZThreshold {
			continue
		}
		alerts = append(alerts, Alert{
			Kind:     AlertUnusualTransaction,
			Severity: SeverityWarning,
			Period:   currentMonth,
			Category: tx.Category,
			Message: fmt.Sprintf("Transaction %q is far above your usual expense size",
				tx.Description),
			Value:    tx.AbsAmount(),
			Baseline: decimal.NewFromFloat(avg).Round(2),
		})
	}
	return alerts
}

// checkCategoryConcentration flags any category holding more than the limit
// share of the latest month's expenses.
func (e *AlertEngine) checkCategoryConcentration(txs []models.Transaction, current MonthTotals) []Alert {
	if current.Expense.IsZero() {
		return nil
	}

	byCategory := make(map[models.Category]decimal.Decimal)
	for _, tx := range txs {
		if tx.IsExpense() && tx.MonthKey() == current.Month {
			byCategory[tx.Category] = byCategory[tx.Category].Add(tx.AbsAmount())
		}
	}

	var alerts []Alert
	for _, category := range models.AllCategories() {
		total, ok := byCategory[category]
		if !ok {
			continue
		}
		share, _ := total.Div(current.Expense).Float64()
		if share <= e.thresholds.CategoryLimit {
			continue
		}
		alerts = append(alerts, Alert{
			Kind:     AlertCategoryConcentration,
			Severity: SeverityInfo,
			Period:   current.Month,
			Category: category,
			Message: fmt.Sprintf("%s holds %.0f%% of this month's expenses",
				category, share*100),
			Value:    total,
			Baseline: current.Expense,
		})
	}
	return alerts
}

// checkSavingsRate flags the latest month when savings fall below the floor.
// A negative rate (spending above income) is critical.
func (e *AlertEngine) checkSavingsRate(current MonthTotals) []Alert {
	rate, err := current.SavingsRate()
	if err != nil || rate >= e.thresholds.LowSavingsRate {
		return nil
	}

	severity := SeverityWarning
	message := fmt.Sprintf("Savings rate in %s is only %.1f%%", current.Month, rate*100)
	if rate < 0 {
		severity = SeverityCritical
		message = fmt.Sprintf("Expenses in %s exceeded income", current.Month)
	}
	return []Alert{{
		Kind:     AlertLowSavingsRate,
		Severity: severity,
		Period:   current.Month,
		Message:  message,
		Value:    current.Balance(),
		Baseline: current.Income,
	}}
}

// checkFixedCostDrift flags fixed-cost merchants whose current-month charge
// drifts from their historical average by more than the tolerance.
func (e *AlertEngine) checkFixedCostDrift(txs []models.Transaction, fixed FixedCosts, currentMonth string) []Alert {
	var alerts []Alert
	for _, tx := range txs {
		if !tx.IsExpense() || tx.MonthKey() != currentMonth {
			continue
		}
		ev, ok := fixed.IsFixed(tx)
		if !ok || ev.Average.IsZero() {
			continue
		}
		drift, _ := tx.AbsAmount().Sub(ev.Average).Abs().Div(ev.Average).Float64()
		if drift <= e.thresholds.FixedCostDrift {
			continue
		}
		alerts = append(alerts, Alert{
			Kind:     AlertFixedCostAnomaly,
			Severity: SeverityWarning,
			Period:   currentMonth,
			Category: ev.Category,
			Message: fmt.Sprintf("Recurring charge %q moved %.0f%% from its usual amount",
				tx.Description, drift*100),
			Value:    tx.AbsAmount(),
			Baseline: ev.Average,
		})
	}
	return alerts
}
