package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// HealthBand classifies the final health score.
type HealthBand string

const (
	BandExcellent HealthBand = "Excellent"
	BandGood      HealthBand = "Good"
	BandRegular   HealthBand = "Regular"
	BandPoor      HealthBand = "Poor"
	BandCritical  HealthBand = "Critical"
)

// HealthComponent is one scored dimension of financial health.
type HealthComponent struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	MaxScore    float64 `json:"max_score"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// HealthScore is the 0-100 composite with its component breakdown.
type HealthScore struct {
	Score      float64           `json:"score"`
	Band       HealthBand        `json:"band"`
	Components []HealthComponent `json:"components"`
}

// CalculateHealth scores the history on four dimensions: savings rate (or
// expense control when the data carries no income), category
// diversification, month-to-month stability and large-transaction control.
// The result is always within [0, 100].
func CalculateHealth(txs []models.Transaction) HealthScore {
	if len(txs) == 0 {
		return HealthScore{Band: BandCritical}
	}

	months := monthlyTotals(txs)
	var components []HealthComponent
	var total, max float64

	savings := scoreSavings(months)
	components = append(components, savings)
	total += savings.Score
	max += savings.MaxScore

	diversification := scoreDiversification(txs)
	components = append(components, diversification)
	total += diversification.Score
	max += diversification.MaxScore

	stability := scoreStability(months)
	components = append(components, stability)
	total += stability.Score
	max += stability.MaxScore

	large := scoreLargeTransactions(txs)
	components = append(components, large)
	total += large.Score
	max += large.MaxScore

	score := total / max * 100
	return HealthScore{
		Score:      score,
		Band:       bandFor(score),
		Components: components,
	}
}

func bandFor(score float64) HealthBand {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 65:
		return BandGood
	case score >= 50:
		return BandRegular
	case score >= 35:
		return BandPoor
	default:
		return BandCritical
	}
}

// scoreSavings awards up to 30 points for the mean monthly savings rate.
// Card-only data with no income is scored on expense variability instead,
// so a statement export without salary deposits still gets a meaningful
// number.
func scoreSavings(months []MonthTotals) HealthComponent {
	var rates []float64
	for _, m := range months {
		if rate, err := m.SavingsRate(); err == nil {
			rates = append(rates, rate*100)
		}
	}

	if len(rates) > 0 {
		avg := mean(rates)
		var score float64
		switch {
		case avg >= 20:
			score = 30
		case avg >= 10:
			score = 20
		case avg >= 0:
			score = 10
		}
		return HealthComponent{
			Name:        "savings_rate",
			Score:       score,
			MaxScore:    30,
			Value:       avg,
			Description: fmt.Sprintf("Average savings rate: %.1f%%", avg),
		}
	}

	// No income in the data set.
	cv, err := coefficientOfVariation(monthlyExpenseSeries(months))
	if err != nil {
		return HealthComponent{
			Name:        "expense_control",
			Score:       15,
			MaxScore:    30,
			Description: "Not enough history to measure spending control",
		}
	}

	var score float64
	switch {
	case cv <= 0.15:
		score = 30
	case cv <= 0.25:
		score = 20
	case cv <= 0.35:
		score = 15
	default:
		score = 10
	}
	return HealthComponent{
		Name:        "expense_control",
		Score:       score,
		MaxScore:    30,
		Value:       cv,
		Description: fmt.Sprintf("Monthly expense variability: %.2f (lower is better)", cv),
	}
}

// scoreDiversification awards up to 20 points for how evenly expenses spread
// across categories, via the Gini coefficient of the category shares. An
// even spread scores high; one dominant category scores low.
func scoreDiversification(txs []models.Transaction) HealthComponent {
	byCategory := make(map[models.Category]float64)
	var totalExpense float64
	for _, tx := range txs {
		if tx.IsExpense() {
			v, _ := tx.AbsAmount().Float64()
			byCategory[tx.Category] += v
			totalExpense += v
		}
	}
	if totalExpense == 0 {
		return HealthComponent{Name: "diversification", MaxScore: 20,
			Description: "No expenses to analyze"}
	}

	shares := make([]float64, 0, len(byCategory))
	for _, v := range byCategory {
		shares = append(shares, v/totalExpense)
	}
	gini := giniCoefficient(shares)
	score := math.Max(0, 20*(1-gini))
	return HealthComponent{
		Name:        "diversification",
		Score:       score,
		MaxScore:    20,
		Value:       gini,
		Description: fmt.Sprintf("Spending diversification: %.1f%%", (1-gini)*100),
	}
}

// scoreStability awards up to 25 points for low month-to-month expense
// variation, once at least three months are available.
func scoreStability(months []MonthTotals) HealthComponent {
	if len(months) < 3 {
		return HealthComponent{Name: "stability", MaxScore: 25,
			Description: "Not enough months to measure stability"}
	}

	cv, err := coefficientOfVariation(monthlyExpenseSeries(months))
	if err != nil {
		return HealthComponent{Name: "stability", MaxScore: 25,
			Description: "Not enough months to measure stability"}
	}

	var score float64
	switch {
	case cv <= 0.1:
		score = 25
	case cv <= 0.2:
		score = 20
	case cv <= 0.3:
		score = 15
	default:
		score = 10
	}
	return HealthComponent{
		Name:        "stability",
		Score:       score,
		MaxScore:    25,
		Value:       cv,
		Description: fmt.Sprintf("Monthly variation coefficient: %.2f", cv),
	}
}

// scoreLargeTransactions awards up to 25 points for keeping outsized
// expenses rare: the share of expenses above the 95th percentile.
func scoreLargeTransactions(txs []models.Transaction) HealthComponent {
	var amounts []float64
	for _, tx := range txs {
		if tx.IsExpense() {
			v, _ := tx.AbsAmount().Float64()
			amounts = append(amounts, v)
		}
	}
	if len(amounts) == 0 {
		return HealthComponent{Name: "large_expense_control", MaxScore: 25,
			Description: "No expenses to analyze"}
	}

	threshold := quantile(amounts, 0.95)
	large := 0
	for _, v := range amounts {
		if v > threshold {
			large++
		}
	}
	ratio := float64(large) / float64(len(amounts))

	var score float64
	switch {
	case ratio <= 0.02:
		score = 25
	case ratio <= 0.05:
		score = 20
	case ratio <= 0.10:
		score = 15
	default:
		score = 10
	}
	return HealthComponent{
		Name:        "large_expense_control",
		Score:       score,
		MaxScore:    25,
		Value:       ratio,
		Description: fmt.Sprintf("Large transactions: %.1f%% of expenses", ratio*100),
	}
}

// giniCoefficient measures inequality over the shares: 0 is a perfectly even
// spread, values near 1 mean one share dominates.
func giniCoefficient(shares []float64) float64 {
	n := len(shares)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, shares)
	sort.Float64s(sorted)

	var weighted, sum float64
	for i, v := range sorted {
		weighted += float64(2*(i+1)-n-1) * v
		sum += v
	}
	if sum == 0 {
		return 0
	}
	return weighted / (float64(n) * sum)
}

// quantile returns the q-th quantile of the values using linear
// interpolation between the closest ranks.
func quantile(values []float64, q float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
