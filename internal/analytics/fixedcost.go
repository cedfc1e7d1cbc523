package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/categorizer"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/store"
)

// defaultFixedCostPatterns are description substrings that mark an expense
// as a recurring fixed cost regardless of its statistical profile, keyed by
// the category the match implies.
var defaultFixedCostPatterns = map[models.Category][]string{
	models.CategoryHousing:   {"ALUGUEL", "CONDOMINIO", "FERREIRA IMOVEIS"},
	models.CategoryEducation: {"ESCOLA DE EDUCACAO", "GREMIO NAUTICO"},
	models.CategoryPhone:     {"CLARO", "TIM SA", "VIVO"},
	models.CategoryHealth:    {"PLANO DE SAUDE", "UNIMED"},
}

// FixedCostEvidence records why a merchant was flagged as a fixed cost.
type FixedCostEvidence struct {
	Merchant    string          `json:"merchant"` // normalized description
	Description string          `json:"description"`
	Category    models.Category `json:"category"`
	Months      int             `json:"months"`    // consecutive months observed
	Average     decimal.Decimal `json:"average"`   // mean monthly amount over the run
	Variation   float64         `json:"variation"` // max relative deviation from the mean
	ByPattern   bool            `json:"by_pattern"`
}

// FixedCosts maps flagged merchants (by normalized description) to their
// evidence.
type FixedCosts struct {
	Merchants map[string]FixedCostEvidence `json:"merchants"`
}

// Categories groups the evidence per category, each slice sorted by
// merchant for stable output.
func (f FixedCosts) Categories() map[models.Category][]FixedCostEvidence {
	out := make(map[models.Category][]FixedCostEvidence)
	for _, ev := range f.Merchants {
		out[ev.Category] = append(out[ev.Category], ev)
	}
	for _, evs := range out {
		sort.Slice(evs, func(i, j int) bool { return evs[i].Merchant < evs[j].Merchant })
	}
	return out
}

// IsFixed reports whether a transaction belongs to a flagged merchant and
// returns its evidence.
func (f FixedCosts) IsFixed(tx models.Transaction) (FixedCostEvidence, bool) {
	ev, ok := f.Merchants[categorizer.Fingerprint(tx.Description)]
	return ev, ok
}

// FixedCostDetector flags recurring-expense merchants, either by configured
// pattern or by low month-to-month variance over consecutive months.
type FixedCostDetector struct {
	patterns      map[models.Category][]string
	minMonths     int
	varianceRatio float64
}

// NewFixedCostDetector builds a detector with the built-in patterns,
// requiring minMonths consecutive months within varianceRatio of the mean
// for the statistical rule. A rule file may override the patterns.
func NewFixedCostDetector(minMonths int, varianceRatio float64, rules *store.RuleFile) *FixedCostDetector {
	patterns := defaultFixedCostPatterns
	if rules != nil && len(rules.FixedCostPatterns) > 0 {
		patterns = make(map[models.Category][]string, len(rules.FixedCostPatterns))
		for name, keywords := range rules.FixedCostPatterns {
			patterns[models.Category(name)] = keywords
		}
	}
	if minMonths < 2 {
		minMonths = 3
	}
	if varianceRatio <= 0 {
		varianceRatio = 0.2
	}
	return &FixedCostDetector{
		patterns:      patterns,
		minMonths:     minMonths,
		varianceRatio: varianceRatio,
	}
}

// Detect flags fixed-cost merchants across the expense history. Output is a
// pure function of the input.
func (d *FixedCostDetector) Detect(txs []models.Transaction) FixedCosts {
	fixed := FixedCosts{Merchants: make(map[string]FixedCostEvidence)}

	type merchantHistory struct {
		description string
		category    models.Category
		byMonth     map[string]decimal.Decimal
	}
	merchants := make(map[string]*merchantHistory)

	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		key := categorizer.Fingerprint(tx.Description)
		hist, ok := merchants[key]
		if !ok {
			hist = &merchantHistory{
				description: tx.Description,
				category:    tx.Category,
				byMonth:     make(map[string]decimal.Decimal),
			}
			merchants[key] = hist
		}
		hist.byMonth[tx.MonthKey()] = hist.byMonth[tx.MonthKey()].Add(tx.AbsAmount())

		// Rule (a): pattern override wins immediately.
		if category, ok := d.matchPattern(tx.Description); ok {
			fixed.Merchants[key] = FixedCostEvidence{
				Merchant:    key,
				Description: tx.Description,
				Category:    category,
				ByPattern:   true,
			}
		}
	}

	// Rule (b): statistical recurrence for everything not already flagged.
	for key, hist := range merchants {
		if ev, ok := fixed.Merchants[key]; ok {
			// Fill the pattern evidence with the observed run.
			months, avg, variation := d.bestRun(hist.byMonth)
			ev.Months = months
			ev.Average = avg
			ev.Variation = variation
			fixed.Merchants[key] = ev
			continue
		}

		months, avg, variation := d.bestRun(hist.byMonth)
		if months >= d.minMonths && variation <= d.varianceRatio {
			fixed.Merchants[key] = FixedCostEvidence{
				Merchant:    key,
				Description: hist.description,
				Category:    hist.category,
				Months:      months,
				Average:     avg,
				Variation:   variation,
			}
		}
	}

	return fixed
}

func (d *FixedCostDetector) matchPattern(description string) (models.Category, bool) {
	upper := strings.ToUpper(description)
	for category, patterns := range d.patterns {
		for _, pattern := range patterns {
			if strings.Contains(upper, strings.ToUpper(pattern)) {
				return category, true
			}
		}
	}
	return "", false
}

// bestRun finds the longest run of consecutive months for a merchant and
// returns its length, mean monthly amount and max relative deviation from
// that mean.
func (d *FixedCostDetector) bestRun(byMonth map[string]decimal.Decimal) (int, decimal.Decimal, float64) {
	if len(byMonth) == 0 {
		return 0, decimal.Zero, 0
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	bestStart, bestLen := 0, 1
	runStart, runLen := 0, 1
	for i := 1; i < len(months); i++ {
		if monthsAreConsecutive(months[i-1], months[i]) {
			runLen++
		} else {
			runStart, runLen = i, 1
		}
		if runLen > bestLen {
			bestStart, bestLen = runStart, runLen
		}
	}

	run := months[bestStart : bestStart+bestLen]
	var sum decimal.Decimal
	for _, m := range run {
		sum = sum.Add(byMonth[m])
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(run))))

	var variation float64
	if !avg.IsZero() {
		for _, m := range run {
			dev, _ := byMonth[m].Sub(avg).Abs().Div(avg).Float64()
			variation = math.Max(variation, dev)
		}
	}

	return bestLen, avg, variation
}
