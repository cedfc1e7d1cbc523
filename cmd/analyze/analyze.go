// Package analyze contains the command that runs the analytics suite over a
// statement CSV and renders the report.
package analyze

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheusbnas/dashboard-financeiro-AI/cmd/common"
	"github.com/matheusbnas/dashboard-financeiro-AI/cmd/root"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/analytics"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/categorizer"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/logging"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/reader"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/report"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/store"
)

var (
	format string
	method string

	// Cmd is the analyze command.
	Cmd = &cobra.Command{
		Use:   "analyze",
		Short: "Analyze categorized transactions and generate a report",
		Long: `Analyze reads a statement CSV, categorizes any transactions that still
lack a category, then derives monthly insights, fixed costs, anomaly alerts,
a financial health score and a next-month forecast. The report is printed to
stdout or written to the output file.`,
		RunE: run,
	}
)

func init() {
	Cmd.Flags().StringVar(&format, "format", "txt", "Report format (txt or json)")
	Cmd.Flags().StringVar(&method, "method", "", "Forecast method (moving-average, linear-trend, seasonal)")
}

func run(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("input file is required (use --input)")
	}

	cfg := root.Cfg
	forecastMethod := cfg.Forecast.Method
	if method != "" {
		forecastMethod = method
	}
	switch analytics.ForecastMethod(forecastMethod) {
	case analytics.MethodMovingAverage, analytics.MethodLinearTrend, analytics.MethodSeasonal:
	default:
		return fmt.Errorf("unknown forecast method: %s", forecastMethod)
	}

	txs, err := reader.ParseFile(root.SharedFlags.Input, root.Log)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		return fmt.Errorf("no transactions found in %s", root.SharedFlags.Input)
	}

	pipeline, err := common.BuildCategorizer(cfg, root.Log)
	if err != nil {
		return err
	}
	pipeline.Categorize(cmd.Context(), txs, categorizer.Options{})

	ruleFile, err := store.LoadRuleFile(cfg.Rules.File)
	if err != nil {
		return err
	}

	detector := analytics.NewFixedCostDetector(
		cfg.Analytics.MinRecurringMonths, cfg.Analytics.FixedCostVariance, ruleFile)
	fixed := detector.Detect(txs)

	engine := analytics.NewAlertEngine(analytics.AlertThresholds{
		SpikeRatio:     cfg.Analytics.SpikeRatio,
		ZThreshold:     cfg.Analytics.ZThreshold,
		CategoryLimit:  cfg.Analytics.CategoryLimit,
		LowSavingsRate: cfg.Analytics.LowSavingsRate,
		FixedCostDrift: cfg.Analytics.FixedCostVariance,
	})

	forecast, err := analytics.Predict(txs, analytics.ForecastMethod(forecastMethod))
	if err != nil {
		return fmt.Errorf("error forecasting: %w", err)
	}

	doc := &report.AnalysisReport{
		GeneratedAt:  time.Now(),
		Transactions: len(txs),
		Insights:     analytics.Summarize(txs),
		FixedCosts:   fixed,
		Alerts:       engine.Evaluate(txs, fixed),
		Health:       analytics.CalculateHealth(txs),
		Forecast:     forecast,
	}

	out, err := report.NewGenerator(root.Log).Generate(doc, format)
	if err != nil {
		return err
	}

	if root.SharedFlags.Output == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(root.SharedFlags.Output, out, 0o600); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	root.Log.WithField(logging.FieldOutputFile, root.SharedFlags.Output).Info("Report written")
	return nil
}
