// Package categorize contains the command that assigns categories to a
// statement CSV.
package categorize

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matheusbnas/dashboard-financeiro-AI/cmd/common"
	"github.com/matheusbnas/dashboard-financeiro-AI/cmd/root"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/categorizer"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/reader"
)

var (
	force    bool
	provider string

	// Cmd is the categorize command.
	Cmd = &cobra.Command{
		Use:   "categorize",
		Short: "Categorize transactions from a statement CSV",
		Long: `Categorize reads a statement CSV, assigns a category to every
transaction through the cache, the remote classifier and the keyword rules,
and writes the categorized CSV back out.`,
		RunE: run,
	}
)

func init() {
	Cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-categorize transactions that already carry a category")
	Cmd.Flags().StringVarP(&provider, "provider", "p", "", "Override the configured AI provider (groq, openai, gemini)")
}

func run(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("input file is required (use --input)")
	}
	output := root.SharedFlags.Output
	if output == "" {
		output = "categorized.csv"
	}

	cfg := root.Cfg
	if provider != "" {
		cfg.AI.Provider = provider
		cfg.AI.APIKey = "" // re-resolve from the environment for the override
		if err := cfg.ResolveAPIKey(); err != nil {
			return err
		}
	}

	txs, err := reader.ParseFile(root.SharedFlags.Input, root.Log)
	if err != nil {
		return err
	}

	pipeline, err := common.BuildCategorizer(cfg, root.Log)
	if err != nil {
		return err
	}

	pipeline.Categorize(cmd.Context(), txs, categorizer.Options{Force: force})

	return reader.WriteFile(output, txs, root.Log)
}
