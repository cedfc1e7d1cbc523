// Package common wires the categorization pipeline for the commands that
// need it.
package common

import (
	"fmt"
	"time"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/categorizer"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/config"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/llm"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/logging"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/store"
)

// BuildCategorizer assembles the full pipeline from configuration: the
// persistent cache, the optional remote classifier and the keyword rules.
// A missing API key is not an error; the pipeline runs degraded on cache
// and rules alone.
func BuildCategorizer(cfg *config.Config, logger logging.Logger) (*categorizer.Categorizer, error) {
	cache := store.NewCategoryCache(cfg.Cache.File, logger)

	ruleFile, err := store.LoadRuleFile(cfg.Rules.File)
	if err != nil {
		return nil, fmt.Errorf("error loading rule file: %w", err)
	}
	rules, err := categorizer.NewRuleClassifierFromFile(ruleFile)
	if err != nil {
		return nil, fmt.Errorf("error building rule classifier: %w", err)
	}

	provider, err := llm.NewProvider(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("error building remote classifier: %w", err)
	}

	var remote categorizer.RemoteClassifier
	if provider != nil {
		timeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
		remote = llm.NewClassifier(provider, timeout, cfg.AI.BatchSize, logger)
	} else {
		logger.Warn("Remote classification disabled, falling back to cache and keyword rules")
	}

	return categorizer.New(cache, remote, rules, logger), nil
}
