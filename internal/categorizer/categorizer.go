// Package categorizer ties the categorization pipeline together: persistent
// cache lookup, batched remote classification and the deterministic keyword
// rule fallback. The pipeline never fails a transaction; every record leaves
// with a category from the fixed taxonomy.
package categorizer

import (
	"context"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/logging"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// remoteConfidence is recorded on cache entries written from remote results.
const remoteConfidence = 0.9

// Cache is the persistent fingerprint→category store consumed by the
// orchestrator. *store.CategoryCache implements it; tests inject fakes.
type Cache interface {
	Get(fingerprint string) (models.Category, bool)
	Put(fingerprint string, category models.Category, confidence float64)
	Save() error
}

// RemoteClassifier produces one category per description, in input order,
// with the empty category meaning absent. *llm.Classifier implements it.
type RemoteClassifier interface {
	Classify(ctx context.Context, descriptions []string) []models.Category
}

// Options controls a categorization run.
type Options struct {
	// Force re-categorizes transactions that already carry a category.
	Force bool
}

// Categorizer runs the tiered categorization pipeline over a transaction
// set. Stages are tried in order — cache, remote, rules — and each stage
// only sees what the previous one could not resolve.
type Categorizer struct {
	cache  Cache
	remote RemoteClassifier
	rules  *RuleClassifier
	logger logging.Logger
}

// New creates a Categorizer. remote may be nil (degraded mode: cache and
// rules only).
func New(cache Cache, remote RemoteClassifier, rules *RuleClassifier, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if rules == nil {
		rules = NewRuleClassifier()
	}
	return &Categorizer{
		cache:  cache,
		remote: remote,
		rules:  rules,
		logger: logger.WithField(logging.FieldComponent, "categorizer"),
	}
}

// Categorize assigns a category to every transaction in place and returns
// per-stage statistics. Classification failures are absorbed: a transaction
// that neither the cache nor the remote classifier resolves falls through to
// the rule classifier, which cannot fail.
func (c *Categorizer) Categorize(ctx context.Context, txs []models.Transaction, opts Options) *models.CategorizationStats {
	stats := models.NewCategorizationStats()

	// First pass: resolve what the cache already knows and queue the rest
	// for one batched remote round-trip.
	pending := make([]int, 0, len(txs))
	for i := range txs {
		tx := &txs[i]

		if tx.IsCategorized() && !opts.Force {
			if tx.Source == "" {
				tx.Source = models.SourcePreset
			}
			stats.Record(models.SourcePreset)
			continue
		}

		fingerprint := Fingerprint(tx.Description)
		if category, ok := c.cache.Get(fingerprint); ok {
			tx.Category = category
			tx.Source = models.SourceCache
			stats.Record(models.SourceCache)
			continue
		}

		pending = append(pending, i)
	}

	// Second pass: remote results for the cache misses, rule fallback for
	// everything the remote could not answer.
	remote := c.classifyPending(ctx, txs, pending)
	for n, i := range pending {
		tx := &txs[i]

		if n < len(remote) && remote[n] != "" {
			tx.Category = remote[n]
			tx.Source = models.SourceRemote
			c.cache.Put(Fingerprint(tx.Description), tx.Category, remoteConfidence)
			stats.Record(models.SourceRemote)
			continue
		}

		// Rule results are cheap to recompute and evolve as patterns are
		// tuned, so they are not cached.
		tx.Category = c.rules.Classify(tx.Description)
		if !tx.Category.Valid() {
			tx.Category = models.CategoryOther
		}
		tx.Source = models.SourceRule
		stats.Record(models.SourceRule)
	}

	if err := c.cache.Save(); err != nil {
		c.logger.WithError(err).Warn("Failed to persist categorization cache, continuing with ephemeral results")
	}

	stats.LogSummary(c.logger)
	return stats
}

func (c *Categorizer) classifyPending(ctx context.Context, txs []models.Transaction, pending []int) []models.Category {
	if c.remote == nil || len(pending) == 0 {
		return nil
	}

	descriptions := make([]string, len(pending))
	for n, i := range pending {
		descriptions[n] = txs[i].Description
	}

	c.logger.WithField(logging.FieldCount, len(descriptions)).Debug("Sending cache misses to remote classifier")
	return c.remote.Classify(ctx, descriptions)
}
