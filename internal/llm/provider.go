// Package llm provides the remote classifier adapter: a uniform interface
// over interchangeable language-model providers used to categorize
// transaction descriptions. Provider failures never propagate past the
// Classifier; they degrade to absent results so the rule fallback can take
// over.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/config"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/logging"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// ErrClassificationUnavailable reports that a remote call failed or timed
// out. It is recovered locally via the rule fallback and never surfaced to
// the pipeline caller.
var ErrClassificationUnavailable = errors.New("remote classification unavailable")

// ErrInvalidCategoryLabel reports that a provider returned a label outside
// the fixed taxonomy. The affected item is treated as absent.
var ErrInvalidCategoryLabel = errors.New("invalid category label from provider")

// Provider is the capability interface implemented per language-model
// backend. ClassifyBatch returns one label per input description, in input
// order; an empty string means the provider produced no usable label for
// that item.
type Provider interface {
	Name() string
	ClassifyBatch(ctx context.Context, descriptions []string, categories []models.Category) ([]string, error)
}

// NewProvider selects a Provider from configuration. It returns nil (and no
// error) when AI is disabled or no API key is available: the pipeline then
// runs in degraded mode on rules alone.
func NewProvider(cfg *config.Config, logger logging.Logger) (Provider, error) {
	if !cfg.AI.Enabled {
		return nil, nil
	}
	if cfg.AI.APIKey == "" {
		logger.Warn("No API key configured, remote classification disabled",
			logging.Field{Key: logging.FieldProvider, Value: cfg.AI.Provider})
		return nil, nil
	}

	switch cfg.AI.Provider {
	case config.ProviderGroq:
		return newGroqProvider(cfg.AI.APIKey, cfg.DefaultModel()), nil
	case config.ProviderOpenAI:
		return newOpenAIProvider(cfg.AI.APIKey, cfg.DefaultModel()), nil
	case config.ProviderGemini:
		return newGeminiProvider(cfg.AI.APIKey, cfg.DefaultModel()), nil
	}
	return nil, fmt.Errorf("unknown provider: %s", cfg.AI.Provider)
}

// Classifier wraps a Provider with batching, per-batch timeouts, a single
// transient-error retry and taxonomy validation. Its Classify method never
// fails: every unresolvable item comes back as an empty category.
type Classifier struct {
	provider  Provider
	timeout   time.Duration
	batchSize int
	backoff   time.Duration
	logger    logging.Logger
}

// NewClassifier builds a Classifier. provider may be nil, in which case
// every item is absent (degraded mode).
func NewClassifier(provider Provider, timeout time.Duration, batchSize int, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if batchSize < 1 {
		batchSize = 40
	}
	return &Classifier{
		provider:  provider,
		timeout:   timeout,
		batchSize: batchSize,
		backoff:   2 * time.Second,
		logger:    logger.WithField(logging.FieldComponent, "llm"),
	}
}

// Classify categorizes descriptions in bounded batches. The result has one
// entry per input, in input order; empty Category means absent.
func (c *Classifier) Classify(ctx context.Context, descriptions []string) []models.Category {
	results := make([]models.Category, len(descriptions))
	if c.provider == nil || len(descriptions) == 0 {
		return results
	}

	categories := models.AllCategories()
	for start := 0; start < len(descriptions); start += c.batchSize {
		end := start + c.batchSize
		if end > len(descriptions) {
			end = len(descriptions)
		}
		c.classifyBatch(ctx, descriptions[start:end], categories, results[start:end])
	}
	return results
}

func (c *Classifier) classifyBatch(ctx context.Context, batch []string, categories []models.Category, out []models.Category) {
	labels, err := c.callWithRetry(ctx, batch, categories)
	if err != nil {
		c.logger.WithError(err).WithFields(
			logging.Field{Key: logging.FieldProvider, Value: c.provider.Name()},
			logging.Field{Key: logging.FieldCount, Value: len(batch)},
		).Warn("Remote classification failed, batch degraded to rule fallback")
		return
	}

	for i, label := range labels {
		if i >= len(out) {
			break
		}
		category := models.Category(label)
		if label == "" {
			continue
		}
		if !category.Valid() {
			c.logger.WithFields(
				logging.Field{Key: logging.FieldProvider, Value: c.provider.Name()},
				logging.Field{Key: logging.FieldCategory, Value: label},
			).Debug("Provider returned label outside the taxonomy, treating as absent")
			continue
		}
		out[i] = category
	}
}

// callWithRetry runs one batch with a per-request timeout and a single
// retry after a short backoff.
func (c *Classifier) callWithRetry(ctx context.Context, batch []string, categories []models.Category) ([]string, error) {
	labels, err := c.call(ctx, batch, categories)
	if err == nil {
		return labels, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassificationUnavailable, err)
	}

	select {
	case <-time.After(c.backoff):
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrClassificationUnavailable, ctx.Err())
	}

	labels, err = c.call(ctx, batch, categories)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassificationUnavailable, err)
	}
	return labels, nil
}

func (c *Classifier) call(ctx context.Context, batch []string, categories []models.Category) ([]string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	labels, err := c.provider.ClassifyBatch(callCtx, batch, categories)
	if err != nil {
		return nil, err
	}
	if len(labels) != len(batch) {
		return nil, fmt.Errorf("%w: got %d labels for %d descriptions", ErrInvalidCategoryLabel, len(labels), len(batch))
	}
	return labels, nil
}
