package models

import (
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/logging"
)

// CategorizationStats tracks, per pipeline stage, how many transactions each
// stage categorized during a run.
type CategorizationStats struct {
	Total   int // transactions seen by the pipeline
	Skipped int // already categorized, force flag off
	Cache   int // resolved from the persistent cache
	Remote  int // resolved by the remote classifier
	Rule    int // resolved by the keyword rule fallback
}

// NewCategorizationStats creates an empty stats counter.
func NewCategorizationStats() *CategorizationStats {
	return &CategorizationStats{}
}

// Record counts one transaction against the stage that resolved it.
func (cs *CategorizationStats) Record(source CategorySource) {
	cs.Total++
	switch source {
	case SourcePreset:
		cs.Skipped++
	case SourceCache:
		cs.Cache++
	case SourceRemote:
		cs.Remote++
	case SourceRule:
		cs.Rule++
	}
}

// CacheHitRate returns the share of processed transactions answered from
// cache, as a percentage.
func (cs CategorizationStats) CacheHitRate() float64 {
	processed := cs.Total - cs.Skipped
	if processed == 0 {
		return 0.0
	}
	return float64(cs.Cache) / float64(processed) * 100.0
}

// LogSummary logs a one-line summary of the run.
func (cs CategorizationStats) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}
	logger.Info("Categorization summary",
		logging.Field{Key: "total", Value: cs.Total},
		logging.Field{Key: "skipped", Value: cs.Skipped},
		logging.Field{Key: "cache", Value: cs.Cache},
		logging.Field{Key: "remote", Value: cs.Remote},
		logging.Field{Key: "rule", Value: cs.Rule},
		logging.Field{Key: "cache_hit_rate", Value: cs.CacheHitRate()},
	)
}
