// Package store provides persistence for categorization data: the
// fingerprint cache and the keyword rule file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/logging"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// ErrCacheUnavailable reports that the cache file could not be read or
// written. Callers recover by proceeding with an ephemeral cache.
var ErrCacheUnavailable = errors.New("categorization cache unavailable")

// CacheEntry is one persisted fingerprint→category mapping.
type CacheEntry struct {
	Category   models.Category `json:"category"`
	Confidence float64         `json:"confidence"`
	Hits       int             `json:"hits"`
	LastUsed   time.Time       `json:"last_used"`
}

// CategoryCache is the persistent fingerprint→category store. Entries never
// expire on their own; only Clear invalidates them. A cache that cannot be
// loaded degrades to empty rather than failing the run.
type CategoryCache struct {
	path    string
	entries map[string]CacheEntry
	dirty   bool
	logger  logging.Logger
}

// NewCategoryCache opens the cache at path, loading existing entries. A
// missing or corrupt file yields an empty cache and a warning, never an
// error.
func NewCategoryCache(path string, logger logging.Logger) *CategoryCache {
	if logger == nil {
		logger = logging.GetLogger()
	}
	c := &CategoryCache{
		path:    path,
		entries: make(map[string]CacheEntry),
		logger:  logger.WithField(logging.FieldComponent, "cache"),
	}
	c.load()
	return c
}

func (c *CategoryCache) load() {
	if c.path == "" {
		return
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.WithError(err).Warn("Cache file unreadable, starting empty")
		}
		return
	}
	var entries map[string]CacheEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.WithError(err).Warn("Cache file corrupt, starting empty")
		return
	}
	c.entries = entries
	c.logger.WithField(logging.FieldCount, len(entries)).Debug("Categorization cache loaded")
}

// Get returns the cached category for a fingerprint and refreshes its
// last-used timestamp.
func (c *CategoryCache) Get(fingerprint string) (models.Category, bool) {
	entry, ok := c.entries[fingerprint]
	if !ok {
		return "", false
	}
	entry.LastUsed = time.Now()
	c.entries[fingerprint] = entry
	c.dirty = true
	return entry.Category, true
}

// Put records a fingerprint→category mapping. Repeated puts for the same
// fingerprint overwrite the category and increment the hit count.
func (c *CategoryCache) Put(fingerprint string, category models.Category, confidence float64) {
	entry := c.entries[fingerprint]
	entry.Category = category
	entry.Confidence = confidence
	entry.Hits++
	entry.LastUsed = time.Now()
	c.entries[fingerprint] = entry
	c.dirty = true
}

// Size returns the number of cached fingerprints.
func (c *CategoryCache) Size() int {
	return len(c.entries)
}

// Clear removes every entry. The next Save persists the empty state.
func (c *CategoryCache) Clear() {
	c.entries = make(map[string]CacheEntry)
	c.dirty = true
}

// Save writes the cache back to disk if it changed since load.
func (c *CategoryCache) Save() error {
	if !c.dirty || c.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshaling entries: %v", ErrCacheUnavailable, err)
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: creating directory: %v", ErrCacheUnavailable, err)
		}
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrCacheUnavailable, c.path, err)
	}

	c.dirty = false
	c.logger.WithField(logging.FieldCount, len(c.entries)).Debug("Categorization cache saved")
	return nil
}
