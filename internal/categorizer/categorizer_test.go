package categorizer

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/logging"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// fakeCache is an in-memory Cache for pipeline tests.
type fakeCache struct {
	entries map[string]models.Category
	saves   int
	saveErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]models.Category)}
}

func (f *fakeCache) Get(fingerprint string) (models.Category, bool) {
	c, ok := f.entries[fingerprint]
	return c, ok
}

func (f *fakeCache) Put(fingerprint string, category models.Category, confidence float64) {
	f.entries[fingerprint] = category
}

func (f *fakeCache) Save() error {
	f.saves++
	return f.saveErr
}

// fakeRemote returns scripted answers and counts calls.
type fakeRemote struct {
	answers map[string]models.Category
	calls   int
}

func (f *fakeRemote) Classify(ctx context.Context, descriptions []string) []models.Category {
	f.calls++
	out := make([]models.Category, len(descriptions))
	for i, d := range descriptions {
		out[i] = f.answers[d]
	}
	return out
}

func makeTx(description string) models.Transaction {
	return models.NewTransaction(
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(-50),
		description,
	)
}

func TestCategorize_RemoteResultsAreCached(t *testing.T) {
	cache := newFakeCache()
	remote := &fakeRemote{answers: map[string]models.Category{
		"SUPERMERCADO ZAFFARI": models.CategoryMarket,
	}}
	c := New(cache, remote, nil, logging.NewMockLogger())

	txs := []models.Transaction{makeTx("SUPERMERCADO ZAFFARI")}
	stats := c.Categorize(context.Background(), txs, Options{})

	assert.Equal(t, models.CategoryMarket, txs[0].Category)
	assert.Equal(t, models.SourceRemote, txs[0].Source)
	assert.Equal(t, 1, stats.Remote)
	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, 1, cache.saves)

	cached, ok := cache.Get(Fingerprint("SUPERMERCADO ZAFFARI"))
	require.True(t, ok)
	assert.Equal(t, models.CategoryMarket, cached)
}

func TestCategorize_SecondRunHitsCacheWithoutRemoteCalls(t *testing.T) {
	cache := newFakeCache()
	remote := &fakeRemote{answers: map[string]models.Category{
		"SUPERMERCADO ZAFFARI": models.CategoryMarket,
	}}
	c := New(cache, remote, nil, logging.NewMockLogger())

	first := []models.Transaction{makeTx("SUPERMERCADO ZAFFARI")}
	c.Categorize(context.Background(), first, Options{})
	require.Equal(t, 1, remote.calls)

	// Same description again, fresh transactions: the cache answers and the
	// remote classifier is never consulted.
	second := []models.Transaction{makeTx("SUPERMERCADO ZAFFARI")}
	stats := c.Categorize(context.Background(), second, Options{})

	assert.Equal(t, models.CategoryMarket, second[0].Category)
	assert.Equal(t, models.SourceCache, second[0].Source)
	assert.Equal(t, 1, stats.Cache)
	assert.Equal(t, 1, remote.calls, "remote must not be called again")
}

func TestCategorize_RuleFallbackWhenRemoteAbsent(t *testing.T) {
	cache := newFakeCache()
	// Remote answers nothing for this description.
	remote := &fakeRemote{answers: map[string]models.Category{}}
	c := New(cache, remote, nil, logging.NewMockLogger())

	txs := []models.Transaction{makeTx("FARMACIA PANVEL")}
	stats := c.Categorize(context.Background(), txs, Options{})

	assert.Equal(t, models.CategoryHealth, txs[0].Category)
	assert.Equal(t, models.SourceRule, txs[0].Source)
	assert.Equal(t, 1, stats.Rule)

	// Rule results are not written to the cache.
	_, ok := cache.Get(Fingerprint("FARMACIA PANVEL"))
	assert.False(t, ok)
}

func TestCategorize_DegradedModeWithoutRemote(t *testing.T) {
	cache := newFakeCache()
	c := New(cache, nil, nil, logging.NewMockLogger())

	txs := []models.Transaction{
		makeTx("ALUGUEL 03/2025"),
		makeTx("DESCONHECIDO XYZ"),
	}
	stats := c.Categorize(context.Background(), txs, Options{})

	assert.Equal(t, models.CategoryHousing, txs[0].Category)
	assert.Equal(t, models.CategoryOther, txs[1].Category)
	assert.Equal(t, 2, stats.Rule)
	for _, tx := range txs {
		assert.True(t, tx.Category.Valid())
	}
}

func TestCategorize_PresetCategoriesAreSkipped(t *testing.T) {
	cache := newFakeCache()
	remote := &fakeRemote{answers: map[string]models.Category{}}
	c := New(cache, remote, nil, logging.NewMockLogger())

	tx := makeTx("SUPERMERCADO ZAFFARI")
	tx.Category = models.CategoryMarket
	txs := []models.Transaction{tx}

	stats := c.Categorize(context.Background(), txs, Options{})

	assert.Equal(t, models.SourcePreset, txs[0].Source)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, remote.calls)
}

func TestCategorize_ForceRecategorizes(t *testing.T) {
	cache := newFakeCache()
	remote := &fakeRemote{answers: map[string]models.Category{
		"SUPERMERCADO ZAFFARI": models.CategoryMarket,
	}}
	c := New(cache, remote, nil, logging.NewMockLogger())

	tx := makeTx("SUPERMERCADO ZAFFARI")
	tx.Category = models.CategoryOther
	txs := []models.Transaction{tx}

	c.Categorize(context.Background(), txs, Options{Force: true})

	assert.Equal(t, models.CategoryMarket, txs[0].Category)
	assert.Equal(t, models.SourceRemote, txs[0].Source)
}

func TestCategorize_SaveFailureDoesNotFailTheRun(t *testing.T) {
	cache := newFakeCache()
	cache.saveErr = assert.AnError
	logger := logging.NewMockLogger()
	c := New(cache, nil, nil, logger)

	txs := []models.Transaction{makeTx("ALUGUEL")}
	c.Categorize(context.Background(), txs, Options{})

	assert.Equal(t, models.CategoryHousing, txs[0].Category)
	assert.True(t, logger.HasEntry("WARN", "Failed to persist categorization cache, continuing with ephemeral results"))
}
