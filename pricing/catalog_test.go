package pricing

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/codemetric/vibe-coding-tracker/config"
	"github.com/codemetric/vibe-coding-tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `{
  "claude-sonnet-4": {
    "input_cost_per_token": 0.000003,
    "output_cost_per_token": 0.000015,
    "cache_read_input_token_cost": 0.0000003,
    "cache_creation_input_token_cost": 0.00000375
  },
  "free-model": {
    "input_cost_per_token": 0,
    "output_cost_per_token": 0
  },
  "gpt-4-turbo": {
    "input_cost_per_token": 0.00001,
    "output_cost_per_token": 0.00003,
    "input_cost_per_token_above_200k_tokens": 0.00002
  }
}`

func newTestCatalog(t *testing.T, url string) *Catalog {
	t.Helper()
	return NewCatalog(t.TempDir(), config.PricingConfig{
		URL:     url,
		Timeout: 5 * time.Second,
	})
}

func TestCatalogFetchNormalizesAndCaches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(catalogJSON))
	}))
	defer server.Close()

	catalog := newTestCatalog(t, server.URL)
	pricingMap, err := catalog.Load()
	require.NoError(t, err)

	// Zero-cost entries are filtered on load.
	assert.Equal(t, 2, pricingMap.Len())

	// Absent above-200k fields default to the base cost.
	sonnet := pricingMap.Get("claude-sonnet-4").Pricing
	assert.Equal(t, sonnet.InputCostPerToken, sonnet.InputCostAbove200k)
	assert.Equal(t, sonnet.OutputCostPerToken, sonnet.OutputCostAbove200k)

	// Explicit above-200k values are preserved.
	turbo := pricingMap.Get("gpt-4-turbo").Pricing
	assert.Equal(t, 2e-5, turbo.InputCostAbove200k)

	// Today's cache file was written.
	today := time.Now().Format(models.DateFormat)
	_, err = os.Stat(filepath.Join(catalog.CacheDir, cacheFilePrefix+today+".json"))
	assert.NoError(t, err)
}

func TestCatalogPrefersTodaysCache(t *testing.T) {
	fetches := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		w.Write([]byte(catalogJSON))
	}))
	defer server.Close()

	catalog := newTestCatalog(t, server.URL)
	_, err := catalog.Load()
	require.NoError(t, err)
	require.Equal(t, 1, fetches)

	// A fresh catalog over the same cache dir loads from disk, not network.
	second := NewCatalog(catalog.CacheDir, config.PricingConfig{URL: server.URL, Timeout: 5 * time.Second})
	_, err = second.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
}

func TestCatalogFallsBackToStaleCache(t *testing.T) {
	cacheDir := t.TempDir()
	yesterday := time.Now().AddDate(0, 0, -1).Format(models.DateFormat)
	stale := filepath.Join(cacheDir, cacheFilePrefix+yesterday+".json")
	require.NoError(t, os.WriteFile(stale, []byte(`{"claude-sonnet-4":{"input_cost_per_token":0.000003,"output_cost_per_token":0.000015}}`), 0644))

	catalog := NewCatalog(cacheDir, config.PricingConfig{
		URL:     "http://127.0.0.1:1/unreachable",
		Timeout: 200 * time.Millisecond,
	})

	pricingMap, err := catalog.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, pricingMap.Len())
}

func TestCatalogOfflineUsesCacheWithoutFetching(t *testing.T) {
	fetches := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		w.Write([]byte(catalogJSON))
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	yesterday := time.Now().AddDate(0, 0, -1).Format(models.DateFormat)
	stale := filepath.Join(cacheDir, cacheFilePrefix+yesterday+".json")
	require.NoError(t, os.WriteFile(stale, []byte(`{"claude-sonnet-4":{"input_cost_per_token":0.000003,"output_cost_per_token":0.000015}}`), 0644))

	catalog := NewCatalog(cacheDir, config.PricingConfig{
		URL:     server.URL,
		Timeout: 5 * time.Second,
		Offline: true,
	})

	pricingMap, err := catalog.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, pricingMap.Len())
	assert.Zero(t, fetches)
}

func TestCatalogUnavailableWithoutCache(t *testing.T) {
	catalog := NewCatalog(t.TempDir(), config.PricingConfig{
		URL:     "http://127.0.0.1:1/unreachable",
		Timeout: 200 * time.Millisecond,
	})

	_, err := catalog.Load()
	assert.ErrorIs(t, err, models.ErrCatalogUnavailable)
}

func TestCatalogCleanupRemovesPreviousDays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(catalogJSON))
	}))
	defer server.Close()

	catalog := newTestCatalog(t, server.URL)
	yesterday := time.Now().AddDate(0, 0, -1).Format(models.DateFormat)
	old := filepath.Join(catalog.CacheDir, cacheFilePrefix+yesterday+".json")
	require.NoError(t, os.WriteFile(old, []byte("{}"), 0644))

	_, err := catalog.Load()
	require.NoError(t, err)

	_, err = os.Stat(old)
	assert.True(t, os.IsNotExist(err))
}

func TestNormalizePricingDropsAllZeroEntries(t *testing.T) {
	normalized := NormalizePricing(map[string]ModelPricing{
		"zero":  {},
		"mixed": {CacheReadInputTokenCost: 1e-7},
	})

	assert.NotContains(t, normalized, "zero")
	assert.Contains(t, normalized, "mixed")
	assert.Equal(t, 1e-7, normalized["mixed"].CacheReadInputTokenCostAbove)
}
