package pricing

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/codemetric/vibe-coding-tracker/config"
	"github.com/codemetric/vibe-coding-tracker/logging"
	"github.com/codemetric/vibe-coding-tracker/models"
	"golang.org/x/sync/singleflight"
)

// ModelPricing is one catalog entry: USD cost per token for each token
// kind, with optional above-200k variants. Absent above-200k costs are
// normalized to the base cost on load.
type ModelPricing struct {
	InputCostPerToken              float64 `json:"input_cost_per_token"`
	OutputCostPerToken             float64 `json:"output_cost_per_token"`
	CacheReadInputTokenCost        float64 `json:"cache_read_input_token_cost"`
	CacheCreationInputTokenCost    float64 `json:"cache_creation_input_token_cost"`
	InputCostAbove200k             float64 `json:"input_cost_per_token_above_200k_tokens"`
	OutputCostAbove200k            float64 `json:"output_cost_per_token_above_200k_tokens"`
	CacheReadInputTokenCostAbove   float64 `json:"cache_read_input_token_cost_above_200k_tokens"`
	CacheCreateInputTokenCostAbove float64 `json:"cache_creation_input_token_cost_above_200k_tokens"`
}

func (p ModelPricing) isZeroCost() bool {
	return p.InputCostPerToken == 0 && p.OutputCostPerToken == 0 &&
		p.CacheReadInputTokenCost == 0 && p.CacheCreationInputTokenCost == 0
}

const cacheFilePrefix = "model_pricing_"

// Catalog fetches and caches the remote pricing data. The cache is one JSON
// file per day under the application directory; the newest previous file is
// the offline fallback when the fetch fails.
type Catalog struct {
	CacheDir string
	URL      string
	Client   *http.Client
	// Offline skips the fetch entirely and serves whatever cache exists.
	Offline bool

	group singleflight.Group
}

// NewCatalog builds a catalog against cacheDir with the configured source.
func NewCatalog(cacheDir string, cfg config.PricingConfig) *Catalog {
	return &Catalog{
		CacheDir: cacheDir,
		URL:      cfg.URL,
		Client:   &http.Client{Timeout: cfg.Timeout},
		Offline:  cfg.Offline,
	}
}

// Load returns the pricing map for today. Concurrent callers share one
// in-flight load; once today's cache file is written, later calls read it
// instead of fetching.
func (c *Catalog) Load() (*PricingMap, error) {
	v, err, _ := c.group.Do("load", func() (any, error) {
		return c.load()
	})
	if err != nil {
		return nil, err
	}
	return v.(*PricingMap), nil
}

func (c *Catalog) load() (*PricingMap, error) {
	today := time.Now().Format(models.DateFormat)

	if pricing, err := c.loadCacheFile(today); err == nil {
		logging.LogDebugf("loaded model pricing from today's cache")
		return NewPricingMap(pricing), nil
	}

	if c.Offline {
		stale, staleDate, err := c.loadNewestCache()
		if err != nil {
			return nil, fmt.Errorf("%w: offline mode and no cached catalog", models.ErrCatalogUnavailable)
		}
		logging.LogInfof("offline mode: using pricing cache from %s", staleDate)
		return NewPricingMap(stale), nil
	}

	pricing, err := c.fetch()
	if err != nil {
		logging.LogWarnf("pricing fetch failed: %v, trying stale cache", err)
		stale, staleDate, staleErr := c.loadNewestCache()
		if staleErr != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrCatalogUnavailable, err)
		}
		logging.LogInfof("using stale pricing cache from %s", staleDate)
		return NewPricingMap(stale), nil
	}

	if err := c.saveCacheFile(today, pricing); err != nil {
		logging.LogWarnf("failed to save pricing cache: %v", err)
	} else {
		c.cleanupOldCaches(today)
	}

	return NewPricingMap(pricing), nil
}

func (c *Catalog) fetch() (map[string]ModelPricing, error) {
	req, err := http.NewRequest(http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create pricing request: %w", err)
	}
	req.Header.Set("User-Agent", "vibe-coding-tracker/"+models.Version)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch model pricing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pricing fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing response: %w", err)
	}

	var raw map[string]ModelPricing
	if err := sonic.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse pricing JSON: %w", err)
	}

	return NormalizePricing(raw), nil
}

// NormalizePricing drops zero-cost entries and defaults absent above-200k
// costs to the base cost of the same kind.
func NormalizePricing(raw map[string]ModelPricing) map[string]ModelPricing {
	normalized := make(map[string]ModelPricing, len(raw))
	for model, p := range raw {
		if p.isZeroCost() {
			continue
		}
		if p.InputCostAbove200k == 0 {
			p.InputCostAbove200k = p.InputCostPerToken
		}
		if p.OutputCostAbove200k == 0 {
			p.OutputCostAbove200k = p.OutputCostPerToken
		}
		if p.CacheReadInputTokenCostAbove == 0 {
			p.CacheReadInputTokenCostAbove = p.CacheReadInputTokenCost
		}
		if p.CacheCreateInputTokenCostAbove == 0 {
			p.CacheCreateInputTokenCostAbove = p.CacheCreationInputTokenCost
		}
		normalized[model] = p
	}
	return normalized
}

func (c *Catalog) cacheFilePath(date string) string {
	return filepath.Join(c.CacheDir, cacheFilePrefix+date+".json")
}

func (c *Catalog) loadCacheFile(date string) (map[string]ModelPricing, error) {
	data, err := os.ReadFile(c.cacheFilePath(date))
	if err != nil {
		return nil, err
	}
	var pricing map[string]ModelPricing
	if err := sonic.Unmarshal(data, &pricing); err != nil {
		return nil, fmt.Errorf("failed to parse cached pricing: %w", err)
	}
	return pricing, nil
}

// saveCacheFile writes atomically: temp file then rename, so concurrent
// readers never observe a partial catalog.
func (c *Catalog) saveCacheFile(date string, pricing map[string]ModelPricing) error {
	if err := os.MkdirAll(c.CacheDir, 0755); err != nil {
		return err
	}
	data, err := sonic.MarshalIndent(pricing, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.CacheDir, cacheFilePrefix+"*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.cacheFilePath(date))
}

// cleanupOldCaches removes pricing cache files from previous days.
func (c *Catalog) cleanupOldCaches(today string) {
	entries, err := os.ReadDir(c.CacheDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, cacheFilePrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		if !strings.Contains(name, today) {
			os.Remove(filepath.Join(c.CacheDir, name))
			logging.LogDebugf("removed old pricing cache %s", name)
		}
	}
}

// loadNewestCache loads the most recent cache file of any date.
func (c *Catalog) loadNewestCache() (map[string]ModelPricing, string, error) {
	entries, err := os.ReadDir(c.CacheDir)
	if err != nil {
		return nil, "", err
	}

	var dates []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, cacheFilePrefix) && strings.HasSuffix(name, ".json") {
			dates = append(dates, strings.TrimSuffix(strings.TrimPrefix(name, cacheFilePrefix), ".json"))
		}
	}
	if len(dates) == 0 {
		return nil, "", fmt.Errorf("no cached pricing files")
	}

	sort.Strings(dates)
	newest := dates[len(dates)-1]
	pricing, err := c.loadCacheFile(newest)
	return pricing, newest, err
}
