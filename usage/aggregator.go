package usage

import (
	"sort"
	"sync"

	"github.com/codemetric/vibe-coding-tracker/analysis"
	"github.com/codemetric/vibe-coding-tracker/cache"
	"github.com/codemetric/vibe-coding-tracker/fileio"
	"github.com/codemetric/vibe-coding-tracker/logging"
	"github.com/codemetric/vibe-coding-tracker/models"
	"github.com/codemetric/vibe-coding-tracker/pricing"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const scanWorkers = 8

// AggregateUsage scans every session root and folds per-model token usage
// into a date -> model -> usage mapping. Usage objects keep each provider's
// native layout; all-zero entries are dropped.
func AggregateUsage(roots *fileio.SessionRoots, pc *cache.ParseCache) (models.DateUsageResult, error) {
	result := models.DateUsageResult{}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(scanWorkers)

	for _, scan := range roots.Scans() {
		for _, file := range fileio.CollectSessionFiles(scan.Root, scan.Filter) {
			g.Go(func() error {
				a, err := pc.GetOrParse(file.Path)
				if err != nil {
					logging.LogWarnf("failed to analyze %s: %v", file.Path, err)
					return nil
				}

				mu.Lock()
				foldFileUsage(result, file.ModifiedDate, a)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

func foldFileUsage(result models.DateUsageResult, date string, a *models.CodeAnalysis) {
	for i := range a.Records {
		record := &a.Records[i]
		for model, usage := range record.ConversationUsage {
			if ExtractTokenCounts(usage).IsZero() {
				continue
			}

			dateEntry, ok := result[date]
			if !ok {
				dateEntry = map[string]map[string]any{}
				result[date] = dateEntry
			}

			existing, ok := dateEntry[model]
			if !ok {
				dateEntry[model] = cloneUsage(usage)
				continue
			}
			mergeUsageValues(existing, usage)
		}
	}
}

// cloneUsage deep-copies the per-file usage object so aggregation never
// mutates the cached analysis.
func cloneUsage(usage map[string]any) map[string]any {
	clone := make(map[string]any, len(usage))
	for k, v := range usage {
		if nested, ok := v.(map[string]any); ok {
			clone[k] = cloneUsage(nested)
			continue
		}
		clone[k] = v
	}
	return clone
}

var flatUsageFields = []string{
	"input_tokens",
	"cache_creation_input_tokens",
	"cache_read_input_tokens",
	"output_tokens",
	"thoughts_tokens",
	"tool_tokens",
	"total_tokens",
}

// mergeUsageValues folds a second file's usage for the same (date, model)
// into existing. Integer fields sum; nested maps merge field-wise. The
// service_tier is not merged: the row keeps the value of whichever file was
// folded into it first.
func mergeUsageValues(existing, incoming map[string]any) {
	if _, ok := existing["total_token_usage"]; ok {
		if total, ok := incoming["total_token_usage"].(map[string]any); ok {
			mergeNested(existing, "total_token_usage", total)
		}
		return
	}

	for _, field := range flatUsageFields {
		if v, ok := incoming[field]; ok {
			existing[field] = toInt64(existing[field]) + toInt64(v)
		}
	}
	if cacheCreation, ok := incoming["cache_creation"].(map[string]any); ok {
		mergeNested(existing, "cache_creation", cacheCreation)
	}
}

func mergeNested(target map[string]any, field string, source map[string]any) {
	nested, ok := target[field].(map[string]any)
	if !ok {
		nested = map[string]any{}
		target[field] = nested
	}
	for k, v := range source {
		switch v.(type) {
		case float64, int64, int:
			nested[k] = toInt64(nested[k]) + toInt64(v)
		}
	}
}

// BuildPricedRows prices the aggregated usage. Pricing is resolved once per
// (date, model); a nil pricing map degrades every row to zero cost.
func BuildPricedRows(data models.DateUsageResult, pricingMap *pricing.PricingMap) []models.ModelUsageRow {
	rows := make([]models.ModelUsageRow, 0, len(data)*2)

	for _, date := range sortedDates(data) {
		modelsForDate := data[date]
		for _, model := range lo.Keys(modelsForDate) {
			usage := modelsForDate[model]
			row := models.ModelUsageRow{
				Date:  date,
				Model: model,
				Usage: usage,
			}
			if pricingMap != nil {
				match := pricingMap.Get(model)
				row.CostUSD = pricing.CalculateCost(ExtractTokenCounts(usage), match.Pricing)
				row.MatchedModel = match.MatchedModel
			}
			rows = append(rows, row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].Model < rows[j].Model
	})
	return rows
}

// GroupRowsByDate shapes priced rows into the JSON output contract:
// date -> array of row objects.
func GroupRowsByDate(rows []models.ModelUsageRow) map[string][]models.ModelUsageRow {
	return lo.GroupBy(rows, func(r models.ModelUsageRow) string { return r.Date })
}

func sortedDates(data models.DateUsageResult) []string {
	dates := lo.Keys(data)
	sort.Strings(dates)
	return dates
}

// Aggregate is the full usage cycle: scan, fold, price. It uses the shared
// parse cache and tolerates a missing catalog by pricing rows at zero.
func Aggregate(roots *fileio.SessionRoots, pricingMap *pricing.PricingMap) ([]models.ModelUsageRow, error) {
	data, err := AggregateUsage(roots, analysis.SharedCache())
	if err != nil {
		return nil, err
	}
	return BuildPricedRows(data, pricingMap), nil
}
