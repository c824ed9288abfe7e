package calculations

import (
	"github.com/codemetric/vibe-coding-tracker/models"
	"github.com/samber/lo"
)

// OverallLabel names the synthetic row aggregated across all providers.
const OverallLabel = "All Providers"

// UsageAverage is the per-provider daily cost summary.
type UsageAverage struct {
	Provider      string  `json:"provider"`
	Days          int     `json:"days"`
	TotalCost     float64 `json:"total_cost"`
	AvgCostPerDay float64 `json:"avg_cost_per_day"`
}

// AnalysisAverage is the per-provider daily activity summary.
type AnalysisAverage struct {
	Provider        string  `json:"provider"`
	Days            int     `json:"days"`
	TotalEditLines  int     `json:"total_edit_lines"`
	TotalReadLines  int     `json:"total_read_lines"`
	TotalWriteLines int     `json:"total_write_lines"`
	AvgEditLines    float64 `json:"avg_edit_lines_per_day"`
	AvgReadLines    float64 `json:"avg_read_lines_per_day"`
	AvgWriteLines   float64 `json:"avg_write_lines_per_day"`
}

// UsageDailyAverages reduces priced usage rows to per-provider averages.
// A provider's day count is the number of distinct dates on which any of
// its models appear; providers with zero days are omitted rather than
// zero-padded. The final row covers all providers over all distinct dates.
func UsageDailyAverages(rows []models.ModelUsageRow) []UsageAverage {
	providerDays := distinctDays(rows, func(r models.ModelUsageRow) (models.Provider, string) {
		return models.ProviderFromModelName(r.Model), r.Date
	})

	totals := make(map[models.Provider]float64)
	overall := 0.0
	for _, row := range rows {
		totals[models.ProviderFromModelName(row.Model)] += row.CostUSD
		overall += row.CostUSD
	}

	var result []UsageAverage
	for _, provider := range providerOrder {
		days := len(providerDays[provider])
		if days == 0 {
			continue
		}
		result = append(result, UsageAverage{
			Provider:      provider.DisplayName(),
			Days:          days,
			TotalCost:     totals[provider],
			AvgCostPerDay: totals[provider] / float64(days),
		})
	}

	allDays := len(lo.Uniq(lo.Map(rows, func(r models.ModelUsageRow, _ int) string { return r.Date })))
	if allDays > 0 {
		result = append(result, UsageAverage{
			Provider:      OverallLabel,
			Days:          allDays,
			TotalCost:     overall,
			AvgCostPerDay: overall / float64(allDays),
		})
	}
	return result
}

// AnalysisDailyAverages reduces activity rows to per-provider averages with
// the same day-counting rules as UsageDailyAverages.
func AnalysisDailyAverages(rows []models.AnalysisRow) []AnalysisAverage {
	providerDays := distinctDays(rows, func(r models.AnalysisRow) (models.Provider, string) {
		return models.ProviderFromModelName(r.Model), r.Date
	})

	type lineTotals struct{ edit, read, write int }
	totals := make(map[models.Provider]lineTotals)
	var overall lineTotals
	for _, row := range rows {
		p := models.ProviderFromModelName(row.Model)
		t := totals[p]
		t.edit += row.EditLines
		t.read += row.ReadLines
		t.write += row.WriteLines
		totals[p] = t
		overall.edit += row.EditLines
		overall.read += row.ReadLines
		overall.write += row.WriteLines
	}

	build := func(label string, t lineTotals, days int) AnalysisAverage {
		return AnalysisAverage{
			Provider:        label,
			Days:            days,
			TotalEditLines:  t.edit,
			TotalReadLines:  t.read,
			TotalWriteLines: t.write,
			AvgEditLines:    float64(t.edit) / float64(days),
			AvgReadLines:    float64(t.read) / float64(days),
			AvgWriteLines:   float64(t.write) / float64(days),
		}
	}

	var result []AnalysisAverage
	for _, provider := range providerOrder {
		days := len(providerDays[provider])
		if days == 0 {
			continue
		}
		result = append(result, build(provider.DisplayName(), totals[provider], days))
	}

	allDays := len(lo.Uniq(lo.Map(rows, func(r models.AnalysisRow, _ int) string { return r.Date })))
	if allDays > 0 {
		result = append(result, build(OverallLabel, overall, allDays))
	}
	return result
}

var providerOrder = []models.Provider{
	models.ProviderClaude,
	models.ProviderCodex,
	models.ProviderCopilot,
	models.ProviderGemini,
	models.ProviderUnknown,
}

func distinctDays[R any](rows []R, classify func(R) (models.Provider, string)) map[models.Provider]map[string]struct{} {
	days := make(map[models.Provider]map[string]struct{})
	for _, row := range rows {
		provider, date := classify(row)
		if days[provider] == nil {
			days[provider] = make(map[string]struct{})
		}
		days[provider][date] = struct{}{}
	}
	return days
}
