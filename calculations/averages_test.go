package calculations

import (
	"testing"

	"github.com/codemetric/vibe-coding-tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageDailyAverages(t *testing.T) {
	rows := []models.ModelUsageRow{
		{Date: "2025-06-01", Model: "claude-sonnet-4", CostUSD: 2.0},
		{Date: "2025-06-02", Model: "claude-sonnet-4", CostUSD: 4.0},
		{Date: "2025-06-02", Model: "gpt-5", CostUSD: 3.0},
	}

	averages := UsageDailyAverages(rows)
	require.Len(t, averages, 3)

	claude := averages[0]
	assert.Equal(t, "Claude Code", claude.Provider)
	assert.Equal(t, 2, claude.Days)
	assert.InDelta(t, 6.0, claude.TotalCost, 1e-9)
	assert.InDelta(t, 3.0, claude.AvgCostPerDay, 1e-9)

	codex := averages[1]
	assert.Equal(t, "Codex", codex.Provider)
	assert.Equal(t, 1, codex.Days)
	assert.InDelta(t, 3.0, codex.AvgCostPerDay, 1e-9)

	overall := averages[2]
	assert.Equal(t, OverallLabel, overall.Provider)
	assert.Equal(t, 2, overall.Days)
	assert.InDelta(t, 4.5, overall.AvgCostPerDay, 1e-9)
}

func TestUsageDailyAveragesOmitsZeroDayProviders(t *testing.T) {
	rows := []models.ModelUsageRow{
		{Date: "2025-06-01", Model: "gemini-2.0-flash", CostUSD: 1.0},
	}

	averages := UsageDailyAverages(rows)
	require.Len(t, averages, 2)
	assert.Equal(t, "Gemini", averages[0].Provider)
	assert.Equal(t, OverallLabel, averages[1].Provider)
}

func TestUsageDailyAveragesEmpty(t *testing.T) {
	assert.Empty(t, UsageDailyAverages(nil))
}

func TestUsageDailyAveragesUnknownModelsCountAsOther(t *testing.T) {
	rows := []models.ModelUsageRow{
		{Date: "2025-06-01", Model: "mystery-model", CostUSD: 5.0},
	}

	averages := UsageDailyAverages(rows)
	require.Len(t, averages, 2)
	assert.Equal(t, "Other", averages[0].Provider)
	assert.InDelta(t, 5.0, averages[0].AvgCostPerDay, 1e-9)
}

func TestAnalysisDailyAverages(t *testing.T) {
	rows := []models.AnalysisRow{
		{Date: "2025-06-01", Model: "claude-sonnet-4", EditLines: 10, ReadLines: 100, WriteLines: 20},
		{Date: "2025-06-02", Model: "claude-sonnet-4", EditLines: 30, ReadLines: 200, WriteLines: 40},
		{Date: "2025-06-01", Model: "o3-mini", EditLines: 6, ReadLines: 60, WriteLines: 12},
		{Date: "2025-06-01", Model: "copilot", EditLines: 1, ReadLines: 2, WriteLines: 3},
	}

	averages := AnalysisDailyAverages(rows)
	require.Len(t, averages, 4)

	claude := averages[0]
	assert.Equal(t, "Claude Code", claude.Provider)
	assert.Equal(t, 2, claude.Days)
	assert.Equal(t, 40, claude.TotalEditLines)
	assert.InDelta(t, 20.0, claude.AvgEditLines, 1e-9)
	assert.InDelta(t, 150.0, claude.AvgReadLines, 1e-9)

	codex := averages[1]
	assert.Equal(t, "Codex", codex.Provider)
	assert.Equal(t, 1, codex.Days)

	copilot := averages[2]
	assert.Equal(t, "Copilot", copilot.Provider)
	assert.Equal(t, 1, copilot.TotalEditLines)

	overall := averages[3]
	assert.Equal(t, OverallLabel, overall.Provider)
	assert.Equal(t, 2, overall.Days)
	assert.Equal(t, 47, overall.TotalEditLines)
}

func TestProviderClassification(t *testing.T) {
	tests := []struct {
		model string
		want  models.Provider
	}{
		{"claude-sonnet-4-20250514", models.ProviderClaude},
		{"CLAUDE-OPUS-4", models.ProviderClaude},
		{"gpt-5", models.ProviderCodex},
		{"o1-preview", models.ProviderCodex},
		{"o3-mini", models.ProviderCodex},
		{"copilot", models.ProviderCopilot},
		{"gemini-2.0-flash", models.ProviderGemini},
		{"mistral-large", models.ProviderUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, models.ProviderFromModelName(tt.model))
		})
	}
}
