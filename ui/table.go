package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/codemetric/vibe-coding-tracker/calculations"
	"github.com/codemetric/vibe-coding-tracker/models"
	"github.com/codemetric/vibe-coding-tracker/usage"
)

// Static table rendering for the --table flag. The same data contract as
// the live views, printed once.

// RenderUsageTable renders priced usage rows plus the daily averages.
func RenderUsageTable(rows []models.ModelUsageRow) string {
	styles := DefaultStyles()

	header := []string{"Date", "Model", "Input", "Output", "Cache Read", "Cache Create", "Cost (USD)"}
	widths := []int{12, 38, 12, 12, 12, 13, 12}

	var b strings.Builder
	b.WriteString(renderHeaderRow(styles, header, widths))

	for _, r := range rows {
		counts := usage.ExtractTokenCounts(r.Usage)
		model := r.Model
		if r.MatchedModel != "" {
			model += " → " + r.MatchedModel
		}
		cells := []string{
			r.Date,
			model,
			formatCount(counts.InputTokens),
			formatCount(counts.OutputTokens),
			formatCount(counts.CacheReadTokens),
			formatCount(counts.CacheCreationTokens),
			fmt.Sprintf("$%.4f", r.CostUSD),
		}
		b.WriteString(renderRow(cells, widths))
	}

	for _, avg := range calculations.UsageDailyAverages(rows) {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("%-14s %3d day(s)  total $%.2f  avg $%.2f/day",
			avg.Provider, avg.Days, avg.TotalCost, avg.AvgCostPerDay)))
		b.WriteString("\n")
	}

	return b.String()
}

// RenderAnalysisTable renders activity rows plus the daily averages.
func RenderAnalysisTable(rows []models.AnalysisRow) string {
	styles := DefaultStyles()

	header := []string{"Date", "Model", "Edit Lines", "Read Lines", "Write Lines", "Read", "Write", "Edit", "Bash", "Todo"}
	widths := []int{12, 34, 10, 10, 11, 6, 6, 6, 6, 6}

	var b strings.Builder
	b.WriteString(renderHeaderRow(styles, header, widths))

	for _, r := range rows {
		cells := []string{
			r.Date,
			r.Model,
			fmt.Sprintf("%d", r.EditLines),
			fmt.Sprintf("%d", r.ReadLines),
			fmt.Sprintf("%d", r.WriteLines),
			fmt.Sprintf("%d", r.ReadCount),
			fmt.Sprintf("%d", r.WriteCount),
			fmt.Sprintf("%d", r.EditCount),
			fmt.Sprintf("%d", r.BashCount),
			fmt.Sprintf("%d", r.TodoWriteCount),
		}
		b.WriteString(renderRow(cells, widths))
	}

	for _, avg := range calculations.AnalysisDailyAverages(rows) {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("%-14s %3d day(s)  edit %.0f  read %.0f  write %.0f lines/day",
			avg.Provider, avg.Days, avg.AvgEditLines, avg.AvgReadLines, avg.AvgWriteLines)))
		b.WriteString("\n")
	}

	return b.String()
}

func renderHeaderRow(styles Styles, cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, c := range cells {
		padded[i] = styles.TableHeader.Render(pad(c, widths[i]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, padded...) + "\n"
}

func renderRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, c := range cells {
		padded[i] = pad(c, widths[i])
	}
	return strings.Join(padded, "") + "\n"
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s[:width-1] + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
