package analysis

import (
	"sort"
	"sync"

	"github.com/codemetric/vibe-coding-tracker/cache"
	"github.com/codemetric/vibe-coding-tracker/fileio"
	"github.com/codemetric/vibe-coding-tracker/logging"
	"github.com/codemetric/vibe-coding-tracker/models"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// scanWorkers bounds the per-file parallelism of an aggregation cycle.
const scanWorkers = 8

// AggregateRows scans every session root and reduces the analyses into one
// activity row per (date, model), sorted by date then model.
func AggregateRows(roots *fileio.SessionRoots, pc *cache.ParseCache) ([]models.AnalysisRow, error) {
	rowsByKey := make(map[string]*models.AnalysisRow)
	var mu sync.Mutex

	err := forEachSessionFile(roots, func(scan fileio.ProviderScan, file fileio.SessionFileInfo) {
		analysis, err := pc.GetOrParse(file.Path)
		if err != nil {
			logging.LogWarnf("failed to analyze %s: %v", file.Path, err)
			return
		}

		mu.Lock()
		foldAnalysisRows(rowsByKey, file.ModifiedDate, analysis)
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}

	rows := lo.Map(lo.Values(rowsByKey), func(r *models.AnalysisRow, _ int) models.AnalysisRow {
		return *r
	})
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].Model < rows[j].Model
	})
	return rows, nil
}

func foldAnalysisRows(rows map[string]*models.AnalysisRow, date string, analysis *models.CodeAnalysis) {
	for i := range analysis.Records {
		record := &analysis.Records[i]
		for model := range record.ConversationUsage {
			key := date + ":" + model
			row, ok := rows[key]
			if !ok {
				row = &models.AnalysisRow{Date: date, Model: model}
				rows[key] = row
			}

			row.EditLines += record.TotalEditLines
			row.ReadLines += record.TotalReadLines
			row.WriteLines += record.TotalWriteLines
			row.BashCount += record.ToolCallCounts.Bash
			row.EditCount += record.ToolCallCounts.Edit
			row.ReadCount += record.ToolCallCounts.Read
			row.TodoWriteCount += record.ToolCallCounts.TodoWrite
			row.WriteCount += record.ToolCallCounts.Write
		}
	}
}

// AggregateByProvider collects every complete CodeAnalysis grouped under its
// provider root, for archival export. No cross-file aggregation happens.
func AggregateByProvider(roots *fileio.SessionRoots, pc *cache.ParseCache) (*models.ProviderGrouped, error) {
	grouped := &models.ProviderGrouped{
		ClaudeCode: []*models.CodeAnalysis{},
		Codex:      []*models.CodeAnalysis{},
		CopilotCLI: []*models.CodeAnalysis{},
		Gemini:     []*models.CodeAnalysis{},
	}
	var mu sync.Mutex

	err := forEachSessionFile(roots, func(scan fileio.ProviderScan, file fileio.SessionFileInfo) {
		analysis, err := pc.GetOrParse(file.Path)
		if err != nil {
			logging.LogWarnf("failed to analyze %s: %v", file.Path, err)
			return
		}

		mu.Lock()
		defer mu.Unlock()
		switch models.ExtensionType(analysis.ExtensionName) {
		case models.ExtensionClaudeCode:
			grouped.ClaudeCode = append(grouped.ClaudeCode, analysis)
		case models.ExtensionCodex:
			grouped.Codex = append(grouped.Codex, analysis)
		case models.ExtensionCopilot:
			grouped.CopilotCLI = append(grouped.CopilotCLI, analysis)
		case models.ExtensionGemini:
			grouped.Gemini = append(grouped.Gemini, analysis)
		}
	})
	if err != nil {
		return nil, err
	}
	return grouped, nil
}

// forEachSessionFile runs fn over every discovered session file using a
// bounded worker pool. fn is responsible for its own locking; per-file
// failures are handled inside fn and never abort the scan.
func forEachSessionFile(roots *fileio.SessionRoots, fn func(fileio.ProviderScan, fileio.SessionFileInfo)) error {
	var g errgroup.Group
	g.SetLimit(scanWorkers)

	for _, scan := range roots.Scans() {
		for _, file := range fileio.CollectSessionFiles(scan.Root, scan.Filter) {
			g.Go(func() error {
				fn(scan, file)
				return nil
			})
		}
	}

	return g.Wait()
}
