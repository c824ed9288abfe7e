package analysis

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/codemetric/vibe-coding-tracker/cache"
	"github.com/codemetric/vibe-coding-tracker/fileio"
	"github.com/codemetric/vibe-coding-tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const claudeSessionJSONL = `{"parentUuid":"p1","type":"assistant","timestamp":"2025-06-01T10:00:00Z","cwd":"/work","sessionId":"s1","message":{"model":"claude-sonnet-4","usage":{"input_tokens":100,"output_tokens":50},"content":[{"type":"tool_use","name":"Read"},{"type":"tool_use","name":"Bash","input":{"command":"ls","description":""}}]}}
{"parentUuid":"p2","timestamp":"2025-06-01T10:00:01Z","toolUseResult":{"type":"create","filePath":"/work/a.go","content":"package a\nvar X = 1\n"}}
`

const codexSessionJSONL = `{"timestamp":"2025-06-02T08:00:00Z","type":"session_meta","payload":{"id":"t1","cwd":"/repo"}}
{"timestamp":"2025-06-02T08:00:00Z","type":"turn_context","payload":{"cwd":"/repo","model":"gpt-5"}}
{"timestamp":"2025-06-02T08:00:01Z","type":"event_msg","payload":{"type":"token_count","info":{"total_token_usage":{"input_tokens":10,"output_tokens":5,"total_tokens":15}}}}
`

func writeSessionFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testRoots(t *testing.T) *fileio.SessionRoots {
	t.Helper()
	return fileio.ResolvePathsIn(t.TempDir())
}

func newTestCache() *cache.ParseCache {
	return cache.NewParseCache(models.DefaultParseCacheCapacity, AnalyzeSessionFile)
}

func TestAggregateRowsSumsAcrossFiles(t *testing.T) {
	roots := testRoots(t)
	projectDir := filepath.Join(roots.ClaudeSessions, "-work-proj")
	writeSessionFile(t, projectDir, "one.jsonl", claudeSessionJSONL)
	writeSessionFile(t, projectDir, "two.jsonl", claudeSessionJSONL)

	rows, err := AggregateRows(roots, newTestCache())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	today := time.Now().Format(models.DateFormat)
	assert.Equal(t, today, row.Date)
	assert.Equal(t, "claude-sonnet-4", row.Model)
	assert.Equal(t, 2, row.ReadCount)
	assert.Equal(t, 2, row.BashCount)
	assert.Equal(t, 4, row.WriteLines)
}

func TestFoldAnalysisRowsKeysByDateAndModel(t *testing.T) {
	rows := map[string]*models.AnalysisRow{}
	analysisA := &models.CodeAnalysis{Records: []models.CodeAnalysisRecord{{
		ConversationUsage: models.ConversationUsage{"zeta": {}, "alpha": {}},
	}}}

	foldAnalysisRows(rows, "2025-06-01", analysisA)
	assert.Len(t, rows, 2)
	assert.Contains(t, rows, "2025-06-01:alpha")
	assert.Contains(t, rows, "2025-06-01:zeta")
}

func TestAggregateRowsSkipsUnparseableFiles(t *testing.T) {
	roots := testRoots(t)
	projectDir := filepath.Join(roots.ClaudeSessions, "-work-proj")
	writeSessionFile(t, projectDir, "good.jsonl", claudeSessionJSONL)
	writeSessionFile(t, projectDir, "bad.jsonl", "{not valid json\n")

	rows, err := AggregateRows(roots, newTestCache())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestAggregateRowsMissingRootsEmpty(t *testing.T) {
	rows, err := AggregateRows(testRoots(t), newTestCache())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAggregateByProvider(t *testing.T) {
	roots := testRoots(t)
	writeSessionFile(t, filepath.Join(roots.ClaudeSessions, "p"), "c.jsonl", claudeSessionJSONL)
	writeSessionFile(t, roots.CodexSessions, "x.jsonl", codexSessionJSONL)
	writeSessionFile(t, filepath.Join(roots.GeminiRoot, "hash1", "chats"), "g.json",
		`{"sessionId":"g1","projectHash":"hash1","startTime":"2025-06-04T11:00:00Z","lastUpdated":"2025-06-04T11:30:00Z","messages":[{"id":"m1","timestamp":"2025-06-04T11:00:05Z","type":"gemini","content":"ok","model":"gemini-2.0-flash","tokens":{"input":1,"output":2,"cached":0,"thoughts":0,"tool":0,"total":3}}]}`)
	// A JSON file outside a chats directory must not be scanned as Gemini.
	writeSessionFile(t, filepath.Join(roots.GeminiRoot, "hash1"), "scratch.json", `{"whatever":true}`)

	grouped, err := AggregateByProvider(roots, newTestCache())
	require.NoError(t, err)

	assert.Len(t, grouped.ClaudeCode, 1)
	assert.Len(t, grouped.Codex, 1)
	assert.Len(t, grouped.Gemini, 1)
	assert.Empty(t, grouped.CopilotCLI)

	assert.Equal(t, "Claude-Code", grouped.ClaudeCode[0].ExtensionName)
	assert.Equal(t, "gpt-5", singleUsageModel(t, grouped.Codex[0]))
}

func singleUsageModel(t *testing.T, a *models.CodeAnalysis) string {
	t.Helper()
	record := a.Record()
	require.NotNil(t, record)
	require.Len(t, record.ConversationUsage, 1)
	for model := range record.ConversationUsage {
		return model
	}
	return ""
}

func TestAnalyzeSessionFileMissing(t *testing.T) {
	_, err := AnalyzeSessionFile(filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.Error(t, err)
}

func TestAnalyzeEmptyFileYieldsEmptyCodexAnalysis(t *testing.T) {
	path := writeSessionFile(t, t.TempDir(), "empty.jsonl", "")

	result, err := AnalyzeSessionFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Codex", result.ExtensionName)
	require.Len(t, result.Records, 1)
	record := result.Records[0]
	assert.Zero(t, record.TotalUniqueFiles)
	assert.Empty(t, record.ReadFileDetails)
	assert.Empty(t, record.ConversationUsage)
}
