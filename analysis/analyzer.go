package analysis

import (
	"os"
	"strings"
	"sync"

	"github.com/codemetric/vibe-coding-tracker/cache"
	"github.com/codemetric/vibe-coding-tracker/fileio"
	"github.com/codemetric/vibe-coding-tracker/models"
)

// AnalyzeSessionFile reads, detects and analyzes one session file into the
// uniform CodeAnalysis shape.
func AnalyzeSessionFile(path string) (*models.CodeAnalysis, error) {
	records, err := fileio.ReadRecords(path)
	if err != nil {
		return nil, err
	}
	return AnalyzeRecords(records), nil
}

// AnalyzeRecords dispatches a record sequence to the analyzer matching its
// detected provider and stamps the environment metadata.
func AnalyzeRecords(records []map[string]any) *models.CodeAnalysis {
	extType := DetectExtensionType(records)

	var analysis *models.CodeAnalysis
	switch extType {
	case models.ExtensionClaudeCode:
		analysis = analyzeClaudeRecords(records)
	case models.ExtensionCopilot:
		analysis = analyzeCopilotSession(records[0])
	case models.ExtensionGemini:
		analysis = analyzeGeminiSession(records[0])
	default:
		analysis = analyzeCodexRecords(records)
	}

	analysis.ExtensionName = extType.String()
	analysis.User = currentUser()
	analysis.MachineID = machineID()
	analysis.InsightsVersion = models.Version
	return analysis
}

func currentUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	if user := os.Getenv("USERNAME"); user != "" {
		return user
	}
	return "unknown"
}

var machineIDOnce = sync.OnceValue(func() string {
	if data, err := os.ReadFile("/etc/machine-id"); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id
		}
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}
	return "unknown-machine-id"
})

func machineID() string { return machineIDOnce() }

// The process-wide parse cache. All aggregation paths go through it so a
// session file is parsed at most once per mtime.
var (
	sharedCacheOnce sync.Once
	sharedCache     *cache.ParseCache
)

// SharedCache returns the lazily initialized process-wide parse cache.
func SharedCache() *cache.ParseCache {
	sharedCacheOnce.Do(func() {
		sharedCache = cache.NewParseCache(models.DefaultParseCacheCapacity, AnalyzeSessionFile)
	})
	return sharedCache
}
