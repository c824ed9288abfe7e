package fileio

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codemetric/vibe-coding-tracker/logging"
	"github.com/codemetric/vibe-coding-tracker/models"
)

// SessionFileInfo describes a session file found during discovery.
type SessionFileInfo struct {
	Path string
	// ModifiedDate is the local YYYY-MM-DD date of the file mtime, used to
	// group sessions by day.
	ModifiedDate string
	ModTime      time.Time
}

// FileFilter decides whether a discovered file belongs to a provider scan.
type FileFilter func(path string) bool

// IsJSONLFile matches Claude and Codex session logs.
func IsJSONLFile(path string) bool {
	return strings.HasSuffix(path, ".jsonl")
}

// IsJSONFile matches Copilot session state files.
func IsJSONFile(path string) bool {
	return strings.HasSuffix(path, ".json")
}

// IsGeminiChatFile matches Gemini chat files, which live under
// ~/.gemini/tmp/<project_hash>/chats/*.json. Other JSON files under the
// Gemini tmp tree are unrelated scratch state and are skipped.
func IsGeminiChatFile(path string) bool {
	return strings.HasSuffix(path, ".json") &&
		filepath.Base(filepath.Dir(path)) == "chats"
}

// CollectSessionFiles walks root and returns every file accepted by filter
// together with its modification date. A missing root yields an empty slice.
func CollectSessionFiles(root string, filter FileFilter) []SessionFileInfo {
	var results []SessionFileInfo

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			logging.LogWarnf("skipping %s during discovery: %v", path, err)
			return nil
		}
		if d.IsDir() || !filter(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logging.LogWarnf("failed to stat %s: %v", path, err)
			return nil
		}

		results = append(results, SessionFileInfo{
			Path:         path,
			ModifiedDate: info.ModTime().Format(models.DateFormat),
			ModTime:      info.ModTime(),
		})
		return nil
	})
	if err != nil {
		logging.LogWarnf("discovery walk of %s aborted: %v", root, err)
	}

	return results
}

// ProviderScan pairs a session root with the filter selecting its files.
type ProviderScan struct {
	Extension models.ExtensionType
	Root      string
	Filter    FileFilter
}

// Scans returns the discovery plan for all four providers.
func (r *SessionRoots) Scans() []ProviderScan {
	return []ProviderScan{
		{models.ExtensionClaudeCode, r.ClaudeSessions, IsJSONLFile},
		{models.ExtensionCodex, r.CodexSessions, IsJSONLFile},
		{models.ExtensionCopilot, r.CopilotSessions, IsJSONFile},
		{models.ExtensionGemini, r.GeminiRoot, IsGeminiChatFile},
	}
}
