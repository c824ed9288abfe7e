package analysis

import (
	"path/filepath"
	"strings"

	"github.com/codemetric/vibe-coding-tracker/models"
)

// analysisState is the accumulator shared by all provider analyzers. The
// add methods maintain the detail lists, the running totals and the
// unique-file set; tool call counters are the analyzers' responsibility
// because counting and detail extraction are driven by different records.
type analysisState struct {
	writeDetails []models.WriteDetail
	readDetails  []models.ReadDetail
	editDetails  []models.EditDetail
	runDetails   []models.RunCommandDetail
	toolCounts   models.ToolCallCounts
	uniqueFiles  map[string]struct{}

	totalWriteLines int
	totalReadLines  int
	totalEditLines  int
	totalWriteChars int
	totalReadChars  int
	totalEditChars  int

	folderPath string
	gitRemote  string
	taskID     string
	lastTS     int64
}

func newAnalysisState() *analysisState {
	return &analysisState{
		uniqueFiles: make(map[string]struct{}, 20),
	}
}

func (s *analysisState) observeTimestamp(ts int64) {
	if ts > s.lastTS {
		s.lastTS = ts
	}
}

// addReadDetail records a file read. Empty content is ignored.
func (s *analysisState) addReadDetail(path, content string, ts int64) {
	trimmed := strings.TrimRight(content, "\n")
	lineCount := countLines(trimmed)
	if lineCount == 0 {
		return
	}

	resolved := s.normalizePath(path)
	if resolved == "" {
		return
	}
	charCount := runeCount(trimmed)

	s.readDetails = append(s.readDetails, models.ReadDetail{
		DetailBase: models.DetailBase{
			FilePath:       resolved,
			LineCount:      lineCount,
			CharacterCount: charCount,
			Timestamp:      ts,
		},
	})
	s.uniqueFiles[resolved] = struct{}{}
	s.totalReadLines += lineCount
	s.totalReadChars += charCount
}

// addWriteDetail records a file creation with its full content.
func (s *analysisState) addWriteDetail(path, content string, ts int64) {
	trimmed := strings.TrimRight(content, "\n")
	lineCount := countLines(trimmed)
	charCount := runeCount(trimmed)

	resolved := s.normalizePath(path)
	if resolved == "" {
		return
	}

	s.writeDetails = append(s.writeDetails, models.WriteDetail{
		DetailBase: models.DetailBase{
			FilePath:       resolved,
			LineCount:      lineCount,
			CharacterCount: charCount,
			Timestamp:      ts,
		},
		Content: trimmed,
	})
	s.uniqueFiles[resolved] = struct{}{}
	s.totalWriteLines += lineCount
	s.totalWriteChars += charCount
}

// addEditDetail records an in-place edit. An edit whose old content is empty
// and whose new content is not is really a file creation and is promoted.
func (s *analysisState) addEditDetail(path, oldStr, newStr string, ts int64) {
	trimmedOld := strings.TrimRight(oldStr, "\n")
	trimmedNew := strings.TrimRight(newStr, "\n")

	if trimmedOld == "" && trimmedNew != "" {
		s.addWriteDetail(path, newStr, ts)
		return
	}

	lineCount := countLines(trimmedNew)
	charCount := runeCount(trimmedNew)

	resolved := s.normalizePath(path)
	if resolved == "" {
		return
	}

	s.editDetails = append(s.editDetails, models.EditDetail{
		DetailBase: models.DetailBase{
			FilePath:       resolved,
			LineCount:      lineCount,
			CharacterCount: charCount,
			Timestamp:      ts,
		},
		OldString: trimmedOld,
		NewString: trimmedNew,
	})
	s.uniqueFiles[resolved] = struct{}{}
	s.totalEditLines += lineCount
	s.totalEditChars += charCount
}

// addRunCommand records a shell command execution.
func (s *analysisState) addRunCommand(command, description string, ts int64) {
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}

	s.runDetails = append(s.runDetails, models.RunCommandDetail{
		DetailBase: models.DetailBase{
			FilePath:       s.folderPath,
			LineCount:      0,
			CharacterCount: runeCount(command),
			Timestamp:      ts,
		},
		Command:     command,
		Description: description,
	})
}

// normalizePath resolves a relative path against the session cwd so the
// unique-file set keys on absolute paths.
func (s *analysisState) normalizePath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	if s.folderPath == "" {
		return path
	}
	return filepath.Join(s.folderPath, path)
}

// intoRecord finalizes the accumulator into a session record.
func (s *analysisState) intoRecord(usage models.ConversationUsage) models.CodeAnalysisRecord {
	if usage == nil {
		usage = models.ConversationUsage{}
	}
	return models.CodeAnalysisRecord{
		TotalUniqueFiles:     len(s.uniqueFiles),
		TotalWriteLines:      s.totalWriteLines,
		TotalReadLines:       s.totalReadLines,
		TotalEditLines:       s.totalEditLines,
		TotalWriteCharacters: s.totalWriteChars,
		TotalReadCharacters:  s.totalReadChars,
		TotalEditCharacters:  s.totalEditChars,
		WriteFileDetails:     s.writeDetails,
		ReadFileDetails:      s.readDetails,
		EditFileDetails:      s.editDetails,
		RunCommandDetails:    s.runDetails,
		ToolCallCounts:       s.toolCounts,
		ConversationUsage:    usage,
		TaskID:               s.taskID,
		Timestamp:            s.lastTS,
		FolderPath:           s.folderPath,
		GitRemoteURL:         s.gitRemote,
	}
}
