package analysis

import (
	"strings"

	"github.com/bytedance/sonic"
	"github.com/codemetric/vibe-coding-tracker/models"
)

// analyzeCopilotSession walks the timeline of a Copilot CLI session state
// file. Token usage is not recorded by Copilot, so the usage map carries the
// fixed "copilot" model with zero counts.
func analyzeCopilotSession(session map[string]any) *models.CodeAnalysis {
	state := newAnalysisState()
	state.taskID = getString(session, "sessionId")

	usage := models.ConversationUsage{
		"copilot": map[string]any{
			"input_tokens":                int64(0),
			"output_tokens":               int64(0),
			"cache_read_input_tokens":     int64(0),
			"cache_creation_input_tokens": int64(0),
		},
	}

	timeline, _ := getSlice(session, "timeline")
	for _, item := range timeline {
		event, ok := asMap(item)
		if !ok {
			continue
		}

		ts := parseISOTimestamp(getString(event, "timestamp"))
		state.observeTimestamp(ts)

		arguments, ok := getMap(event, "arguments")
		if !ok {
			continue
		}

		switch getString(event, "toolTitle") {
		case "bash":
			command := getString(arguments, "command")
			if command == "" {
				// Fall back to the serialized arguments so the run is
				// still visible in the command log.
				if raw, err := sonic.MarshalString(arguments); err == nil {
					command = raw
				}
			}
			state.addRunCommand(command, getString(arguments, "description"), ts)
			state.toolCounts.Bash++

		case "str_replace_editor":
			processCopilotEditorCall(state, event, arguments, ts)
		}
	}

	if state.gitRemote == "" {
		state.gitRemote = gitRemoteURL(state.folderPath)
	}

	return &models.CodeAnalysis{
		ExtensionName: models.ExtensionCopilot.String(),
		Records:       []models.CodeAnalysisRecord{state.intoRecord(usage)},
	}
}

func processCopilotEditorCall(state *analysisState, event, arguments map[string]any, ts int64) {
	path := getString(arguments, "path")
	if path == "" {
		return
	}

	switch getString(arguments, "command") {
	case "view":
		state.addReadDetail(path, copilotViewContent(event, arguments), ts)
		state.toolCounts.Read++

	case "str_replace":
		oldStr := getString(arguments, "old_str")
		newStr := getString(arguments, "new_str")
		state.addEditDetail(path, oldStr, newStr, ts)
		state.toolCounts.Edit++

	case "create":
		state.addWriteDetail(path, getString(arguments, "file_text"), ts)
		state.toolCounts.Write++
	}
}

// copilotViewContent reconstructs what a view command read. A view_range
// yields a synthetic block of the spanned line count; a full-file view uses
// the captured result content.
func copilotViewContent(event, arguments map[string]any) string {
	if viewRange, ok := getSlice(arguments, "view_range"); ok && len(viewRange) >= 2 {
		start := toInt64(viewRange[0])
		end := toInt64(viewRange[1])
		span := int(end - start + 1)
		if span < 1 {
			return ""
		}
		return strings.Repeat(" \n", span)
	}

	if result, ok := getMap(event, "result"); ok {
		if content := getString(result, "content"); content != "" {
			return content
		}
		return getString(result, "log")
	}
	return ""
}
