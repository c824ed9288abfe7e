package analysis

import "github.com/codemetric/vibe-coding-tracker/models"

// analyzeClaudeRecords walks a Claude Code JSONL session. Assistant messages
// contribute token usage and tool_use counters; toolUseResult records carry
// the file operation payloads.
func analyzeClaudeRecords(records []map[string]any) *models.CodeAnalysis {
	state := newAnalysisState()
	usage := models.ConversationUsage{}

	for _, record := range records {
		if cwd := getString(record, "cwd"); cwd != "" && state.folderPath == "" {
			state.folderPath = cwd
		}
		if sessionID := getString(record, "sessionId"); sessionID != "" {
			state.taskID = sessionID
		}

		ts := parseISOTimestamp(getString(record, "timestamp"))
		state.observeTimestamp(ts)

		if getString(record, "type") == "assistant" {
			if message, ok := getMap(record, "message"); ok {
				processClaudeAssistantMessage(state, usage, message, ts)
			}
		}

		if toolUseResult, ok := getMap(record, "toolUseResult"); ok {
			processClaudeToolResult(state, toolUseResult, ts)
		}
	}

	if state.gitRemote == "" {
		state.gitRemote = gitRemoteURL(state.folderPath)
	}

	return &models.CodeAnalysis{
		Records: []models.CodeAnalysisRecord{state.intoRecord(usage)},
	}
}

func processClaudeAssistantMessage(state *analysisState, usage models.ConversationUsage, message map[string]any, ts int64) {
	if model := getString(message, "model"); model != "" {
		if msgUsage, ok := getMap(message, "usage"); ok {
			foldClaudeUsage(usage, model, msgUsage)
		}
	}

	content, ok := getSlice(message, "content")
	if !ok {
		return
	}
	for _, item := range content {
		block, ok := asMap(item)
		if !ok || getString(block, "type") != "tool_use" {
			continue
		}

		switch getString(block, "name") {
		case "Read":
			state.toolCounts.Read++
		case "Write":
			state.toolCounts.Write++
		case "Edit":
			state.toolCounts.Edit++
		case "TodoWrite":
			state.toolCounts.TodoWrite++
		case "Bash":
			state.toolCounts.Bash++
			if input, ok := getMap(block, "input"); ok {
				state.addRunCommand(getString(input, "command"), getString(input, "description"), ts)
			}
		}
	}
}

func processClaudeToolResult(state *analysisState, result map[string]any, ts int64) {
	resultType := getString(result, "type")

	// Read results nest the file payload one level down.
	if resultType == "text" {
		if file, ok := getMap(result, "file"); ok {
			state.addReadDetail(getString(file, "filePath"), getString(file, "content"), ts)
		}
		return
	}

	if resultType == "create" {
		state.addWriteDetail(getString(result, "filePath"), getString(result, "content"), ts)
		return
	}

	if filePath := getString(result, "filePath"); filePath != "" {
		if newString, ok := result["newString"].(string); ok {
			oldString, _ := result["oldString"].(string)
			state.addEditDetail(filePath, oldString, newString, ts)
		}
	}
}
