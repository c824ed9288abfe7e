package analysis

import "github.com/codemetric/vibe-coding-tracker/models"

// analyzeGeminiSession walks the messages of a Gemini chat export. Model
// messages carry per-turn token counts; tool call entries, when a session
// records them, carry the file operations.
func analyzeGeminiSession(session map[string]any) *models.CodeAnalysis {
	state := newAnalysisState()
	state.taskID = getString(session, "sessionId")
	usage := models.ConversationUsage{}

	messages, _ := getSlice(session, "messages")
	for _, item := range messages {
		message, ok := asMap(item)
		if !ok {
			continue
		}

		ts := parseISOTimestamp(getString(message, "timestamp"))
		state.observeTimestamp(ts)

		if getString(message, "type") == "gemini" {
			model := getString(message, "model")
			if tokens, ok := getMap(message, "tokens"); ok && model != "" {
				foldGeminiUsage(usage, model, geminiTokens{
					Input:    getInt64(tokens, "input"),
					Output:   getInt64(tokens, "output"),
					Cached:   getInt64(tokens, "cached"),
					Thoughts: getInt64(tokens, "thoughts"),
					Tool:     getInt64(tokens, "tool"),
					Total:    getInt64(tokens, "total"),
				})
			}
		}

		if toolCalls, ok := getSlice(message, "toolCalls"); ok {
			for _, tc := range toolCalls {
				if call, ok := asMap(tc); ok {
					processGeminiToolCall(state, call, ts)
				}
			}
		}
	}

	if state.gitRemote == "" {
		state.gitRemote = gitRemoteURL(state.folderPath)
	}

	return &models.CodeAnalysis{
		Records: []models.CodeAnalysisRecord{state.intoRecord(usage)},
	}
}

// processGeminiToolCall maps a recorded tool call onto the canonical
// read/write/edit/bash semantics.
func processGeminiToolCall(state *analysisState, call map[string]any, ts int64) {
	args, _ := getMap(call, "args")
	path := getString(args, "file_path")
	if path == "" {
		path = getString(args, "path")
	}

	switch getString(call, "name") {
	case "read_file", "ReadFile":
		content := getString(call, "resultDisplay")
		if content == "" {
			content = getString(args, "content")
		}
		state.addReadDetail(path, content, ts)
		state.toolCounts.Read++
	case "write_file", "WriteFile":
		state.addWriteDetail(path, getString(args, "content"), ts)
		state.toolCounts.Write++
	case "replace", "Edit":
		state.addEditDetail(path, getString(args, "old_string"), getString(args, "new_string"), ts)
		state.toolCounts.Edit++
	case "run_shell_command", "Shell":
		state.addRunCommand(getString(args, "command"), getString(args, "description"), ts)
		state.toolCounts.Bash++
	}
}
