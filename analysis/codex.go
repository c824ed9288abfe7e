package analysis

import (
	"regexp"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/codemetric/vibe-coding-tracker/models"
)

// codexShellCall is a pending shell invocation awaiting its output record.
// Entries live in a per-file correlation table keyed by call_id and are
// removed once the matching function_call_output arrives.
type codexShellCall struct {
	timestamp   int64
	script      string
	fullCommand []string
}

type codexShellArguments struct {
	Command []string `json:"command"`
}

type codexShellOutput struct {
	Output   string `json:"output"`
	Metadata *struct {
		ExitCode        int     `json:"exit_code"`
		DurationSeconds float64 `json:"duration_seconds"`
	} `json:"metadata"`
}

// analyzeCodexRecords walks a Codex JSONL session: session_meta carries the
// workspace identity, turn_context the active model, event_msg the token
// counters and response_item the shell tool traffic.
func analyzeCodexRecords(records []map[string]any) *models.CodeAnalysis {
	state := newAnalysisState()
	usage := models.ConversationUsage{}
	currentModel := ""
	shellCalls := make(map[string]codexShellCall)

	for _, record := range records {
		ts := parseISOTimestamp(getString(record, "timestamp"))
		state.observeTimestamp(ts)

		payload, _ := getMap(record, "payload")

		switch getString(record, "type") {
		case "session_meta":
			if state.folderPath == "" {
				state.folderPath = getString(payload, "cwd")
			}
			if state.taskID == "" {
				state.taskID = getString(payload, "id")
			}
			if state.gitRemote == "" {
				if git, ok := getMap(payload, "git"); ok {
					state.gitRemote = getString(git, "repository_url")
				}
			}

		case "turn_context":
			if state.folderPath == "" {
				state.folderPath = getString(payload, "cwd")
			}
			if model := getString(payload, "model"); model != "" {
				currentModel = model
			}

		case "event_msg":
			if getString(payload, "type") == "token_count" && currentModel != "" {
				if info, ok := getMap(payload, "info"); ok {
					foldCodexUsage(usage, currentModel, info)
				}
			}

		case "response_item":
			switch getString(payload, "type") {
			case "function_call":
				if getString(payload, "name") != "shell" {
					continue
				}
				callID := getString(payload, "call_id")
				if callID == "" {
					continue
				}
				var args codexShellArguments
				if err := sonic.UnmarshalString(getString(payload, "arguments"), &args); err != nil {
					continue
				}
				script := ""
				if len(args.Command) > 0 {
					script = args.Command[len(args.Command)-1]
				}
				shellCalls[callID] = codexShellCall{
					timestamp:   ts,
					script:      script,
					fullCommand: args.Command,
				}

			case "function_call_output":
				callID := getString(payload, "call_id")
				call, ok := shellCalls[callID]
				if !ok {
					continue
				}
				delete(shellCalls, callID)

				var output codexShellOutput
				raw := getString(payload, "output")
				if err := sonic.UnmarshalString(raw, &output); err != nil {
					output = codexShellOutput{Output: raw}
				}
				handleCodexShellCall(state, call, output)
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

// handleCodexShellCall classifies a completed shell call. Patch envelopes
// and the common read idioms (sed -n, cat) become file operations; anything
// else is recorded as a plain command run.
func handleCodexShellCall(state *analysisState, call codexShellCall, output codexShellOutput) {
	if strings.Contains(call.script, "applypatch") || strings.Contains(call.script, "apply_patch") {
		for _, patch := range parseApplyPatchScript(call.script) {
			handleCodexPatch(state, patch, call.timestamp)
		}
		return
	}

	if path := extractSedFilePath(call.script); path != "" {
		state.addReadDetail(path, strings.TrimRight(output.Output, "\n"), call.timestamp)
		return
	}

	if path, content, ok := extractCatRead(call.script, output.Output); ok {
		state.addReadDetail(path, content, call.timestamp)
		return
	}

	command := call.script
	if len(call.fullCommand) > 0 {
		command = strings.Join(call.fullCommand, " ")
	}
	state.addRunCommand(command, "", call.timestamp)
	state.toolCounts.Bash++
}

// codexPatch is one file section of an apply_patch envelope.
type codexPatch struct {
	action   string // "add", "update" or "delete"
	filePath string
	lines    []string
}

// parseApplyPatchScript extracts the file sections between the
// "*** Begin Patch" and "*** End Patch" markers.
func parseApplyPatchScript(script string) []codexPatch {
	start := strings.Index(script, "*** Begin Patch")
	if start < 0 {
		return nil
	}

	var patches []codexPatch
	var current *codexPatch

	flush := func() {
		if current != nil {
			patches = append(patches, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(script[start:], "\n") {
		line = strings.TrimRight(line, "\r")

		switch {
		case strings.HasPrefix(line, "*** End Patch"):
			flush()
			return patches
		case strings.HasPrefix(line, "*** Begin Patch"):
			continue
		case strings.HasPrefix(line, "*** Update File:"):
			flush()
			current = &codexPatch{
				action:   "update",
				filePath: strings.TrimSpace(strings.TrimPrefix(line, "*** Update File:")),
			}
		case strings.HasPrefix(line, "*** Add File:"):
			flush()
			current = &codexPatch{
				action:   "add",
				filePath: strings.TrimSpace(strings.TrimPrefix(line, "*** Add File:")),
			}
		case strings.HasPrefix(line, "*** Delete File:"):
			flush()
			current = &codexPatch{
				action:   "delete",
				filePath: strings.TrimSpace(strings.TrimPrefix(line, "*** Delete File:")),
			}
		default:
			if current != nil {
				current.lines = append(current.lines, line)
			}
		}
	}

	flush()
	return patches
}

// extractPatchStrings splits diff lines into the old and new content:
// '+' lines build the new text, '-' lines the old, @@ and \ lines are
// dropped.
func extractPatchStrings(lines []string) (oldStr, newStr string) {
	var oldB, newB strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "@@") && len(line) > 1 {
			continue
		}
		switch line[0] {
		case '+':
			newB.WriteString(line[1:])
			newB.WriteByte('\n')
		case '-':
			oldB.WriteString(line[1:])
			oldB.WriteByte('\n')
		case '\\':
			continue
		}
	}
	return strings.TrimRight(oldB.String(), "\n"), strings.TrimRight(newB.String(), "\n")
}

func handleCodexPatch(state *analysisState, patch codexPatch, ts int64) {
	if patch.filePath == "" {
		return
	}
	resolved := state.normalizePath(patch.filePath)
	if resolved == "" {
		return
	}

	oldStr, newStr := extractPatchStrings(patch.lines)

	switch patch.action {
	case "add":
		state.addWriteDetail(resolved, newStr, ts)
	case "delete":
		if oldStr != "" {
			state.addEditDetail(resolved, oldStr, "", ts)
		}
	default:
		state.addEditDetail(resolved, oldStr, newStr, ts)
	}
}

var sedReadPattern = regexp.MustCompile(`sed\s+-n\s+'[^']*'\s+(\S+)`)

// extractSedFilePath recognizes the `sed -n '<range>' <path>` read idiom.
func extractSedFilePath(script string) string {
	match := sedReadPattern.FindStringSubmatch(script)
	if match == nil {
		return ""
	}
	return strings.Trim(match[1], `"'`)
}

// extractCatRead recognizes a `cat <path>` read; the output is truncated at
// the first "\n---" marker, which Codex appends when output is elided.
func extractCatRead(script, output string) (path, content string, ok bool) {
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "cat ") {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			continue
		}

		path = strings.Trim(fields[1], `"'`)
		content = output
		if idx := strings.Index(output, "\n---"); idx >= 0 {
			content = output[:idx]
		}
		return path, strings.TrimRight(content, "\n"), true
	}
	return "", "", false
}
