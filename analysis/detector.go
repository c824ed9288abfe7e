package analysis

import "github.com/codemetric/vibe-coding-tracker/models"

// DetectExtensionType classifies a record sequence by structural signals,
// evaluated in order:
//
//  1. a single object carrying sessionId, projectHash and messages is a
//     Gemini chat export;
//  2. a single object carrying sessionId, startTime and timeline is a
//     Copilot CLI session;
//  3. any record carrying parentUuid is a Claude Code log;
//  4. everything else, including an empty sequence, is Codex.
func DetectExtensionType(records []map[string]any) models.ExtensionType {
	if len(records) == 1 {
		obj := records[0]
		if hasKeys(obj, "sessionId", "projectHash", "messages") {
			return models.ExtensionGemini
		}
		if hasKeys(obj, "sessionId", "startTime", "timeline") {
			return models.ExtensionCopilot
		}
	}

	for _, record := range records {
		if _, ok := record["parentUuid"]; ok {
			return models.ExtensionClaudeCode
		}
	}

	return models.ExtensionCodex
}

func hasKeys(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}
