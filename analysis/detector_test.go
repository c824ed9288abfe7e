package analysis

import (
	"testing"

	"github.com/codemetric/vibe-coding-tracker/models"
	"github.com/stretchr/testify/assert"
)

func TestDetectExtensionType(t *testing.T) {
	tests := []struct {
		name    string
		records []map[string]any
		want    models.ExtensionType
	}{
		{
			name:    "empty sequence defaults to codex",
			records: nil,
			want:    models.ExtensionCodex,
		},
		{
			name: "gemini single session object",
			records: []map[string]any{{
				"sessionId":   "s1",
				"projectHash": "abc",
				"messages":    []any{},
			}},
			want: models.ExtensionGemini,
		},
		{
			name: "copilot single session object",
			records: []map[string]any{{
				"sessionId": "s1",
				"startTime": "2025-06-01T10:00:00Z",
				"timeline":  []any{},
			}},
			want: models.ExtensionCopilot,
		},
		{
			name: "gemini wins over copilot when both signal sets present",
			records: []map[string]any{{
				"sessionId":   "s1",
				"projectHash": "abc",
				"messages":    []any{},
				"startTime":   "2025-06-01T10:00:00Z",
				"timeline":    []any{},
			}},
			want: models.ExtensionGemini,
		},
		{
			name: "claude detected by parentUuid",
			records: []map[string]any{
				{"type": "user", "parentUuid": nil},
				{"type": "assistant"},
			},
			want: models.ExtensionClaudeCode,
		},
		{
			name: "claude marker anywhere in the sequence",
			records: []map[string]any{
				{"type": "a"}, {"type": "b"}, {"type": "c"},
				{"type": "d"}, {"type": "e"},
				{"parentUuid": "late"},
			},
			want: models.ExtensionClaudeCode,
		},
		{
			name: "codex by default",
			records: []map[string]any{
				{"type": "session_meta", "payload": map[string]any{}},
			},
			want: models.ExtensionCodex,
		},
		{
			name: "multiple records never match single-object formats",
			records: []map[string]any{
				{"sessionId": "s1", "projectHash": "abc", "messages": []any{}},
				{"sessionId": "s2", "projectHash": "def", "messages": []any{}},
			},
			want: models.ExtensionCodex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectExtensionType(tt.records))
		})
	}
}
