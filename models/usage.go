package models

// DateUsageResult maps date (YYYY-MM-DD) -> model name -> usage object.
// The usage object keeps the provider-specific token layout so the JSON
// output round-trips what the session files recorded.
type DateUsageResult map[string]map[string]map[string]any

// TokenCounts is the normalized token breakdown extracted from any
// provider's usage object.
type TokenCounts struct {
	InputTokens         int64 `json:"input_tokens"`
	OutputTokens        int64 `json:"output_tokens"`
	CacheReadTokens     int64 `json:"cache_read_input_tokens"`
	CacheCreationTokens int64 `json:"cache_creation_input_tokens"`
	TotalTokens         int64 `json:"total_tokens"`
}

// IsZero reports whether the input, output, cache-read and cache-creation
// counters are all zero. TotalTokens is not consulted.
func (t TokenCounts) IsZero() bool {
	return t.InputTokens == 0 && t.OutputTokens == 0 &&
		t.CacheReadTokens == 0 && t.CacheCreationTokens == 0
}

// ModelUsageRow is one priced (date, model) usage entry handed to renderers.
type ModelUsageRow struct {
	Date         string         `json:"-"`
	Model        string         `json:"model"`
	Usage        map[string]any `json:"usage"`
	CostUSD      float64        `json:"cost_usd"`
	MatchedModel string         `json:"matched_model,omitempty"`
}

// AnalysisRow is one aggregated (date, model) activity entry.
type AnalysisRow struct {
	Date           string `json:"date"`
	Model          string `json:"model"`
	EditLines      int    `json:"editLines"`
	ReadLines      int    `json:"readLines"`
	WriteLines     int    `json:"writeLines"`
	BashCount      int    `json:"bashCount"`
	EditCount      int    `json:"editCount"`
	ReadCount      int    `json:"readCount"`
	TodoWriteCount int    `json:"todoWriteCount"`
	WriteCount     int    `json:"writeCount"`
}

// ProviderGrouped is the archival export shape: every CodeAnalysis observed,
// grouped under its provider root. Field order fixes the JSON key order.
type ProviderGrouped struct {
	ClaudeCode []*CodeAnalysis `json:"Claude-Code"`
	Codex      []*CodeAnalysis `json:"Codex"`
	CopilotCLI []*CodeAnalysis `json:"Copilot-CLI"`
	Gemini     []*CodeAnalysis `json:"Gemini"`
}
