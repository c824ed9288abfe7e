package analysis

import (
	"strings"

	"github.com/codemetric/vibe-coding-tracker/models"
)

// Folding helpers that merge per-record token usage into the per-model
// conversation usage map. Each provider keeps its native layout so the JSON
// output round-trips what the session recorded.

var claudeTokenFields = []string{
	"input_tokens",
	"cache_creation_input_tokens",
	"cache_read_input_tokens",
	"output_tokens",
}

// foldClaudeUsage merges one assistant message's usage object. Token fields
// sum, the cache_creation sub-map merges field-wise, and service_tier is
// last-writer-wins.
func foldClaudeUsage(usage models.ConversationUsage, model string, msgUsage map[string]any) {
	if strings.Contains(model, "<synthetic>") {
		return
	}

	existing, ok := usage[model]
	if !ok {
		existing = map[string]any{
			"input_tokens":                int64(0),
			"cache_creation_input_tokens": int64(0),
			"cache_read_input_tokens":     int64(0),
			"cache_creation":              map[string]any{},
			"output_tokens":               int64(0),
			"service_tier":                "",
		}
		usage[model] = existing
	}

	accumulateInt64Fields(existing, msgUsage, claudeTokenFields)

	if tier := getString(msgUsage, "service_tier"); tier != "" {
		existing["service_tier"] = tier
	}

	if cacheCreation, ok := getMap(msgUsage, "cache_creation"); ok {
		accumulateNestedObject(existing, "cache_creation", cacheCreation)
	}
}

// foldCodexUsage merges one token_count event's info object into the model's
// usage. The total_token_usage sub-map accumulates; last_token_usage and
// model_context_window are replaced with the latest observation.
func foldCodexUsage(usage models.ConversationUsage, model string, info map[string]any) {
	if strings.Contains(model, "<synthetic>") {
		return
	}

	existing, ok := usage[model]
	if !ok {
		existing = map[string]any{
			"total_token_usage":    map[string]any{},
			"last_token_usage":     map[string]any{},
			"model_context_window": nil,
		}
		usage[model] = existing
	}

	if total, ok := getMap(info, "total_token_usage"); ok {
		accumulateNestedObject(existing, "total_token_usage", total)
	}
	if last, ok := info["last_token_usage"]; ok {
		existing["last_token_usage"] = last
	}
	if window, ok := info["model_context_window"]; ok {
		existing["model_context_window"] = window
	}
}

// geminiTokens is the per-message token breakdown of a Gemini chat.
type geminiTokens struct {
	Input    int64
	Output   int64
	Cached   int64
	Thoughts int64
	Tool     int64
	Total    int64
}

// foldGeminiUsage maps the Gemini breakdown onto the flat layout: input ->
// input_tokens, output+thoughts -> output_tokens, cached ->
// cache_read_input_tokens. Tool and total counts are carried as
// informational fields only.
func foldGeminiUsage(usage models.ConversationUsage, model string, tokens geminiTokens) {
	existing, ok := usage[model]
	if !ok {
		existing = map[string]any{
			"input_tokens":                int64(0),
			"output_tokens":               int64(0),
			"cache_read_input_tokens":     int64(0),
			"cache_creation_input_tokens": int64(0),
			"thoughts_tokens":             int64(0),
			"tool_tokens":                 int64(0),
			"total_tokens":                int64(0),
		}
		usage[model] = existing
	}

	addInt64(existing, "input_tokens", tokens.Input)
	addInt64(existing, "output_tokens", tokens.Output+tokens.Thoughts)
	addInt64(existing, "cache_read_input_tokens", tokens.Cached)
	addInt64(existing, "thoughts_tokens", tokens.Thoughts)
	addInt64(existing, "tool_tokens", tokens.Tool)
	addInt64(existing, "total_tokens", tokens.Total)
}

// accumulateInt64Fields sums the listed integer fields from source into
// target. Fields missing from source are left untouched.
func accumulateInt64Fields(target, source map[string]any, fields []string) {
	for _, field := range fields {
		v, ok := source[field]
		if !ok {
			continue
		}
		addInt64(target, field, toInt64(v))
	}
}

// accumulateNestedObject merges every integer field of sourceNested into
// target[fieldName], creating the sub-map when absent.
func accumulateNestedObject(target map[string]any, fieldName string, sourceNested map[string]any) {
	nested, ok := getMap(target, fieldName)
	if !ok {
		nested = map[string]any{}
		target[fieldName] = nested
	}
	for key, value := range sourceNested {
		switch value.(type) {
		case float64, int64, int:
			addInt64(nested, key, toInt64(value))
		}
	}
}

func addInt64(m map[string]any, key string, delta int64) {
	m[key] = toInt64(m[key]) + delta
}
