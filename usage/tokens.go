package usage

import "github.com/codemetric/vibe-coding-tracker/models"

// ExtractTokenCounts normalizes any provider's usage object into flat token
// counts. Claude and Gemini store flat fields; Codex nests everything under
// total_token_usage with cached_input_tokens as the cache-read source and
// reasoning_output_tokens folded additively into output.
func ExtractTokenCounts(usage map[string]any) models.TokenCounts {
	var counts models.TokenCounts
	if usage == nil {
		return counts
	}

	counts.InputTokens = toInt64(usage["input_tokens"])
	counts.OutputTokens = toInt64(usage["output_tokens"])
	counts.CacheReadTokens = toInt64(usage["cache_read_input_tokens"])
	counts.CacheCreationTokens = toInt64(usage["cache_creation_input_tokens"])

	if total, ok := usage["total_token_usage"].(map[string]any); ok {
		counts.InputTokens = toInt64(total["input_tokens"])
		counts.OutputTokens = toInt64(total["output_tokens"]) + toInt64(total["reasoning_output_tokens"])
		counts.CacheReadTokens = toInt64(total["cached_input_tokens"])
		if totalTokens := toInt64(total["total_tokens"]); totalTokens > 0 {
			counts.TotalTokens = totalTokens
			return counts
		}
	}

	counts.TotalTokens = counts.InputTokens + counts.OutputTokens +
		counts.CacheReadTokens + counts.CacheCreationTokens
	return counts
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
