package pricing

import "github.com/codemetric/vibe-coding-tracker/models"

// tokenThreshold is the per-kind boundary above which the above-200k rate
// applies. Each token kind is evaluated independently per fold; cumulative
// counts across folds are deliberately not tracked.
const tokenThreshold = 200_000

// CalculateCost prices a token breakdown against a catalog entry.
func CalculateCost(tokens models.TokenCounts, p ModelPricing) float64 {
	price := func(count int64, base, above float64) float64 {
		if count > tokenThreshold {
			return above
		}
		return base
	}

	inputCost := float64(tokens.InputTokens) * price(tokens.InputTokens, p.InputCostPerToken, p.InputCostAbove200k)
	outputCost := float64(tokens.OutputTokens) * price(tokens.OutputTokens, p.OutputCostPerToken, p.OutputCostAbove200k)
	cacheReadCost := float64(tokens.CacheReadTokens) * price(tokens.CacheReadTokens, p.CacheReadInputTokenCost, p.CacheReadInputTokenCostAbove)
	cacheCreateCost := float64(tokens.CacheCreationTokens) * price(tokens.CacheCreationTokens, p.CacheCreationInputTokenCost, p.CacheCreateInputTokenCostAbove)

	return inputCost + outputCost + cacheReadCost + cacheCreateCost
}
