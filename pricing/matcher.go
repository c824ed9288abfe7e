package pricing

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/codemetric/vibe-coding-tracker/cache"
	"github.com/codemetric/vibe-coding-tracker/models"
	"github.com/xrash/smetrics"
)

// similarityThreshold is the minimum Jaro-Winkler score accepted as a
// fuzzy match.
const similarityThreshold = 0.70

// PricingResult is the outcome of a model lookup. MatchedModel names the
// catalog key when it differs from the queried model, so the UI can
// disclose the substitution; it is empty for exact matches and misses.
type PricingResult struct {
	Pricing      ModelPricing
	MatchedModel string
}

// PricingMap resolves model names to catalog entries with precomputed
// indices for the normalized and lowercase forms. Lookup results are
// memoized in a bounded LRU so the fuzzy scan runs at most once per
// distinct model string.
type PricingMap struct {
	raw             map[string]ModelPricing
	normalizedIndex map[string]string
	lowercaseKeys   []indexedKey

	mu   sync.RWMutex
	memo *cache.LRU
}

type indexedKey struct {
	lower    string
	original string
}

// NewPricingMap builds the lookup indices over an already-normalized
// pricing table.
func NewPricingMap(raw map[string]ModelPricing) *PricingMap {
	if raw == nil {
		raw = map[string]ModelPricing{}
	}

	m := &PricingMap{
		raw:             raw,
		normalizedIndex: make(map[string]string, len(raw)),
		lowercaseKeys:   make([]indexedKey, 0, len(raw)),
		memo:            cache.NewLRU(models.DefaultMatchCacheCapacity),
	}

	for key := range raw {
		if normalized := NormalizeModelName(key); normalized != key {
			m.normalizedIndex[normalized] = key
		}
		m.lowercaseKeys = append(m.lowercaseKeys, indexedKey{
			lower:    strings.ToLower(key),
			original: key,
		})
	}
	sort.Slice(m.lowercaseKeys, func(i, j int) bool {
		return m.lowercaseKeys[i].lower < m.lowercaseKeys[j].lower
	})

	return m
}

// Len returns the number of catalog entries.
func (m *PricingMap) Len() int { return len(m.raw) }

// Get resolves model to its best catalog entry: exact, then normalized,
// then substring, then fuzzy. A miss returns the zero-cost sentinel.
func (m *PricingMap) Get(model string) PricingResult {
	m.mu.RLock()
	if v, ok := m.memo.Peek(model); ok {
		m.mu.RUnlock()
		m.mu.Lock()
		m.memo.Promote(model)
		m.mu.Unlock()
		return v.(PricingResult)
	}
	m.mu.RUnlock()

	result := m.resolve(model)

	m.mu.Lock()
	m.memo.Put(model, result)
	m.mu.Unlock()
	return result
}

func (m *PricingMap) resolve(model string) PricingResult {
	// Exact match
	if pricing, ok := m.raw[model]; ok {
		return PricingResult{Pricing: pricing}
	}

	// Normalized match: both sides stripped of date suffixes, version
	// suffixes and provider prefixes.
	normalized := NormalizeModelName(model)
	if key, ok := m.normalizedIndex[normalized]; ok {
		return PricingResult{Pricing: m.raw[key], MatchedModel: key}
	}
	if pricing, ok := m.raw[normalized]; ok {
		return PricingResult{Pricing: pricing, MatchedModel: normalized}
	}

	modelLower := strings.ToLower(model)

	// Substring match: either side contains the other. The longest
	// overlap wins; equal overlaps prefer the shorter key.
	if key, ok := m.bestSubstringMatch(modelLower); ok {
		return PricingResult{Pricing: m.raw[key], MatchedModel: key}
	}

	// Fuzzy match on the normalized query.
	if key, ok := m.bestFuzzyMatch(strings.ToLower(normalized)); ok {
		return PricingResult{Pricing: m.raw[key], MatchedModel: key}
	}

	return PricingResult{}
}

func (m *PricingMap) bestSubstringMatch(modelLower string) (string, bool) {
	best := ""
	bestOverlap := 0
	for _, k := range m.lowercaseKeys {
		if !strings.Contains(modelLower, k.lower) && !strings.Contains(k.lower, modelLower) {
			continue
		}
		overlap := len(k.lower)
		if len(modelLower) < overlap {
			overlap = len(modelLower)
		}
		switch {
		case overlap > bestOverlap:
			best, bestOverlap = k.original, overlap
		case overlap == bestOverlap && best != "" && len(k.original) < len(best):
			best = k.original
		}
	}
	return best, best != ""
}

func (m *PricingMap) bestFuzzyMatch(normalizedLower string) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, k := range m.lowercaseKeys {
		score := smetrics.JaroWinkler(normalizedLower, k.lower, 0.7, 4)
		if score < similarityThreshold {
			continue
		}
		if score > bestScore || (score == bestScore && k.original < best) {
			best, bestScore = k.original, score
		}
	}
	return best, best != ""
}

var (
	dateSuffixPattern    = regexp.MustCompile(`-20\d{6}$`)
	versionSuffixPattern = regexp.MustCompile(`-v\d+(\.\d+)*$`)
)

// NormalizeModelName strips provider prefixes ("bedrock/", "openai/"),
// trailing date stamps ("-20250514") and version suffixes ("-v1.2").
func NormalizeModelName(name string) string {
	if idx := strings.Index(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = dateSuffixPattern.ReplaceAllString(name, "")
	name = versionSuffixPattern.ReplaceAllString(name, "")
	return name
}
