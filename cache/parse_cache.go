package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/codemetric/vibe-coding-tracker/logging"
	"github.com/codemetric/vibe-coding-tracker/models"
)

// ParseFunc converts a session file into its analysis.
type ParseFunc func(path string) (*models.CodeAnalysis, error)

type parseEntry struct {
	modTime  time.Time
	analysis *models.CodeAnalysis
}

// ParseCache memoizes parsed session files keyed by absolute path and
// invalidated by mtime change. Entries are shared pointers: consumers must
// treat the returned analysis as read-only.
type ParseCache struct {
	mu    sync.RWMutex
	lru   *LRU
	parse ParseFunc
}

// Stats describes the cache occupancy.
type Stats struct {
	EntryCount     int
	EstimatedBytes int
}

// NewParseCache creates a cache bounded to capacity entries that parses
// misses with parse.
func NewParseCache(capacity int, parse ParseFunc) *ParseCache {
	return &ParseCache{
		lru:   NewLRU(capacity),
		parse: parse,
	}
}

// GetOrParse returns the analysis for path, parsing the file only when no
// live entry matches its current mtime. The hit check peeks under a read
// lock without touching recency; promotion and insertion take the write
// lock. No lock is held across the file read or parse.
func (c *ParseCache) GetOrParse(path string) (*models.CodeAnalysis, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, abs)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	modTime := info.ModTime()

	c.mu.RLock()
	if v, ok := c.lru.Peek(abs); ok {
		entry := v.(parseEntry)
		if entry.modTime.Equal(modTime) {
			c.mu.RUnlock()
			c.mu.Lock()
			c.lru.Promote(abs)
			c.mu.Unlock()
			return entry.analysis, nil
		}
	}
	c.mu.RUnlock()

	logging.LogDebugf("parse cache miss for %s", abs)
	analysis, err := c.parse(abs)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if evicted, ok := c.lru.Put(abs, parseEntry{modTime: modTime, analysis: analysis}); ok {
		logging.LogDebugf("parse cache evicted %s", evicted)
	}
	c.mu.Unlock()

	return analysis, nil
}

// Clear removes every cached entry.
func (c *ParseCache) Clear() {
	c.mu.Lock()
	c.lru.Clear()
	c.mu.Unlock()
}

// Invalidate drops the entry for path, if present.
func (c *ParseCache) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	c.mu.Lock()
	c.lru.Delete(abs)
	c.mu.Unlock()
}

// CleanupStale evicts entries whose backing file no longer exists.
func (c *ParseCache) CleanupStale() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range c.lru.Keys() {
		if _, err := os.Stat(key); os.IsNotExist(err) {
			c.lru.Delete(key)
		}
	}
}

// Stats returns the entry count and a rough memory estimate.
func (c *ParseCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	bytes := 0
	for _, key := range c.lru.Keys() {
		if v, ok := c.lru.Peek(key); ok {
			bytes += estimateAnalysisBytes(v.(parseEntry).analysis)
		}
	}
	return Stats{EntryCount: c.lru.Len(), EstimatedBytes: bytes}
}

func estimateAnalysisBytes(a *models.CodeAnalysis) int {
	rec := a.Record()
	if rec == nil {
		return 256
	}
	size := 1024
	for _, d := range rec.WriteFileDetails {
		size += len(d.FilePath) + len(d.Content)
	}
	for _, d := range rec.ReadFileDetails {
		size += len(d.FilePath)
	}
	for _, d := range rec.EditFileDetails {
		size += len(d.FilePath) + len(d.OldString) + len(d.NewString)
	}
	for _, d := range rec.RunCommandDetails {
		size += len(d.Command) + len(d.Description)
	}
	return size
}
