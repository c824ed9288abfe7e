package models

import "time"

// Version information, overridden by the linker at release time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Cache sizing
const (
	// DefaultParseCacheCapacity bounds the in-memory parse cache (entries).
	DefaultParseCacheCapacity = 100
	// DefaultMatchCacheCapacity bounds the pricing match memo (entries).
	DefaultMatchCacheCapacity = 200
)

// View refresh rates
const (
	DefaultRefreshInterval = 1 * time.Second
	MinRefreshInterval     = 100 * time.Millisecond
	MaxRefreshInterval     = 10 * time.Second
)

// Time formats
const (
	DateFormat        = "2006-01-02"
	DisplayTimeFormat = "2006-01-02 15:04:05"
)
