package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger provides leveled logging. A nil *Logger discards everything so the
// TUI output is never corrupted by stray log lines.
type Logger struct {
	level  LogLevel
	logger *log.Logger
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

// NewLogger creates a logger writing to logFile, or to a discard sink when
// logFile is empty.
func NewLogger(levelStr string, logFile string) *Logger {
	level := parseLogLevel(levelStr)

	var out io.Writer = io.Discard
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", logFile, err)
		} else {
			out = file
		}
	}

	return &Logger{
		level:  level,
		logger: log.New(out, "", log.LstdFlags),
	}
}

// InitLogger installs the process-wide logger. Debug mode forces the debug
// level regardless of levelStr.
func InitLogger(levelStr string, logFile string, debug bool) {
	if debug {
		levelStr = "debug"
	}
	globalMu.Lock()
	globalLogger = NewLogger(levelStr, logFile)
	globalMu.Unlock()
}

func global() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	return l
}

func parseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l != nil && l.level <= LevelDebug {
		l.logger.Printf("[DEBUG] "+format, args...)
	}
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	if l != nil && l.level <= LevelInfo {
		l.logger.Printf("[INFO] "+format, args...)
	}
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l != nil && l.level <= LevelWarn {
		l.logger.Printf("[WARN] "+format, args...)
	}
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l != nil && l.level <= LevelError {
		l.logger.Printf("[ERROR] "+format, args...)
	}
}

// Package-level helpers targeting the global logger.

func LogDebugf(format string, args ...interface{}) { global().Debugf(format, args...) }
func LogInfof(format string, args ...interface{})  { global().Infof(format, args...) }
func LogWarnf(format string, args ...interface{})  { global().Warnf(format, args...) }
func LogErrorf(format string, args ...interface{}) { global().Errorf(format, args...) }
