package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

const logFileName = "treediff.log"

// ParseLogLevel converts a configuration value such as "warn" into a LogLevel
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, nil
	case "", "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", s)
	}
}

var slogLevels = map[LogLevel]slog.Level{
	DEBUG: slog.LevelDebug,
	INFO:  slog.LevelInfo,
	WARN:  slog.LevelWarn,
	ERROR: slog.LevelError,
}

// ErrorStats counts the warnings and errors logged since the last Reset
type ErrorStats struct {
	TotalErrors   int
	TotalWarnings int
	LastError     string
}

// Logger writes leveled key=value records and keeps ErrorStats
type Logger struct {
	mu     sync.Mutex
	level  LogLevel
	path   string
	file   *os.File
	stats  ErrorStats
	logger *slog.Logger
}

func newDefaultLogger(level LogLevel) *Logger {
	l := &Logger{level: level}
	l.setWriter(os.Stderr)
	return l
}

// NewLogger creates a logger writing to the first log file that can be opened:
// the configured file, treediff.log in the temp dir, then treediff.log in the repository root.
// If none can be opened the logger writes to stderr and an error is returned.
func NewLogger(level LogLevel, configuredPath, gitRootPath string) (*Logger, error) {
	l := newDefaultLogger(level)

	candidates := logFileCandidates(configuredPath, gitRootPath)
	var lastErr error
	for _, path := range candidates {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			lastErr = err
			continue
		}
		l.file = file
		l.path = path
		l.setWriter(file)
		return l, nil
	}

	return l, fmt.Errorf("failed to open log file (tried %s): %w", strings.Join(candidates, ", "), lastErr)
}

func logFileCandidates(configuredPath, gitRootPath string) []string {
	var candidates []string
	if configuredPath != "" {
		candidates = append(candidates, configuredPath)
	}
	candidates = append(candidates, filepath.Join(os.TempDir(), logFileName))
	if gitRootPath != "" {
		candidates = append(candidates, filepath.Join(gitRootPath, logFileName))
	}
	return candidates
}

func (l *Logger) setWriter(w io.Writer) {
	l.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Path returns the log file in use, or "" when logging to a writer
func (l *Logger) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// SetOutput redirects log records to w
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setWriter(w)
}

// GetStats returns a copy of the error statistics
func (l *Logger) GetStats() ErrorStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// HasErrors returns true if any errors have been logged
func (l *Logger) HasErrors() bool {
	return l.GetStats().TotalErrors > 0
}

// Reset clears the statistics, e.g. between two watch refreshes
func (l *Logger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats = ErrorStats{}
}

func (l *Logger) log(level LogLevel, msg string, err error, fields map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	switch level {
	case WARN:
		l.stats.TotalWarnings++
	case ERROR:
		l.stats.TotalErrors++
		l.stats.LastError = msg
		if err != nil {
			l.stats.LastError += ": " + err.Error()
		}
	}

	args := make([]any, 0, 2*len(fields)+2)
	if err != nil {
		args = append(args, "error", err)
	}
	for _, key := range sortedFieldKeys(fields) {
		args = append(args, key, fields[key])
	}
	l.logger.Log(context.Background(), slogLevels[level], msg, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]any) {
	l.log(DEBUG, msg, nil, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]any) {
	l.log(INFO, msg, nil, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]any) {
	l.log(WARN, msg, nil, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, err error, fields map[string]any) {
	l.log(ERROR, msg, err, fields)
}

// Close closes the log file if one is open
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
