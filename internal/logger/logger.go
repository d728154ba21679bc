// Package logger is the process-wide structured logger used by pkgtrack.
// Logs go to stderr so command output on stdout stays machine readable.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
)

// OutputFormat selects the slog handler.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Fields is a set of structured attributes attached to a log line.
type Fields map[string]interface{}

var (
	mu      sync.Mutex
	logger  *slog.Logger
	level   = new(slog.LevelVar)
	format  = FormatText
	testOut io.Writer
)

// SetTestOutput redirects all log output to w until UnsetTestOutput is called.
func SetTestOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	testOut = w
	logger = nil
}

// UnsetTestOutput restores the default output.
func UnsetTestOutput() {
	mu.Lock()
	defer mu.Unlock()
	testOut = nil
	logger = nil
}

// ParseLevel maps a config level name to a slog level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger (re)configures the global logger.
func InitLogger(logLevel string, outputFormat OutputFormat) {
	mu.Lock()
	defer mu.Unlock()
	level.Set(ParseLevel(logLevel))
	format = outputFormat
	logger = newLogger()
}

// SetOutputFormat switches the handler while keeping the current level.
func SetOutputFormat(outputFormat OutputFormat) {
	mu.Lock()
	defer mu.Unlock()
	format = outputFormat
	logger = newLogger()
}

// SetLevel changes the minimum level of the current logger.
func SetLevel(logLevel string) {
	level.Set(ParseLevel(logLevel))
}

// newLogger must be called with mu held.
func newLogger() *slog.Logger {
	var out io.Writer = os.Stderr
	if testOut != nil {
		out = testOut
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// GetLogger returns the configured logger, creating a default one on first use.
func GetLogger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = newLogger()
	}
	return logger
}

// Info logs an info message.
func Info(msg string, fields ...Fields) {
	GetLogger().Info(msg, mergeFields(fields...)...)
}

// Debug logs a debug message.
func Debug(msg string, fields ...Fields) {
	GetLogger().Debug(msg, mergeFields(fields...)...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...Fields) {
	GetLogger().Warn(msg, mergeFields(fields...)...)
}

// Error logs an error message.
func Error(msg string, fields ...Fields) {
	GetLogger().Error(msg, mergeFields(fields...)...)
}

// Success logs an info message tagged status=success.
func Success(msg string, fields ...Fields) {
	GetLogger().Info(msg, append(mergeFields(fields...), "status", "success")...)
}

// mergeFields flattens field maps into slog key/value pairs. Later maps win
// on duplicate keys; keys are emitted in sorted order.
func mergeFields(fields ...Fields) []interface{} {
	merged := make(map[string]interface{})
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]interface{}, 0, len(keys)*2)
	for _, k := range keys {
		result = append(result, k, merged[k])
	}
	return result
}
