package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
)

// LogLevel represents the severity level of a log entry
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a configuration string to a LogLevel, defaulting to info.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format selects how entries are written.
type Format string

const (
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
	// FormatText writes "time LEVEL message key=value ..." lines for a terminal.
	FormatText Format = "text"
)

// ParseFormat maps a configuration string to a Format, defaulting to JSON.
func ParseFormat(format string) Format {
	if strings.EqualFold(strings.TrimSpace(format), string(FormatText)) {
		return FormatText
	}
	return FormatJSON
}

// LogEntry represents a structured log entry
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	RequestID string                 `json:"request_id,omitempty"`
	Username  string                 `json:"username,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Stack     string                 `json:"stack,omitempty"`
	Service   string                 `json:"service,omitempty"`
	Version   string                 `json:"version,omitempty"`
}

// Logger writes leveled entries for the storefront client. Bearer tokens
// and other secrets are redacted before anything is written.
type Logger struct {
	level      LogLevel
	format     Format
	output     io.Writer
	service    string
	version    string
	production bool
	mutex      sync.RWMutex
	sanitizer  *ErrorSanitizer
	now        func() time.Time
}

// Config holds logger configuration
type Config struct {
	Level      LogLevel
	Format     Format
	Output     io.Writer
	Service    string
	Version    string
	Production bool
}

// DefaultConfig returns a default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:      LevelInfo,
		Format:     FormatJSON,
		Output:     os.Stderr,
		Service:    "tiembanhngot",
		Version:    "1.0.0",
		Production: false,
	}
}

// NewLogger creates a new logger instance
func NewLogger(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	output := config.Output
	if output == nil {
		output = os.Stderr
	}
	format := config.Format
	if format == "" {
		format = FormatJSON
	}

	return &Logger{
		level:      config.Level,
		format:     format,
		output:     output,
		service:    config.Service,
		version:    config.Version,
		production: config.Production,
		sanitizer:  NewErrorSanitizer(config.Production),
		now:        time.Now,
	}
}

var (
	defaultLogger *Logger
	defaultMu     sync.Mutex
)

// GetDefault returns the process logger, creating it on first use.
func GetDefault() *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogger(DefaultConfig())
	}
	return defaultLogger
}

// SetDefault replaces the process logger. Components created afterwards
// pick it up through GetDefault.
func SetDefault(logger *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.level
}

func (l *Logger) shouldLog(level LogLevel) bool {
	return level >= l.GetLevel()
}

func (l *Logger) log(ctx context.Context, level LogLevel, message string, fields map[string]interface{}, err error) {
	if !l.shouldLog(level) {
		return
	}

	entry := LogEntry{
		Timestamp: l.now().UTC(),
		Level:     level.String(),
		Message:   message,
		RequestID: GetRequestIDFromContext(ctx),
		Username:  GetUsernameFromContext(ctx),
		Service:   l.service,
		Version:   l.version,
		Fields:    l.sanitizer.SanitizeMap(fields),
	}

	if err != nil {
		entry.Error = l.sanitizer.Sanitize(err).Error()
		// Local storage and unknown failures are bugs on this machine; the
		// stack helps. Backend failures are not.
		if level >= LevelError && !l.production && isLocalFailure(err) {
			entry.Stack = stackTrace()
		}
	}

	var line []byte
	if l.format == FormatText {
		line = []byte(entry.text())
	} else {
		data, marshalErr := json.Marshal(entry)
		if marshalErr != nil {
			data = []byte(fmt.Sprintf(`{"timestamp":"%s","level":"%s","message":"JSON marshal error: %v","service":"%s"}`,
				entry.Timestamp.Format(time.RFC3339), entry.Level, marshalErr, l.service))
		}
		line = data
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.output.Write(append(line, '\n'))
}

// text renders the entry for a terminal. Fields are sorted so lines are
// stable.
func (e LogEntry) text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s %s", e.Timestamp.Format(time.RFC3339), e.Level, e.Message)

	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%v", key, e.Fields[key])
	}

	if e.RequestID != "" {
		fmt.Fprintf(&b, " request_id=%s", e.RequestID)
	}
	if e.Username != "" {
		fmt.Fprintf(&b, " username=%s", e.Username)
	}
	if e.Error != "" {
		fmt.Fprintf(&b, " error=%q", e.Error)
	}
	if e.Stack != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(e.Stack, "\n"))
	}
	return b.String()
}

func isLocalFailure(err error) bool {
	if appErr, ok := errors.IsAppError(err); ok {
		return appErr.Code == errors.ErrCodeInternal ||
			appErr.Code == errors.ErrCodeStorage
	}
	return true
}

func stackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// WithFields returns a new logger with additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *ContextLogger {
	return &ContextLogger{
		logger: l,
		fields: fields,
	}
}

// WithField returns a new logger with an additional field
func (l *Logger) WithField(key string, value interface{}) *ContextLogger {
	return l.WithFields(map[string]interface{}{key: value})
}

// Debug logs a debug message
func (l *Logger) Debug(ctx context.Context, message string) {
	l.log(ctx, LevelDebug, message, nil, nil)
}

// Info logs an info message
func (l *Logger) Info(ctx context.Context, message string) {
	l.log(ctx, LevelInfo, message, nil, nil)
}

// Warn logs a warning message
func (l *Logger) Warn(ctx context.Context, message string) {
	l.log(ctx, LevelWarn, message, nil, nil)
}

// Error logs an error message
func (l *Logger) Error(ctx context.Context, message string, err error) {
	l.log(ctx, LevelError, message, nil, err)
}

// ContextLogger carries fields that are added to every entry.
type ContextLogger struct {
	logger *Logger
	fields map[string]interface{}
}

// WithField returns a copy with key set.
func (cl *ContextLogger) WithField(key string, value interface{}) *ContextLogger {
	return cl.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a copy with fields merged over the existing ones.
func (cl *ContextLogger) WithFields(fields map[string]interface{}) *ContextLogger {
	merged := make(map[string]interface{}, len(cl.fields)+len(fields))
	for k, v := range cl.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &ContextLogger{
		logger: cl.logger,
		fields: merged,
	}
}

// Debug logs a debug message with context fields
func (cl *ContextLogger) Debug(ctx context.Context, message string) {
	cl.logger.log(ctx, LevelDebug, message, cl.fields, nil)
}

// Info logs an info message with context fields
func (cl *ContextLogger) Info(ctx context.Context, message string) {
	cl.logger.log(ctx, LevelInfo, message, cl.fields, nil)
}

// Warn logs a warning message with context fields
func (cl *ContextLogger) Warn(ctx context.Context, message string) {
	cl.logger.log(ctx, LevelWarn, message, cl.fields, nil)
}

// Error logs an error message with context fields
func (cl *ContextLogger) Error(ctx context.Context, message string, err error) {
	cl.logger.log(ctx, LevelError, message, cl.fields, err)
}
