package docxfill

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
	LogOff
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "DEBUG"
	case LogInfo:
		return "INFO"
	case LogWarn:
		return "WARN"
	case LogError:
		return "ERROR"
	case LogOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel maps a config string to a level. Unknown strings give LogInfo.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogDebug
	case "info":
		return LogInfo
	case "warn", "warning":
		return LogWarn
	case "error":
		return LogError
	case "off":
		return LogOff
	default:
		return LogInfo
	}
}

type Fields map[string]any

// Logger is a small leveled logger. Loggers derived with WithField share the
// writer and lock of their parent.
type Logger struct {
	out    *logOutput
	fields Fields
}

type logOutput struct {
	mu     sync.Mutex
	writer io.Writer
	level  LogLevel
}

var (
	globalLogger     *Logger
	globalLoggerMu   sync.RWMutex
	globalLoggerOnce sync.Once
)

func initGlobalLogger() {
	globalLoggerOnce.Do(func() {
		logger := NewLogger(os.Stderr, ParseLogLevel(GetGlobalConfig().LogLevel))
		globalLoggerMu.Lock()
		globalLogger = logger
		globalLoggerMu.Unlock()
	})
}

func NewLogger(w io.Writer, level LogLevel) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{out: &logOutput{writer: w, level: level}}
}

func (l *Logger) SetLevel(level LogLevel) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.level = level
}

func (l *Logger) Level() LogLevel {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	return l.out.level
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level LogLevel) bool {
	return level >= l.Level() && level != LogOff
}

func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(Fields{key: value})
}

func (l *Logger) WithFields(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{out: l.out, fields: merged}
}

func (l *Logger) log(level LogLevel, format string, args ...any) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if level < l.out.level || level == LogOff {
		return
	}

	var line strings.Builder
	line.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&line, " [%s] ", level)
	fmt.Fprintf(&line, format, args...)

	// sorted so that lines are stable across runs
	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&line, " %s=%v", k, l.fields[k])
	}

	fmt.Fprintln(l.out.writer, line.String())
}

func (l *Logger) Debug(format string, args ...any) {
	l.log(LogDebug, format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.log(LogInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.log(LogWarn, format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.log(LogError, format, args...)
}

// Global logging functions
func SetLogger(logger *Logger) {
	initGlobalLogger()
	if logger == nil {
		logger = NewLogger(io.Discard, LogOff)
	}
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = logger
}

func GetLogger() *Logger {
	initGlobalLogger()
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

func Debug(format string, args ...any) {
	GetLogger().Debug(format, args...)
}

func Info(format string, args ...any) {
	GetLogger().Info(format, args...)
}

func Warn(format string, args ...any) {
	GetLogger().Warn(format, args...)
}

func Error(format string, args ...any) {
	GetLogger().Error(format, args...)
}

func WithField(key string, value any) *Logger {
	return GetLogger().WithField(key, value)
}

func WithFields(fields Fields) *Logger {
	return GetLogger().WithFields(fields)
}

// UpdateLoggerFromConfig updates the global logger based on the current global configuration
func UpdateLoggerFromConfig() {
	GetLogger().SetLevel(ParseLogLevel(GetGlobalConfig().LogLevel))
}
