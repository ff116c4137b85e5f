// pkg/logging/logging.go - leveled logging for wingetpack.
//
// Log lines go to the console, to a per-session log file, and to any
// registered subscribers. Subscribers are how a presentation layer (CLI
// status line, GUI log window) receives the (level, message) stream without
// scraping files.

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/windowsadmins/wingetpack/pkg/config"
)

// LogLevel represents the severity of the log message.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// String returns the string representation of the LogLevel.
func (ll LogLevel) String() string {
	switch ll {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a configuration string to a LogLevel, defaulting to INFO.
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "DEBUG":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Subscriber receives every rendered log line at or below the active level.
type Subscriber func(level LogLevel, line string)

// Logger encapsulates the logging state. All access goes through the
// package-level functions and the singleton instance.
type Logger struct {
	mu          sync.Mutex
	level       LogLevel
	logFile     *os.File
	subscribers []Subscriber
}

// DefaultLogDir is where per-session log files are written.
const DefaultLogDir = `C:\ProgramData\WingetPack\logs`

// instance is usable before Init: console-only at INFO level.
var instance = &Logger{level: LevelInfo}

// Init configures the singleton logger from the loaded configuration and
// opens a per-session log file. On file errors the logger stays console-only
// and the error is returned for the caller to report.
func Init(cfg *config.Configuration) error {
	instance.mu.Lock()
	defer instance.mu.Unlock()

	instance.level = ParseLevel(cfg.LogLevel)

	if err := os.MkdirAll(DefaultLogDir, 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	name := fmt.Sprintf("wingetpack-%s.log", time.Now().Format("2006-01-02-150405"))
	f, err := os.OpenFile(filepath.Join(DefaultLogDir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	instance.logFile = f
	return nil
}

// SetLevel overrides the active log level.
func SetLevel(level LogLevel) {
	instance.mu.Lock()
	defer instance.mu.Unlock()
	instance.level = level
}

// Subscribe registers a subscriber for the log stream.
func Subscribe(fn Subscriber) {
	instance.mu.Lock()
	defer instance.mu.Unlock()
	instance.subscribers = append(instance.subscribers, fn)
}

// Close closes the session log file if one is open.
func Close() {
	instance.mu.Lock()
	defer instance.mu.Unlock()
	if instance.logFile != nil {
		instance.logFile.Close()
		instance.logFile = nil
	}
}

// logMessage renders and dispatches one log line to all outputs.
func (l *Logger) logMessage(level LogLevel, tag, message string, keyValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level > l.level {
		return
	}

	var b strings.Builder
	b.WriteString(message)
	for i := 0; i+1 < len(keyValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyValues[i], keyValues[i+1])
	}
	line := b.String()

	stamped := fmt.Sprintf("%s [%s] %s", time.Now().Format("2006-01-02 15:04:05"), tag, line)
	fmt.Fprintln(os.Stderr, stamped)
	if l.logFile != nil {
		fmt.Fprintln(l.logFile, stamped)
	}
	for _, fn := range l.subscribers {
		fn(level, fmt.Sprintf("%s: %s", tag, line))
	}
}

// Error logs a message at ERROR level with optional key-value pairs.
func Error(message string, keyValues ...interface{}) {
	instance.logMessage(LevelError, "ERROR", message, keyValues...)
}

// Warn logs a message at WARN level.
func Warn(message string, keyValues ...interface{}) {
	instance.logMessage(LevelWarn, "WARN", message, keyValues...)
}

// Info logs a message at INFO level.
func Info(message string, keyValues ...interface{}) {
	instance.logMessage(LevelInfo, "INFO", message, keyValues...)
}

// Success logs a completion message. It renders with a SUCCESS tag but
// filters at INFO level.
func Success(message string, keyValues ...interface{}) {
	instance.logMessage(LevelInfo, "SUCCESS", message, keyValues...)
}

// Debug logs a message at DEBUG level.
func Debug(message string, keyValues ...interface{}) {
	instance.logMessage(LevelDebug, "DEBUG", message, keyValues...)
}
