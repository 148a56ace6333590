// Package output provides terminal output utilities.
package output

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// logger is the package logger. Access it through the helpers below.
var (
	logger *log.Logger
	mu     sync.RWMutex
	sink   io.Writer = os.Stderr
)

func init() {
	logger = newLogger(sink, log.InfoLevel, true, false)
}

// LogConfig configures the package logger.
type LogConfig struct {
	// Verbose enables debug level and caller reporting, and forces timestamps.
	Verbose bool

	// Timestamps toggles timestamps. nil means on.
	Timestamps *bool
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

func (c LogConfig) timestamps() bool {
	if c.Verbose {
		return true
	}
	if c.Timestamps != nil {
		return *c.Timestamps
	}
	return true
}

func newLogger(w io.Writer, level log.Level, timestamps, caller bool) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
		ReportCaller:    caller,
		TimeFormat:      "15:04:05",
	})
}

// SetupLogging configures the logger based on cfg.
func SetupLogging(cfg LogConfig) {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(sink, level, cfg.timestamps(), cfg.Verbose)
}

// SetLogOutput redirects log output to w, keeping the current level.
// It returns the previous writer.
func SetLogOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := sink
	sink = w
	logger.SetOutput(w)
	return prev
}

func current() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// StepLogger returns a child logger whose lines carry a step:<name> prefix.
func StepLogger(name string) *log.Logger {
	return current().WithPrefix(StyleDim.Render("step:") + StyleNoun.Render(name))
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	current().Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	current().Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	current().Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	current().Error(msg, keyvals...)
}

// Details writes multi-line text to the log sink as-is, for structured
// error output that reads badly as a log value.
func Details(text string) {
	mu.RLock()
	w := sink
	mu.RUnlock()
	io.WriteString(w, text)
	if !strings.HasSuffix(text, "\n") {
		io.WriteString(w, "\n")
	}
}
