// Package logger provides leveled diagnostic logging for consultsync.
// Messages go to stderr with the time elapsed since startup, so seeks,
// range plays and clock ticks can be lined up against each other.
// Logging is off unless --verbose or --log-level turns it on.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level orders log messages by severity.
type Level int

// Log levels, from most to least verbose.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelOff
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelOff:   "off",
}

// String returns the lower-case level name.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel parses a level name as accepted by --log-level.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for l, n := range levelNames {
		if n == name {
			return l, nil
		}
	}
	return LevelOff, fmt.Errorf("unknown log level %q (want debug, info, warn or off)", s)
}

var (
	mu      sync.RWMutex
	level             = LevelOff
	output  io.Writer = os.Stderr
	started           = time.Now()
	elapsed           = func() time.Duration { return time.Since(started) }
)

// SetVerbose switches between full debug logging and no logging.
func SetVerbose(v bool) {
	if v {
		SetLevel(LevelDebug)
		return
	}
	SetLevel(LevelOff)
}

// IsVerbose reports whether debug messages are printed.
func IsVerbose() bool {
	return CurrentLevel() == LevelDebug
}

// SetLevel sets the minimum level that is printed.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// CurrentLevel returns the minimum level that is printed.
func CurrentLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// SetOutput sets the writer for log messages. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug logs tracing detail such as individual seeks and ticks.
func Debug(format string, args ...any) {
	logf(LevelDebug, "DEBUG", format, args...)
}

// Info logs notable events such as imports and store selection.
func Info(format string, args ...any) {
	logf(LevelInfo, "INFO", format, args...)
}

// Warn logs recoverable failures.
func Warn(format string, args ...any) {
	logf(LevelWarn, "WARN", format, args...)
}

// Section prints a header separating phases in debug output.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if level <= LevelDebug {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

func logf(l Level, tag, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if l < level {
		return
	}
	fmt.Fprintf(output, "[%s +%.3fs] %s\n", tag, elapsed().Seconds(), fmt.Sprintf(format, args...))
}
