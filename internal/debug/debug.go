// Package debug provides development logging for agentdeck.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const timeLayout = "15:04:05.000"

var (
	mu      sync.Mutex
	out     io.Writer
	logFile *os.File
	logPath string
)

// Enable turns on debug logging to the specified file.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if out != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	//nolint:gosec // G304: path comes from the XDG data dir, not user input.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	logFile = f
	logPath = path
	out = f

	// Header is written inline; calling Log here would deadlock.
	ts := time.Now().Format(timeLayout)
	fmt.Fprintf(out, "[%s] === agentdeck debug session ===\n", ts)
	fmt.Fprintf(out, "[%s] Time: %s\n", ts, time.Now().Format(time.RFC3339))
	fmt.Fprintf(out, "[%s] Log file: %s\n", ts, path)
	_ = logFile.Sync() //nolint:errcheck // best effort flush

	return nil
}

// EnableWriter sends debug output to w. Used by tests and the CLI's
// --debug=stderr mode.
func EnableWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Disable turns off debug logging and closes the file.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close() //nolint:errcheck // nothing to do on close failure
		logFile = nil
	}
	out = nil
	logPath = ""
}

// IsEnabled returns whether debug logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return out != nil
}

// Log writes a debug message if logging is enabled.
func Log(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if out == nil {
		return
	}

	fmt.Fprintf(out, "[%s] %s\n", time.Now().Format(timeLayout), fmt.Sprintf(format, args...))
	if logFile != nil {
		_ = logFile.Sync() //nolint:errcheck // flush for tail -f
	}
}

// LogPath returns the path to the log file.
func LogPath() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Event logs a TUI event with component context.
func Event(component, eventType, details string) {
	Log("[%s] %s: %s", component, eventType, details)
}

// Error logs an error with context.
func Error(component string, err error, context string) {
	Log("[%s] ERROR: %s - %v", component, context, err)
}
