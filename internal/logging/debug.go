package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	debugMu  sync.Mutex
	debugOut io.Writer = os.Stderr
)

// DebugEnabled returns true if debug mode is enabled via TM_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TM_DEBUG") != ""
}

// SetDebugOutput redirects debug output. The TUI points it at the log file
// because it owns the terminal.
func SetDebugOutput(w io.Writer) {
	debugMu.Lock()
	defer debugMu.Unlock()
	debugOut = w
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		debugMu.Lock()
		defer debugMu.Unlock()
		fmt.Fprintf(debugOut, format, args...)
	}
}

// Debugln prints a debug message followed by a newline only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		debugMu.Lock()
		defer debugMu.Unlock()
		fmt.Fprintln(debugOut, args...)
	}
}
