package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lspress/bibnorm/internal/entry"
)

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// printDiagnostics writes an entry's diagnostics to w, one block per
// entry, indented under the key.
func printDiagnostics(w io.Writer, e *entry.Entry) {
	if len(e.Diagnostics) == 0 {
		return
	}
	key := e.Key
	if key == "" {
		key = "(unparsed entry)"
	}
	fmt.Fprintln(w, key)
	for _, d := range e.Diagnostics {
		fmt.Fprintf(w, "  %s\n", d)
	}
}

// appendLog appends a timestamped line to the run log. Logging failures
// are reported but never fatal.
func appendLog(path, format string, args ...interface{}) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot open log %s: %v\n", path, err)
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s %s\n", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))
}
