// Package output provides terminal output, colors, and the debug log file.
package output

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Splog provides user-facing output plus a debug channel that goes to the
// rotated log file rather than the terminal.
type Splog struct {
	writer io.Writer
	debug  *log.Logger
}

// NewSplog creates a new splog instance writing to stdout
func NewSplog() *Splog {
	return &Splog{
		writer: os.Stdout,
		debug:  newDebugLogger(),
	}
}

// NewSplogWithWriter creates a splog writing to the given writer (for tests)
func NewSplogWithWriter(w io.Writer) *Splog {
	return &Splog{
		writer: w,
		debug:  log.New(io.Discard, "", 0),
	}
}

// Info writes an info message
func (s *Splog) Info(format string, args ...interface{}) {
	fmt.Fprintf(s.writer, format+"\n", args...)
}

// Newline writes a newline
func (s *Splog) Newline() {
	fmt.Fprintln(s.writer)
}

// Warn writes a warning message
func (s *Splog) Warn(format string, args ...interface{}) {
	fmt.Fprintf(s.writer, ColorYellow("⚠ ")+format+"\n", args...)
}

// Tip writes a tip message
func (s *Splog) Tip(format string, args ...interface{}) {
	fmt.Fprintf(s.writer, ColorCyan("tip: ")+format+"\n", args...)
}

// Debug writes a debug message to the log file only
func (s *Splog) Debug(format string, args ...interface{}) {
	s.debug.Printf(format, args...)
}
