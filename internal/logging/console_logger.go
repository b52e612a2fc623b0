package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// ConsoleLogger writes log messages to stderr.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	verbose bool
	styled  bool
	out     io.Writer
	mu      sync.Mutex
}

// NewConsoleLogger creates a new ConsoleLogger writing to stderr.
// If verbose is true, Verbose() calls will produce output.
// If verbose is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewConsoleLoggerTo(os.Stderr, verbose)
}

// NewConsoleLoggerTo creates a ConsoleLogger writing to w.
// Output is styled only if w is a terminal and NO_COLOR is unset.
func NewConsoleLoggerTo(w io.Writer, verbose bool) *ConsoleLogger {
	return &ConsoleLogger{
		verbose: verbose,
		styled:  shouldStyle(w),
		out:     w,
	}
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.write(verboseStyle, "[VERBOSE] ", format, args)
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.write(lipgloss.NewStyle(), "", format, args)
}

// Warning logs non-fatal diagnostics.
func (l *ConsoleLogger) Warning(format string, args ...interface{}) {
	l.write(warningStyle, "[WARNING] ", format, args)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.write(errorStyle, "[ERROR] ", format, args)
}

// SQLWithError prints sql with line numbers, highlighting errorLine (1-based).
// A single-line statement is printed as is.
func (l *ConsoleLogger) SQLWithError(sql string, errorLine int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range NumberSQL(sql) {
		text := line.Text
		if line.Number == errorLine && l.styled {
			text = sqlLineStyle.Render(text)
		}
		fmt.Fprintln(l.out, text)
	}
}

func (l *ConsoleLogger) write(style lipgloss.Style, prefix, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	msg = prefix + msg
	if l.styled {
		msg = style.Render(msg)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, msg)
}

// NumberedLine is one line of a numbered SQL listing.
type NumberedLine struct {
	Number int
	Text   string
}

// NumberSQL splits sql into lines prefixed with right-aligned line numbers.
// A single-line statement is returned unnumbered.
func NumberSQL(sql string) []NumberedLine {
	lines := strings.Split(sql, "\n")
	if len(lines) == 1 {
		return []NumberedLine{{Number: 1, Text: sql}}
	}

	width := len(strconv.Itoa(len(lines)))
	out := make([]NumberedLine, len(lines))
	for i, line := range lines {
		out[i] = NumberedLine{Number: i + 1, Text: fmt.Sprintf("%*d %s", width, i+1, line)}
	}
	return out
}

// Verify ConsoleLogger implements the interfaces at compile time
var (
	_ sprocgen.Logger    = (*ConsoleLogger)(nil)
	_ sprocgen.SQLLogger = (*ConsoleLogger)(nil)
)
