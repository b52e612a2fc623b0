package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette - keeping it minimal and accessible.
var (
	ColorWarning = lipgloss.Color("214") // Orange
	ColorError   = lipgloss.Color("196") // Red
	ColorMuted   = lipgloss.Color("240") // Dark gray
)

var (
	verboseStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	warningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	sqlLineStyle = lipgloss.NewStyle().Foreground(ColorError)
)

// shouldStyle reports whether output to w should carry ANSI styling:
// w must be a terminal and NO_COLOR must be unset.
func shouldStyle(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
