// Package tui holds the interactive terminal front ends of sprocgen.
package tui

import (
	"os"

	"golang.org/x/term"
)

// NonInteractiveEnv disables every prompt when set to 1.
const NonInteractiveEnv = "SPROCGEN_NON_INTERACTIVE"

// IsInteractive reports whether a human is at the terminal: stdin and stdout
// are terminals, and neither SPROCGEN_NON_INTERACTIVE=1 nor CI is set.
func IsInteractive() bool {
	if os.Getenv(NonInteractiveEnv) == "1" || os.Getenv("CI") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
