package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireProjectPath validates that exactly one project_path argument is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireProjectPath(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <project_path>

Usage: %s

Example:
  %s ./db -d mydb`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}
