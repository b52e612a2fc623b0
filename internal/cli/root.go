package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/sprocgen/internal/logging"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

const banner = `
 ___ _ __  _ __ ___   ___ __ _  ___ _ __
/ __| '_ \| '__/ _ \ / __/ _' |/ _ \ '_ \
\__ \ |_) | | | (_) | (_| (_| |  __/ | | |
|___/ .__/|_|  \___/ \___\__, |\___|_| |_|
    |_|                  |___/            `

var rootCmd = &cobra.Command{
	Use:   "sprocgen",
	Short: "Stored routine metadata compiler and data layer generator",
	Long: banner + `

sprocgen loads stored routine sources into PostgreSQL, derives a metadata
record for every routine from its doc block and the catalog, and generates
a typed Go data layer from those records.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration, placeholder or duplicate routine
  11 - Database connection failed
  12 - One or more routines failed to compile
  13 - Wrapper generation failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for sprocgen")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write structured JSON log records instead of console output")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// newLogger returns the logger selected by --log-json and a function
// flushing it.
func newLogger(cmd *cobra.Command) (sprocgen.Logger, func(), error) {
	verbose := getVerboseFlag(cmd)

	asJSON, _ := cmd.Flags().GetBool("log-json")
	if !asJSON {
		return logging.NewConsoleLogger(verbose), func() {}, nil
	}

	logger, err := logging.NewZapLogger(verbose)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}
