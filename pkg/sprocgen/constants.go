package sprocgen

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Build completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or placeholders
	ExitConnectionError = 11 // Failed to connect to database
	ExitCompileFailed   = 12 // One or more routines failed to compile
	ExitWrapperFailed   = 13 // Wrapper generation failed
)

const (
	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 30 * time.Second

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultSourceExtension is the extension of stored routine source files.
	DefaultSourceExtension = ".psql"

	// DefaultSourceEncoding is the character encoding assumed for source files.
	DefaultSourceEncoding = "utf-8"

	// DefaultMetadataFile is the file the routine metadata records are persisted in,
	// relative to the project directory.
	DefaultMetadataFile = "sprocgen.metadata.json"

	// DefaultWrapperFile is the generated data layer, relative to the project directory.
	DefaultWrapperFile = "datalayer/datalayer_gen.go"

	// DefaultWrapperPackage is the package name of the generated data layer.
	DefaultWrapperPackage = "datalayer"

	// DefaultWrapperType is the name of the generated data layer struct.
	DefaultWrapperType = "DataLayer"

	// DefaultPrepareConcurrency bounds how many routine sources are prepared at once.
	DefaultPrepareConcurrency = 8
)

// Magic placeholders bound by the compiler itself for every routine.
// They are never persisted in RoutineMetadata.Replace.
const (
	MagicFile    = "__FILE__"
	MagicRoutine = "__ROUTINE__"
	MagicDir     = "__DIR__"
	MagicLine    = "__LINE__"
)

// IsMagicPlaceholder reports whether key is one of the compiler-bound magic entries.
func IsMagicPlaceholder(key string) bool {
	switch key {
	case MagicFile, MagicRoutine, MagicDir, MagicLine:
		return true
	default:
		return false
	}
}
