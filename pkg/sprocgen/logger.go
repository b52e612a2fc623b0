package sprocgen

// Logger provides a pluggable logging interface for sprocgen operations.
// Implementations must be safe for concurrent use by multiple goroutines.
type Logger interface {
	// Verbose logs detailed diagnostic information.
	// Only logged when verbose mode is enabled.
	Verbose(format string, args ...interface{})

	// Info logs informational messages about normal operations.
	Info(format string, args ...interface{})

	// Warning logs non-fatal diagnostics, e.g. undocumented parameters.
	Warning(format string, args ...interface{})

	// Error logs error messages.
	Error(format string, args ...interface{})
}

// SQLLogger is implemented by loggers that can print a statement with the
// line the RDBMS rejected highlighted.
type SQLLogger interface {
	SQLWithError(sql string, errorLine int)
}
