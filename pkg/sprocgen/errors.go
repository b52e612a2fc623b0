package sprocgen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for routine compilation failures.
// Every fatal compilation failure wraps exactly one of these so that callers
// can classify it with errors.Is().
var (
	ErrSourceMissing       = errors.New("source file does not exist")
	ErrSourceUnreadable    = errors.New("source file is unreadable")
	ErrUnknownPlaceholder  = errors.New("unknown placeholder")
	ErrNoDesignation       = errors.New("designation type not found")
	ErrUnknownDesignation  = errors.New("unknown designation type")
	ErrMalformedBulkInsert = errors.New("malformed bulk_insert designation")
	ErrMalformedColumns    = errors.New("malformed key or index columns")
	ErrUnexpectedArgument  = errors.New("designation type does not take an argument")
	ErrRoutineNameMismatch = errors.New("routine name does not match file name")
	ErrRoutineLoad         = errors.New("routine could not be loaded")
	ErrBulkColumnMismatch  = errors.New("bulk_insert columns do not match table")
)

// Sentinel errors for the surrounding build.
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrCompileFailed indicates at least one routine failed to compile.
	ErrCompileFailed = errors.New("routine compilation failed")

	// ErrWrapperFailed indicates the wrapper could not be generated.
	ErrWrapperFailed = errors.New("wrapper generation failed")

	// ErrDuplicateRoutine indicates two source files define the same routine name.
	ErrDuplicateRoutine = errors.New("duplicate routine source")
)

// CompileError is a fatal failure of a single routine compilation.
// It carries the offending file and, where applicable, the offending token so
// that the message is directly actionable.
type CompileError struct {
	Kind  error  // One of the Err* sentinels above
	Path  string // Source file of the routine
	Token string // Offending placeholder, keyword or name (optional)
	Hint  string // Actionable suggestion (optional)
	Err   error  // Underlying cause (optional)
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Token != "" {
		fmt.Fprintf(&b, " '%s'", e.Token)
	}
	fmt.Fprintf(&b, " in file %s", e.Path)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Hint != "" {
		b.WriteString("\n\nHint: " + e.Hint)
	}
	return b.String()
}

// Unwrap exposes both the sentinel kind and the underlying cause.
func (e *CompileError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// SQLError reports a statement rejected by the RDBMS together with the line
// of the statement the RDBMS pointed at (1-based, 0 if unknown).
type SQLError struct {
	SQL  string
	Line int
	Err  error
}

func (e *SQLError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *SQLError) Unwrap() error { return e.Err }

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnknownPlaceholder), errors.Is(err, ErrDuplicateRoutine):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrCompileFailed):
		return ExitCompileFailed
	case errors.Is(err, ErrWrapperFailed):
		return ExitWrapperFailed
	}

	errStr := err.Error()
	for _, usage := range []string{"unknown flag", "unknown shorthand flag", "accepts ", "required flag", "invalid argument"} {
		if strings.Contains(errStr, usage) {
			return ExitUsageError
		}
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
