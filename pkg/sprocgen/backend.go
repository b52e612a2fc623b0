package sprocgen

import "context"

// Dialect recognizes the structure of routine source text.
// Implementations are pure and safe for concurrent use.
type Dialect interface {
	// IsRoutineStart reports whether line starts the routine declaration.
	IsRoutineStart(line string) bool

	// IsBodyStart reports whether line starts the routine body.
	IsBodyStart(line string) bool

	// RoutineSignature extracts the declared routine name and kind
	// (RoutineKindFunction or RoutineKindProcedure) from the source lines.
	RoutineSignature(lines []string) (name string, kind string, ok bool)
}

// LoadRequest describes a routine to (re)create in the RDBMS.
type LoadRequest struct {
	Name   string // Routine name
	Kind   string // RoutineKindFunction or RoutineKindProcedure
	Source string // Source text with all placeholders substituted
}

// Backend is the RDBMS-facing capability set the compiler needs.
// Implementations are NOT safe for concurrent use; one compilation run
// owns one backend connection.
type Backend interface {
	// LoadRoutine drops any previous version of the routine and creates it
	// from the substituted source. Statement failures are returned as *SQLError.
	LoadRoutine(ctx context.Context, req LoadRequest) error

	// RoutineParameters returns the routine's input parameters in declaration order.
	RoutineParameters(ctx context.Context, name string) ([]RoutineParameter, error)

	// TableColumns returns the columns of a table in ordinal order.
	TableColumns(ctx context.Context, table string) ([]TableColumn, error)

	// RoutineExists reports whether the routine is currently defined.
	RoutineExists(ctx context.Context, name string) (bool, error)
}

// TypeMapper maps an RDBMS data type onto the host language.
// The mapping tables are opaque to the compiler.
type TypeMapper interface {
	MapType(p RoutineParameter) TypeMapping
}
