// Package routine compiles a stored routine source file into a
// sprocgen.RoutineMetadata record.
//
// Compilation runs in two phases:
//
//  1. Prepare (pure): read and decode the source, parse the DocBlock,
//     substitute placeholders, check the routine name and resolve the
//     designation. Prepare touches no shared state and may run concurrently
//     for many routines.
//  2. Finish (RDBMS): decide whether the routine must be reloaded, load it,
//     fetch its parameters (and bulk insert table columns), reconcile them
//     with the DocBlock and assemble the metadata record.
//
// Compiler.Compile is the single error boundary: every fatal condition is
// logged once and converted to a false result. CompileE returns the error
// instead.
//
// # Usage
//
//	compiler := routine.NewCompiler(pgsql.Dialect{}, backend, pgsql.TypeMap{},
//	    routine.WithLogger(logger))
//	meta, ok := compiler.Compile(ctx, "/project/psql/tst_user.psql", old, table)
//	if !ok {
//	    // already logged
//	}
package routine
