// Package wrapper generates the Go data layer for compiled routines.
//
// Every routine becomes one method on the generated data layer type. The
// method takes a context, a dal.BulkHandler for bulk_insert routines, and one
// nullable argument per routine parameter, and returns the routine's result
// in the shape its designation asks for:
//
//	none, log, bulk_insert    int64
//	singleton0/1, function    any
//	row0/1                    map[string]any
//	rows                      []map[string]any
//	multi                     [][]map[string]any
//	rows_with_key             map[any]...map[any]map[string]any
//	rows_with_index           map[any]...map[any][]map[string]any
//
// The nested maps of rows_with_key and rows_with_index have one level per
// key column and are built by code emitted by NestedIndexBuilder.
package wrapper
