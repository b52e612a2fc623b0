// Package filesystem abstracts the filesystem routine sources are read from
// and generated files are written to.
//
// Implementations:
//   - OSFileSystem: the OS filesystem; WriteFile replaces files atomically
//   - MemoryFileSystem: in-memory filesystem for tests
package filesystem
