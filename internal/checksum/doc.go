// Package checksum writes generated files in two phases: the new content is
// hashed and compared with the hash of the file on disk, and the file is
// only rewritten when the two differ.
//
// Leaving unchanged files untouched keeps their modification times stable,
// so build tools and editors watching the generated data layer and the
// metadata file do not see spurious changes.
//
// # Example Usage
//
//	w := checksum.NewWriter(filesystem.NewOSFileSystem(), checksum.WithLogger(logger))
//	written, err := w.Write("datalayer/datalayer_gen.go", source)
//
// # Thread Safety
//
// SHA256 is safe for concurrent use. A Writer is safe for concurrent use
// on distinct paths.
package checksum
