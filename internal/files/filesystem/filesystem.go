package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo so providers stay compatible with the
// fs.FS ecosystem.
type FileInfo = fs.FileInfo

// File is a file discovered while walking a Directory.
type File interface {
	// Path returns the absolute path to the file
	Path() string

	// RelativePath returns the path relative to the walked directory
	RelativePath() string

	// Info returns file metadata
	Info() FileInfo

	// ReadContent returns the file's content
	ReadContent() ([]byte, error)
}

// Directory is a directory tree that can be walked.
type Directory interface {
	// Path returns the absolute path to the directory
	Path() string

	// Walk calls fn for every file and directory below the directory,
	// the directory itself included. Walking stops at the first error fn returns.
	Walk(fn func(File, error) error) error
}

// FileSystemProvider gives access to routine sources and generated files.
// Implementations must be safe for concurrent reads.
type FileSystemProvider interface {
	// Open opens a directory at the specified path
	Open(path string) (Directory, error)

	// ReadFile reads a specific file at the given path
	ReadFile(path string) ([]byte, error)

	// Stat returns file information for the given path
	Stat(path string) (FileInfo, error)

	// WriteFile replaces the file at path with data, creating missing
	// parent directories. Readers never observe a partially written file.
	WriteFile(path string, data []byte) error
}
