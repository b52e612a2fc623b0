package scanner

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vvka-141/sprocgen/internal/files/filesystem"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// Source is a discovered routine source file.
type Source struct {
	Path         string // Absolute path
	RelativePath string // Path relative to the scanned directory, forward slashes
	Routine      string // Routine name (file stem)
}

// Scanner discovers routine sources in a directory tree.
// Scanner is safe for concurrent use if its filesystem provider is.
type Scanner struct {
	fsProvider filesystem.FileSystemProvider
	extension  string
}

// NewScanner creates a scanner on the OS filesystem for files with the given
// extension (e.g. ".psql").
func NewScanner(extension string) *Scanner {
	return NewScannerWithFS(filesystem.NewOSFileSystem(), extension)
}

// NewScannerWithFS creates a scanner on a custom filesystem provider.
// Panics if fsProvider is nil or extension is empty.
func NewScannerWithFS(fsProvider filesystem.FileSystemProvider, extension string) *Scanner {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if extension == "" {
		panic("extension cannot be empty")
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return &Scanner{
		fsProvider: fsProvider,
		extension:  extension,
	}
}

// ScanDirectory recursively collects the routine sources below sourcePath,
// sorted by routine name. Extensions match case-insensitively. Two files
// with the same routine name (compared case-insensitively) are an error
// wrapping sprocgen.ErrDuplicateRoutine.
func (s *Scanner) ScanDirectory(sourcePath string) ([]Source, error) {
	dir, err := s.fsProvider.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source directory: %w", err)
	}

	seen := make(map[string]Source)
	var sources []Source

	err = dir.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}
		if file.Info().IsDir() {
			return nil
		}

		name := file.Info().Name()
		ext := filepath.Ext(name)
		if !strings.EqualFold(ext, s.extension) {
			return nil
		}

		src := Source{
			Path:         file.Path(),
			RelativePath: filepath.ToSlash(file.RelativePath()),
			Routine:      strings.TrimSuffix(name, ext),
		}

		key := strings.ToLower(src.Routine)
		if other, ok := seen[key]; ok {
			return fmt.Errorf("%w: routine %s is defined in both %s and %s",
				sprocgen.ErrDuplicateRoutine, src.Routine, other.RelativePath, src.RelativePath)
		}
		seen[key] = src
		sources = append(sources, src)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Routine < sources[j].Routine
	})
	return sources, nil
}
