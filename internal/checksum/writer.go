package checksum

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/vvka-141/sprocgen/internal/files/filesystem"
	"github.com/vvka-141/sprocgen/internal/logging"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// Writer rewrites files only when their content changes.
type Writer struct {
	fsys       filesystem.FileSystemProvider
	calculator Calculator
	logger     sprocgen.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithLogger sets the logger written and unchanged files are reported to.
func WithLogger(logger sprocgen.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = logger
	}
}

// WithCalculator replaces the default SHA-256 calculator.
func WithCalculator(calculator Calculator) WriterOption {
	return func(w *Writer) {
		w.calculator = calculator
	}
}

// NewWriter creates a Writer on fsys.
// Panics if fsys is nil.
func NewWriter(fsys filesystem.FileSystemProvider, opts ...WriterOption) *Writer {
	if fsys == nil {
		panic("fsys cannot be nil")
	}
	w := &Writer{
		fsys:       fsys,
		calculator: New(),
		logger:     logging.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write stores content at path unless the file already holds the same
// content. It reports whether the file was written.
func (w *Writer) Write(path string, content []byte) (bool, error) {
	current, err := w.fsys.ReadFile(path)
	switch {
	case err == nil:
		if w.calculator.Calculate(current) == w.calculator.Calculate(content) {
			w.logger.Verbose("File %s is up to date", path)
			return false, nil
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := w.fsys.WriteFile(path, content); err != nil {
		return false, err
	}
	w.logger.Info("Wrote %s", path)
	return true, nil
}
