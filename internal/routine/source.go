package routine

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/vvka-141/sprocgen/internal/files/filesystem"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// Source is a routine source file. It is not modified after ReadSource.
type Source struct {
	Path     string   // Absolute path
	Encoding string   // Character encoding the file was decoded from
	Lines    []string // Lines without terminators
	Name     string   // Routine name derived from the file stem
	ModTime  int64    // Modification time in unix seconds
}

// Dir returns the directory containing the source file.
func (s *Source) Dir() string {
	return filepath.Dir(s.Path)
}

// ReadSource reads and decodes the routine source at path.
// A missing file yields sprocgen.ErrSourceMissing; a file whose metadata or
// content cannot be read or decoded yields sprocgen.ErrSourceUnreadable.
func ReadSource(fsys filesystem.FileSystemProvider, path, encoding string) (*Source, error) {
	if encoding == "" {
		encoding = sprocgen.DefaultSourceEncoding
	}

	info, err := fsys.Stat(path)
	if err != nil {
		kind := sprocgen.ErrSourceUnreadable
		if errors.Is(err, fs.ErrNotExist) {
			kind = sprocgen.ErrSourceMissing
		}
		return nil, &sprocgen.CompileError{Kind: kind, Path: path, Err: err}
	}

	raw, err := fsys.ReadFile(path)
	if err != nil {
		return nil, &sprocgen.CompileError{Kind: sprocgen.ErrSourceUnreadable, Path: path, Err: err}
	}

	text, err := decode(raw, encoding)
	if err != nil {
		return nil, &sprocgen.CompileError{
			Kind: sprocgen.ErrSourceUnreadable,
			Path: path,
			Err:  err,
			Hint: "Set 'source.encoding' in sprocgen.yaml to the encoding of the routine sources",
		}
	}

	base := filepath.Base(path)
	return &Source{
		Path:     path,
		Encoding: encoding,
		Lines:    SplitLines(text),
		Name:     strings.TrimSuffix(base, filepath.Ext(base)),
		ModTime:  info.ModTime().Unix(),
	}, nil
}

// decode converts raw bytes in the named encoding to a UTF-8 string.
func decode(raw []byte, encoding string) (string, error) {
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return "", fmt.Errorf("unsupported encoding %q: %w", encoding, err)
	}

	name, _ := htmlindex.Name(enc)
	if name == "utf-8" {
		return string(raw), nil
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", encoding, err)
	}
	return string(decoded), nil
}

// SplitLines splits text on line terminators. CRLF is treated as LF.
func SplitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
