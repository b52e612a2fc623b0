package metastore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/vvka-141/sprocgen/internal/checksum"
	"github.com/vvka-141/sprocgen/internal/files/filesystem"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// Records are routine metadata records keyed by lower-cased routine name.
type Records map[string]*sprocgen.RoutineMetadata

// Key returns the key a routine's record is stored under.
func Key(routine string) string {
	return strings.ToLower(routine)
}

// Get returns the record of routine, or nil.
func (r Records) Get(routine string) *sprocgen.RoutineMetadata {
	return r[Key(routine)]
}

// Put stores meta under its routine name.
func (r Records) Put(meta *sprocgen.RoutineMetadata) {
	r[Key(meta.RoutineName)] = meta
}

// Sorted returns the records ordered by key.
func (r Records) Sorted() []*sprocgen.RoutineMetadata {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*sprocgen.RoutineMetadata, 0, len(keys))
	for _, k := range keys {
		out = append(out, r[k])
	}
	return out
}

// Prune removes the records of routines not in current and returns the
// removed records ordered by key.
func (r Records) Prune(current []string) []*sprocgen.RoutineMetadata {
	keep := make(map[string]bool, len(current))
	for _, name := range current {
		keep[Key(name)] = true
	}

	var removed []*sprocgen.RoutineMetadata
	for _, meta := range r.Sorted() {
		if !keep[Key(meta.RoutineName)] {
			removed = append(removed, meta)
			delete(r, Key(meta.RoutineName))
		}
	}
	return removed
}

// Store reads and writes the metadata file.
type Store struct {
	fsys   filesystem.FileSystemProvider
	writer *checksum.Writer
	path   string
}

// New creates a Store for the metadata file at path.
// Panics if fsys or writer is nil.
func New(fsys filesystem.FileSystemProvider, writer *checksum.Writer, path string) *Store {
	if fsys == nil {
		panic("fsys cannot be nil")
	}
	if writer == nil {
		panic("writer cannot be nil")
	}
	return &Store{fsys: fsys, writer: writer, path: path}
}

// Path returns the metadata file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the records. A missing file yields no records.
func (s *Store) Load() (Records, error) {
	data, err := s.fsys.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Records{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file %s: %w", s.path, err)
	}

	var records Records
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse metadata file %s: %w\n\nHint: Delete the file to rebuild the metadata of all routines", s.path, err)
	}
	if records == nil {
		records = Records{}
	}

	for key, meta := range records {
		if meta == nil || meta.RoutineName == "" || Key(meta.RoutineName) != key {
			return nil, fmt.Errorf("metadata file %s: invalid record %q\n\nHint: Delete the file to rebuild the metadata of all routines", s.path, key)
		}
	}
	return records, nil
}

// Save writes the records without their magic placeholders. It reports
// whether the file changed.
func (s *Store) Save(records Records) (bool, error) {
	out := make(Records, len(records))
	for key, meta := range records {
		out[key] = withoutMagic(meta)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to encode metadata: %w", err)
	}
	return s.writer.Write(s.path, append(data, '\n'))
}

func withoutMagic(meta *sprocgen.RoutineMetadata) *sprocgen.RoutineMetadata {
	clean := *meta
	clean.Replace = make(map[string]string, len(meta.Replace))
	for k, v := range meta.Replace {
		if !sprocgen.IsMagicPlaceholder(k) {
			clean.Replace[k] = v
		}
	}
	return &clean
}
