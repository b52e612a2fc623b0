package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.mode.IsDir() }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryFile struct {
	absPath string
	relPath string
	content []byte
	info    *memoryFileInfo
}

func (f *memoryFile) Path() string         { return f.absPath }
func (f *memoryFile) RelativePath() string { return f.relPath }
func (f *memoryFile) Info() FileInfo       { return f.info }

func (f *memoryFile) ReadContent() ([]byte, error) {
	return f.content, nil
}

type memoryDirectory struct {
	absPath string
	fs      *MemoryFileSystem
}

func (d *memoryDirectory) Path() string { return d.absPath }

// Walk visits entries in lexical path order.
func (d *memoryDirectory) Walk(fn func(File, error) error) error {
	for _, entry := range d.fs.entriesUnder(d.absPath) {
		entry := *entry
		rel := "."
		if entry.absPath != d.absPath {
			rel = strings.TrimPrefix(entry.absPath, strings.TrimSuffix(d.absPath, "/")+"/")
		}
		entry.relPath = rel

		var callbackErr error
		func() {
			defer func() {
				if r := recover(); r != nil {
					callbackErr = fmt.Errorf("walk callback panicked at %s: %v", entry.absPath, r)
				}
			}()
			callbackErr = fn(&entry, nil)
		}()
		if callbackErr != nil {
			return callbackErr
		}
	}
	return nil
}

// MemoryFileSystem is an in-memory FileSystemProvider for tests.
// Paths use forward slashes; relative paths are resolved against the root.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string]*memoryFile
	root  string
}

// NewMemoryFileSystem creates an in-memory filesystem containing only root.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean(filepath.ToSlash(root))

	mfs := &MemoryFileSystem{
		files: make(map[string]*memoryFile),
		root:  root,
	}
	mfs.addDir(root)
	return mfs
}

// AddFile adds a file with the current time as modification time.
func (mfs *MemoryFileSystem) AddFile(path string, content string) {
	mfs.AddFileWithTime(path, content, time.Now())
}

// AddFileWithTime adds a file with a specific modification time.
func (mfs *MemoryFileSystem) AddFileWithTime(filePath string, content string, modTime time.Time) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.put(mfs.abs(filePath), []byte(content), modTime)
}

// Remove deletes a file. Removing a missing file is a no-op.
func (mfs *MemoryFileSystem) Remove(filePath string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	delete(mfs.files, mfs.abs(filePath))
}

func (mfs *MemoryFileSystem) abs(p string) string {
	p = filepath.ToSlash(p)
	if p == "" || p == "." {
		return mfs.root
	}
	if !path.IsAbs(p) {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

func (mfs *MemoryFileSystem) put(absPath string, content []byte, modTime time.Time) {
	mfs.files[absPath] = &memoryFile{
		absPath: absPath,
		content: content,
		info: &memoryFileInfo{
			name:    path.Base(absPath),
			size:    int64(len(content)),
			mode:    0o644,
			modTime: modTime,
		},
	}
	for dir := path.Dir(absPath); ; dir = path.Dir(dir) {
		if _, ok := mfs.files[dir]; !ok {
			mfs.addDir(dir)
		}
		if dir == "/" || dir == "." {
			break
		}
	}
}

func (mfs *MemoryFileSystem) addDir(dir string) {
	mfs.files[dir] = &memoryFile{
		absPath: dir,
		info: &memoryFileInfo{
			name:    path.Base(dir),
			mode:    0o755 | fs.ModeDir,
			modTime: time.Now(),
		},
	}
}

func (mfs *MemoryFileSystem) entriesUnder(base string) []*memoryFile {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	prefix := strings.TrimSuffix(base, "/") + "/"
	var entries []*memoryFile
	for p, file := range mfs.files {
		if p == base || strings.HasPrefix(p, prefix) {
			entries = append(entries, file)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].absPath < entries[j].absPath
	})
	return entries
}

func (mfs *MemoryFileSystem) lookup(p string) (*memoryFile, bool) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	file, ok := mfs.files[mfs.abs(p)]
	return file, ok
}

func (mfs *MemoryFileSystem) Open(openPath string) (Directory, error) {
	file, ok := mfs.lookup(openPath)
	if !ok {
		return nil, fmt.Errorf("directory not found: %s: %w", openPath, fs.ErrNotExist)
	}
	if !file.info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", openPath)
	}
	return &memoryDirectory{absPath: file.absPath, fs: mfs}, nil
}

func (mfs *MemoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	file, ok := mfs.lookup(filePath)
	if !ok {
		return nil, fmt.Errorf("file not found: %s: %w", filePath, fs.ErrNotExist)
	}
	if file.info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	return file.content, nil
}

func (mfs *MemoryFileSystem) Stat(statPath string) (FileInfo, error) {
	file, ok := mfs.lookup(statPath)
	if !ok {
		return nil, fmt.Errorf("path not found: %s: %w", statPath, fs.ErrNotExist)
	}
	return file.info, nil
}

func (mfs *MemoryFileSystem) WriteFile(filePath string, data []byte) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	absPath := mfs.abs(filePath)
	if existing, ok := mfs.files[absPath]; ok && existing.info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	mfs.put(absPath, append([]byte(nil), data...), time.Now())
	return nil
}
