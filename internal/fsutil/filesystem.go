// Package fsutil abstracts the filesystem operations the dataset writers
// need, so frame and scene output can be tested without touching disk.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FileSystem is the surface the capture pipeline writes datasets through.
// Binaries use OSFileSystem; tests substitute MemoryFileSystem.
type FileSystem interface {
	// ReadFile reads the named file and returns its contents.
	ReadFile(name string) ([]byte, error)

	// WriteFile writes data to the named file, creating it if necessary.
	WriteFile(name string, data []byte, perm os.FileMode) error

	// ReadDir reads the named directory and returns its entries sorted
	// by filename.
	ReadDir(name string) ([]fs.DirEntry, error)

	// MkdirAll creates a directory and all necessary parents.
	MkdirAll(path string, perm os.FileMode) error

	// Exists checks if a file or directory exists.
	Exists(name string) bool
}

// OSFileSystem is the real filesystem.
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

func (OSFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }

func (OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (OSFileSystem) Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// MemoryFileSystem keeps files and directories in a single path-keyed map.
// Paths are cleaned on entry, so "/out/frames" and "/out//frames/" address
// the same entry. Safe for concurrent use.
type MemoryFileSystem struct {
	mu      sync.RWMutex
	entries map[string]*memEntry
}

// memEntry is a file or, when dir is set, a directory.
type memEntry struct {
	data []byte
	mode os.FileMode
	dir  bool
}

// NewMemoryFileSystem returns an empty in-memory filesystem.
func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{entries: make(map[string]*memEntry)}
}

// ReadFile returns a copy of the named file's contents.
func (m *MemoryFileSystem) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = filepath.Clean(name)
	e, ok := m.entries[name]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	if e.dir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}

	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

// WriteFile stores a copy of data under the cleaned name, replacing any
// previous file. Writing over a directory fails.
func (m *MemoryFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = filepath.Clean(name)
	if e, ok := m.entries[name]; ok && e.dir {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrInvalid}
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	m.entries[name] = &memEntry{data: buf, mode: perm}
	return nil
}

// ReadDir lists the immediate children of a directory, sorted by name.
func (m *MemoryFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = filepath.Clean(name)
	if e, ok := m.entries[name]; !ok || !e.dir {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	prefix := name + "/"
	if name == "." {
		prefix = ""
	}

	var entries []fs.DirEntry
	for p, e := range m.entries {
		base, ok := strings.CutPrefix(p, prefix)
		if !ok || base == "" || strings.Contains(base, "/") {
			continue
		}
		entries = append(entries, &memDirEntry{info: &memFileInfo{
			name:  base,
			size:  int64(len(e.data)),
			mode:  e.mode,
			isDir: e.dir,
		}})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// MkdirAll registers the path and every ancestor as directories. It fails
// if a file already occupies any segment of the path.
func (m *MemoryFileSystem) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	for i := 1; i < len(path); i++ {
		if path[i] == '/' {
			if err := m.putDir(path[:i]); err != nil {
				return err
			}
		}
	}
	return m.putDir(path)
}

// putDir records a single directory entry. Callers hold the write lock.
func (m *MemoryFileSystem) putDir(p string) error {
	if e, ok := m.entries[p]; ok {
		if !e.dir {
			return &fs.PathError{Op: "mkdir", Path: p, Err: fs.ErrExist}
		}
		return nil
	}
	m.entries[p] = &memEntry{dir: true}
	return nil
}

// Exists reports whether a file or directory entry is present.
func (m *MemoryFileSystem) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[filepath.Clean(name)]
	return ok
}

// memDirEntry implements fs.DirEntry.
type memDirEntry struct {
	info *memFileInfo
}

func (e *memDirEntry) Name() string { return e.info.name }
func (e *memDirEntry) IsDir() bool  { return e.info.isDir }
func (e *memDirEntry) Type() fs.FileMode {
	if e.info.isDir {
		return fs.ModeDir
	}
	return 0
}
func (e *memDirEntry) Info() (fs.FileInfo, error) { return e.info, nil }

// memFileInfo implements fs.FileInfo.
type memFileInfo struct {
	name  string
	size  int64
	mode  os.FileMode
	isDir bool
}

func (i *memFileInfo) Name() string       { return i.name }
func (i *memFileInfo) Size() int64        { return i.size }
func (i *memFileInfo) Mode() os.FileMode  { return i.mode }
func (i *memFileInfo) ModTime() time.Time { return time.Time{} }
func (i *memFileInfo) IsDir() bool        { return i.isDir }
func (i *memFileInfo) Sys() any           { return nil }
