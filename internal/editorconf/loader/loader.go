// Package loader reads overlay documents for the editor configuration
// stack.
//
// Overlays can be written as TOML or JSON files or supplied through
// environment variables. All loaders produce a *layer.Overlay; a
// missing file is not an error and loads as nil.
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dshills/richconf/internal/editorconf/layer"
)

// Loader is the interface for overlay loaders.
type Loader interface {
	// Load reads an overlay from the source.
	// Returns nil, nil if the source doesn't exist.
	Load() (*layer.Overlay, error)
}

// FileSystem abstracts file operations so loaders can be tested against
// an in-memory file system.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// WriteFile writes data to path.
	WriteFile(path string, data []byte) error
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to path with 0644 permissions.
func (OSFS) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// MapFS is an in-memory FileSystem for tests.
type MapFS struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMapFS creates a MapFS seeded with the given files.
func NewMapFS(files map[string][]byte) *MapFS {
	m := &MapFS{files: make(map[string][]byte, len(files))}
	for path, data := range files {
		m.files[filepath.Clean(path)] = data
	}
	return m
}

// ReadFile returns the file contents or fs.ErrNotExist.
func (m *MapFS) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// WriteFile stores data at path.
func (m *MapFS) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.files[filepath.Clean(path)] = stored
	return nil
}

// Stat returns file info for path.
func (m *MapFS) Stat(path string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return mapFileInfo{name: filepath.Base(path), size: int64(len(data))}, nil
}

type mapFileInfo struct {
	name string
	size int64
}

func (fi mapFileInfo) Name() string       { return fi.name }
func (fi mapFileInfo) Size() int64        { return fi.size }
func (fi mapFileInfo) Mode() fs.FileMode  { return 0o644 }
func (fi mapFileInfo) ModTime() time.Time { return time.Time{} }
func (fi mapFileInfo) IsDir() bool        { return false }
func (fi mapFileInfo) Sys() any           { return nil }

// ParseError reports a malformed overlay document.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Message describes the parse error.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
