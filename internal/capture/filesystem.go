package capture

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"lsinv/internal/inv"
)

// FileSystemStore is a filesystem-based implementation of the CaptureStore
// interface. Captures are stored as flat files under a root directory,
// with path separators in keys mapped to a safe character:
//
//	<root>/
//	  <key>.listing
type FileSystemStore struct {
	name string
	root string
}

const captureExt = ".listing"

// NewFileSystemStore creates a new filesystem capture store rooted at the
// given path.
func NewFileSystemStore(name, root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create capture directory: %w", err)
	}

	return &FileSystemStore{name: name, root: root}, nil
}

// keyPath maps a capture key to its on-disk path. Keys are flat names;
// slashes are rejected rather than interpreted as directories.
func (s *FileSystemStore) keyPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\") {
		return "", fmt.Errorf("capture store %s: invalid capture key: %q", s.name, key)
	}
	return filepath.Join(s.root, key+captureExt), nil
}

// Put stores a capture under the given key using an atomic write
// (temp file + rename), overwriting any previous capture.
func (s *FileSystemStore) Put(key string, r io.Reader, size int64) error {
	destPath, err := s.keyPath(key)
	if err != nil {
		return err
	}
	return s.writeFile(destPath, r, size)
}

// Get retrieves a capture by key and writes it to w.
func (s *FileSystemStore) Get(key string, w io.Writer) error {
	srcPath, err := s.keyPath(key)
	if err != nil {
		return err
	}

	f, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("capture store %s: capture not found: %s", s.name, key)
		}
		return fmt.Errorf("failed to open capture: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read capture: %w", err)
	}

	return nil
}

// List returns the stored capture keys with the given prefix, sorted ascending.
func (s *FileSystemStore) List(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading capture directory: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), captureExt) {
			continue
		}
		key := strings.TrimSuffix(entry.Name(), captureExt)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// ValidateSetup verifies that the capture directory is accessible.
func (s *FileSystemStore) ValidateSetup() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("capture store %s: root not accessible: %w", s.name, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("capture store %s: root is not a directory: %s", s.name, s.root)
	}
	return nil
}

// writeFile writes data from r to the specified path using atomic write (temp file + rename).
func (s *FileSystemStore) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	// Create temp file in the same directory to ensure atomic rename works
	dir := filepath.Dir(destPath)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write capture: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemStore implements inv.CaptureStore interface
var _ inv.CaptureStore = (*FileSystemStore)(nil)
