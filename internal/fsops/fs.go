// Package fsops provides the filesystem seam for all rename operations.
//
// Every filesystem mutation performed by tidy goes through the FS interface,
// which keeps the executor and undo engine testable and concentrates the
// platform-specific behavior (writability probes, atomic writes) in one place.
//
// Key features:
//   - Atomic writes using temp file + rename
//   - Directory provisioning that reports newly created directories
//   - Writability probing that works across platforms and filesystems
//   - Testable via the FS interface
package fsops

import (
	"fmt"
	"os"
	"path/filepath"
)

// FS provides an abstraction for filesystem operations.
// All filesystem mutations in tidy must go through this interface.
type FS interface {
	// Stat returns file info, following symlinks.
	Stat(path string) (os.FileInfo, error)

	// Lstat returns file info without following symlinks.
	Lstat(path string) (os.FileInfo, error)

	// Rename moves a file or directory from oldpath to newpath.
	Rename(oldpath, newpath string) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm os.FileMode) error

	// Remove removes a file or empty directory.
	Remove(path string) error

	// ReadDir reads the named directory, returning its entries.
	ReadDir(path string) ([]os.DirEntry, error)

	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// AtomicWrite writes data to path atomically using temp file + rename.
	AtomicWrite(path string, data []byte, perm os.FileMode) error

	// Exists checks if a path exists.
	Exists(path string) (bool, error)

	// IsDirWritable reports whether the directory at path can be written to.
	IsDirWritable(path string) bool
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// Stat returns file info, following symlinks.
func (fs *RealFS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Lstat returns file info without following symlinks.
func (fs *RealFS) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}

// Rename moves a file or directory from oldpath to newpath.
func (fs *RealFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// MkdirAll creates a directory and all parent directories.
func (fs *RealFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Remove removes a file or empty directory.
func (fs *RealFS) Remove(path string) error {
	return os.Remove(path)
}

// ReadDir reads the named directory, returning its entries.
func (fs *RealFS) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

// ReadFile reads the entire contents of a file.
func (fs *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// AtomicWrite writes data to path atomically using temp file + rename.
func (fs *RealFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	// Create parent directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	// Create temp file in the same directory as target
	tmpFile, err := os.CreateTemp(dir, ".tidy-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	// Atomically rename temp file to target
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	// Success - don't clean up temp file
	tmpFile = nil
	return nil
}

// Exists checks if a path exists.
func (fs *RealFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsDirWritable reports whether the directory at path can be written to.
// It probes by creating and removing a temp file, which is the only check
// that holds across platforms, network mounts, and ACLs.
func (fs *RealFS) IsDirWritable(path string) bool {
	f, err := os.CreateTemp(path, ".tidy-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}
