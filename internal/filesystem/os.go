// Package filesystem provides the operating-system backed file access used by
// the repository and submodule controllers.
package filesystem

import (
	"io/fs"
	"os"
)

// OSFileSystem implements the controllers' filesystem dependencies with os primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// MkdirAll ensures a directory hierarchy exists with the provided permissions.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}

// ReadFile reads file contents.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// IsDirectory reports whether path exists and is a directory. Any stat failure counts as absent.
func (fileSystem OSFileSystem) IsDirectory(path string) bool {
	fileInfo, statError := fileSystem.Stat(path)
	if statError != nil {
		return false
	}
	return fileInfo.IsDir()
}
