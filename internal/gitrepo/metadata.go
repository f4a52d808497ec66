package gitrepo

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

const (
	// ModulesFileNameConstant is the tracked submodule manifest at the repository root.
	ModulesFileNameConstant = ".gitmodules"
	// GitMetadataEntryNameConstant is the repository metadata directory, or a gitdir pointer file.
	GitMetadataEntryNameConstant = ".git"

	localConfigFileNameConstant                = "config"
	gitDirectoryPointerPrefixConstant          = "gitdir:"
	fileSystemMissingMessageConstant           = "metadata reader filesystem not configured"
	gitDirectoryPointerInvalidTemplateConstant = "invalid gitdir pointer in %s"
	metadataReadErrorTemplateConstant          = "failed to read %s: %w"
)

// ErrMetadataFileSystemNotConfigured indicates the reader was constructed without a filesystem.
var ErrMetadataFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// MetadataFileSystem is the read-only filesystem surface required to locate and read git metadata.
type MetadataFileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// MetadataReader reads a repository's submodule manifest and local configuration as text.
// A missing file is reported through the exists result rather than as an error.
type MetadataReader struct {
	fileSystem MetadataFileSystem
}

// NewMetadataReader constructs a MetadataReader over the provided filesystem.
func NewMetadataReader(fileSystem MetadataFileSystem) (*MetadataReader, error) {
	if fileSystem == nil {
		return nil, ErrMetadataFileSystemNotConfigured
	}
	return &MetadataReader{fileSystem: fileSystem}, nil
}

// ReadModules returns the contents of <repositoryRoot>/.gitmodules.
func (reader *MetadataReader) ReadModules(repositoryRoot string) (string, bool, error) {
	return reader.readOptionalFile(filepath.Join(repositoryRoot, ModulesFileNameConstant))
}

// ReadLocalConfig returns the contents of the repository's local config file.
// When .git is a pointer file, the pointed-to metadata directory is used.
func (reader *MetadataReader) ReadLocalConfig(repositoryRoot string) (string, bool, error) {
	metadataDirectory, exists, resolveError := reader.ResolveMetadataDirectory(repositoryRoot)
	if resolveError != nil || !exists {
		return "", exists, resolveError
	}
	return reader.readOptionalFile(filepath.Join(metadataDirectory, localConfigFileNameConstant))
}

// ResolveMetadataDirectory locates the git metadata directory of repositoryRoot.
func (reader *MetadataReader) ResolveMetadataDirectory(repositoryRoot string) (string, bool, error) {
	metadataEntryPath := filepath.Join(repositoryRoot, GitMetadataEntryNameConstant)
	metadataEntryInfo, statError := reader.fileSystem.Stat(metadataEntryPath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf(metadataReadErrorTemplateConstant, metadataEntryPath, statError)
	}
	if metadataEntryInfo.IsDir() {
		return metadataEntryPath, true, nil
	}

	pointerContent, pointerExists, pointerError := reader.readOptionalFile(metadataEntryPath)
	if pointerError != nil || !pointerExists {
		return "", pointerExists, pointerError
	}
	trimmedPointer := strings.TrimSpace(pointerContent)
	if !strings.HasPrefix(trimmedPointer, gitDirectoryPointerPrefixConstant) {
		return "", false, fmt.Errorf(gitDirectoryPointerInvalidTemplateConstant, metadataEntryPath)
	}
	pointedDirectory := strings.TrimSpace(strings.TrimPrefix(trimmedPointer, gitDirectoryPointerPrefixConstant))
	if len(pointedDirectory) == 0 {
		return "", false, fmt.Errorf(gitDirectoryPointerInvalidTemplateConstant, metadataEntryPath)
	}
	if !filepath.IsAbs(pointedDirectory) {
		pointedDirectory = filepath.Join(repositoryRoot, pointedDirectory)
	}
	return filepath.Clean(pointedDirectory), true, nil
}

func (reader *MetadataReader) readOptionalFile(path string) (string, bool, error) {
	if reader == nil || reader.fileSystem == nil {
		return "", false, ErrMetadataFileSystemNotConfigured
	}
	content, readError := reader.fileSystem.ReadFile(path)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf(metadataReadErrorTemplateConstant, path, readError)
	}
	return string(content), true, nil
}
