// Package dependencies builds the default collaborators used by the command wiring.
package dependencies

import (
	"io"

	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/execshell"
	"github.com/temirov/repokeeper/internal/filesystem"
	"github.com/temirov/repokeeper/internal/gitrepo"
	"github.com/temirov/repokeeper/internal/repository"
	"github.com/temirov/repokeeper/internal/submodule"
)

// FileSystem combines the filesystem surfaces required by the controllers.
type FileSystem interface {
	repository.FileSystem
	gitrepo.MetadataFileSystem
}

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing FileSystem) FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default
// that reports command lifecycle events to observer.
func ResolveGitExecutor(existing repository.GitExecutor, logger *zap.Logger, observer execshell.CommandEventObserver) (repository.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), observer)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRepositoryService constructs a repository controller over the executor and filesystem.
func ResolveRepositoryService(executor repository.GitExecutor, fileSystem FileSystem, logger *zap.Logger, progressWriter io.Writer) (*repository.Service, error) {
	return repository.NewService(repository.Dependencies{
		GitExecutor:    executor,
		FileSystem:     ResolveFileSystem(fileSystem),
		Logger:         logger,
		ProgressWriter: progressWriter,
	})
}

// ResolveSubmoduleService constructs a submodule controller reading metadata from fileSystem.
func ResolveSubmoduleService(executor submodule.GitExecutor, fileSystem FileSystem, logger *zap.Logger) (*submodule.Service, error) {
	metadataReader, readerError := gitrepo.NewMetadataReader(ResolveFileSystem(fileSystem))
	if readerError != nil {
		return nil, readerError
	}
	return submodule.NewService(submodule.Dependencies{
		GitExecutor:    executor,
		MetadataReader: metadataReader,
		Logger:         logger,
	})
}
