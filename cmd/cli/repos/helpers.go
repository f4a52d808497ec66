package repos

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/dependencies"
	"github.com/temirov/repokeeper/internal/execshell"
	"github.com/temirov/repokeeper/internal/repository"
	"github.com/temirov/repokeeper/internal/utils"
	pathutils "github.com/temirov/repokeeper/internal/utils/path"
)

const currentDirectoryArgumentConstant = "."

var repositoryPathResolver = pathutils.NewPathResolver()

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandEventsObserverProvider yields the observer notified about git command lifecycle events.
type CommandEventsObserverProvider func() execshell.CommandEventObserver

// ServiceDependencies carries optional collaborator overrides shared by the repository commands.
// Nil fields fall back to the operating system defaults.
type ServiceDependencies struct {
	LoggerProvider                LoggerProvider
	CommandEventsObserverProvider CommandEventsObserverProvider
	GitExecutor                   repository.GitExecutor
	FileSystem                    dependencies.FileSystem
}

func (serviceDependencies ServiceDependencies) logger() *zap.Logger {
	if serviceDependencies.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := serviceDependencies.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (serviceDependencies ServiceDependencies) gitExecutor() (repository.GitExecutor, error) {
	var observer execshell.CommandEventObserver
	if serviceDependencies.CommandEventsObserverProvider != nil {
		observer = serviceDependencies.CommandEventsObserverProvider()
	}
	return dependencies.ResolveGitExecutor(serviceDependencies.GitExecutor, serviceDependencies.logger(), observer)
}

func (serviceDependencies ServiceDependencies) repositoryService(command *cobra.Command) (*repository.Service, error) {
	gitExecutor, executorError := serviceDependencies.gitExecutor()
	if executorError != nil {
		return nil, executorError
	}
	return dependencies.ResolveRepositoryService(gitExecutor, serviceDependencies.FileSystem, serviceDependencies.logger(), command.OutOrStdout())
}

// resolveRepositoryArgument returns the first positional argument, or the working directory
// when none is given, resolved against the command's working directory.
func resolveRepositoryArgument(command *cobra.Command, arguments []string) repository.Repository {
	candidate := currentDirectoryArgumentConstant
	if len(arguments) > 0 && len(strings.TrimSpace(arguments[0])) > 0 {
		candidate = arguments[0]
	}
	return repository.New(resolveCommandPath(command, candidate))
}

func resolveCommandPath(command *cobra.Command, candidate string) string {
	return repositoryPathResolver.Resolve(commandWorkingDirectory(command), candidate)
}

func commandWorkingDirectory(command *cobra.Command) string {
	if command != nil {
		if workingDirectory, available := utils.NewCommandContextAccessor().WorkingDirectory(command.Context()); available {
			return workingDirectory
		}
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return currentDirectoryArgumentConstant
	}
	return workingDirectory
}
