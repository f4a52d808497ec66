package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant           = "git executor not configured"
	fileSystemMissingMessageConstant            = "filesystem not configured"
	gitFetchSubcommandConstant                  = "fetch"
	gitRevParseSubcommandConstant               = "rev-parse"
	gitCloneSubcommandConstant                  = "clone"
	gitResetSubcommandConstant                  = "reset"
	gitCleanSubcommandConstant                  = "clean"
	gitLogSubcommandConstant                    = "log"
	gitOriginRemoteNameConstant                 = "origin"
	gitHeadReferenceConstant                    = "HEAD"
	gitUpstreamReferenceConstant                = "@{u}"
	gitDepthFlagConstant                        = "--depth"
	gitShallowDepthConstant                     = "1"
	gitSingleBranchFlagConstant                 = "--single-branch"
	gitHardFlagConstant                         = "--hard"
	gitTrackedBranchReferenceConstant           = "origin/master"
	gitCleanForceFlagsConstant                  = "-dfx"
	gitExcludeFlagConstant                      = "--exclude"
	gitPreservedBuildDirectoryConstant          = "/target"
	gitLatestCommitFlagConstant                 = "-1"
	gitPrettyFormatFlagTemplateConstant         = "--pretty=%s"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	subjectFormatConstant                       = "%s"
	bodyFormatConstant                          = "%b"
	parentDirectoryPermissionsConstant          = fs.FileMode(0o755)
	updateProgressTemplateConstant              = "Updating `%s` repo...\n"
	logFieldRepositoryPathConstant              = "repository_path"
	logFieldParentPathConstant                  = "parent_path"
	logFieldRemoteURLConstant                   = "remote_url"
	logFieldStatusConstant                      = "status"
	statusMissingCheckoutLogMessageConstant     = "checkout missing; reporting stale"
	statusComparedLogMessageConstant            = "compared checkout with upstream"
	updateCloneLogMessageConstant               = "cloning repository"
	updateRefreshLogMessageConstant             = "refreshing existing checkout"
	parentDirectoryCreatedLogMessageConstant    = "created parent directory"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// GitExecutor runs git commands on behalf of the service.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// FileSystem exposes the filesystem operations used to inspect and prepare checkout paths.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string, permissions fs.FileMode) error
}

// Dependencies enumerates the collaborators of Service.
type Dependencies struct {
	GitExecutor GitExecutor
	FileSystem  FileSystem
	Logger      *zap.Logger
	// ProgressWriter receives the human-readable notice emitted before an existing checkout is mutated.
	ProgressWriter io.Writer
}

// Service drives the repository lifecycle through git.
type Service struct {
	executor       GitExecutor
	fileSystem     FileSystem
	logger         *zap.Logger
	progressWriter io.Writer
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	progressWriter := dependencies.ProgressWriter
	if progressWriter == nil {
		progressWriter = io.Discard
	}

	return &Service{
		executor:       dependencies.GitExecutor,
		fileSystem:     dependencies.FileSystem,
		logger:         logger,
		progressWriter: progressWriter,
	}, nil
}

// Status compares the checked out revision with the upstream branch after fetching origin.
// A missing checkout is stale and is reported without touching the network.
func (service *Service) Status(executionContext context.Context, repository Repository) (Status, error) {
	repositoryPath := repository.Path()
	if !service.isDirectory(repositoryPath) {
		service.logger.Debug(statusMissingCheckoutLogMessageConstant, zap.String(logFieldRepositoryPathConstant, repositoryPath))
		return StatusStale, nil
	}

	if _, fetchError := service.executeGit(executionContext, repositoryPath, gitFetchSubcommandConstant, gitOriginRemoteNameConstant); fetchError != nil {
		return "", Error{Kind: ErrorKindFetch, RepositoryPath: repositoryPath, Cause: fetchError}
	}

	localRevision, localError := service.executeGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitHeadReferenceConstant)
	if localError != nil {
		return "", Error{Kind: ErrorKindLocalRevision, RepositoryPath: repositoryPath, Cause: localError}
	}

	upstreamRevision, upstreamError := service.executeGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitUpstreamReferenceConstant)
	if upstreamError != nil {
		return "", Error{Kind: ErrorKindUpstreamRevision, RepositoryPath: repositoryPath, Cause: upstreamError}
	}

	status := StatusStale
	if localRevision.StandardOutput == upstreamRevision.StandardOutput {
		status = StatusFresh
	}

	service.logger.Debug(
		statusComparedLogMessageConstant,
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
		zap.String(logFieldStatusConstant, status.String()),
	)
	return status, nil
}

// Update converges the checkout onto the tip of the remote's master branch.
// The sequence stops at the first failing step; completed steps are not rolled back.
func (service *Service) Update(executionContext context.Context, repository Repository, remoteURL string) error {
	repositoryPath := repository.Path()
	repositoryName, hasName := repository.Name()
	if !hasName {
		return Error{Kind: ErrorKindInvalidPath, RepositoryPath: repositoryPath}
	}

	if !service.isDirectory(repositoryPath) {
		return service.clone(executionContext, repository, repositoryName, remoteURL)
	}

	service.logger.Info(updateRefreshLogMessageConstant, zap.String(logFieldRepositoryPathConstant, repositoryPath))
	fmt.Fprintf(service.progressWriter, updateProgressTemplateConstant, repositoryName)

	if _, fetchError := service.executeGit(executionContext, repositoryPath, gitFetchSubcommandConstant, gitDepthFlagConstant, gitShallowDepthConstant); fetchError != nil {
		return Error{Kind: ErrorKindFetch, RepositoryPath: repositoryPath, Cause: fetchError}
	}

	if _, resetError := service.executeGit(executionContext, repositoryPath, gitResetSubcommandConstant, gitHardFlagConstant, gitTrackedBranchReferenceConstant); resetError != nil {
		return Error{Kind: ErrorKindReset, RepositoryPath: repositoryPath, Cause: resetError}
	}

	if _, cleanError := service.executeGit(executionContext, repositoryPath, gitCleanSubcommandConstant, gitCleanForceFlagsConstant, gitExcludeFlagConstant, gitPreservedBuildDirectoryConstant); cleanError != nil {
		return Error{Kind: ErrorKindClean, RepositoryPath: repositoryPath, Cause: cleanError}
	}

	return nil
}

// LatestCommit renders the most recent commit with the given git pretty format, trimmed of surrounding whitespace.
func (service *Service) LatestCommit(executionContext context.Context, repository Repository, format string) (string, error) {
	repositoryPath := repository.Path()
	logResult, logError := service.executeGit(executionContext, repositoryPath, gitLogSubcommandConstant, gitLatestCommitFlagConstant, fmt.Sprintf(gitPrettyFormatFlagTemplateConstant, format))
	if logError != nil {
		return "", Error{Kind: ErrorKindLog, RepositoryPath: repositoryPath, Cause: logError}
	}
	return strings.TrimSpace(logResult.StandardOutput), nil
}

// LatestSubject returns the subject line of the most recent commit.
func (service *Service) LatestSubject(executionContext context.Context, repository Repository) (string, error) {
	return service.LatestCommit(executionContext, repository, subjectFormatConstant)
}

// LatestBody returns the body of the most recent commit.
func (service *Service) LatestBody(executionContext context.Context, repository Repository) (string, error) {
	return service.LatestCommit(executionContext, repository, bodyFormatConstant)
}

func (service *Service) clone(executionContext context.Context, repository Repository, repositoryName string, remoteURL string) error {
	repositoryPath := repository.Path()
	parentPath := repository.ParentPath()

	if !service.isDirectory(parentPath) {
		if mkdirError := service.fileSystem.MkdirAll(parentPath, parentDirectoryPermissionsConstant); mkdirError != nil {
			return Error{Kind: ErrorKindParentDirectory, RepositoryPath: repositoryPath, Path: parentPath, Cause: mkdirError}
		}
		service.logger.Debug(parentDirectoryCreatedLogMessageConstant, zap.String(logFieldParentPathConstant, parentPath))
	}

	service.logger.Info(
		updateCloneLogMessageConstant,
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
		zap.String(logFieldRemoteURLConstant, remoteURL),
	)

	// The clone runs from the parent, so the destination is the final path segment.
	if _, cloneError := service.executeGit(executionContext, parentPath, gitCloneSubcommandConstant, gitDepthFlagConstant, gitShallowDepthConstant, gitSingleBranchFlagConstant, remoteURL, repositoryName); cloneError != nil {
		return Error{Kind: ErrorKindClone, RepositoryPath: repositoryPath, Cause: cloneError}
	}
	return nil
}

func (service *Service) isDirectory(path string) bool {
	fileInfo, statError := service.fileSystem.Stat(path)
	if statError != nil {
		return false
	}
	return fileInfo.IsDir()
}

func (service *Service) executeGit(executionContext context.Context, workingDirectory string, arguments ...string) (execshell.ExecutionResult, error) {
	return service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: workingDirectory,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	})
}
