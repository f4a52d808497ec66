package submodule

import (
	"context"
	"errors"
	"path/filepath"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/execshell"
	"github.com/temirov/repokeeper/internal/gitrepo"
)

const (
	gitExecutorMissingMessageConstant           = "git executor not configured"
	metadataReaderMissingMessageConstant        = "metadata reader not configured"
	gitSubmoduleSubcommandConstant              = "submodule"
	gitSubmoduleAddSubcommandConstant           = "add"
	gitSubmoduleUpdateSubcommandConstant        = "update"
	gitSubmoduleNameFlagConstant                = "--name"
	gitSubmoduleInitFlagConstant                = "--init"
	gitSubmoduleRecursiveFlagConstant           = "--recursive"
	gitPathspecSeparatorConstant                = "--"
	gitCheckoutSubcommandConstant               = "checkout"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	logFieldSubmoduleNameConstant               = "submodule_name"
	logFieldSubmoduleRemoteConstant             = "submodule_remote"
	logFieldSubmodulePathConstant               = "submodule_path"
	logFieldParentRootConstant                  = "parent_root"
	logFieldCommitConstant                      = "commit"
	logFieldCheckoutPathConstant                = "checkout_path"
	addingSubmoduleLogMessageConstant           = "adding submodule"
	alreadyRegisteredLogMessageConstant         = "submodule already registered"
	initializingLogMessageConstant              = "initializing submodule"
	alreadyInitializedLogMessageConstant        = "submodule already initialized"
	checkingOutCommitLogMessageConstant         = "checking out pinned commit"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrMetadataReaderNotConfigured indicates the metadata reader dependency was missing.
var ErrMetadataReaderNotConfigured = errors.New(metadataReaderMissingMessageConstant)

// GitExecutor runs git commands on behalf of the service.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// MetadataReader exposes the parent repository's submodule manifest and local config as text.
type MetadataReader interface {
	ReadModules(repositoryRoot string) (string, bool, error)
	ReadLocalConfig(repositoryRoot string) (string, bool, error)
}

// Dependencies enumerates the collaborators of Service.
type Dependencies struct {
	GitExecutor    GitExecutor
	MetadataReader MetadataReader
	Logger         *zap.Logger
}

// Service converges submodules of a parent repository.
type Service struct {
	executor       GitExecutor
	metadataReader MetadataReader
	logger         *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.MetadataReader == nil {
		return nil, ErrMetadataReaderNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		executor:       dependencies.GitExecutor,
		metadataReader: dependencies.MetadataReader,
		logger:         logger,
	}, nil
}

// Init registers the submodule when the parent does not list it, initializes it when the
// parent's local config lacks it, and checks out options.PinnedCommit when one is given.
// Initialization is limited to the submodule's path; other submodules of the parent are untouched.
// Running Init again on a converged submodule only repeats the checkout.
func (service *Service) Init(executionContext context.Context, parentRoot string, submodule Submodule, options Options) error {
	submoduleName, hasName := submodule.Name()
	if !hasName {
		return Error{Submodule: submodule, Kind: ErrorKindNameMissing}
	}
	if filepath.IsAbs(submodule.Path()) {
		return Error{Submodule: submodule, Kind: ErrorKindPathAbsolute}
	}

	submoduleFields := []zap.Field{
		zap.String(logFieldSubmoduleNameConstant, submoduleName),
		zap.String(logFieldSubmoduleRemoteConstant, submodule.Remote()),
		zap.String(logFieldSubmodulePathConstant, submodule.Path()),
		zap.String(logFieldParentRootConstant, parentRoot),
	}

	registered, manifestError := service.registered(parentRoot, submoduleName)
	if manifestError != nil {
		return Error{Submodule: submodule, Kind: ErrorKindManifestQuery, Cause: manifestError}
	}

	initialized := false
	if !registered {
		if !utf8.ValidString(submodule.Path()) {
			return Error{Submodule: submodule, Kind: ErrorKindPathEncoding}
		}
		service.logger.Info(addingSubmoduleLogMessageConstant, submoduleFields...)
		addArguments := []string{
			gitSubmoduleSubcommandConstant,
			gitSubmoduleAddSubcommandConstant,
			gitSubmoduleNameFlagConstant,
			submoduleName,
			submodule.Remote(),
			submodule.Path(),
		}
		if _, addError := service.executeGit(executionContext, parentRoot, addArguments...); addError != nil {
			return Error{Submodule: submodule, Kind: ErrorKindAdd, Cause: addError}
		}
	} else {
		service.logger.Info(alreadyRegisteredLogMessageConstant, submoduleFields...)
		var configError error
		initialized, configError = service.initialized(parentRoot, submoduleName)
		if configError != nil {
			return Error{Submodule: submodule, Kind: ErrorKindConfigQuery, Cause: configError}
		}
	}

	if !initialized {
		service.logger.Info(initializingLogMessageConstant, submoduleFields...)
		updateArguments := []string{
			gitSubmoduleSubcommandConstant,
			gitSubmoduleUpdateSubcommandConstant,
			gitSubmoduleInitFlagConstant,
			gitSubmoduleRecursiveFlagConstant,
			gitPathspecSeparatorConstant,
			submodule.Path(),
		}
		if _, initError := service.executeGit(executionContext, parentRoot, updateArguments...); initError != nil {
			return Error{Submodule: submodule, Kind: ErrorKindInit, Cause: initError}
		}
	} else {
		service.logger.Info(alreadyInitializedLogMessageConstant, submoduleFields...)
	}

	if len(options.PinnedCommit) == 0 {
		return nil
	}

	checkoutPath := filepath.Join(parentRoot, submodule.Path())
	service.logger.Info(
		checkingOutCommitLogMessageConstant,
		append(submoduleFields, zap.String(logFieldCommitConstant, options.PinnedCommit), zap.String(logFieldCheckoutPathConstant, checkoutPath))...,
	)
	if _, checkoutError := service.executeGit(executionContext, checkoutPath, gitCheckoutSubcommandConstant, options.PinnedCommit); checkoutError != nil {
		return Error{Submodule: submodule, Kind: ErrorKindCheckout, Commit: options.PinnedCommit, Cause: checkoutError}
	}
	return nil
}

// State reports the registration state of the submodule without running git.
func (service *Service) State(_ context.Context, parentRoot string, submodule Submodule) (RegistrationState, error) {
	submoduleName, hasName := submodule.Name()
	if !hasName {
		return "", Error{Submodule: submodule, Kind: ErrorKindNameMissing}
	}

	registered, manifestError := service.registered(parentRoot, submoduleName)
	if manifestError != nil {
		return "", Error{Submodule: submodule, Kind: ErrorKindManifestQuery, Cause: manifestError}
	}

	initialized, configError := service.initialized(parentRoot, submoduleName)
	if configError != nil {
		return "", Error{Submodule: submodule, Kind: ErrorKindConfigQuery, Cause: configError}
	}

	switch {
	case registered && initialized:
		return RegistrationStateRegisteredInitialized, nil
	case registered:
		return RegistrationStateRegisteredUninitialized, nil
	case initialized:
		return RegistrationStateInconsistent, nil
	default:
		return RegistrationStateUnregistered, nil
	}
}

func (service *Service) registered(parentRoot string, submoduleName string) (bool, error) {
	modulesContent, modulesExist, readError := service.metadataReader.ReadModules(parentRoot)
	if readError != nil {
		return false, readError
	}
	if !modulesExist {
		return false, nil
	}
	return gitrepo.HasSubmoduleSection(modulesContent, submoduleName)
}

func (service *Service) initialized(parentRoot string, submoduleName string) (bool, error) {
	configContent, configExists, readError := service.metadataReader.ReadLocalConfig(parentRoot)
	if readError != nil {
		return false, readError
	}
	if !configExists {
		return false, nil
	}
	return gitrepo.HasSubmoduleSection(configContent, submoduleName)
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
