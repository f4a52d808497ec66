package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/repository"
	"github.com/temirov/repokeeper/internal/submodule"
)

const (
	repositoryControllerMissingMessageConstant = "repository controller not configured"
	submoduleControllerMissingMessageConstant  = "submodule controller not configured"
	repositorySyncErrorTemplateConstant        = "failed to synchronize repository %s: %w"
	submoduleSyncErrorTemplateConstant         = "failed to synchronize submodule %s in %s: %w"
	repositoryReportTemplateConstant           = "%s %s\n"
	submoduleReportTemplateConstant            = "%s %s/%s\n"
	repositoryActionFreshConstant              = "FRESH"
	repositoryActionUpdatedConstant            = "UPDATED"
	repositoryActionWouldUpdateConstant        = "WOULD-UPDATE"
	submoduleActionInitializedConstant         = "INITIALIZED"
	submoduleActionWouldInitializeConstant     = "WOULD-INITIALIZE"
	submoduleActionCurrentConstant             = "CURRENT"
	repositoryCheckedLogMessageConstant        = "repository checked"
	submoduleCheckedLogMessageConstant         = "submodule checked"
	logFieldRepositoryPathConstant             = "repository_path"
	logFieldStatusConstant                     = "status"
	logFieldSubmodulePathConstant              = "submodule_path"
	logFieldParentRootConstant                 = "parent_root"
	logFieldStateConstant                      = "state"
)

// ErrRepositoryControllerNotConfigured indicates the repository controller dependency was missing.
var ErrRepositoryControllerNotConfigured = errors.New(repositoryControllerMissingMessageConstant)

// ErrSubmoduleControllerNotConfigured indicates the submodule controller dependency was missing.
var ErrSubmoduleControllerNotConfigured = errors.New(submoduleControllerMissingMessageConstant)

// RepositoryController checks and converges standalone checkouts.
type RepositoryController interface {
	Status(executionContext context.Context, target repository.Repository) (repository.Status, error)
	Update(executionContext context.Context, target repository.Repository, remoteURL string) error
}

// SubmoduleController inspects and converges submodules.
type SubmoduleController interface {
	State(executionContext context.Context, parentRoot string, target submodule.Submodule) (submodule.RegistrationState, error)
	Init(executionContext context.Context, parentRoot string, target submodule.Submodule, options submodule.Options) error
}

// Dependencies enumerates the collaborators of Synchronizer.
type Dependencies struct {
	Repositories RepositoryController
	Submodules   SubmoduleController
	Logger       *zap.Logger
	Output       io.Writer
}

// Options modifies a synchronization run.
type Options struct {
	// DryRun reports what would change without running any mutating git command.
	DryRun bool
}

// RepositoryOutcome records what synchronization did to one repository entry.
type RepositoryOutcome struct {
	Path    string
	Status  repository.Status
	Updated bool
}

// SubmoduleOutcome records what synchronization did to one submodule entry.
type SubmoduleOutcome struct {
	Parent      string
	Path        string
	State       submodule.RegistrationState
	Initialized bool
}

// Report summarizes a synchronization run.
type Report struct {
	Repositories []RepositoryOutcome
	Submodules   []SubmoduleOutcome
}

// Synchronizer converges every manifest entry in order.
type Synchronizer struct {
	repositories RepositoryController
	submodules   SubmoduleController
	logger       *zap.Logger
	output       io.Writer
}

// NewSynchronizer constructs a Synchronizer.
func NewSynchronizer(dependencies Dependencies) (*Synchronizer, error) {
	if dependencies.Repositories == nil {
		return nil, ErrRepositoryControllerNotConfigured
	}
	if dependencies.Submodules == nil {
		return nil, ErrSubmoduleControllerNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}

	return &Synchronizer{
		repositories: dependencies.Repositories,
		submodules:   dependencies.Submodules,
		logger:       logger,
		output:       output,
	}, nil
}

// Synchronize updates every stale repository, then initializes every submodule.
// Repositories come first so submodule parents exist. The run stops at the first failure
// and the returned report covers the entries completed before it.
func (synchronizer *Synchronizer) Synchronize(executionContext context.Context, manifest Manifest, options Options) (Report, error) {
	report := Report{}

	for _, entry := range manifest.Repositories {
		outcome, repositoryError := synchronizer.synchronizeRepository(executionContext, entry, options)
		if repositoryError != nil {
			return report, fmt.Errorf(repositorySyncErrorTemplateConstant, entry.Path, repositoryError)
		}
		report.Repositories = append(report.Repositories, outcome)
	}

	for _, entry := range manifest.Submodules {
		outcome, submoduleError := synchronizer.synchronizeSubmodule(executionContext, entry, options)
		if submoduleError != nil {
			return report, fmt.Errorf(submoduleSyncErrorTemplateConstant, entry.Path, entry.Parent, submoduleError)
		}
		report.Submodules = append(report.Submodules, outcome)
	}

	return report, nil
}

func (synchronizer *Synchronizer) synchronizeRepository(executionContext context.Context, entry RepositoryEntry, options Options) (RepositoryOutcome, error) {
	target := repository.New(entry.Path)
	outcome := RepositoryOutcome{Path: target.Path()}

	status, statusError := synchronizer.repositories.Status(executionContext, target)
	if statusError != nil {
		return outcome, statusError
	}
	outcome.Status = status
	synchronizer.logger.Debug(
		repositoryCheckedLogMessageConstant,
		zap.String(logFieldRepositoryPathConstant, outcome.Path),
		zap.String(logFieldStatusConstant, status.String()),
	)

	switch {
	case !status.Stale():
		fmt.Fprintf(synchronizer.output, repositoryReportTemplateConstant, repositoryActionFreshConstant, outcome.Path)
	case options.DryRun:
		fmt.Fprintf(synchronizer.output, repositoryReportTemplateConstant, repositoryActionWouldUpdateConstant, outcome.Path)
	default:
		if updateError := synchronizer.repositories.Update(executionContext, target, entry.Remote); updateError != nil {
			return outcome, updateError
		}
		outcome.Updated = true
		fmt.Fprintf(synchronizer.output, repositoryReportTemplateConstant, repositoryActionUpdatedConstant, outcome.Path)
	}

	return outcome, nil
}

func (synchronizer *Synchronizer) synchronizeSubmodule(executionContext context.Context, entry SubmoduleEntry, options Options) (SubmoduleOutcome, error) {
	target := submodule.New(entry.Remote, entry.Path)
	if len(entry.Name) > 0 {
		target = target.WithName(entry.Name)
	}
	outcome := SubmoduleOutcome{Parent: entry.Parent, Path: entry.Path}

	state, stateError := synchronizer.submodules.State(executionContext, entry.Parent, target)
	if stateError != nil {
		return outcome, stateError
	}
	outcome.State = state
	synchronizer.logger.Debug(
		submoduleCheckedLogMessageConstant,
		zap.String(logFieldParentRootConstant, entry.Parent),
		zap.String(logFieldSubmodulePathConstant, entry.Path),
		zap.String(logFieldStateConstant, state.String()),
	)

	if options.DryRun {
		action := submoduleActionWouldInitializeConstant
		if state == submodule.RegistrationStateRegisteredInitialized && len(entry.Commit) == 0 {
			action = submoduleActionCurrentConstant
		}
		fmt.Fprintf(synchronizer.output, submoduleReportTemplateConstant, action, entry.Parent, entry.Path)
		return outcome, nil
	}

	if initError := synchronizer.submodules.Init(executionContext, entry.Parent, target, submodule.Options{PinnedCommit: entry.Commit}); initError != nil {
		return outcome, initError
	}
	outcome.Initialized = true
	fmt.Fprintf(synchronizer.output, submoduleReportTemplateConstant, submoduleActionInitializedConstant, entry.Parent, entry.Path)
	return outcome, nil
}
