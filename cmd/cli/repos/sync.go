package repos

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/repokeeper/internal/dependencies"
	"github.com/temirov/repokeeper/internal/workspace"
)

const (
	syncUseConstant                    = "sync [manifest]"
	syncShortDescriptionConstant       = "Converge every checkout listed in a workspace manifest"
	syncLongDescriptionConstant        = "sync updates each stale repository in the manifest, then brings each listed submodule to a registered and initialized state."
	syncDryRunFlagNameConstant         = "dry-run"
	syncDryRunFlagUsageConstant        = "Report what would change without running mutating git commands"
	syncManifestMissingMessageConstant = "workspace manifest required; provide a positional argument or configure tools.sync.manifest"
)

// SyncCommandBuilder assembles the sync command.
type SyncCommandBuilder struct {
	ServiceDependencies
	ConfigurationProvider func() SyncConfiguration
}

// Build constructs the sync command.
func (builder *SyncCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   syncUseConstant,
		Short: syncShortDescriptionConstant,
		Long:  syncLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}
	command.Flags().Bool(syncDryRunFlagNameConstant, false, syncDryRunFlagUsageConstant)
	return command, nil
}

func (builder *SyncCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := SyncConfiguration{}
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	manifestPath := strings.TrimSpace(configuration.Manifest)
	if len(arguments) > 0 && len(strings.TrimSpace(arguments[0])) > 0 {
		manifestPath = arguments[0]
	}
	if len(manifestPath) == 0 {
		return errors.New(syncManifestMissingMessageConstant)
	}

	dryRun := configuration.DryRun
	if command.Flags().Changed(syncDryRunFlagNameConstant) {
		dryRun, _ = command.Flags().GetBool(syncDryRunFlagNameConstant)
	}

	manifest, manifestError := workspace.LoadManifest(dependencies.ResolveFileSystem(builder.FileSystem), resolveCommandPath(command, manifestPath))
	if manifestError != nil {
		return manifestError
	}

	gitExecutor, executorError := builder.gitExecutor()
	if executorError != nil {
		return executorError
	}
	repositoryService, repositoryError := dependencies.ResolveRepositoryService(gitExecutor, builder.FileSystem, builder.logger(), command.OutOrStdout())
	if repositoryError != nil {
		return repositoryError
	}
	submoduleService, submoduleError := dependencies.ResolveSubmoduleService(gitExecutor, builder.FileSystem, builder.logger())
	if submoduleError != nil {
		return submoduleError
	}

	synchronizer, synchronizerError := workspace.NewSynchronizer(workspace.Dependencies{
		Repositories: repositoryService,
		Submodules:   submoduleService,
		Logger:       builder.logger(),
		Output:       command.OutOrStdout(),
	})
	if synchronizerError != nil {
		return synchronizerError
	}

	_, synchronizeError := synchronizer.Synchronize(command.Context(), manifest, workspace.Options{DryRun: dryRun})
	return synchronizeError
}
