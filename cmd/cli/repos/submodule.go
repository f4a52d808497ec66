package repos

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/repokeeper/internal/dependencies"
	"github.com/temirov/repokeeper/internal/submodule"
)

const (
	submoduleGroupUseConstant              = "submodule"
	submoduleGroupShortDescriptionConstant = "Manage submodules nested in a parent checkout"
	submoduleInitUseConstant               = "init <remote> <path>"
	submoduleInitShortDescriptionConstant  = "Register and initialize a submodule, optionally pinning a commit"
	submoduleInitLongDescriptionConstant   = "init adds the submodule when the parent's .gitmodules lacks it and initializes it when the parent's local config lacks it. With --commit the submodule is then checked out at that commit. Repeated runs converge to the same state."
	submoduleStateUseConstant              = "state <remote> <path>"
	submoduleStateShortDescriptionConstant = "Report how far a submodule is set up in its parent"
	submoduleParentFlagNameConstant        = "parent"
	submoduleParentFlagUsageConstant       = "Parent repository root (defaults to tools.submodule.parent)"
	submoduleNameFlagNameConstant          = "name"
	submoduleNameFlagUsageConstant         = "Submodule name (defaults to the repository name derived from the remote)"
	submoduleCommitFlagNameConstant        = "commit"
	submoduleCommitFlagUsageConstant       = "Commit checked out inside the submodule after initialization"
	submoduleInitializedTemplateConstant   = "INITIALIZED %s\n"
	submoduleStateTemplateConstant         = "%s %s\n"
)

// SubmoduleCommandGroupBuilder assembles the submodule command group.
type SubmoduleCommandGroupBuilder struct {
	ServiceDependencies
	ConfigurationProvider func() SubmoduleConfiguration
}

// Build constructs the submodule command hierarchy.
func (builder *SubmoduleCommandGroupBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   submoduleGroupUseConstant,
		Short: submoduleGroupShortDescriptionConstant,
	}
	command.PersistentFlags().String(submoduleParentFlagNameConstant, "", submoduleParentFlagUsageConstant)
	command.PersistentFlags().String(submoduleNameFlagNameConstant, "", submoduleNameFlagUsageConstant)

	initCommand := &cobra.Command{
		Use:   submoduleInitUseConstant,
		Short: submoduleInitShortDescriptionConstant,
		Long:  submoduleInitLongDescriptionConstant,
		Args:  cobra.ExactArgs(2),
		RunE:  builder.runInit,
	}
	initCommand.Flags().String(submoduleCommitFlagNameConstant, "", submoduleCommitFlagUsageConstant)

	stateCommand := &cobra.Command{
		Use:   submoduleStateUseConstant,
		Short: submoduleStateShortDescriptionConstant,
		Args:  cobra.ExactArgs(2),
		RunE:  builder.runState,
	}

	command.AddCommand(initCommand, stateCommand)
	return command, nil
}

func (builder *SubmoduleCommandGroupBuilder) runInit(command *cobra.Command, arguments []string) error {
	service, parentRoot, target, resolveError := builder.resolve(command, arguments)
	if resolveError != nil {
		return resolveError
	}

	pinnedCommit, _ := command.Flags().GetString(submoduleCommitFlagNameConstant)
	if initError := service.Init(command.Context(), parentRoot, target, submodule.Options{PinnedCommit: strings.TrimSpace(pinnedCommit)}); initError != nil {
		return initError
	}

	fmt.Fprintf(command.OutOrStdout(), submoduleInitializedTemplateConstant, target.Path())
	return nil
}

func (builder *SubmoduleCommandGroupBuilder) runState(command *cobra.Command, arguments []string) error {
	service, parentRoot, target, resolveError := builder.resolve(command, arguments)
	if resolveError != nil {
		return resolveError
	}

	state, stateError := service.State(command.Context(), parentRoot, target)
	if stateError != nil {
		return stateError
	}

	fmt.Fprintf(command.OutOrStdout(), submoduleStateTemplateConstant, strings.ToUpper(state.String()), target.Path())
	return nil
}

func (builder *SubmoduleCommandGroupBuilder) resolve(command *cobra.Command, arguments []string) (*submodule.Service, string, submodule.Submodule, error) {
	parentValue, _ := command.Flags().GetString(submoduleParentFlagNameConstant)
	if len(strings.TrimSpace(parentValue)) == 0 && builder.ConfigurationProvider != nil {
		parentValue = builder.ConfigurationProvider().Parent
	}
	if len(strings.TrimSpace(parentValue)) == 0 {
		parentValue = defaultSubmoduleParentConstant
	}
	parentRoot := resolveCommandPath(command, parentValue)

	target := submodule.New(strings.TrimSpace(arguments[0]), strings.TrimSpace(arguments[1]))
	nameValue, _ := command.Flags().GetString(submoduleNameFlagNameConstant)
	if trimmedName := strings.TrimSpace(nameValue); len(trimmedName) > 0 {
		target = target.WithName(trimmedName)
	}

	gitExecutor, executorError := builder.gitExecutor()
	if executorError != nil {
		return nil, "", submodule.Submodule{}, executorError
	}
	service, serviceError := dependencies.ResolveSubmoduleService(gitExecutor, builder.FileSystem, builder.logger())
	if serviceError != nil {
		return nil, "", submodule.Submodule{}, serviceError
	}
	return service, parentRoot, target, nil
}
