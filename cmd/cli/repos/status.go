package repos

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/repokeeper/internal/repository"
	"github.com/temirov/repokeeper/internal/workspace"
)

const (
	statusUseConstant                = "status [path ...]"
	statusShortDescriptionConstant   = "Report whether checkouts match their upstream branch"
	statusLongDescriptionConstant    = "status fetches origin and prints FRESH when HEAD equals the upstream revision, STALE otherwise. A missing path is STALE. With --recursive every checkout found under the given roots is reported."
	statusRecursiveFlagNameConstant  = "recursive"
	statusRecursiveFlagUsageConstant = "Treat paths as roots and report every checkout beneath them"
	statusReportTemplateConstant     = "%s %s\n"
)

// StatusCommandBuilder assembles the status command.
type StatusCommandBuilder struct {
	ServiceDependencies
}

// Build constructs the status command.
func (builder *StatusCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   statusUseConstant,
		Short: statusShortDescriptionConstant,
		Long:  statusLongDescriptionConstant,
		RunE:  builder.run,
	}
	command.Flags().BoolP(statusRecursiveFlagNameConstant, "r", false, statusRecursiveFlagUsageConstant)
	return command, nil
}

func (builder *StatusCommandBuilder) run(command *cobra.Command, arguments []string) error {
	service, serviceError := builder.repositoryService(command)
	if serviceError != nil {
		return serviceError
	}

	targets, targetsError := builder.resolveTargets(command, arguments)
	if targetsError != nil {
		return targetsError
	}

	for _, target := range targets {
		status, statusError := service.Status(command.Context(), target)
		if statusError != nil {
			return statusError
		}
		fmt.Fprintf(command.OutOrStdout(), statusReportTemplateConstant, strings.ToUpper(status.String()), target.Path())
	}
	return nil
}

func (builder *StatusCommandBuilder) resolveTargets(command *cobra.Command, arguments []string) ([]repository.Repository, error) {
	candidates := arguments
	if len(candidates) == 0 {
		candidates = []string{currentDirectoryArgumentConstant}
	}
	paths := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		paths = append(paths, resolveCommandPath(command, candidate))
	}

	recursive, _ := command.Flags().GetBool(statusRecursiveFlagNameConstant)
	if recursive {
		discoveredPaths, discoveryError := workspace.DiscoverCheckouts(paths)
		if discoveryError != nil {
			return nil, discoveryError
		}
		paths = discoveredPaths
	}

	targets := make([]repository.Repository, 0, len(paths))
	for _, path := range paths {
		targets = append(targets, repository.New(path))
	}
	return targets, nil
}
