package repos

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const (
	updateUseConstant                  = "update [path]"
	updateShortDescriptionConstant     = "Clone or refresh a checkout from its remote"
	updateLongDescriptionConstant      = "update shallow-clones the remote when the path is absent. An existing checkout is hard-reset to a freshly fetched origin/master and cleaned of untracked files outside /target."
	updateRemoteFlagNameConstant       = "remote"
	updateRemoteFlagUsageConstant      = "Remote URL cloned when the path does not exist (defaults to tools.update.remote_url)"
	updateRemoteMissingMessageConstant = "remote URL required; specify --remote or configure tools.update.remote_url"
	updateCompletedTemplateConstant    = "UPDATED %s\n"
)

// UpdateCommandBuilder assembles the update command.
type UpdateCommandBuilder struct {
	ServiceDependencies
	ConfigurationProvider func() UpdateConfiguration
}

// Build constructs the update command.
func (builder *UpdateCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   updateUseConstant,
		Short: updateShortDescriptionConstant,
		Long:  updateLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}
	command.Flags().String(updateRemoteFlagNameConstant, "", updateRemoteFlagUsageConstant)
	return command, nil
}

func (builder *UpdateCommandBuilder) run(command *cobra.Command, arguments []string) error {
	remoteURL, _ := command.Flags().GetString(updateRemoteFlagNameConstant)
	remoteURL = strings.TrimSpace(remoteURL)
	if len(remoteURL) == 0 && builder.ConfigurationProvider != nil {
		remoteURL = strings.TrimSpace(builder.ConfigurationProvider().RemoteURL)
	}
	if len(remoteURL) == 0 {
		return errors.New(updateRemoteMissingMessageConstant)
	}

	service, serviceError := builder.repositoryService(command)
	if serviceError != nil {
		return serviceError
	}

	target := resolveRepositoryArgument(command, arguments)
	if updateError := service.Update(command.Context(), target, remoteURL); updateError != nil {
		return updateError
	}

	fmt.Fprintf(command.OutOrStdout(), updateCompletedTemplateConstant, target.Path())
	return nil
}
