package repos

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/repokeeper/internal/repository"
	"github.com/temirov/repokeeper/internal/utils/flags"
)

const (
	logUseConstant              = "log [path]"
	logShortDescriptionConstant = "Print the latest commit of a checkout"
	logLongDescriptionConstant  = "log prints the subject or body of the most recent commit, or any git pretty format given with --format."
	logPartFlagNameConstant     = "part"
	logPartFlagUsageConstant    = "Commit part to print."
	logFormatFlagNameConstant   = "format"
	logFormatFlagUsageConstant  = "Git pretty format placeholder string, overriding --part (for example %H or %an)"
	logPartSubjectConstant      = "subject"
	logPartBodyConstant         = "body"
	logOutputTemplateConstant   = "%s\n"
)

// LogCommandBuilder assembles the log command.
type LogCommandBuilder struct {
	ServiceDependencies
}

// Build constructs the log command.
func (builder *LogCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   logUseConstant,
		Short: logShortDescriptionConstant,
		Long:  logLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	partValue := flags.NewChoiceValue(logPartSubjectConstant, []string{logPartSubjectConstant, logPartBodyConstant})
	command.Flags().Var(partValue, logPartFlagNameConstant, partValue.Usage(logPartFlagUsageConstant))
	command.Flags().String(logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	return command, nil
}

func (builder *LogCommandBuilder) run(command *cobra.Command, arguments []string) error {
	service, serviceError := builder.repositoryService(command)
	if serviceError != nil {
		return serviceError
	}

	target := resolveRepositoryArgument(command, arguments)
	commitText, commitError := builder.latestCommit(command, service, target)
	if commitError != nil {
		return commitError
	}

	fmt.Fprintf(command.OutOrStdout(), logOutputTemplateConstant, commitText)
	return nil
}

func (builder *LogCommandBuilder) latestCommit(command *cobra.Command, service *repository.Service, target repository.Repository) (string, error) {
	formatValue, _ := command.Flags().GetString(logFormatFlagNameConstant)
	if len(strings.TrimSpace(formatValue)) > 0 {
		return service.LatestCommit(command.Context(), target, formatValue)
	}

	if command.Flags().Lookup(logPartFlagNameConstant).Value.String() == logPartBodyConstant {
		return service.LatestBody(command.Context(), target)
	}
	return service.LatestSubject(command.Context(), target)
}
