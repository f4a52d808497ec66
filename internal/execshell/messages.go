package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	exitCodeSuffixTemplateConstant          = " (exit code %d%s)"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitFetchSubcommandNameConstant     = "fetch"
	gitRevParseSubcommandNameConstant  = "rev-parse"
	gitCloneSubcommandNameConstant     = "clone"
	gitResetSubcommandNameConstant     = "reset"
	gitCleanSubcommandNameConstant     = "clean"
	gitLogSubcommandNameConstant       = "log"
	gitCheckoutSubcommandNameConstant  = "checkout"
	gitSubmoduleSubcommandNameConstant = "submodule"
	gitSubmoduleAddActionConstant      = "add"
	gitSubmoduleUpdateActionConstant   = "update"
	gitDepthFlagConstant               = "--depth"
	gitNameFlagConstant                = "--name"
	gitUpstreamReferenceConstant       = "@{u}"
	gitAllRemotesLabelConstant         = "all remotes"
	gitUpstreamLabelConstant           = "upstream branch"
)

// messageTemplates holds the four lifecycle renderings of one command family.
// Each template receives a subject string and the working directory.
type messageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var (
	gitFetchTemplates = messageTemplates{
		start:            "Fetching from %s in %s",
		success:          "Fetched from %s in %s",
		failure:          "Failed to fetch from %s in %s",
		executionFailure: "Unable to fetch from %s in %s",
	}
	gitRevParseTemplates = messageTemplates{
		start:            "Resolving %s in %s",
		success:          "Resolved %s in %s",
		failure:          "Failed to resolve %s in %s",
		executionFailure: "Unable to resolve %s in %s",
	}
	gitCloneTemplates = messageTemplates{
		start:            "Cloning %s from %s",
		success:          "Cloned %s from %s",
		failure:          "Failed to clone %s from %s",
		executionFailure: "Unable to clone %s from %s",
	}
	gitResetTemplates = messageTemplates{
		start:            "Resetting working tree to %s in %s",
		success:          "Working tree matches %s in %s",
		failure:          "Failed to reset working tree to %s in %s",
		executionFailure: "Unable to reset working tree to %s in %s",
	}
	gitCleanTemplates = messageTemplates{
		start:            "Removing untracked files%s in %s",
		success:          "Removed untracked files%s in %s",
		failure:          "Failed to remove untracked files%s in %s",
		executionFailure: "Unable to remove untracked files%s in %s",
	}
	gitLogTemplates = messageTemplates{
		start:            "Reading latest commit %s in %s",
		success:          "Read latest commit %s in %s",
		failure:          "Failed to read latest commit %s in %s",
		executionFailure: "Unable to read latest commit %s in %s",
	}
	gitCheckoutTemplates = messageTemplates{
		start:            "Checking out %s in %s",
		success:          "Checked out %s in %s",
		failure:          "Failed to check out %s in %s",
		executionFailure: "Unable to check out %s in %s",
	}
	gitSubmoduleAddTemplates = messageTemplates{
		start:            "Registering submodule %s in %s",
		success:          "Registered submodule %s in %s",
		failure:          "Failed to register submodule %s in %s",
		executionFailure: "Unable to register submodule %s in %s",
	}
	gitSubmoduleUpdateTemplates = messageTemplates{
		start:            "Initializing submodules%s in %s",
		success:          "Initialized submodules%s in %s",
		failure:          "Failed to initialize submodules%s in %s",
		executionFailure: "Unable to initialize submodules%s in %s",
	}
)

const (
	gitCleanExclusionSuffixTemplateConstant = " (keeping %s)"
	gitSubmoduleRecursiveSuffixConstant     = " recursively"
	gitLogFormatSubjectTemplateConstant     = "(%s)"
	gitLogPrettyFlagPrefixConstant          = "--pretty="
	gitCleanExcludeFlagPrefixConstant       = "--exclude"
	gitSubmoduleRecursiveFlagConstant       = "--recursive"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch strings.TrimSpace(arguments[0]) {
	case gitFetchSubcommandNameConstant:
		remoteName := formatter.firstPositionalArgument(arguments[1:])
		if len(remoteName) == 0 {
			remoteName = gitAllRemotesLabelConstant
		}
		return formatter.render(gitFetchTemplates, stage, result, failure, remoteName, workingDirectory)
	case gitRevParseSubcommandNameConstant:
		reference := formatter.ensureValue(formatter.firstPositionalArgument(arguments[1:]))
		if reference == gitUpstreamReferenceConstant {
			reference = gitUpstreamLabelConstant
		}
		return formatter.render(gitRevParseTemplates, stage, result, failure, reference, workingDirectory)
	case gitCloneSubcommandNameConstant:
		positional := formatter.positionalArguments(arguments[1:])
		remoteURL := formatter.ensureValue(formatter.argumentAtIndex(positional, 0))
		destination := formatter.ensureValue(formatter.argumentAtIndex(positional, 1))
		return formatter.render(gitCloneTemplates, stage, result, failure, destination, remoteURL)
	case gitResetSubcommandNameConstant:
		target := formatter.ensureValue(formatter.firstPositionalArgument(arguments[1:]))
		return formatter.render(gitResetTemplates, stage, result, failure, target, workingDirectory)
	case gitCleanSubcommandNameConstant:
		exclusionSuffix := emptyStringConstant
		if excluded := formatter.findFlagValue(arguments, gitCleanExcludeFlagPrefixConstant); len(excluded) > 0 {
			exclusionSuffix = fmt.Sprintf(gitCleanExclusionSuffixTemplateConstant, excluded)
		}
		return formatter.render(gitCleanTemplates, stage, result, failure, exclusionSuffix, workingDirectory)
	case gitLogSubcommandNameConstant:
		prettyFormat := fallbackUnknownValueLabelConstant
		for _, argument := range arguments[1:] {
			if strings.HasPrefix(argument, gitLogPrettyFlagPrefixConstant) {
				prettyFormat = strings.TrimPrefix(argument, gitLogPrettyFlagPrefixConstant)
			}
		}
		return formatter.render(gitLogTemplates, stage, result, failure, fmt.Sprintf(gitLogFormatSubjectTemplateConstant, prettyFormat), workingDirectory)
	case gitCheckoutSubcommandNameConstant:
		target := formatter.ensureValue(formatter.firstPositionalArgument(arguments[1:]))
		return formatter.render(gitCheckoutTemplates, stage, result, failure, target, workingDirectory)
	case gitSubmoduleSubcommandNameConstant:
		return formatter.describeGitSubmoduleMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitSubmoduleMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	action := strings.TrimSpace(formatter.argumentAtIndex(arguments, 1))

	switch action {
	case gitSubmoduleAddActionConstant:
		submoduleName := formatter.findFlagValue(arguments, gitNameFlagConstant)
		if len(submoduleName) == 0 {
			submoduleName = formatter.firstPositionalArgument(arguments[2:])
		}
		return formatter.render(gitSubmoduleAddTemplates, stage, result, failure, formatter.ensureValue(submoduleName), workingDirectory)
	case gitSubmoduleUpdateActionConstant:
		recursiveSuffix := emptyStringConstant
		if containsArgument(arguments, gitSubmoduleRecursiveFlagConstant) {
			recursiveSuffix = gitSubmoduleRecursiveSuffixConstant
		}
		return formatter.render(gitSubmoduleUpdateTemplates, stage, result, failure, recursiveSuffix, workingDirectory)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) render(templates messageTemplates, stage messageStage, result ExecutionResult, failure error, subject string, location string) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subject, location)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subject, location)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, subject, location) + fmt.Sprintf(exitCodeSuffixTemplateConstant, result.ExitCode, standardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, subject, location) + fmt.Sprintf(standardErrorSuffixTemplateConstant, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, standardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := describeCommand(command)
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return commandLabel + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

// positionalArguments drops flags and the values of flags known to take one.
func (formatter CommandMessageFormatter) positionalArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	skipNext := false
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if skipNext {
			skipNext = false
			continue
		}
		if trimmedArgument == gitDepthFlagConstant || trimmedArgument == gitNameFlagConstant || trimmedArgument == gitCleanExcludeFlagPrefixConstant {
			skipNext = true
			continue
		}
		if strings.HasPrefix(trimmedArgument, flagPrefixConstant) {
			continue
		}
		positional = append(positional, trimmedArgument)
	}
	return positional
}

func (formatter CommandMessageFormatter) firstPositionalArgument(arguments []string) string {
	return formatter.argumentAtIndex(formatter.positionalArguments(arguments), 0)
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return emptyStringConstant
	}
	return arguments[index]
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmedValue
}

// findFlagValue supports both "--flag value" and "--flag=value".
func (formatter CommandMessageFormatter) findFlagValue(arguments []string, flag string) string {
	for argumentIndex, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if trimmedArgument == flag {
			return strings.TrimSpace(formatter.argumentAtIndex(arguments, argumentIndex+1))
		}
		if strings.HasPrefix(trimmedArgument, flag+"=") {
			return strings.TrimPrefix(trimmedArgument, flag+"=")
		}
	}
	return emptyStringConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
