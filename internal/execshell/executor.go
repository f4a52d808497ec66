package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	commandFailedErrorTemplateConstant        = "%s failed with exit code %d%s"
	commandExecutionErrorTemplateConstant     = "%s could not be executed: %v"
	commandStartedLogMessageConstant          = "executing command"
	commandCompletedLogMessageConstant        = "command completed"
	commandExecutionFailedLogMessageConstant  = "command execution failed"
	logFieldCommandConstant                   = "command"
	logFieldArgumentsConstant                 = "arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
	logFieldStandardErrorConstant             = "stderr"
)

// CommandName identifies an external executable.
type CommandName string

// Supported executables.
const (
	CommandGit CommandName = CommandName("git")
)

// ErrLoggerNotConfigured indicates that a ShellExecutor was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates that a ShellExecutor was constructed without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// CommandDetails describes the arguments and environment of a single invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner runs a ShellCommand to completion.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a process that exited with a non-zero status.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command together with its diagnostic output.
func (failure CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedErrorTemplateConstant, describeCommand(failure.Command), failure.Result.ExitCode, standardErrorSuffix(failure.Result.StandardError))
}

// CommandExecutionError reports a process that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, describeCommand(failure.Command), failure.Cause)
}

// Unwrap exposes the underlying execution failure.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs external commands, logs their lifecycle, and translates exit codes into errors.
type ShellExecutor struct {
	logger    *zap.Logger
	runner    CommandRunner
	observers []CommandEventObserver
}

// NewShellExecutor constructs a ShellExecutor. Observers receive every command lifecycle event.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner, observers ...CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	registeredObservers := make([]CommandEventObserver, 0, len(observers))
	for _, observer := range observers {
		if observer == nil {
			continue
		}
		registeredObservers = append(registeredObservers, observer)
	}
	if len(registeredObservers) == 0 {
		registeredObservers = append(registeredObservers, noopCommandEventObserver{})
	}

	return &ShellExecutor{logger: logger, runner: runner, observers: registeredObservers}, nil
}

// Execute runs the command and returns its result. A non-zero exit code yields CommandFailedError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandFields := []zap.Field{
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}

	executor.logger.Debug(commandStartedLogMessageConstant, commandFields...)
	for _, observer := range executor.observers {
		observer.CommandStarted(command)
	}

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Debug(commandExecutionFailedLogMessageConstant, append(commandFields, zap.Error(runError))...)
		for _, observer := range executor.observers {
			observer.CommandExecutionFailed(command, runError)
		}
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.logger.Debug(
		commandCompletedLogMessageConstant,
		append(commandFields,
			zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
			zap.String(logFieldStandardErrorConstant, strings.TrimSpace(executionResult.StandardError)),
		)...,
	)
	for _, observer := range executor.observers {
		observer.CommandCompleted(command, executionResult)
	}

	if executionResult.ExitCode != 0 {
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	return executionResult, nil
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

func describeCommand(command ShellCommand) string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
}

func standardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}
