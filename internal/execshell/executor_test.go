package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/repokeeper/internal/execshell"
)

const (
	testExecutionSuccessCaseNameConstant         = "success"
	testExecutionFailureCaseNameConstant         = "failure_exit_code"
	testExecutionRunnerErrorCaseNameConstant     = "runner_error"
	testCommandArgumentConstant                  = "--version"
	testWorkingDirectoryConstant                 = "."
	testStandardErrorOutputConstant              = "fatal: not a git repository"
	testLoggerInitializationCaseNameConstant     = "logger_validation"
	testRunnerInitializationCaseNameConstant     = "runner_validation"
	testSuccessfulInitializationCaseNameConstant = "successful_initialization"
)

type recordingCommandRunner struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.executionResult, runner.executionError
}

type recordingObserver struct {
	started   int
	completed int
	failed    int
}

func (eventObserver *recordingObserver) CommandStarted(execshell.ShellCommand) {
	eventObserver.started++
}

func (eventObserver *recordingObserver) CommandCompleted(execshell.ShellCommand, execshell.ExecutionResult) {
	eventObserver.completed++
}

func (eventObserver *recordingObserver) CommandExecutionFailed(execshell.ShellCommand, error) {
	eventObserver.failed++
}

func TestShellExecutorInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectError   error
		expectSuccess bool
	}{
		{
			name:        testLoggerInitializationCaseNameConstant,
			logger:      nil,
			runner:      &recordingCommandRunner{},
			expectError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:        testRunnerInitializationCaseNameConstant,
			logger:      zap.NewNop(),
			runner:      nil,
			expectError: execshell.ErrCommandRunnerNotConfigured,
		},
		{
			name:          testSuccessfulInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        &recordingCommandRunner{},
			expectSuccess: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner)
			if testCase.expectSuccess {
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, executor)
				return
			}
			require.ErrorIs(testInstance, creationError, testCase.expectError)
			require.Nil(testInstance, executor)
		})
	}
}

func TestShellExecutorExecuteBehavior(testInstance *testing.T) {
	testCases := []struct {
		name              string
		runnerResult      execshell.ExecutionResult
		runnerError       error
		expectErrorType   any
		expectedCompleted int
		expectedFailed    int
	}{
		{
			name: testExecutionSuccessCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardOutput: "git version 2.43.0",
				ExitCode:       0,
			},
			expectedCompleted: 1,
		},
		{
			name: testExecutionFailureCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardError: testStandardErrorOutputConstant,
				ExitCode:      128,
			},
			expectErrorType:   execshell.CommandFailedError{},
			expectedCompleted: 1,
		},
		{
			name:            testExecutionRunnerErrorCaseNameConstant,
			runnerError:     errors.New("exec: \"git\": executable file not found in $PATH"),
			expectErrorType: execshell.CommandExecutionError{},
			expectedFailed:  1,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observerLogs := observer.New(zap.DebugLevel)
			logger := zap.New(observerCore)

			recordingRunner := &recordingCommandRunner{
				executionResult: testCase.runnerResult,
				executionError:  testCase.runnerError,
			}
			eventObserver := &recordingObserver{}

			shellExecutor, creationError := execshell.NewShellExecutor(logger, recordingRunner, eventObserver)
			require.NoError(testInstance, creationError)

			commandDetails := execshell.CommandDetails{Arguments: []string{testCommandArgumentConstant}, WorkingDirectory: testWorkingDirectoryConstant}
			executionResult, executionError := shellExecutor.ExecuteGit(context.Background(), commandDetails)

			if testCase.expectErrorType != nil {
				require.Error(testInstance, executionError)
				require.IsType(testInstance, testCase.expectErrorType, executionError)
				require.Empty(testInstance, executionResult.StandardOutput)
			} else {
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.runnerResult.StandardOutput, executionResult.StandardOutput)
			}

			require.Len(testInstance, observerLogs.All(), 2)
			require.Equal(testInstance, 1, eventObserver.started)
			require.Equal(testInstance, testCase.expectedCompleted, eventObserver.completed)
			require.Equal(testInstance, testCase.expectedFailed, eventObserver.failed)
			require.Len(testInstance, recordingRunner.recordedCommands, 1)
			require.Equal(testInstance, execshell.CommandGit, recordingRunner.recordedCommands[0].Name)
		})
	}
}

func TestCommandFailedErrorIncludesDiagnosticOutput(testInstance *testing.T) {
	failure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{
			Name:    execshell.CommandGit,
			Details: execshell.CommandDetails{Arguments: []string{"fetch", "origin"}},
		},
		Result: execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: unable to access remote\n"},
	}

	require.Equal(testInstance, "git fetch origin failed with exit code 128: fatal: unable to access remote", failure.Error())
}

func TestCommandExecutionErrorUnwrapsCause(testInstance *testing.T) {
	cause := errors.New("signal: killed")
	failure := execshell.CommandExecutionError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"clone"}}},
		Cause:   cause,
	}

	require.ErrorIs(testInstance, failure, cause)
	require.Contains(testInstance, failure.Error(), "git clone")
}
