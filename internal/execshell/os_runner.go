package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
)

const (
	environmentAssignmentTemplateConstant = "%s=%s"
)

// OSCommandRunner executes commands as child processes through os/exec.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs an OSCommandRunner.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run starts the command, waits for it, and captures both output streams.
// A non-zero exit is reported through ExecutionResult.ExitCode, not as an error.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	executable := exec.CommandContext(executionContext, string(command.Name), append([]string{}, command.Details.Arguments...)...)
	executable.Dir = command.Details.WorkingDirectory
	executable.Env = mergeEnvironment(command.Details.EnvironmentVariables)

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer
	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := executable.Run()
	executionResult := ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
	}
	if runError == nil {
		return executionResult, nil
	}

	var exitError *exec.ExitError
	if errors.As(runError, &exitError) {
		executionResult.ExitCode = exitError.ExitCode()
		return executionResult, nil
	}
	return ExecutionResult{}, runError
}

// mergeEnvironment returns nil when no overrides are requested so the child inherits the parent environment.
func mergeEnvironment(overrides map[string]string) []string {
	if len(overrides) == 0 {
		return nil
	}

	overrideKeys := make([]string, 0, len(overrides))
	for environmentKey := range overrides {
		overrideKeys = append(overrideKeys, environmentKey)
	}
	sort.Strings(overrideKeys)

	mergedEnvironment := append([]string{}, os.Environ()...)
	for _, environmentKey := range overrideKeys {
		mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, overrides[environmentKey]))
	}
	return mergedEnvironment
}
