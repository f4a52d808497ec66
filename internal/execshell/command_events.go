package execshell

// CommandEventObserver receives lifecycle notifications for executed commands.
type CommandEventObserver interface {
	// CommandStarted is called before the command is handed to the runner.
	CommandStarted(command ShellCommand)
	// CommandCompleted is called once the runner reports a result, whatever its exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed is called when the runner could not produce a result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
