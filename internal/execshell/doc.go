// Package execshell runs external tools for repokeeper.
//
// ShellExecutor wraps a CommandRunner with structured zap logging, translates
// non-zero exit codes into CommandFailedError values that carry the captured
// diagnostic output, and fans lifecycle events out to CommandEventObserver
// implementations. OSCommandRunner is the os/exec backed runner.
package execshell
