package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandMessageFormatterDescribesGitCommands(t *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
		directory string
		expected  string
	}{
		{
			name:      "FetchOrigin",
			arguments: []string{"fetch", "origin"},
			directory: "/workspace/repo",
			expected:  "Fetching from origin in /workspace/repo",
		},
		{
			name:      "ShallowFetch",
			arguments: []string{"fetch", "--depth", "1"},
			directory: "/workspace/repo",
			expected:  "Fetching from all remotes in /workspace/repo",
		},
		{
			name:      "RevParseUpstream",
			arguments: []string{"rev-parse", "@{u}"},
			directory: "/workspace/repo",
			expected:  "Resolving upstream branch in /workspace/repo",
		},
		{
			name:      "ShallowClone",
			arguments: []string{"clone", "--depth", "1", "--single-branch", "https://example.com/org/tool.git", "/workspace/tool"},
			directory: "/workspace",
			expected:  "Cloning /workspace/tool from https://example.com/org/tool.git",
		},
		{
			name:      "HardReset",
			arguments: []string{"reset", "--hard", "origin/master"},
			directory: "/workspace/repo",
			expected:  "Resetting working tree to origin/master in /workspace/repo",
		},
		{
			name:      "CleanWithExclusion",
			arguments: []string{"clean", "-dfx", "--exclude", "/target"},
			directory: "/workspace/repo",
			expected:  "Removing untracked files (keeping /target) in /workspace/repo",
		},
		{
			name:      "LatestSubject",
			arguments: []string{"log", "-1", "--pretty=%s"},
			directory: "/workspace/repo",
			expected:  "Reading latest commit (%s) in /workspace/repo",
		},
		{
			name:      "SubmoduleAdd",
			arguments: []string{"submodule", "add", "--name", "lib", "https://example.com/org/lib.git", "third_party/lib"},
			directory: "/workspace/repo",
			expected:  "Registering submodule lib in /workspace/repo",
		},
		{
			name:      "SubmoduleUpdate",
			arguments: []string{"submodule", "update", "--init", "--recursive", "--", "third_party/lib"},
			directory: "/workspace/repo",
			expected:  "Initializing submodules recursively in /workspace/repo",
		},
		{
			name:      "Checkout",
			arguments: []string{"checkout", "0123abcd"},
			directory: "/workspace/repo/third_party/lib",
			expected:  "Checking out 0123abcd in /workspace/repo/third_party/lib",
		},
		{
			name:      "UnknownSubcommand",
			arguments: []string{"gc", "--auto"},
			directory: "/workspace/repo",
			expected:  "Running git gc --auto (in /workspace/repo)",
		},
		{
			name:      "EmptyWorkingDirectory",
			arguments: []string{"fetch", "origin"},
			expected:  "Fetching from origin in current directory",
		},
	}

	formatter := CommandMessageFormatter{}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: testCase.arguments, WorkingDirectory: testCase.directory},
			}
			require.Equal(t, testCase.expected, formatter.BuildStartedMessage(command))
		})
	}
}

func TestCommandMessageFormatterDescribesFailures(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"reset", "--hard", "origin/master"}, WorkingDirectory: "/workspace/repo"},
	}

	failureMessage := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 128, StandardError: "fatal: ambiguous argument\n"})
	require.Equal(t, "Failed to reset working tree to origin/master in /workspace/repo (exit code 128: fatal: ambiguous argument)", failureMessage)

	executionFailureMessage := formatter.BuildExecutionFailureMessage(command, errors.New("signal: killed"))
	require.Equal(t, "Unable to reset working tree to origin/master in /workspace/repo: signal: killed", executionFailureMessage)

	require.Equal(t, "Working tree matches origin/master in /workspace/repo", formatter.BuildSuccessMessage(command))
}
