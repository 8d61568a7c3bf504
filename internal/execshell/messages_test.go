package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandMessageFormatterDescribesProbeCommands(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedStart   string
		expectedSuccess string
	}{
		{
			name:            "work_tree_probe",
			arguments:       []string{"rev-parse", "--is-inside-work-tree"},
			expectedStart:   "Analyzing repository at /repo",
			expectedSuccess: "/repo is inside a Git working tree",
		},
		{
			name:            "head_commit_probe",
			arguments:       []string{"rev-parse", "--verify", "--quiet", "HEAD"},
			expectedStart:   "Checking for commits in /repo",
			expectedSuccess: "/repo has at least one commit",
		},
		{
			name:            "stash_probe",
			arguments:       []string{"rev-parse", "--verify", "--quiet", "refs/stash"},
			expectedStart:   "Checking for stash entries in /repo",
			expectedSuccess: "/repo has stash entries",
		},
		{
			name:            "staged_diff_probe",
			arguments:       []string{"diff", "--cached", "--quiet"},
			expectedStart:   "Checking staged changes in /repo",
			expectedSuccess: "No staged changes in /repo",
		},
		{
			name:            "tracked_diff_probe",
			arguments:       []string{"diff", "--quiet"},
			expectedStart:   "Checking tracked file changes in /repo",
			expectedSuccess: "No tracked file changes in /repo",
		},
		{
			name:            "untracked_listing",
			arguments:       []string{"ls-files", "--others", "--exclude-standard"},
			expectedStart:   "Listing untracked files in /repo",
			expectedSuccess: "Listed untracked files in /repo",
		},
		{
			name:            "branch_listing",
			arguments:       []string{"for-each-ref", "--format", "%(refname:short) %(upstream:short)", "refs/heads"},
			expectedStart:   "Listing local branches and upstreams in /repo",
			expectedSuccess: "Listed local branches and upstreams in /repo",
		},
		{
			name:            "divergence_listing",
			arguments:       []string{"rev-list", "--left-right", "main...origin/main"},
			expectedStart:   "Comparing local and upstream commits in /repo",
			expectedSuccess: "Compared local and upstream commits in /repo",
		},
	}

	formatter := CommandMessageFormatter{}
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			command := ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: testCase.arguments, WorkingDirectory: "/repo"}}
			require.Equal(testInstance, testCase.expectedStart, formatter.BuildStartedMessage(command))
			require.Equal(testInstance, testCase.expectedSuccess, formatter.BuildSuccessMessage(command))
		})
	}
}

func TestCommandMessageFormatterDescribesCurrentBranch(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"rev-parse", "--abbrev-ref", "HEAD"}, WorkingDirectory: "/repo"}}

	require.Equal(testInstance, "Identifying current branch in /repo", formatter.BuildStartedMessage(command))
	require.Equal(testInstance, "Failed to identify current branch in /repo (exit code 128: fatal)", formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 128, StandardError: "fatal"}))
}

func TestCommandMessageFormatterFallsBackToGenericMessages(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"gc"}}}

	require.Equal(testInstance, "Running git gc", formatter.BuildStartedMessage(command))
	require.Equal(testInstance, "git gc failed: boom", formatter.BuildExecutionFailureMessage(command, errors.New("boom")))
}
