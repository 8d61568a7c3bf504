package gitrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/promptline/promptline/internal/execshell"
	"github.com/promptline/promptline/internal/gitrepo"
)

const (
	testRepositoryPathConstant = "/tmp/repo"
)

type stubGitExecutor struct {
	recorded  []execshell.CommandDetails
	responses []stubGitResponse
}

type stubGitResponse struct {
	result execshell.ExecutionResult
	err    error
}

func (executor *stubGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recorded = append(executor.recorded, details)
	if len(executor.responses) == 0 {
		return execshell.ExecutionResult{}, nil
	}

	next := executor.responses[0]
	executor.responses = executor.responses[1:]
	if next.err != nil {
		return execshell.ExecutionResult{}, next.err
	}
	return next.result, nil
}

func failedCommandError(exitCode int) error {
	return execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: exitCode}}
}

func TestNewShellInspectorValidatesExecutor(t *testing.T) {
	inspector, creationError := gitrepo.NewShellInspector(nil)
	require.ErrorIs(t, creationError, gitrepo.ErrGitExecutorNotConfigured)
	require.Nil(t, inspector)
}

func TestIsWorkingTreeParsesAffirmativeOutput(t *testing.T) {
	testCases := []struct {
		name     string
		response stubGitResponse
		expected bool
	}{
		{name: "inside_work_tree", response: stubGitResponse{result: execshell.ExecutionResult{StandardOutput: "true\n"}}, expected: true},
		{name: "bare_repository", response: stubGitResponse{result: execshell.ExecutionResult{StandardOutput: "false\n"}}, expected: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &stubGitExecutor{responses: []stubGitResponse{testCase.response}}
			inspector, creationError := gitrepo.NewShellInspector(executor)
			require.NoError(t, creationError)

			insideWorkTree, probeError := inspector.IsWorkingTree(context.Background(), testRepositoryPathConstant)
			require.NoError(t, probeError)
			require.Equal(t, testCase.expected, insideWorkTree)
			require.Equal(t, []string{"rev-parse", "--is-inside-work-tree"}, executor.recorded[0].Arguments)
			require.Equal(t, testRepositoryPathConstant, executor.recorded[0].WorkingDirectory)
		})
	}
}

func TestHasCommitsTreatsVerifyFailureAsAbsent(t *testing.T) {
	executor := &stubGitExecutor{responses: []stubGitResponse{{err: failedCommandError(128)}}}
	inspector, creationError := gitrepo.NewShellInspector(executor)
	require.NoError(t, creationError)

	hasCommits, probeError := inspector.HasCommits(context.Background(), testRepositoryPathConstant)
	require.NoError(t, probeError)
	require.False(t, hasCommits)
	require.Equal(t, []string{"rev-parse", "--verify", "--quiet", "HEAD"}, executor.recorded[0].Arguments)
}

func TestHasStashQueriesStashReference(t *testing.T) {
	executor := &stubGitExecutor{}
	inspector, creationError := gitrepo.NewShellInspector(executor)
	require.NoError(t, creationError)

	hasStash, probeError := inspector.HasStash(context.Background(), testRepositoryPathConstant)
	require.NoError(t, probeError)
	require.True(t, hasStash)
	require.Equal(t, []string{"rev-parse", "--verify", "--quiet", "refs/stash"}, executor.recorded[0].Arguments)
}

func TestCurrentBranchTrimsOutput(t *testing.T) {
	executor := &stubGitExecutor{responses: []stubGitResponse{{result: execshell.ExecutionResult{StandardOutput: "feature/login\n"}}}}
	inspector, creationError := gitrepo.NewShellInspector(executor)
	require.NoError(t, creationError)

	branchName, probeError := inspector.CurrentBranch(context.Background(), testRepositoryPathConstant)
	require.NoError(t, probeError)
	require.Equal(t, "feature/login", branchName)
	require.Equal(t, []string{"rev-parse", "--abbrev-ref", "HEAD"}, executor.recorded[0].Arguments)
}

func TestGitDirectoryResolvesRelativePaths(t *testing.T) {
	testCases := []struct {
		name     string
		output   string
		expected string
	}{
		{name: "relative_git_dir", output: ".git\n", expected: "/tmp/repo/.git"},
		{name: "absolute_git_dir", output: "/tmp/worktrees/repo/.git\n", expected: "/tmp/worktrees/repo/.git"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &stubGitExecutor{responses: []stubGitResponse{{result: execshell.ExecutionResult{StandardOutput: testCase.output}}}}
			inspector, creationError := gitrepo.NewShellInspector(executor)
			require.NoError(t, creationError)

			gitDirectory, probeError := inspector.GitDirectory(context.Background(), testRepositoryPathConstant)
			require.NoError(t, probeError)
			require.Equal(t, testCase.expected, gitDirectory)
		})
	}
}

func TestBranchUpstreamsParsesRefPairs(t *testing.T) {
	listingOutput := "main origin/main\nfeature/login \nwip origin/wip\n"
	executor := &stubGitExecutor{responses: []stubGitResponse{{result: execshell.ExecutionResult{StandardOutput: listingOutput}}}}
	inspector, creationError := gitrepo.NewShellInspector(executor)
	require.NoError(t, creationError)

	branchUpstreams, probeError := inspector.BranchUpstreams(context.Background(), testRepositoryPathConstant)
	require.NoError(t, probeError)
	require.Equal(t, []gitrepo.BranchUpstream{
		{Branch: "main", Upstream: "origin/main"},
		{Branch: "feature/login", Upstream: ""},
		{Branch: "wip", Upstream: "origin/wip"},
	}, branchUpstreams)
	require.Equal(t, []string{"for-each-ref", "--format", "%(refname:short) %(upstream:short)", "refs/heads"}, executor.recorded[0].Arguments)
}

func TestDirtyProbesInterpretCommandOutcomes(t *testing.T) {
	testCases := []struct {
		name     string
		probe    func(inspector gitrepo.Inspector) (bool, error)
		response stubGitResponse
		expected bool
	}{
		{
			name:     "any_changes_present",
			probe:    func(inspector gitrepo.Inspector) (bool, error) { return inspector.HasAnyChanges(context.Background(), testRepositoryPathConstant) },
			response: stubGitResponse{result: execshell.ExecutionResult{StandardOutput: " M main.go\n?? notes.txt\n"}},
			expected: true,
		},
		{
			name:     "any_changes_absent",
			probe:    func(inspector gitrepo.Inspector) (bool, error) { return inspector.HasAnyChanges(context.Background(), testRepositoryPathConstant) },
			response: stubGitResponse{result: execshell.ExecutionResult{StandardOutput: "\n"}},
			expected: false,
		},
		{
			name:     "tracked_changes_present",
			probe:    func(inspector gitrepo.Inspector) (bool, error) { return inspector.HasTrackedChanges(context.Background(), testRepositoryPathConstant) },
			response: stubGitResponse{err: failedCommandError(1)},
			expected: true,
		},
		{
			name:     "tracked_changes_absent",
			probe:    func(inspector gitrepo.Inspector) (bool, error) { return inspector.HasTrackedChanges(context.Background(), testRepositoryPathConstant) },
			response: stubGitResponse{},
			expected: false,
		},
		{
			name:     "staged_changes_present",
			probe:    func(inspector gitrepo.Inspector) (bool, error) { return inspector.HasStagedChanges(context.Background(), testRepositoryPathConstant) },
			response: stubGitResponse{err: failedCommandError(1)},
			expected: true,
		},
		{
			name:     "untracked_files_present",
			probe:    func(inspector gitrepo.Inspector) (bool, error) { return inspector.HasUntrackedFiles(context.Background(), testRepositoryPathConstant) },
			response: stubGitResponse{result: execshell.ExecutionResult{StandardOutput: "notes.txt\n"}},
			expected: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &stubGitExecutor{responses: []stubGitResponse{testCase.response}}
			inspector, creationError := gitrepo.NewShellInspector(executor)
			require.NoError(t, creationError)

			probeOutcome, probeError := testCase.probe(inspector)
			require.NoError(t, probeError)
			require.Equal(t, testCase.expected, probeOutcome)
		})
	}
}

func TestDiffProbeSurfacesRealFailures(t *testing.T) {
	executor := &stubGitExecutor{responses: []stubGitResponse{{err: failedCommandError(129)}}}
	inspector, creationError := gitrepo.NewShellInspector(executor)
	require.NoError(t, creationError)

	_, probeError := inspector.HasTrackedChanges(context.Background(), testRepositoryPathConstant)
	require.Error(t, probeError)
}

func TestDivergenceCountsSymmetricDifference(t *testing.T) {
	listingOutput := "<aaa111\n<bbb222\n>ccc333\n>ddd444\n>eee555\n"
	executor := &stubGitExecutor{responses: []stubGitResponse{{result: execshell.ExecutionResult{StandardOutput: listingOutput}}}}
	inspector, creationError := gitrepo.NewShellInspector(executor)
	require.NoError(t, creationError)

	divergence, probeError := inspector.Divergence(context.Background(), testRepositoryPathConstant, "main", "origin/main")
	require.NoError(t, probeError)
	require.Equal(t, gitrepo.Divergence{Ahead: 2, Behind: 3}, divergence)
	require.Equal(t, []string{"rev-list", "--left-right", "main...origin/main"}, executor.recorded[0].Arguments)
}

func TestDivergenceSurfacesListingFailure(t *testing.T) {
	executor := &stubGitExecutor{responses: []stubGitResponse{{err: errors.New("unknown revision")}}}
	inspector, creationError := gitrepo.NewShellInspector(executor)
	require.NoError(t, creationError)

	_, probeError := inspector.Divergence(context.Background(), testRepositoryPathConstant, "main", "origin/main")
	require.Error(t, probeError)
}
