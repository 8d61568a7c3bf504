package gitrepo

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/promptline/promptline/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant       = "git executor not configured"
	gitRevParseSubcommandConstant           = "rev-parse"
	gitWorkTreeFlagConstant                 = "--is-inside-work-tree"
	gitVerifyFlagConstant                   = "--verify"
	gitQuietFlagConstant                    = "--quiet"
	gitAbbrevRefFlagConstant                = "--abbrev-ref"
	gitGitDirFlagConstant                   = "--git-dir"
	gitHeadReferenceConstant                = "HEAD"
	gitStashReferenceConstant               = "refs/stash"
	gitStatusSubcommandConstant             = "status"
	gitStatusPorcelainFlagConstant          = "--porcelain"
	gitDiffSubcommandConstant               = "diff"
	gitDiffCachedFlagConstant               = "--cached"
	gitLSFilesSubcommandConstant            = "ls-files"
	gitLSFilesOthersFlagConstant            = "--others"
	gitLSFilesExcludeStandardFlagConstant   = "--exclude-standard"
	gitForEachRefSubcommandConstant         = "for-each-ref"
	gitForEachRefFormatFlagConstant         = "--format"
	gitForEachRefFormatValueConstant        = "%(refname:short) %(upstream:short)"
	gitLocalBranchNamespaceConstant         = "refs/heads"
	gitRevListSubcommandConstant            = "rev-list"
	gitRevListLeftRightFlagConstant         = "--left-right"
	gitSymmetricDifferenceSeparatorConstant = "..."
	gitWorkTreeAffirmativeOutputConstant    = "true"
	divergenceLocalMarkerConstant           = "<"
	divergenceUpstreamMarkerConstant        = ">"
	branchUpstreamPairFieldCountConstant    = 2
	outputLineSeparatorConstant             = "\n"
	refPairSeparatorConstant                = " "
)

// ErrGitExecutorNotConfigured indicates the inspector was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// BranchUpstream pairs a local branch name with its configured upstream short name.
// Upstream is empty when the branch has no tracking configuration.
type BranchUpstream struct {
	Branch   string
	Upstream string
}

// Divergence counts the commits reachable from only one side of a local/upstream pair.
type Divergence struct {
	Ahead  int
	Behind int
}

// GitExecutor exposes the subset of shell execution used by the inspector.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Inspector answers the repository state queries the status renderer needs.
type Inspector interface {
	IsWorkingTree(executionContext context.Context, repositoryPath string) (bool, error)
	HasCommits(executionContext context.Context, repositoryPath string) (bool, error)
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	GitDirectory(executionContext context.Context, repositoryPath string) (string, error)
	BranchUpstreams(executionContext context.Context, repositoryPath string) ([]BranchUpstream, error)
	HasAnyChanges(executionContext context.Context, repositoryPath string) (bool, error)
	HasTrackedChanges(executionContext context.Context, repositoryPath string) (bool, error)
	HasUntrackedFiles(executionContext context.Context, repositoryPath string) (bool, error)
	HasStagedChanges(executionContext context.Context, repositoryPath string) (bool, error)
	HasStash(executionContext context.Context, repositoryPath string) (bool, error)
	Divergence(executionContext context.Context, repositoryPath string, localReference string, upstreamReference string) (Divergence, error)
}

// ShellInspector implements Inspector by invoking the git CLI.
type ShellInspector struct {
	executor GitExecutor
}

// NewShellInspector constructs a ShellInspector around the provided executor.
func NewShellInspector(executor GitExecutor) (*ShellInspector, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &ShellInspector{executor: executor}, nil
}

// IsWorkingTree reports whether the path lies inside a git working tree.
func (inspector *ShellInspector) IsWorkingTree(executionContext context.Context, repositoryPath string) (bool, error) {
	result, executionError := inspector.run(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitWorkTreeFlagConstant)
	if executionError != nil {
		return false, executionError
	}
	return strings.TrimSpace(result.StandardOutput) == gitWorkTreeAffirmativeOutputConstant, nil
}

// HasCommits reports whether HEAD resolves to a commit.
func (inspector *ShellInspector) HasCommits(executionContext context.Context, repositoryPath string) (bool, error) {
	return inspector.referenceExists(executionContext, repositoryPath, gitHeadReferenceConstant)
}

// HasStash reports whether the stash reference exists.
func (inspector *ShellInspector) HasStash(executionContext context.Context, repositoryPath string) (bool, error) {
	return inspector.referenceExists(executionContext, repositoryPath, gitStashReferenceConstant)
}

// CurrentBranch resolves the abbreviated symbolic name of HEAD.
// Detached checkouts yield the literal "HEAD".
func (inspector *ShellInspector) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	result, executionError := inspector.run(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(result.StandardOutput), nil
}

// GitDirectory resolves the repository metadata directory, absolute against the repository path.
func (inspector *ShellInspector) GitDirectory(executionContext context.Context, repositoryPath string) (string, error) {
	result, executionError := inspector.run(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitGitDirFlagConstant)
	if executionError != nil {
		return "", executionError
	}

	gitDirectory := strings.TrimSpace(result.StandardOutput)
	if !filepath.IsAbs(gitDirectory) {
		gitDirectory = filepath.Join(repositoryPath, gitDirectory)
	}
	return gitDirectory, nil
}

// BranchUpstreams lists every local branch together with its configured upstream short name.
func (inspector *ShellInspector) BranchUpstreams(executionContext context.Context, repositoryPath string) ([]BranchUpstream, error) {
	result, executionError := inspector.run(
		executionContext,
		repositoryPath,
		gitForEachRefSubcommandConstant,
		gitForEachRefFormatFlagConstant,
		gitForEachRefFormatValueConstant,
		gitLocalBranchNamespaceConstant,
	)
	if executionError != nil {
		return nil, executionError
	}

	branchUpstreams := []BranchUpstream{}
	for _, outputLine := range strings.Split(result.StandardOutput, outputLineSeparatorConstant) {
		trimmedLine := strings.TrimRight(outputLine, refPairSeparatorConstant)
		if len(strings.TrimSpace(trimmedLine)) == 0 {
			continue
		}

		pairFields := strings.SplitN(trimmedLine, refPairSeparatorConstant, branchUpstreamPairFieldCountConstant)
		branchUpstream := BranchUpstream{Branch: strings.TrimSpace(pairFields[0])}
		if len(pairFields) == branchUpstreamPairFieldCountConstant {
			branchUpstream.Upstream = strings.TrimSpace(pairFields[1])
		}
		branchUpstreams = append(branchUpstreams, branchUpstream)
	}

	return branchUpstreams, nil
}

// HasAnyChanges reports whether the working tree differs from HEAD in any way,
// including untracked files.
func (inspector *ShellInspector) HasAnyChanges(executionContext context.Context, repositoryPath string) (bool, error) {
	result, executionError := inspector.run(executionContext, repositoryPath, gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant)
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(result.StandardOutput)) > 0, nil
}

// HasTrackedChanges reports whether tracked files carry unstaged modifications.
func (inspector *ShellInspector) HasTrackedChanges(executionContext context.Context, repositoryPath string) (bool, error) {
	return inspector.exitCodeSignalsChanges(inspector.run(executionContext, repositoryPath, gitDiffSubcommandConstant, gitQuietFlagConstant))
}

// HasStagedChanges reports whether the index differs from HEAD.
func (inspector *ShellInspector) HasStagedChanges(executionContext context.Context, repositoryPath string) (bool, error) {
	return inspector.exitCodeSignalsChanges(inspector.run(executionContext, repositoryPath, gitDiffSubcommandConstant, gitDiffCachedFlagConstant, gitQuietFlagConstant))
}

// HasUntrackedFiles reports whether unignored untracked files exist.
func (inspector *ShellInspector) HasUntrackedFiles(executionContext context.Context, repositoryPath string) (bool, error) {
	result, executionError := inspector.run(executionContext, repositoryPath, gitLSFilesSubcommandConstant, gitLSFilesOthersFlagConstant, gitLSFilesExcludeStandardFlagConstant)
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(result.StandardOutput)) > 0, nil
}

// Divergence lists the symmetric commit difference between the local and upstream
// references and counts the entries unique to each side.
func (inspector *ShellInspector) Divergence(executionContext context.Context, repositoryPath string, localReference string, upstreamReference string) (Divergence, error) {
	symmetricRange := localReference + gitSymmetricDifferenceSeparatorConstant + upstreamReference
	result, executionError := inspector.run(executionContext, repositoryPath, gitRevListSubcommandConstant, gitRevListLeftRightFlagConstant, symmetricRange)
	if executionError != nil {
		return Divergence{}, executionError
	}

	divergence := Divergence{}
	for _, outputLine := range strings.Split(result.StandardOutput, outputLineSeparatorConstant) {
		trimmedLine := strings.TrimSpace(outputLine)
		switch {
		case strings.HasPrefix(trimmedLine, divergenceLocalMarkerConstant):
			divergence.Ahead++
		case strings.HasPrefix(trimmedLine, divergenceUpstreamMarkerConstant):
			divergence.Behind++
		}
	}

	return divergence, nil
}

func (inspector *ShellInspector) referenceExists(executionContext context.Context, repositoryPath string, reference string) (bool, error) {
	_, executionError := inspector.run(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitVerifyFlagConstant, gitQuietFlagConstant, reference)
	if executionError != nil {
		failedCommand := execshell.CommandFailedError{}
		if errors.As(executionError, &failedCommand) {
			return false, nil
		}
		return false, executionError
	}
	return true, nil
}

// exitCodeSignalsChanges interprets the --quiet diff convention: exit zero means
// clean, exit one means differences, anything else is a real failure.
func (inspector *ShellInspector) exitCodeSignalsChanges(_ execshell.ExecutionResult, executionError error) (bool, error) {
	if executionError == nil {
		return false, nil
	}

	failedCommand := execshell.CommandFailedError{}
	if errors.As(executionError, &failedCommand) && failedCommand.Result.ExitCode == 1 {
		return true, nil
	}
	return false, executionError
}

func (inspector *ShellInspector) run(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	return inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	})
}
