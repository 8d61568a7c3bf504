package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/promptline/promptline/internal/gitrepo"
)

const (
	inspectorMissingMessageConstant = "repository inspector not configured"

	noCommitsPlaceholderConstant      = "(no commits)"
	detachedStateTextConstant         = "(detached)"
	mergingStateTemplateConstant      = "(merging %s%s)"
	mergeTargetSuffixTemplateConstant = " into %s"
	rebasingStateTemplateConstant     = "(rebasing %s onto %s)"

	openParenthesisConstant     = "("
	closeParenthesisConstant    = ")"
	openBracketConstant         = "["
	closeBracketConstant        = "]"
	divergenceSeparatorConstant = "<"
	trailingSpaceConstant       = " "

	detachedHeadNameConstant     = "HEAD"
	mergeHeadFileNameConstant    = "MERGE_HEAD"
	mergeMessageFileNameConstant = "MERGE_MSG"
	rebaseMergeDirectoryConstant = "rebase-merge"
	rebaseApplyDirectoryConstant = "rebase-apply"
	rebaseHeadNameFileConstant   = "head-name"
	rebaseOntoFileConstant       = "onto"

	probeDegradedMessageConstant     = "status probe degraded to empty"
	renderAbortedMessageConstant     = "status render aborted"
	probeLogFieldConstant            = "probe"
	workingDirectoryLogFieldConstant = "working_directory"
)

// ErrInspectorNotConfigured indicates the formatter was constructed without an inspector.
var ErrInspectorNotConfigured = errors.New(inspectorMissingMessageConstant)

// StateFileSystem reads the repository-internal marker files the formatter
// consults directly rather than through the git CLI.
type StateFileSystem interface {
	FileExists(path string) bool
	DirectoryExists(path string) bool
	ReadFile(path string) (string, error)
}

// OSStateFileSystem implements StateFileSystem against the local filesystem.
type OSStateFileSystem struct{}

// FileExists reports whether a regular file exists at the path.
func (OSStateFileSystem) FileExists(path string) bool {
	fileInfo, statError := os.Stat(path)
	return statError == nil && !fileInfo.IsDir()
}

// DirectoryExists reports whether a directory exists at the path.
func (OSStateFileSystem) DirectoryExists(path string) bool {
	fileInfo, statError := os.Stat(path)
	return statError == nil && fileInfo.IsDir()
}

// ReadFile returns the contents of the file at the path.
func (OSStateFileSystem) ReadFile(path string) (string, error) {
	contents, readError := os.ReadFile(path)
	if readError != nil {
		return "", readError
	}
	return string(contents), nil
}

// FormatterDependencies enumerates collaborators required by the formatter.
type FormatterDependencies struct {
	Inspector  gitrepo.Inspector
	FileSystem StateFileSystem
	Logger     *zap.Logger
}

// StatusFormatter renders the prompt segment for a working tree.
type StatusFormatter struct {
	inspector  gitrepo.Inspector
	fileSystem StateFileSystem
	logger     *zap.Logger
	theme      Theme
}

// NewStatusFormatter constructs a StatusFormatter with the provided theme and dependencies.
func NewStatusFormatter(theme Theme, dependencies FormatterDependencies) (*StatusFormatter, error) {
	if dependencies.Inspector == nil {
		return nil, ErrInspectorNotConfigured
	}

	fileSystem := dependencies.FileSystem
	if fileSystem == nil {
		fileSystem = OSStateFileSystem{}
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &StatusFormatter{
		inspector:  dependencies.Inspector,
		fileSystem: fileSystem,
		logger:     logger,
		theme:      theme,
	}, nil
}

// Render produces the prompt segment for the working directory.
//
// Preconditions failing (not a repository, no resolvable branch) yield the
// empty string; individual probe failures degrade to their empty markers.
func (formatter *StatusFormatter) Render(executionContext context.Context, workingDirectory string) string {
	insideWorkTree, workTreeError := formatter.inspector.IsWorkingTree(executionContext, workingDirectory)
	if workTreeError != nil || !insideWorkTree {
		formatter.logAbort(workingDirectory, "working_tree")
		return ""
	}

	hasCommits, commitsError := formatter.inspector.HasCommits(executionContext, workingDirectory)
	if commitsError != nil {
		formatter.logAbort(workingDirectory, "head_commit")
		return ""
	}
	if !hasCommits {
		return formatter.reset() + noCommitsPlaceholderConstant + trailingSpaceConstant
	}

	branchName, branchError := formatter.inspector.CurrentBranch(executionContext, workingDirectory)
	if branchError != nil || len(branchName) == 0 {
		formatter.logAbort(workingDirectory, "current_branch")
		return ""
	}

	if specialRendering, isSpecialMode := formatter.renderSpecialMode(executionContext, workingDirectory, branchName); isSpecialMode {
		return specialRendering
	}

	return formatter.renderBranchStatus(executionContext, workingDirectory, branchName)
}

// renderSpecialMode detects merge, rebase, and detached states in priority order.
func (formatter *StatusFormatter) renderSpecialMode(executionContext context.Context, workingDirectory string, branchName string) (string, bool) {
	gitDirectory, gitDirectoryError := formatter.inspector.GitDirectory(executionContext, workingDirectory)
	if gitDirectoryError == nil {
		if formatter.fileSystem.FileExists(filepath.Join(gitDirectory, mergeHeadFileNameConstant)) {
			messageContents, readError := formatter.fileSystem.ReadFile(filepath.Join(gitDirectory, mergeMessageFileNameConstant))
			if readError == nil {
				if mergeDetails, isMerging := ParseMergeMessage(messageContents); isMerging {
					return formatter.renderMergeState(mergeDetails), true
				}
			}
		}

		for _, rebaseDirectoryName := range []string{rebaseMergeDirectoryConstant, rebaseApplyDirectoryConstant} {
			rebaseDirectory := filepath.Join(gitDirectory, rebaseDirectoryName)
			if formatter.fileSystem.DirectoryExists(rebaseDirectory) {
				return formatter.renderRebaseState(rebaseDirectory), true
			}
		}
	} else {
		formatter.logDegradedProbe(workingDirectory, "git_directory")
	}

	if branchName == detachedHeadNameConstant {
		return formatter.reset() + formatter.colorize(formatter.theme.SpecialStateColor, detachedStateTextConstant) + trailingSpaceConstant, true
	}

	return "", false
}

func (formatter *StatusFormatter) renderMergeState(mergeDetails MergeDetails) string {
	targetSuffix := ""
	if len(mergeDetails.Target) > 0 {
		targetSuffix = fmt.Sprintf(mergeTargetSuffixTemplateConstant, mergeDetails.Target)
	}
	stateText := fmt.Sprintf(mergingStateTemplateConstant, mergeDetails.Reference, targetSuffix)
	return formatter.reset() + formatter.colorize(formatter.theme.SpecialStateColor, stateText) + trailingSpaceConstant
}

func (formatter *StatusFormatter) renderRebaseState(rebaseDirectory string) string {
	rebasedBranch := ""
	if headNameContents, readError := formatter.fileSystem.ReadFile(filepath.Join(rebaseDirectory, rebaseHeadNameFileConstant)); readError == nil {
		rebasedBranch = ParseRebaseHeadName(headNameContents)
	}

	targetCommit := ""
	if ontoContents, readError := formatter.fileSystem.ReadFile(filepath.Join(rebaseDirectory, rebaseOntoFileConstant)); readError == nil {
		targetCommit = AbbreviateObjectIdentifier(ontoContents)
	}

	stateText := fmt.Sprintf(rebasingStateTemplateConstant, rebasedBranch, targetCommit)
	return formatter.reset() + formatter.colorize(formatter.theme.SpecialStateColor, stateText) + trailingSpaceConstant
}

func (formatter *StatusFormatter) renderBranchStatus(executionContext context.Context, workingDirectory string, branchName string) string {
	upstreamName := formatter.resolveUpstream(executionContext, workingDirectory, branchName)

	anyChanges := formatter.probe(executionContext, workingDirectory, "any_changes", formatter.inspector.HasAnyChanges)
	stashed := formatter.probe(executionContext, workingDirectory, "stash", formatter.inspector.HasStash)
	untracked := formatter.probe(executionContext, workingDirectory, "untracked", formatter.inspector.HasUntrackedFiles)
	tracked := formatter.probe(executionContext, workingDirectory, "tracked", formatter.inspector.HasTrackedChanges)
	staged := formatter.probe(executionContext, workingDirectory, "staged", formatter.inspector.HasStagedChanges)

	branchColor := formatter.theme.CleanBranchColor
	if anyChanges {
		branchColor = formatter.theme.DirtyBranchColor
	}

	var rendering strings.Builder
	rendering.WriteString(formatter.reset())
	rendering.WriteString(openParenthesisConstant)
	rendering.WriteString(formatter.colorize(branchColor, branchName))
	rendering.WriteString(formatter.renderMarker(stashed, formatter.theme.Stash))
	rendering.WriteString(formatter.renderMarker(untracked, formatter.theme.Untracked))
	rendering.WriteString(formatter.renderMarker(tracked, formatter.theme.Tracked))
	rendering.WriteString(formatter.renderMarker(staged, formatter.theme.Staged))
	rendering.WriteString(formatter.renderUpstreamSegment(executionContext, workingDirectory, branchName, upstreamName))
	rendering.WriteString(closeParenthesisConstant)
	rendering.WriteString(trailingSpaceConstant)

	return rendering.String()
}

func (formatter *StatusFormatter) resolveUpstream(executionContext context.Context, workingDirectory string, branchName string) string {
	branchUpstreams, listingError := formatter.inspector.BranchUpstreams(executionContext, workingDirectory)
	if listingError != nil {
		formatter.logDegradedProbe(workingDirectory, "branch_upstreams")
		return ""
	}

	for _, branchUpstream := range branchUpstreams {
		if branchUpstream.Branch == branchName {
			return branchUpstream.Upstream
		}
	}
	return ""
}

// renderUpstreamSegment renders "[<behind><<ahead>]"; the segment is omitted
// entirely without an upstream or when the divergence listing fails.
func (formatter *StatusFormatter) renderUpstreamSegment(executionContext context.Context, workingDirectory string, branchName string, upstreamName string) string {
	if len(upstreamName) == 0 {
		return ""
	}

	divergence, divergenceError := formatter.inspector.Divergence(executionContext, workingDirectory, branchName, upstreamName)
	if divergenceError != nil {
		formatter.logDegradedProbe(workingDirectory, "divergence")
		return ""
	}

	behindColor := formatter.theme.EvenColor
	if divergence.Behind > 0 {
		behindColor = formatter.theme.BehindColor
	}
	aheadColor := formatter.theme.EvenColor
	if divergence.Ahead > 0 {
		aheadColor = formatter.theme.AheadColor
	}

	return openBracketConstant +
		formatter.colorize(behindColor, fmt.Sprintf("%d", divergence.Behind)) +
		divergenceSeparatorConstant +
		formatter.colorize(aheadColor, fmt.Sprintf("%d", divergence.Ahead)) +
		closeBracketConstant
}

func (formatter *StatusFormatter) renderMarker(markerActive bool, markerStyle MarkerStyle) string {
	if !markerActive {
		return ""
	}
	return formatter.colorize(markerStyle.Color, markerStyle.Marker)
}

type probeFunction func(executionContext context.Context, repositoryPath string) (bool, error)

func (formatter *StatusFormatter) probe(executionContext context.Context, workingDirectory string, probeName string, probeFunc probeFunction) bool {
	probeOutcome, probeError := probeFunc(executionContext, workingDirectory)
	if probeError != nil {
		formatter.logDegradedProbe(workingDirectory, probeName)
		return false
	}
	return probeOutcome
}

func (formatter *StatusFormatter) colorize(color string, text string) string {
	if formatter.theme.DisableColor || len(color) == 0 {
		return text
	}
	return color + text + ColorReset
}

func (formatter *StatusFormatter) reset() string {
	if formatter.theme.DisableColor {
		return ""
	}
	return ColorReset
}

func (formatter *StatusFormatter) logDegradedProbe(workingDirectory string, probeName string) {
	formatter.logger.Debug(
		probeDegradedMessageConstant,
		zap.String(probeLogFieldConstant, probeName),
		zap.String(workingDirectoryLogFieldConstant, workingDirectory),
	)
}

func (formatter *StatusFormatter) logAbort(workingDirectory string, probeName string) {
	formatter.logger.Debug(
		renderAbortedMessageConstant,
		zap.String(probeLogFieldConstant, probeName),
		zap.String(workingDirectoryLogFieldConstant, workingDirectory),
	)
}
