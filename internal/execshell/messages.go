package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	defaultWorkingDirectoryLabelConstant    = "current directory"
)

const (
	gitRevParseSubcommandNameConstant   = "rev-parse"
	gitStatusSubcommandNameConstant     = "status"
	gitDiffSubcommandNameConstant       = "diff"
	gitLSFilesSubcommandNameConstant    = "ls-files"
	gitForEachRefSubcommandNameConstant = "for-each-ref"
	gitRevListSubcommandNameConstant    = "rev-list"
	gitWorkTreeFlagConstant             = "--is-inside-work-tree"
	gitAbbrevRefFlagConstant            = "--abbrev-ref"
	gitGitDirFlagConstant               = "--git-dir"
	gitVerifyFlagConstant               = "--verify"
	gitCachedFlagConstant               = "--cached"
	gitHeadReferenceConstant            = "HEAD"
	gitStashReferenceConstant           = "refs/stash"
)

const (
	gitWorkTreeStartTemplateConstant                 = "Analyzing repository at %s"
	gitWorkTreeSuccessTemplateConstant               = "%s is inside a Git working tree"
	gitWorkTreeFailureTemplateConstant               = "Could not confirm %s is inside a Git working tree (exit code %d%s)"
	gitWorkTreeExecutionFailureTemplateConstant      = "Could not analyze %s: %s"
	gitHeadCommitStartTemplateConstant               = "Checking for commits in %s"
	gitHeadCommitSuccessTemplateConstant             = "%s has at least one commit"
	gitHeadCommitFailureTemplateConstant             = "%s has no commits (exit code %d%s)"
	gitHeadCommitExecutionFailureTemplateConstant    = "Unable to check for commits in %s: %s"
	gitStashProbeStartTemplateConstant               = "Checking for stash entries in %s"
	gitStashProbeSuccessTemplateConstant             = "%s has stash entries"
	gitStashProbeFailureTemplateConstant             = "%s has no stash entries (exit code %d%s)"
	gitStashProbeExecutionFailureTemplateConstant    = "Unable to check for stash entries in %s: %s"
	gitCurrentBranchStartTemplateConstant            = "Identifying current branch in %s"
	gitCurrentBranchSuccessTemplateConstant          = "Current branch in %s is %s"
	gitCurrentBranchDetachedTemplateConstant         = "%s is in a detached HEAD state"
	gitCurrentBranchFailureTemplateConstant          = "Failed to identify current branch in %s (exit code %d%s)"
	gitCurrentBranchExecutionFailureTemplateConstant = "Unable to identify current branch in %s: %s"
	gitDirectoryStartTemplateConstant                = "Locating the git directory for %s"
	gitDirectorySuccessTemplateConstant              = "Git directory for %s is %s"
	gitDirectoryFailureTemplateConstant              = "Failed to locate the git directory for %s (exit code %d%s)"
	gitDirectoryExecutionFailureTemplateConstant     = "Unable to locate the git directory for %s: %s"
	gitRevisionStartTemplateConstant                 = "Resolving %s in %s"
	gitRevisionSuccessTemplateConstant               = "Resolved %s in %s"
	gitRevisionFailureTemplateConstant               = "Failed to resolve %s in %s (exit code %d%s)"
	gitRevisionExecutionFailureTemplateConstant      = "Unable to resolve %s in %s: %s"
	gitStatusStartTemplateConstant                   = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant                 = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant                 = "Failed to review working tree status in %s (exit code %d%s)"
	gitStatusExecutionFailureTemplateConstant        = "Unable to review working tree status in %s: %s"
	gitStagedDiffStartTemplateConstant               = "Checking staged changes in %s"
	gitStagedDiffSuccessTemplateConstant             = "No staged changes in %s"
	gitStagedDiffFailureTemplateConstant             = "Staged changes present in %s (exit code %d%s)"
	gitStagedDiffExecutionFailureTemplateConstant    = "Unable to check staged changes in %s: %s"
	gitTrackedDiffStartTemplateConstant              = "Checking tracked file changes in %s"
	gitTrackedDiffSuccessTemplateConstant            = "No tracked file changes in %s"
	gitTrackedDiffFailureTemplateConstant            = "Tracked file changes present in %s (exit code %d%s)"
	gitTrackedDiffExecutionFailureTemplateConstant   = "Unable to check tracked file changes in %s: %s"
	gitUntrackedStartTemplateConstant                = "Listing untracked files in %s"
	gitUntrackedSuccessTemplateConstant              = "Listed untracked files in %s"
	gitUntrackedFailureTemplateConstant              = "Failed to list untracked files in %s (exit code %d%s)"
	gitUntrackedExecutionFailureTemplateConstant     = "Unable to list untracked files in %s: %s"
	gitBranchListStartTemplateConstant               = "Listing local branches and upstreams in %s"
	gitBranchListSuccessTemplateConstant             = "Listed local branches and upstreams in %s"
	gitBranchListFailureTemplateConstant             = "Failed to list local branches in %s (exit code %d%s)"
	gitBranchListExecutionFailureTemplateConstant    = "Unable to list local branches in %s: %s"
	gitDivergenceStartTemplateConstant               = "Comparing local and upstream commits in %s"
	gitDivergenceSuccessTemplateConstant             = "Compared local and upstream commits in %s"
	gitDivergenceFailureTemplateConstant             = "Failed to compare local and upstream commits in %s (exit code %d%s)"
	gitDivergenceExecutionFailureTemplateConstant    = "Unable to compare local and upstream commits in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitRevParseSubcommandNameConstant:
		return formatter.describeGitRevParseMessage(command, result, failure, stage)
	case gitStatusSubcommandNameConstant:
		return formatter.describeByTemplates(command, result, failure, stage, gitStatusStartTemplateConstant, gitStatusSuccessTemplateConstant, gitStatusFailureTemplateConstant, gitStatusExecutionFailureTemplateConstant)
	case gitDiffSubcommandNameConstant:
		if containsArgument(command.Details.Arguments, gitCachedFlagConstant) {
			return formatter.describeByTemplates(command, result, failure, stage, gitStagedDiffStartTemplateConstant, gitStagedDiffSuccessTemplateConstant, gitStagedDiffFailureTemplateConstant, gitStagedDiffExecutionFailureTemplateConstant)
		}
		return formatter.describeByTemplates(command, result, failure, stage, gitTrackedDiffStartTemplateConstant, gitTrackedDiffSuccessTemplateConstant, gitTrackedDiffFailureTemplateConstant, gitTrackedDiffExecutionFailureTemplateConstant)
	case gitLSFilesSubcommandNameConstant:
		return formatter.describeByTemplates(command, result, failure, stage, gitUntrackedStartTemplateConstant, gitUntrackedSuccessTemplateConstant, gitUntrackedFailureTemplateConstant, gitUntrackedExecutionFailureTemplateConstant)
	case gitForEachRefSubcommandNameConstant:
		return formatter.describeByTemplates(command, result, failure, stage, gitBranchListStartTemplateConstant, gitBranchListSuccessTemplateConstant, gitBranchListFailureTemplateConstant, gitBranchListExecutionFailureTemplateConstant)
	case gitRevListSubcommandNameConstant:
		return formatter.describeByTemplates(command, result, failure, stage, gitDivergenceStartTemplateConstant, gitDivergenceSuccessTemplateConstant, gitDivergenceFailureTemplateConstant, gitDivergenceExecutionFailureTemplateConstant)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRevParseMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments

	switch {
	case containsArgument(arguments, gitWorkTreeFlagConstant):
		return formatter.describeByTemplates(command, result, failure, stage, gitWorkTreeStartTemplateConstant, gitWorkTreeSuccessTemplateConstant, gitWorkTreeFailureTemplateConstant, gitWorkTreeExecutionFailureTemplateConstant)
	case containsArgument(arguments, gitGitDirFlagConstant):
		workingDirectory := formatter.describeWorkingDirectory(command)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitDirectoryStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitDirectorySuccessTemplateConstant, workingDirectory, strings.TrimSpace(result.StandardOutput))
		case messageStageFailure:
			return fmt.Sprintf(gitDirectoryFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(gitDirectoryExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	case containsArgument(arguments, gitAbbrevRefFlagConstant):
		workingDirectory := formatter.describeWorkingDirectory(command)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCurrentBranchStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			trimmed := strings.TrimSpace(result.StandardOutput)
			if strings.EqualFold(trimmed, gitHeadReferenceConstant) || len(trimmed) == 0 {
				return fmt.Sprintf(gitCurrentBranchDetachedTemplateConstant, workingDirectory)
			}
			return fmt.Sprintf(gitCurrentBranchSuccessTemplateConstant, workingDirectory, trimmed)
		case messageStageFailure:
			return fmt.Sprintf(gitCurrentBranchFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(gitCurrentBranchExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	case containsArgument(arguments, gitVerifyFlagConstant) && containsArgument(arguments, gitStashReferenceConstant):
		return formatter.describeByTemplates(command, result, failure, stage, gitStashProbeStartTemplateConstant, gitStashProbeSuccessTemplateConstant, gitStashProbeFailureTemplateConstant, gitStashProbeExecutionFailureTemplateConstant)
	case containsArgument(arguments, gitVerifyFlagConstant) && containsArgument(arguments, gitHeadReferenceConstant):
		return formatter.describeByTemplates(command, result, failure, stage, gitHeadCommitStartTemplateConstant, gitHeadCommitSuccessTemplateConstant, gitHeadCommitFailureTemplateConstant, gitHeadCommitExecutionFailureTemplateConstant)
	default:
		reference := formatter.resolveRevisionReference(arguments)
		workingDirectory := formatter.describeWorkingDirectory(command)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitRevisionStartTemplateConstant, reference, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitRevisionSuccessTemplateConstant, reference, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitRevisionFailureTemplateConstant, reference, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(gitRevisionExecutionFailureTemplateConstant, reference, workingDirectory, formatter.describeFailure(failure))
		}
	}
}

func (formatter CommandMessageFormatter) describeByTemplates(command ShellCommand, result ExecutionResult, failure error, stage messageStage, startTemplate string, successTemplate string, failureTemplate string, executionFailureTemplate string) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(executionFailureTemplate, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.describeCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeCommandLabel(command ShellCommand) string {
	argumentsLabel := ""
	if len(command.Details.Arguments) > 0 {
		argumentsLabel = commandArgumentsJoinSeparatorConstant + strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, string(command.Name), argumentsLabel)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedDirectory
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return ""
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) resolveRevisionReference(arguments []string) string {
	for argumentIndex := len(arguments) - 1; argumentIndex > 0; argumentIndex-- {
		candidate := strings.TrimSpace(arguments[argumentIndex])
		if len(candidate) == 0 || strings.HasPrefix(candidate, "-") {
			continue
		}
		return candidate
	}
	return gitHeadReferenceConstant
}

func containsArgument(arguments []string, expected string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == expected {
			return true
		}
	}
	return false
}
