package prompt

import (
	"regexp"
	"strings"
)

const (
	mergeMessagePrefixConstant      = "Merge"
	localBranchRefPrefixConstant    = "refs/heads/"
	abbreviatedObjectLengthConstant = 7
	lineSeparatorConstant           = "\n"
)

// mergeMessagePattern captures the merged reference and the optional target
// branch from the first line of a merge message, e.g.
// "Merge branch 'feature/login' into develop".
var mergeMessagePattern = regexp.MustCompile(`^Merge (?:remote-tracking branch|branch|commit|tag) '([^']*)'(?: into (.+))?`)

// MergeDetails holds the captures extracted from a merge message.
type MergeDetails struct {
	Reference string
	Target    string
}

// ParseMergeMessage inspects the first line of a merge message file.
//
// The second return value reports whether the contents describe a merge at
// all; captures are best effort and may be empty on malformed messages.
func ParseMergeMessage(messageContents string) (MergeDetails, bool) {
	firstLine, _, _ := strings.Cut(messageContents, lineSeparatorConstant)
	if !strings.HasPrefix(firstLine, mergeMessagePrefixConstant) {
		return MergeDetails{}, false
	}

	mergeDetails := MergeDetails{}
	captures := mergeMessagePattern.FindStringSubmatch(firstLine)
	if captures != nil {
		mergeDetails.Reference = captures[1]
		mergeDetails.Target = captures[2]
	}

	return mergeDetails, true
}

// ParseRebaseHeadName extracts the short branch name from a rebase head-name file.
func ParseRebaseHeadName(headNameContents string) string {
	trimmedHeadName := strings.TrimSpace(headNameContents)
	return strings.TrimPrefix(trimmedHeadName, localBranchRefPrefixConstant)
}

// AbbreviateObjectIdentifier shortens a full object identifier to git's default display length.
func AbbreviateObjectIdentifier(objectIdentifierContents string) string {
	trimmedIdentifier := strings.TrimSpace(objectIdentifierContents)
	if len(trimmedIdentifier) <= abbreviatedObjectLengthConstant {
		return trimmedIdentifier
	}
	return trimmedIdentifier[:abbreviatedObjectLengthConstant]
}
