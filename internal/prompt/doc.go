// Package prompt renders a one-line colorized summary of a git working tree
// for interpolation into a shell prompt.
//
// StatusFormatter composes the branch name, dirty-state markers, and
// ahead/behind counts supplied by a gitrepo.Inspector; Theme carries the
// marker characters and ANSI colors; StripEscapeSequences recovers the plain
// text for width computation.
package prompt
