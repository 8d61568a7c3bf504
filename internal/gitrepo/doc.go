// Package gitrepo inspects the state of a local git working tree.
//
// It defines the narrow Inspector capability set promptline renders from and
// a ShellInspector implementation that answers each capability with a single
// git invocation through execshell.
package gitrepo
