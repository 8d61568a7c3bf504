// Package execshell provides structured helpers for invoking the git CLI.
//
// It wraps os/exec with lifecycle logging via ShellExecutor, exposes
// OSCommandRunner for default process execution, and defines the abstractions
// promptline uses to run its read-only status probes in a testable manner.
package execshell
