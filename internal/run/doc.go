// Package run executes external FSL binaries and captures their output.
//
// The Executor interface is the seam every adapter depends on: it takes a
// binary and an argument vector and returns captured stdout, stderr, and
// the exit code. Tests substitute stub executors; production code uses
// CommandExecutor. The package also owns the file lock that guards the
// output-format registry against concurrent mutation.
package run
