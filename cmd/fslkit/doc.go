// Package main hosts the fslkit CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into typed
// parameter sets for the wrapped FSL tools, runs them, verifies their
// predicted outputs, and records each run in the history database. It
// centralizes configuration resolution and structured logging setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags
// here.
package main
