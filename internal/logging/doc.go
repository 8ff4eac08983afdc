// Package logging assembles the structured slog loggers used across
// fslkit commands.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and provides a no-op logger for tests and wiring code that
// cannot fail. Console output tags lines with the tool attribute so runs
// of different FSL programs are easy to tell apart in a shared log.
//
// Prefer these constructors over hand-rolled slog setup so every command
// emits data with the same shape.
package logging
