// Package history persists a record of every tool invocation to a local
// SQLite database.
//
// Each run stores the tool name, the exact command line, exit code,
// outcome, and timestamps, so past invocations can be audited or replayed
// by hand. Writes retry briefly on SQLITE_BUSY so concurrent fslkit
// processes sharing one database do not fail spuriously.
package history
