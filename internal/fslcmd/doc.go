// Package fslcmd turns named, typed parameters into command-line argument
// vectors using per-option printf-style templates.
//
// An OptionSpec maps parameter names to templates. A template with no
// verbs is a boolean flag; a template with N verbs consumes a scalar
// (N==1) or a sequence of exactly N values. Formatting problems are
// collected per parameter and never abort assembly: the offending
// parameter is dropped and the caller decides how to report it. The
// designated raw-passthrough parameter bypasses formatting entirely so
// callers can supply options the schema does not model.
package fslcmd
