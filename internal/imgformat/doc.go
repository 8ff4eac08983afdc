// Package imgformat models the process-wide FSL output format registry.
//
// FSL tools decide which image container to write from the FSLOUTPUTTYPE
// environment entry. This package exposes the fixed format-to-extension
// table, accessors for reading and mutating the environment, and Resolve,
// which turns the setting into a plain extension value that output
// predictors carry for the duration of one run.
package imgformat
