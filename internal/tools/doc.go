// Package tools holds the contract shared by the per-binary FSL adapters.
//
// It centralizes the error taxonomy (missing mandatory input, external
// tool failure, missing expected output) and the helpers for reporting
// dropped options and classifying process results. Each adapter lives in
// its own subpackage and follows the same lifecycle: validate mandatory
// parameters, assemble the argument vector, execute, predict the expected
// output files, then verify them on disk.
package tools
