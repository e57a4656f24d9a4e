// Package batch provides argument and output helpers for the batch tools.
//
// This package includes helpers for:
//   - Parsing parameters that accept both single values and arrays
//   - Decoding arrays of objects into typed commands
//   - Rendering a workflow.BatchReport as a summary plus JSON detail
package batch
