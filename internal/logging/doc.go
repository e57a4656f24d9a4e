// Package logging provides structured logging utilities for gtasks-mcp.
//
// All logging goes through log/slog. The helpers in this package keep
// attribute names consistent across the tool handlers, the workflow engine
// and the remote client, and NewHandler builds the console handler used by
// the CLI.
//
// # Usage Patterns
//
//	logger := logging.WithOperation(slog.Default(), "tasks.reorganize")
//	logger.Warn("skipping task list",
//	    logging.TaskList(listID),
//	    logging.Err(err))
//
// Logs are always written to stderr. When the server runs over stdio,
// stdout carries the protocol stream and must never receive log output.
package logging
