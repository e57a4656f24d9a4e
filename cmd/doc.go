// Package cmd implements the command-line interface for gtasks-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server (stdio or streamable-http)
//   - reorganize: Move "[PREFIX] ..." tasks to their mapped task lists
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
