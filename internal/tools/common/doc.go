// Package common provides shared helpers for MCP tool handlers: account
// resolution, argument decoding, JSON results and instrumentation.
package common
