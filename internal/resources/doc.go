// Package resources exposes tasks as read-only MCP resources: a paged
// listing across all task lists and a per-task template addressed as
// gtasks:///{taskId}.
package resources
