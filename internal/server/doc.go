// Package server wires the MCP server to its per-account Tasks clients and
// serves it over HTTP.
//
// ServerContext creates one workflow.Service per account on first use. The
// remote client is wrapped with tasks.Instrumented so every call is traced
// and counted. Credentials come from a ClientFactory, normally
// TokenClientFactory over the stored OAuth tokens.
//
// HTTPServer exposes the streamable HTTP transport at /mcp together with
// /healthz and /readyz. MetricsServer serves Prometheus metrics on its own
// port.
package server
