// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for the gtasks-mcp server.
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Google API Metrics:
//   - google_api_operations_total: Counter of remote Tasks API calls by operation and status
//   - google_api_operation_duration_seconds: Histogram of remote call durations
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of tool execution durations
//
// Workflow Metrics:
//   - workflow_transfers_total: Counter of cross-list transfers by result (success, partial, failed)
//
// # Tracing
//
// Spans are created for every tool invocation (tool.<name>) and every
// remote call (google.tasks.<operation>), so a reorganize run shows up as
// one tool span with its fetch, insert and delete calls underneath.
//
// # Configuration
//
// DefaultConfig reads the environment:
//
//	INSTRUMENTATION_ENABLED       true|false (default true)
//	METRICS_EXPORTER              prometheus|otlp|stdout (default prometheus)
//	TRACING_EXPORTER              otlp|stdout|none (default none)
//	OTEL_EXPORTER_OTLP_ENDPOINT   host:port of the OTLP collector
//	OTEL_EXPORTER_OTLP_INSECURE   disable TLS for OTLP (development only)
//	OTEL_TRACES_SAMPLER_ARG       sampling ratio, 0.0 to 1.0 (default 0.1)
//	METRICS_DETAILED_LABELS       add the account label to tool metrics
//	AUDIT_LOGGING_ENABLED         true|false (default true)
package instrumentation
