package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/teemow/gtasks-mcp/internal/instrumentation"
	"github.com/teemow/gtasks-mcp/internal/server"
	"github.com/teemow/gtasks-mcp/internal/tasks/taskstest"
)

func newServerContext(t *testing.T, opts ...server.Option) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.StaticClientFactory(taskstest.New()), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestInstrumentedToolHandler_NoInstrumentation(t *testing.T) {
	sc := newServerContext(t)

	called := false
	wrapped := InstrumentedToolHandler("test_tool", sc, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("success"), nil
	})

	result, err := wrapped(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.True(t, called)
	assert.False(t, result.IsError)
}

func TestInstrumentedToolHandler_PassesErrorThrough(t *testing.T) {
	sc := newServerContext(t)
	expectedErr := errors.New("test error")

	wrapped := InstrumentedToolHandler("test_tool", sc, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, expectedErr
	})

	_, err := wrapped(context.Background(), callRequest(nil))
	assert.Same(t, expectedErr, err)
}

func TestInstrumentedToolHandler_RecordsMetricsAndAudit(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := instrumentation.NewMetrics(mp.Meter("test"), true)
	require.NoError(t, err)

	var logs bytes.Buffer
	audit := instrumentation.NewAuditLogger(slog.New(slog.NewTextHandler(&logs, nil)),
		instrumentation.AuditLoggingConfig{Enabled: true})

	sc := newServerContext(t, server.WithMetrics(metrics), server.WithAuditLogger(audit))

	wrapped := InstrumentedToolHandler("tasks_delete_task", sc, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("Task ID is required"), nil
	})

	result, err := wrapped(context.Background(), callRequest(map[string]interface{}{"account": "work"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "mcp_tool_invocations_total" {
				continue
			}
			sum := m.Data.(metricdata.Sum[int64])
			require.Len(t, sum.DataPoints, 1)
			status, _ := sum.DataPoints[0].Attributes.Value("status")
			account, _ := sum.DataPoints[0].Attributes.Value("account")
			assert.Equal(t, instrumentation.StatusError, status.AsString())
			assert.Equal(t, "work", account.AsString())
			found = true
		}
	}
	assert.True(t, found, "mcp_tool_invocations_total not recorded")

	assert.Contains(t, logs.String(), "msg=tool_failed")
	assert.Contains(t, logs.String(), `error="Task ID is required"`)
}

func TestInstrumentedToolHandler_StartsToolSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	sc := newServerContext(t)
	var traceID string
	wrapped := InstrumentedToolHandler("tasks_search", sc, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		traceID = instrumentation.GetTraceID(ctx)
		return mcp.NewToolResultText("ok"), nil
	})

	_, err := wrapped(context.Background(), callRequest(nil))
	require.NoError(t, err)

	assert.NotEmpty(t, traceID, "handler should run inside the tool span")
	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "tool.tasks_search", ended[0].Name())
}

func TestDecodeArgs(t *testing.T) {
	var cmd struct {
		TaskListID string  `json:"taskListId"`
		Title      *string `json:"title"`
		Notes      *string `json:"notes"`
	}
	err := DecodeArgs(callRequest(map[string]interface{}{"taskListId": "inbox", "notes": ""}), &cmd)
	require.NoError(t, err)
	assert.Equal(t, "inbox", cmd.TaskListID)
	assert.Nil(t, cmd.Title)
	require.NotNil(t, cmd.Notes)
	assert.Equal(t, "", *cmd.Notes)

	err = DecodeArgs(callRequest(map[string]interface{}{"taskListId": 5}), &cmd)
	require.Error(t, err)
}

func TestJSONResult(t *testing.T) {
	result := JSONResult("Task created:", map[string]string{"id": "t1"})
	require.Len(t, result.Content, 1)
	text := result.Content[0].(mcp.TextContent).Text
	assert.Equal(t, "Task created:\n{\n  \"id\": \"t1\"\n}", text)
}
