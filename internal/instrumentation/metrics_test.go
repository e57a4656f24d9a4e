package instrumentation

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T, detailed bool) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"), detailed)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	return m, reader
}

// counterPoints returns the data points of the named int64 counter.
func counterPoints(t *testing.T, reader *sdkmetric.ManualReader, name string) []metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s is %T, want Sum[int64]", name, m.Data)
			}
			return sum.DataPoints
		}
	}
	return nil
}

func valueWhere(points []metricdata.DataPoint[int64], key, want string) int64 {
	for _, dp := range points {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == want {
			return dp.Value
		}
	}
	return 0
}

func TestMetrics_RecordTransfer(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordTransfer(ctx, "success")
	m.RecordTransfer(ctx, "success")
	m.RecordTransfer(ctx, "partial")

	points := counterPoints(t, reader, "workflow_transfers_total")
	if got := valueWhere(points, "result", "success"); got != 2 {
		t.Errorf("success transfers = %d, want 2", got)
	}
	if got := valueWhere(points, "result", "partial"); got != 1 {
		t.Errorf("partial transfers = %d, want 1", got)
	}
}

func TestMetrics_RecordGoogleAPIOperation(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordGoogleAPIOperation(ctx, ServiceTasks, OperationList, StatusSuccess, 200*time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceTasks, OperationMove, StatusError, 50*time.Millisecond)

	points := counterPoints(t, reader, "google_api_operations_total")
	if got := valueWhere(points, "operation", OperationList); got != 1 {
		t.Errorf("list operations = %d, want 1", got)
	}
	if got := valueWhere(points, "status", StatusError); got != 1 {
		t.Errorf("error operations = %d, want 1", got)
	}
}

func TestMetrics_RecordToolInvocation_AccountLabel(t *testing.T) {
	tests := []struct {
		name        string
		detailed    bool
		wantAccount bool
	}{
		{name: "low cardinality", detailed: false, wantAccount: false},
		{name: "detailed labels", detailed: true, wantAccount: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, reader := newTestMetrics(t, tt.detailed)
			m.RecordToolInvocation(context.Background(), "tasks_reorganize", StatusSuccess, "work", time.Second)

			points := counterPoints(t, reader, "mcp_tool_invocations_total")
			if len(points) != 1 {
				t.Fatalf("got %d points, want 1", len(points))
			}
			_, has := points[0].Attributes.Value(attribute.Key("account"))
			if has != tt.wantAccount {
				t.Errorf("account label present = %v, want %v", has, tt.wantAccount)
			}
		})
	}
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	m, reader := newTestMetrics(t, false)

	m.RecordHTTPRequest(context.Background(), "POST", "/mcp", 200, 10*time.Millisecond)

	points := counterPoints(t, reader, "http_requests_total")
	if got := valueWhere(points, "status", "200"); got != 1 {
		t.Errorf("200 requests = %d, want 1", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	m.RecordHTTPRequest(ctx, "GET", "/healthz", 200, time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceTasks, OperationGet, StatusSuccess, time.Millisecond)
	m.RecordToolInvocation(ctx, "tasks_list", StatusSuccess, "", time.Millisecond)
	m.RecordTransfer(ctx, "failed")
}
