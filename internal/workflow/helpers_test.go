package workflow

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/teemow/gtasks-mcp/internal/tasks/taskstest"
)

type transferCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *transferCounter) RecordTransfer(_ context.Context, result string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[result]++
}

func newTestService(f *taskstest.Fake, opts ...Option) *Service {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return New(f, opts...)
}

func strPtr(s string) *string {
	return &s
}
