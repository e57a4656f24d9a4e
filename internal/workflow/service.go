package workflow

import (
	"context"
	"log/slog"

	"github.com/teemow/gtasks-mcp/internal/tasks"
)

// Transfer outcomes reported to a TransferRecorder.
const (
	TransferSuccess = "success"
	TransferPartial = "partial"
	TransferFailed  = "failed"
)

// TransferRecorder receives one outcome per attempted cross-list transfer.
type TransferRecorder interface {
	RecordTransfer(ctx context.Context, result string)
}

// Service runs task operations against a remote tasks.API. It holds no
// state between calls and is safe for concurrent use when the API is.
type Service struct {
	api      tasks.API
	logger   *slog.Logger
	recorder TransferRecorder
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTransferRecorder reports transfer outcomes, typically to metrics.
func WithTransferRecorder(r TransferRecorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// New creates a Service.
func New(api tasks.API, opts ...Option) *Service {
	s := &Service{api: api, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) recordTransfer(ctx context.Context, result string) {
	if s.recorder != nil {
		s.recorder.RecordTransfer(ctx, result)
	}
}
