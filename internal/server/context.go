package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/oauth2"

	"github.com/teemow/gtasks-mcp/internal/google"
	"github.com/teemow/gtasks-mcp/internal/instrumentation"
	"github.com/teemow/gtasks-mcp/internal/logging"
	"github.com/teemow/gtasks-mcp/internal/tasks"
	"github.com/teemow/gtasks-mcp/internal/workflow"
)

// DefaultAccount is used when a tool call names no account.
const DefaultAccount = "default"

// ClientFactory builds the remote Tasks API for one account.
type ClientFactory func(ctx context.Context, account string) (tasks.API, error)

// TokenClientFactory returns a ClientFactory that authenticates with the
// account's stored OAuth token.
func TokenClientFactory(tp google.TokenProvider, config *oauth2.Config) ClientFactory {
	return func(ctx context.Context, account string) (tasks.API, error) {
		httpClient, err := google.HTTPClientForAccount(ctx, tp, config, account)
		if err != nil {
			return nil, err
		}
		return tasks.NewClient(ctx, httpClient, account)
	}
}

// StaticClientFactory serves the same API for every account.
func StaticClientFactory(api tasks.API) ClientFactory {
	return func(context.Context, string) (tasks.API, error) {
		return api, nil
	}
}

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx           context.Context
	cancel        context.CancelFunc
	newClient     ClientFactory
	tokenProvider google.TokenProvider
	services      map[string]*workflow.Service // Maps account name to its workflow service
	metrics       *instrumentation.Metrics
	auditLogger   *instrumentation.AuditLogger
	logger        *slog.Logger
	mu            sync.RWMutex
	shutdown      bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithMetrics records tool, remote call and transfer metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(sc *ServerContext) {
		sc.metrics = m
	}
}

// WithAuditLogger logs one record per tool invocation.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(sc *ServerContext) {
		sc.auditLogger = al
	}
}

// WithLogger sets the base logger handed to every workflow service.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) {
		sc.logger = logger
	}
}

// WithTokenProvider lets readiness checks and error messages consult the
// stored tokens.
func WithTokenProvider(tp google.TokenProvider) Option {
	return func(sc *ServerContext) {
		sc.tokenProvider = tp
	}
}

// NewServerContext creates a new server context. Clients are created lazily
// on the first tool call for each account.
func NewServerContext(ctx context.Context, newClient ClientFactory, opts ...Option) (*ServerContext, error) {
	if newClient == nil {
		return nil, errors.New("client factory is required")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	sc := &ServerContext{
		ctx:       shutdownCtx,
		cancel:    cancel,
		newClient: newClient,
		services:  make(map[string]*workflow.Service),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Metrics returns the metrics recorder, which may be nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// AuditLogger returns the audit logger, which may be nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.auditLogger
}

// Logger returns the base logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// HasToken reports whether credentials are stored for account. Without a
// token provider every account is assumed to be usable.
func (sc *ServerContext) HasToken(account string) bool {
	if sc.tokenProvider == nil {
		return true
	}
	return sc.tokenProvider.HasTokenForAccount(account)
}

// WorkflowForAccount returns the workflow service for account, creating and
// caching it on first use.
func (sc *ServerContext) WorkflowForAccount(account string) (*workflow.Service, error) {
	if account == "" {
		account = DefaultAccount
	}

	sc.mu.RLock()
	svc, ok := sc.services[account]
	shutdown := sc.shutdown
	sc.mu.RUnlock()
	if ok {
		return svc, nil
	}
	if shutdown {
		return nil, errors.New("server is shutting down")
	}

	api, err := sc.newClient(sc.ctx, account)
	if err != nil {
		if errors.Is(err, google.ErrNoToken) {
			return nil, fmt.Errorf("%w. Authorize the account and store its token as <token-dir>/%s.json", err, account)
		}
		return nil, fmt.Errorf("failed to create Tasks client for account %s: %w", account, err)
	}

	svc = workflow.New(tasks.NewInstrumented(api, sc.metrics),
		workflow.WithLogger(logging.WithAccount(sc.logger, account)),
		workflow.WithTransferRecorder(sc.metrics),
	)

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if existing, ok := sc.services[account]; ok {
		return existing, nil
	}
	sc.services[account] = svc
	return svc, nil
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.services = make(map[string]*workflow.Service)
	sc.cancel()
	return nil
}
