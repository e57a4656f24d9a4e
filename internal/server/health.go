package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusNoToken      = "no token for default account"
)

// HealthChecker serves /healthz and /readyz for the streamable HTTP transport.
// The server is ready until SetReady(false) or until the ServerContext shuts
// down. A missing default-account token is reported but does not fail
// readiness, since tool calls may name another account.
type HealthChecker struct {
	ready   atomic.Bool
	sc      *ServerContext
	started time.Time
}

// HealthResponse is the body of both endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime,omitempty"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewHealthChecker returns a checker that starts out ready. sc may be nil.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{sc: sc, started: time.Now()}
	h.ready.Store(true)
	return h
}

// SetReady flips readiness, e.g. while draining on shutdown.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports the readiness flag.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// LivenessHandler answers 200 while the process runs.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, HealthResponse{
			Status: healthStatusOK,
			Uptime: time.Since(h.started).Truncate(time.Second).String(),
		})
	})
}

// ReadinessHandler answers 503 once the server is draining or shut down.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks := map[string]string{
			"ready":    healthStatusOK,
			"shutdown": healthStatusOK,
			"token":    healthStatusOK,
		}
		code := http.StatusOK

		if !h.ready.Load() {
			checks["ready"] = healthStatusNotReady
			code = http.StatusServiceUnavailable
		}
		if h.sc != nil && h.sc.IsShutdown() {
			checks["shutdown"] = healthStatusShuttingDown
			code = http.StatusServiceUnavailable
		}
		if h.sc != nil && !h.sc.HasToken(DefaultAccount) {
			checks["token"] = healthStatusNoToken
		}

		status := healthStatusOK
		if code != http.StatusOK {
			status = healthStatusNotReady
		}
		writeHealth(w, code, HealthResponse{Status: status, Checks: checks})
	})
}

// RegisterHealthEndpoints mounts /healthz and /readyz on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
}

func writeHealth(w http.ResponseWriter, code int, body HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
