// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quillworks/platform-api/internal/config"
)

const probeTimeout = 5 * time.Second

// Checker is anything the readiness probe can ping. The database pool
// and the redis client both satisfy it.
type Checker interface {
	Ping(ctx context.Context) error
}

type probe struct {
	name   string
	target Checker
}

// Handler serves the liveness and readiness probes. Readiness pings the
// two stores every token-issuing request depends on: postgres (users,
// workspaces, artifacts) and redis (revocation list, rate limiter).
type Handler struct {
	app      config.AppConfig
	probes   []probe
	started  time.Time
	ready    atomic.Bool
	shutdown atomic.Bool
}

func NewHandler(app config.AppConfig, db, redis Checker) *Handler {
	h := &Handler{
		app: app,
		probes: []probe{
			{name: "postgres", target: db},
			{name: "redis", target: redis},
		},
		started: time.Now(),
	}
	h.ready.Store(true)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, h.status("shutting_down"))
		return
	}

	h.writeStatus(w, http.StatusOK, h.status("ok"))
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, ReadinessResponse{
			StatusResponse: h.status("shutting_down"),
		})
		return
	}

	if !h.ready.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, ReadinessResponse{
			StatusResponse: h.status("not_ready"),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	checks := h.runProbes(ctx)

	status := "ok"
	statusCode := http.StatusOK
	for _, check := range checks {
		if !check.Healthy {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
			break
		}
	}

	h.writeStatus(w, statusCode, ReadinessResponse{
		StatusResponse: h.status(status),
		Checks:         checks,
	})
}

func (h *Handler) runProbes(ctx context.Context) []ProbeResult {
	var wg sync.WaitGroup
	results := make([]ProbeResult, len(h.probes))

	for i, p := range h.probes {
		wg.Add(1)
		go func(i int, p probe) {
			defer wg.Done()
			results[i] = runProbe(ctx, p)
		}(i, p)
	}

	wg.Wait()
	return results
}

func runProbe(ctx context.Context, p probe) ProbeResult {
	result := ProbeResult{
		Name:    p.name,
		Healthy: true,
	}

	if p.target == nil {
		result.Healthy = false
		result.Message = "not configured"
		return result
	}

	start := time.Now()
	if err := p.target.Ping(ctx); err != nil {
		result.Healthy = false
		result.Message = "ping failed"
	}
	result.Latency = time.Since(start).String()

	return result
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// SetShutdown flips both probes to 503 so the load balancer drains the
// instance before the listener closes.
func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

func (h *Handler) status(status string) StatusResponse {
	return StatusResponse{
		Status:      status,
		Service:     h.app.Name,
		Version:     h.app.Version,
		Environment: h.app.Environment,
		Uptime:      time.Since(h.started).Round(time.Second).String(),
	}
}

func (h *Handler) writeStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response
	_ = json.NewEncoder(w).Encode(data)
}

type StatusResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Uptime      string `json:"uptime"`
}

type ReadinessResponse struct {
	StatusResponse
	Checks []ProbeResult `json:"checks,omitempty"`
}

type ProbeResult struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
