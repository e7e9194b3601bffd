// AngelaMos | 2026
// handler.go

package admin

import (
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/quillworks/platform-api/internal/core"
)

// HandlerConfig wires the stats sources as functions so the handler
// stays decoupled from the pool types behind them.
type HandlerConfig struct {
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
}

// Handler exposes operational introspection for on-call use. It sits
// behind the authenticator; the numbers it reports are pool and runtime
// counters, never tenant data.
type Handler struct {
	config    HandlerConfig
	startTime time.Time
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		config:    cfg,
		startTime: time.Now(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/stats", h.Stats)
	})
}

type statsResponse struct {
	Uptime   string        `json:"uptime"`
	Database databaseStats `json:"database"`
	Redis    redisStats    `json:"redis"`
	Runtime  runtimeStats  `json:"runtime"`
}

type databaseStats struct {
	OpenConnections int           `json:"open_connections"`
	InUse           int           `json:"in_use"`
	Idle            int           `json:"idle"`
	WaitCount       int64         `json:"wait_count"`
	WaitDuration    time.Duration `json:"wait_duration_ns"`
}

type redisStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

type runtimeStats struct {
	Goroutines  int    `json:"goroutines"`
	HeapAllocMB uint64 `json:"heap_alloc_mb"`
	NumGC       uint32 `json:"num_gc"`
	GoVersion   string `json:"go_version"`
	NumCPU      int    `json:"num_cpu"`
	GOMAXPROCS  int    `json:"gomaxprocs"`
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	response := statsResponse{
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
		Runtime: runtimeStats{
			Goroutines:  runtime.NumGoroutine(),
			HeapAllocMB: mem.HeapAlloc / 1024 / 1024,
			NumGC:       mem.NumGC,
			GoVersion:   runtime.Version(),
			NumCPU:      runtime.NumCPU(),
			GOMAXPROCS:  runtime.GOMAXPROCS(0),
		},
	}

	if h.config.DBStats != nil {
		s := h.config.DBStats()
		response.Database = databaseStats{
			OpenConnections: s.OpenConnections,
			InUse:           s.InUse,
			Idle:            s.Idle,
			WaitCount:       s.WaitCount,
			WaitDuration:    s.WaitDuration,
		}
	}

	if h.config.RedisStats != nil {
		s := h.config.RedisStats()
		response.Redis = redisStats{
			Hits:       s.Hits,
			Misses:     s.Misses,
			Timeouts:   s.Timeouts,
			TotalConns: s.TotalConns,
			IdleConns:  s.IdleConns,
		}
	}

	core.OK(w, response)
}
