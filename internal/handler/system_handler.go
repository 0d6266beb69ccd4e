package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/siriuscareer/career-admin/internal/response"
)

const readyTimeout = 2 * time.Second

// Check probes a single dependency. A nil error means healthy.
type Check func(ctx context.Context) error

// SystemHandler serves service identity, liveness and readiness.
type SystemHandler struct {
	name      string
	version   string
	checks    map[string]Check
	startTime time.Time
	log       zerolog.Logger
}

func NewSystemHandler(name, version string, checks map[string]Check, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		checks:    checks,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type runtimeStats struct {
	Uptime     string `json:"uptime"`
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	NumGC      uint32 `json:"num_gc"`
	GoVersion  string `json:"go_version"`
}

// Root handles GET /.
func (h *SystemHandler) Root(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"name": h.name, "version": h.version})
}

// Health handles GET /health.
func (h *SystemHandler) Health(c *gin.Context) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	response.Success(c, http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"runtime": runtimeStats{
			Uptime:     formatDuration(time.Since(h.startTime)),
			Goroutines: runtime.NumGoroutine(),
			HeapAlloc:  ms.HeapAlloc,
			NumGC:      ms.NumGC,
			GoVersion:  runtime.Version(),
		},
	})
}

// Live handles GET /health/live.
func (h *SystemHandler) Live(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "alive"})
}

// Ready handles GET /health/ready. Every registered check must pass.
func (h *SystemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(names))
	failed := make(map[string]string)
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.log.Warn().Err(err).Str("check", name).Msg("Readiness check failed")
			results[name] = "down"
			failed[name] = err.Error()
			continue
		}
		results[name] = "up"
	}

	if len(failed) > 0 {
		response.FailWithFields(c, http.StatusServiceUnavailable, response.ErrServiceUnavailable, failed)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ready", "checks": results})
}

// ---------- Helpers ----------

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
