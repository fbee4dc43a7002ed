package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthHandler handles liveness and readiness probes.
type HealthHandler struct {
	pool      *pgxpool.Pool
	startedAt time.Time
	version   string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(pool *pgxpool.Pool, version string) *HealthHandler {
	return &HealthHandler{
		pool:      pool,
		startedAt: time.Now(),
		version:   version,
	}
}

// Live handles GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /health/ready. Fails when the database is unreachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.pool.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Info handles GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	stat := h.pool.Stat()
	c.JSON(http.StatusOK, gin.H{
		"version":   h.version,
		"uptime_s":  int64(time.Since(h.startedAt).Seconds()),
		"db_conns":  stat.TotalConns(),
		"db_idle":   stat.IdleConns(),
		"db_in_use": stat.AcquiredConns(),
	})
}
