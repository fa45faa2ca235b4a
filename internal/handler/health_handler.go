package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler reports process and dependency liveness.
type HealthHandler struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{DB: db, Redis: rdb}
}

// Root handles GET /.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "echo-mcp-server",
		"status":  "running",
		"docs":    "/metrics",
		"version": "1.0.0",
	})
}

// Health handles GET /health, pinging postgres and redis with a short
// deadline. Degraded dependencies turn the overall status unhealthy but the
// endpoint still answers 200 so probes can read the detail.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if sqlDB, err := h.DB.DB(); err != nil {
		dbStatus = "error: " + err.Error()
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "error: " + err.Error()
	}

	redisStatus := "ok"
	if h.Redis == nil {
		redisStatus = "disabled"
	} else if err := h.Redis.Ping(ctx).Err(); err != nil {
		redisStatus = "error: " + err.Error()
	}

	status := "healthy"
	if dbStatus != "ok" || (redisStatus != "ok" && redisStatus != "disabled") {
		status = "unhealthy"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"database": dbStatus,
		"redis":    redisStatus,
	})
}
