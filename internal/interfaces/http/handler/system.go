package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports the liveness of a backing dependency
type HealthChecker interface {
	Ping() error
}

// SystemHandler handles health and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db        HealthChecker
	startTime time.Time
	version   string
}

// NewSystemHandler creates a new SystemHandler. db may be nil when no
// database check is wanted.
func NewSystemHandler(db HealthChecker, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		startTime: time.Now(),
		version:   version,
	}
}

// Health reports service liveness
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	status := gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
	}

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "ok"
	}

	c.JSON(http.StatusOK, status)
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}
