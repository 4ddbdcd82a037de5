package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is the database dependency the health check needs.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthChecker reports service and database health.
type HealthChecker struct {
	db      Pinger
	timeout time.Duration
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(db Pinger, timeout time.Duration) *HealthChecker {
	return &HealthChecker{db: db, timeout: timeout}
}

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Handler serves GET /health
func (h *HealthChecker) Handler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Database: "ok"}
	status := http.StatusOK

	if err := h.db.HealthCheck(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, resp)
}
