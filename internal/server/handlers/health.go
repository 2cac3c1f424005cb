package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type HealthHandler struct {
	logger    *zap.Logger
	clock     clockwork.Clock
	startTime time.Time
	ready     func() bool
}

// NewHealthHandler creates the probe handlers. ready may be nil, in which case
// the service is always ready once started.
func NewHealthHandler(logger *zap.Logger, clock clockwork.Clock, ready func() bool) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		clock:     clock,
		startTime: clock.Now(),
		ready:     ready,
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: h.clock.Since(h.startTime).String(),
	})
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.ready != nil && !h.ready() {
		h.logger.Warn("Readiness check failed")
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status: "unavailable",
			Uptime: h.clock.Since(h.startTime).String(),
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status: "ready",
		Uptime: h.clock.Since(h.startTime).String(),
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    h.clock.Since(h.startTime).String(),
		Timestamp: h.clock.Now().UTC().Format(time.RFC3339),
	})
}
