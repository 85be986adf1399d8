package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	ready func(c *gin.Context) error
}

// NewHealthHandler creates a health handler. ready may be nil.
func NewHealthHandler(ready func(c *gin.Context) error) *HealthHandler {
	return &HealthHandler{ready: ready}
}

// Live handles GET /healthz.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /readyz.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(c); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
