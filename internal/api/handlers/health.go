package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"homai-zigbee/internal/api/types"
	"homai-zigbee/internal/controller"
)

// HealthHandler reports whether the controller's transport is connected.
type HealthHandler struct {
	ctrl *controller.Controller
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(ctrl *controller.Controller) *HealthHandler {
	return &HealthHandler{ctrl: ctrl}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	controllerStatus := "disconnected"
	if h.ctrl.IsConnected() {
		controllerStatus = "connected"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if controllerStatus != "connected" {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:     status,
		Controller: controllerStatus,
		Timestamp:  time.Now(),
	})
}
