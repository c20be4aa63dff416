package handlers

import (
	"context"
	"net/http"
	"time"

	"catering-backoffice/internal/health"

	"github.com/gin-gonic/gin"
)

type HealthHTTPHandler struct {
	monitor *health.Monitor
}

func NewHealthHTTPHandler(m *health.Monitor) *HealthHTTPHandler {
	return &HealthHTTPHandler{monitor: m}
}

// Health answers from the last background check so liveness probes never
// touch the database.
func (h *HealthHTTPHandler) Health(c *gin.Context) {
	r := h.monitor.Last()
	status := r.Overall
	if status == "" {
		status = health.StatusHealthy
	}

	unavailable := []string{}
	for name, comp := range r.Components {
		if comp.Status == health.StatusUnavailable {
			unavailable = append(unavailable, name)
		}
	}

	httpStatus := http.StatusOK
	if status == health.StatusUnavailable {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, gin.H{
		"status":               status,
		"message":              "Server is running",
		"unavailable_services": unavailable,
		"timestamp":            time.Now(),
	})
}

func (h *HealthHTTPHandler) Detailed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	r := h.monitor.Check(ctx)
	httpStatus := http.StatusOK
	if r.Overall == health.StatusUnavailable {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, r)
}
