package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves the storage liveness probe.
type HealthHandler struct {
	facade HealthFacade
}

// NewHealthHandler creates HealthHandler with the provided facade.
func NewHealthHandler(facade HealthFacade) *HealthHandler {
	return &HealthHandler{facade: facade}
}

// Ping reports whether the order store is reachable.
func (h *HealthHandler) Ping(c *gin.Context) {
	if err := h.facade.Ping(c.Request.Context()); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusOK)
}
