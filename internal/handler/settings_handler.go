package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/giftwrap-jax/service-booking/internal/application"
)

// SettingsHandler handles the public read side of the availability gate. The
// admin write side lives on AdminHandler.
type SettingsHandler struct {
	service *application.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(service *application.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// RegisterRoutes registers the public settings route.
func (h *SettingsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/v1/settings/bookings", h.BookingsEnabled)
}

// BookingsEnabled handles GET /api/v1/settings/bookings. Never errors: the
// gate fails open.
func (h *SettingsHandler) BookingsEnabled(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"enabled": h.service.BookingsEnabled(c.Request.Context())})
}
