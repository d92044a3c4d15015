package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/giftwrap-jax/service-booking/internal/application"
	"github.com/giftwrap-jax/service-booking/internal/response"
)

// WaitlistHandler handles the public waitlist submission. Waitlist entries
// are accepted whether or not bookings are open.
type WaitlistHandler struct {
	service *application.WaitlistService
}

// NewWaitlistHandler creates a new WaitlistHandler.
func NewWaitlistHandler(service *application.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{service: service}
}

// RegisterRoutes registers the public waitlist route.
func (h *WaitlistHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/api/v1/waitlist", h.Join)
}

// Join handles POST /api/v1/waitlist.
func (h *WaitlistHandler) Join(c *gin.Context) {
	var req application.JoinWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.Join(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
