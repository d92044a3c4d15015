package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/giftwrap-jax/service-booking/internal/application"
	"github.com/giftwrap-jax/service-booking/internal/auth"
	"github.com/giftwrap-jax/service-booking/internal/middleware"
	"github.com/giftwrap-jax/service-booking/internal/response"
)

// AdminHandler handles the admin dashboard API: session management, booking
// management, the waitlist view, and the availability toggle.
type AdminHandler struct {
	bookings          *application.BookingService
	waitlist          *application.WaitlistService
	settings          *application.SettingsService
	sessions          *auth.SessionManager
	adminPasswordHash string
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	bookings *application.BookingService,
	waitlist *application.WaitlistService,
	settings *application.SettingsService,
	sessions *auth.SessionManager,
	adminPasswordHash string,
) *AdminHandler {
	return &AdminHandler{
		bookings:          bookings,
		waitlist:          waitlist,
		settings:          settings,
		sessions:          sessions,
		adminPasswordHash: adminPasswordHash,
	}
}

// RegisterRoutes registers the admin routes. The auth endpoints are open (the
// login call has nothing to be authorized against); everything else requires
// a valid admin session before any read or mutation.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/api/v1/admin/auth")
	{
		authGroup.POST("", h.Login)
		authGroup.GET("", h.Check)
		authGroup.DELETE("", h.Logout)
	}

	adminMW := middleware.RequireAdmin(h.sessions)

	admin := r.Group("/api/v1/admin")
	admin.Use(adminMW)
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/:id", h.GetBooking)
		admin.PATCH("/bookings/:id", h.UpdateBookingStatus)
		admin.GET("/waitlist", h.ListWaitlist)
	}

	settings := r.Group("/api/v1/settings/bookings")
	settings.Use(adminMW)
	{
		settings.POST("", h.SetBookingsEnabled)
	}
}

// Login handles POST /api/v1/admin/auth.
func (h *AdminHandler) Login(c *gin.Context) {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Password == "" {
		response.BadRequest(c, "password is required")
		return
	}

	if !auth.CheckPassword(h.adminPasswordHash, body.Password) {
		response.Unauthorized(c, "invalid password")
		return
	}

	if err := h.sessions.IssueSession(c.Writer); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Check handles GET /api/v1/admin/auth.
func (h *AdminHandler) Check(c *gin.Context) {
	if !h.sessions.IsAuthenticated(c.Request) {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}

// Logout handles DELETE /api/v1/admin/auth.
func (h *AdminHandler) Logout(c *gin.Context) {
	h.sessions.ClearSession(c.Writer)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListBookings handles GET /api/v1/admin/bookings?filter=.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	bookings, err := h.bookings.ListBookings(c.Request.Context(), c.DefaultQuery("filter", "all"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GetBooking handles GET /api/v1/admin/bookings/:id.
func (h *AdminHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.bookings.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": result})
}

// UpdateBookingStatus handles PATCH /api/v1/admin/bookings/:id.
func (h *AdminHandler) UpdateBookingStatus(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Status == "" {
		response.BadRequest(c, "status is required")
		return
	}

	result, err := h.bookings.UpdateBookingStatus(c.Request.Context(), bookingID, body.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": result})
}

// ListWaitlist handles GET /api/v1/admin/waitlist.
func (h *AdminHandler) ListWaitlist(c *gin.Context) {
	entries, err := h.waitlist.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"waitlist": entries})
}

// SetBookingsEnabled handles POST /api/v1/settings/bookings.
func (h *AdminHandler) SetBookingsEnabled(c *gin.Context) {
	var body struct {
		Enabled *bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Enabled == nil {
		response.BadRequest(c, "invalid value for enabled")
		return
	}

	if err := h.settings.SetBookingsEnabled(c.Request.Context(), *body.Enabled); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": *body.Enabled})
}
