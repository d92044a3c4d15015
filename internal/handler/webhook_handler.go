package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/giftwrap-jax/service-booking/internal/application"
	"github.com/giftwrap-jax/service-booking/internal/payment"
	"github.com/giftwrap-jax/service-booking/internal/response"
)

// WebhookHandler receives asynchronous payment-provider events.
type WebhookHandler struct {
	service *application.BookingService
	gateway payment.Gateway
	logger  *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(service *application.BookingService, gateway payment.Gateway, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, gateway: gateway, logger: logger}
}

// RegisterRoutes registers the webhook route.
func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/api/v1/webhooks/stripe", h.HandleStripeEvent)
}

// HandleStripeEvent handles POST /api/v1/webhooks/stripe.
//
// A signature failure is the only rejection: it returns 400 so the provider
// retries. Every post-verification failure is acknowledged with 200 and only
// logged, so a poisoned event cannot cause a redelivery storm.
func (h *WebhookHandler) HandleStripeEvent(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "could not read request body")
		return
	}

	evt, err := h.gateway.ConstructEvent(body, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			h.logger.Warn("webhook signature verification failed", zap.Error(err))
			response.BadRequest(c, "webhook signature verification failed")
			return
		}
		h.logger.Error("failed to decode webhook event", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.service.ReconcilePaymentEvent(c.Request.Context(), evt); err != nil {
		h.logger.Error("failed to reconcile payment event",
			zap.String("type", evt.Type),
			zap.String("booking_id", evt.BookingID),
			zap.Error(err),
		)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
