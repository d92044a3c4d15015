package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/giftwrap-jax/service-booking/internal/address"
	"github.com/giftwrap-jax/service-booking/internal/response"
)

// AddressHandler validates customer addresses before a pickup/delivery
// booking is submitted.
type AddressHandler struct {
	validator address.Validator
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(validator address.Validator) *AddressHandler {
	return &AddressHandler{validator: validator}
}

// RegisterRoutes registers the public address validation route.
func (h *AddressHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/api/v1/validate-address", h.ValidateAddress)
}

// ValidateAddress handles POST /api/v1/validate-address.
func (h *AddressHandler) ValidateAddress(c *gin.Context) {
	var in address.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.validator.Validate(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := gin.H{
		"success":            true,
		"normalized_address": result.Normalized,
	}
	if result.Warning != "" {
		resp["warning"] = result.Warning
	}
	c.JSON(http.StatusOK, resp)
}
