package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/giftwrap-jax/service-booking/internal/domain"
)

// Error maps a domain error to its HTTP status and writes a single
// human-readable error string. Unclassified errors become a generic 500 so
// collaborator failures never leak internals to the caller.
func Error(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		c.JSON(statusFor(de.Code), gin.H{"error": de.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "an unexpected error occurred"})
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// Unauthorized writes a 401 with the given message.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
}

func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
