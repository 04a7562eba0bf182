package handler

import (
	"errors"
	"net/http"

	"github.com/DAVIPRADIPTA/website-anemware/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto stable reason strings and HTTP status
// codes. Anything unmapped is an internal error the caller may retry.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case errors.Is(err, service.ErrDoctorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "doctor not found"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrSessionNotActive):
		c.JSON(http.StatusBadRequest, gin.H{"error": "session not active"})
	case errors.Is(err, service.ErrSessionExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "session expired"})
	case errors.Is(err, service.ErrGatewayUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway unavailable"})
	case errors.Is(err, service.ErrUnknownTransaction):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown transaction"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
