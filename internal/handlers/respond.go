package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hotelply/marketplace/refund-engine/internal/models"
	"github.com/hotelply/marketplace/refund-engine/internal/telemetry"
)

// actorID pulls the caller identity from the Authorization header.
// Token issuance and validation live with the auth service; here the
// header carries an opaque actor id.
func actorID(c *gin.Context) (string, bool) {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing actor identity"})
		return "", false
	}
	return raw, true
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyCancelled),
		errors.Is(err, models.ErrConflictingPayment),
		errors.Is(err, models.ErrOrderNotPayable),
		errors.Is(err, models.ErrCancellationInProgress):
		status = http.StatusConflict
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrInvalidTimestamp),
		errors.Is(err, models.ErrInvalidSignature):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		telemetry.Logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(status, gin.H{"success": false, "message": "internal error"})
		return
	}
	c.JSON(status, gin.H{"success": false, "message": err.Error()})
}
