package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hotelply/marketplace/refund-engine/internal/service"
)

type PaymentHandler struct {
	svc *service.VerificationService
}

func NewPaymentHandler(svc *service.VerificationService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type verifyRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Method    string `json:"method" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// VerifyPayment accepts a claimed successful attempt from the gateway
// simulator and settles the order at most once.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	if err := h.svc.Verify(c.Request.Context(), req.OrderID, req.PaymentID, req.Method, req.Signature); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
