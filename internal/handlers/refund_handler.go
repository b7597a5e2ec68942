package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hotelply/marketplace/refund-engine/internal/models"
	"github.com/hotelply/marketplace/refund-engine/internal/policy"
	"github.com/hotelply/marketplace/refund-engine/internal/service"
)

type RefundHandler struct {
	svc *service.CancellationService
}

func NewRefundHandler(svc *service.CancellationService) *RefundHandler {
	return &RefundHandler{svc: svc}
}

// CheckRefund is the read-only eligibility pre-check. The caller's role
// is inferred from their identity, not claimed in the request.
func (h *RefundHandler) CheckRefund(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	ev, role, err := h.svc.Check(c.Request.Context(), c.Param("orderId"), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"eligible":          ev.Eligible,
		"hours_since_order": ev.HoursSinceOrder,
		"role":              role,
		"reason":            ev.Reason,
	})
}

func (h *RefundHandler) CancelAsHotel(c *gin.Context) {
	h.cancel(c, models.RoleHotel)
}

func (h *RefundHandler) CancelAsSeller(c *gin.Context) {
	h.cancel(c, models.RoleSeller)
}

func (h *RefundHandler) cancel(c *gin.Context, role models.Role) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	result, err := h.svc.Cancel(c.Request.Context(), c.Param("orderId"), role, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	// Not eligible is a normal outcome: the order is untouched and the
	// decision explains why.
	if !result.Decision.Eligible {
		c.JSON(http.StatusOK, gin.H{
			"success":  false,
			"message":  result.Decision.Reason,
			"decision": result.Decision,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"order":      result.Order,
		"decision":   result.Decision,
		"email_sent": result.EmailSent,
	})
}

// GetPolicy discloses the refund matrix. It renders the same rules the
// cancellation path enforces, so the two cannot drift.
func (h *RefundHandler) GetPolicy(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":                  true,
		"eligibility_window_hours": policy.EligibilityWindowHours,
		"rules":                    policy.Rules(),
		"note":                     "hotel cancellations after the window are not eligible; all instants are evaluated in UTC at the server",
	})
}
