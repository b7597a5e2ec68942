package policy

import (
	"fmt"
	"time"

	"github.com/hotelply/marketplace/refund-engine/internal/models"
)

// Rule is one row of the refund policy matrix. The same rows drive both
// the cancellation decision path and the policy disclosure endpoint, so
// the policy shown to users is always the policy enforced.
type Rule struct {
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
	Role            models.Role          `json:"role"`
	Window          string               `json:"window"`
	RefundKind      models.RefundKind    `json:"refund_kind"`
	RefundsTotal    bool                 `json:"refunds_total"`
	DiscountPercent int                  `json:"discount_percent"`
	TimelineLabel   string               `json:"timeline_label"`
}

var table = []Rule{
	{
		PaymentMethod:   models.PaymentCashOnDelivery,
		Role:            models.RoleSeller,
		Window:          "any time",
		RefundKind:      models.RefundCompensationCredit,
		RefundsTotal:    false,
		DiscountPercent: 10,
		TimelineLabel:   "Immediate",
	},
	{
		PaymentMethod:   models.PaymentCashOnDelivery,
		Role:            models.RoleHotel,
		Window:          "within 24 hours",
		RefundKind:      models.RefundNone,
		RefundsTotal:    false,
		DiscountPercent: 0,
		TimelineLabel:   "N/A",
	},
	{
		PaymentMethod:   models.PaymentOnline,
		Role:            models.RoleSeller,
		Window:          "any time",
		RefundKind:      models.RefundImmediate,
		RefundsTotal:    true,
		DiscountPercent: 15,
		TimelineLabel:   "Within 24 hours",
	},
	{
		PaymentMethod:   models.PaymentOnline,
		Role:            models.RoleHotel,
		Window:          "within 24 hours",
		RefundKind:      models.RefundStandard,
		RefundsTotal:    true,
		DiscountPercent: 0,
		TimelineLabel:   "Within 3 business days",
	},
}

// Rules returns a copy of the policy matrix for display.
func Rules() []Rule {
	out := make([]Rule, len(table))
	copy(out, table)
	return out
}

// Resolve combines the eligibility verdict with the policy matrix to
// produce the concrete refund decision for this order and acting role.
// When not eligible the caller must not mutate order state.
func Resolve(order *models.Order, role models.Role, now time.Time) (models.RefundDecision, error) {
	ev, err := Evaluate(order, role, now)
	if err != nil {
		return models.RefundDecision{}, err
	}

	if !ev.Eligible {
		return models.RefundDecision{
			Eligible:        false,
			RefundKind:      models.RefundNone,
			Reason:          ev.Reason,
			HoursSinceOrder: ev.HoursSinceOrder,
		}, nil
	}

	for _, r := range table {
		if r.PaymentMethod != order.PaymentMethod || r.Role != role {
			continue
		}
		d := models.RefundDecision{
			Eligible:        true,
			RefundKind:      r.RefundKind,
			DiscountPercent: r.DiscountPercent,
			TimelineLabel:   r.TimelineLabel,
			HoursSinceOrder: ev.HoursSinceOrder,
		}
		if r.RefundsTotal {
			d.RefundAmount = order.TotalAmount
		}
		return d, nil
	}

	// The matrix is total over (payment method, role); reaching here means
	// the order record itself is malformed.
	return models.RefundDecision{}, fmt.Errorf("no policy rule for method %q and role %q", order.PaymentMethod, role)
}
