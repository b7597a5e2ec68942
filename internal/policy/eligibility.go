package policy

import (
	"time"

	"github.com/hotelply/marketplace/refund-engine/internal/models"
)

// EligibilityWindowHours is how long after placement a hotel may still
// cancel. Sellers are not bound by it.
const EligibilityWindowHours = 24.0

// Evaluation is the outcome of an eligibility check. It carries the
// elapsed time so callers can display it, and a reason when not eligible.
type Evaluation struct {
	Eligible        bool    `json:"eligible"`
	HoursSinceOrder float64 `json:"hours_since_order"`
	Reason          string  `json:"reason,omitempty"`
}

// Evaluate decides whether the given role may still cancel the order at
// instant now. Pure: no side effects, safe to call for both the pre-check
// query and the real cancellation attempt. All instants are UTC; placedAt
// is recorded server-side at order creation, never from a client clock.
func Evaluate(order *models.Order, role models.Role, now time.Time) (Evaluation, error) {
	if now.Before(order.PlacedAt) {
		return Evaluation{}, models.ErrInvalidTimestamp
	}

	hours := now.Sub(order.PlacedAt).Hours()

	// Sellers may withdraw at any time; only hotels are held to the
	// 24-hour grace window.
	if role == models.RoleSeller {
		return Evaluation{Eligible: true, HoursSinceOrder: hours}, nil
	}

	if hours < EligibilityWindowHours {
		return Evaluation{Eligible: true, HoursSinceOrder: hours}, nil
	}

	return Evaluation{
		Eligible:        false,
		HoursSinceOrder: hours,
		Reason:          "the 24-hour cancellation window has passed",
	}, nil
}
