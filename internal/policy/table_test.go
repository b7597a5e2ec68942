package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelply/marketplace/refund-engine/internal/models"
)

func orderPlacedAgo(method models.PaymentMethod, amount float64, ago time.Duration, now time.Time) *models.Order {
	return &models.Order{
		ID:            "ord-1",
		HotelID:       "hotel-1",
		TotalAmount:   amount,
		PaymentMethod: method,
		Status:        models.StatusPlaced,
		PlacedAt:      now.Add(-ago),
	}
}

func TestEvaluateSellerAlwaysEligible(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, elapsed := range []time.Duration{
		0,
		23*time.Hour + 59*time.Minute + 24*time.Second, // 23.99h
		24 * time.Hour,
		1000 * time.Hour,
	} {
		order := orderPlacedAgo(models.PaymentOnline, 500, elapsed, now)
		ev, err := Evaluate(order, models.RoleSeller, now)
		require.NoError(t, err)
		assert.True(t, ev.Eligible, "seller should be eligible at %v", elapsed)
		assert.InDelta(t, elapsed.Hours(), ev.HoursSinceOrder, 1e-9)
	}
}

func TestEvaluateHotelWindowBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	justInside := orderPlacedAgo(models.PaymentOnline, 500, 24*time.Hour-time.Millisecond, now)
	ev, err := Evaluate(justInside, models.RoleHotel, now)
	require.NoError(t, err)
	assert.True(t, ev.Eligible)

	exactly := orderPlacedAgo(models.PaymentOnline, 500, 24*time.Hour, now)
	ev, err = Evaluate(exactly, models.RoleHotel, now)
	require.NoError(t, err)
	assert.False(t, ev.Eligible, "eligibility flips exactly at 24h")
	assert.NotEmpty(t, ev.Reason)
}

func TestEvaluateRejectsClockBeforePlacement(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	order := orderPlacedAgo(models.PaymentOnline, 500, 0, now)

	_, err := Evaluate(order, models.RoleHotel, now.Add(-time.Minute))
	assert.ErrorIs(t, err, models.ErrInvalidTimestamp)
}

func TestResolveMatrix(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		method   models.PaymentMethod
		role     models.Role
		elapsed  time.Duration
		amount   float64
		eligible bool
		kind     models.RefundKind
		refund   float64
		discount int
		timeline string
	}{
		{
			name:     "cod seller within window",
			method:   models.PaymentCashOnDelivery,
			role:     models.RoleSeller,
			elapsed:  5 * time.Hour,
			amount:   1000,
			eligible: true,
			kind:     models.RefundCompensationCredit,
			refund:   0,
			discount: 10,
			timeline: "Immediate",
		},
		{
			name:     "cod seller long after window",
			method:   models.PaymentCashOnDelivery,
			role:     models.RoleSeller,
			elapsed:  300 * time.Hour,
			amount:   1000,
			eligible: true,
			kind:     models.RefundCompensationCredit,
			refund:   0,
			discount: 10,
			timeline: "Immediate",
		},
		{
			name:     "cod hotel within window",
			method:   models.PaymentCashOnDelivery,
			role:     models.RoleHotel,
			elapsed:  5 * time.Hour,
			amount:   1000,
			eligible: true,
			kind:     models.RefundNone,
			refund:   0,
			discount: 0,
			timeline: "N/A",
		},
		{
			name:     "online seller",
			method:   models.PaymentOnline,
			role:     models.RoleSeller,
			elapsed:  50 * time.Hour,
			amount:   2500,
			eligible: true,
			kind:     models.RefundImmediate,
			refund:   2500,
			discount: 15,
			timeline: "Within 24 hours",
		},
		{
			name:     "online hotel within window",
			method:   models.PaymentOnline,
			role:     models.RoleHotel,
			elapsed:  10 * time.Hour,
			amount:   2500,
			eligible: true,
			kind:     models.RefundStandard,
			refund:   2500,
			discount: 0,
			timeline: "Within 3 business days",
		},
		{
			name:     "cod hotel after window",
			method:   models.PaymentCashOnDelivery,
			role:     models.RoleHotel,
			elapsed:  30 * time.Hour,
			amount:   1000,
			eligible: false,
		},
		{
			name:     "online hotel after window",
			method:   models.PaymentOnline,
			role:     models.RoleHotel,
			elapsed:  30 * time.Hour,
			amount:   2500,
			eligible: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := orderPlacedAgo(tt.method, tt.amount, tt.elapsed, now)
			d, err := Resolve(order, tt.role, now)
			require.NoError(t, err)

			assert.Equal(t, tt.eligible, d.Eligible)
			if !tt.eligible {
				assert.Equal(t, models.RefundNone, d.RefundKind)
				assert.Zero(t, d.RefundAmount)
				assert.Zero(t, d.DiscountPercent)
				assert.NotEmpty(t, d.Reason)
				return
			}
			assert.Equal(t, tt.kind, d.RefundKind)
			assert.Equal(t, tt.refund, d.RefundAmount)
			assert.Equal(t, tt.discount, d.DiscountPercent)
			assert.Equal(t, tt.timeline, d.TimelineLabel)
		})
	}
}

func TestRulesCoverEveryCombination(t *testing.T) {
	rules := Rules()
	require.Len(t, rules, 4)

	seen := map[string]bool{}
	for _, r := range rules {
		seen[string(r.PaymentMethod)+"/"+string(r.Role)] = true
	}
	for _, key := range []string{
		"cash_on_delivery/hotel", "cash_on_delivery/seller",
		"online/hotel", "online/seller",
	} {
		assert.True(t, seen[key], "missing rule for %s", key)
	}
}
