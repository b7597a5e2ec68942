package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelply/marketplace/refund-engine/internal/events"
	"github.com/hotelply/marketplace/refund-engine/internal/models"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func placedOrder(method models.PaymentMethod, amount float64, ago time.Duration) *models.Order {
	return &models.Order{
		ID:            "ord-1",
		HotelID:       "hotel-1",
		TotalAmount:   amount,
		PaymentMethod: method,
		Status:        models.StatusPlaced,
		PaymentStatus: models.PaymentPending,
		PlacedAt:      testNow.Add(-ago),
	}
}

func newCancellationFixture(order *models.Order) (*CancellationService, *fakeRepo, *fakePublisher, *fakeNotifier, *fakeLocker) {
	repo := newFakeRepo(order)
	authz := &fakeAuthz{allowed: map[string]bool{
		"hotel-1/hotel":   true,
		"seller-1/seller": true,
	}}
	locker := &fakeLocker{}
	publisher := &fakePublisher{}
	notifier := &fakeNotifier{sent: true}

	svc := NewCancellationService(repo, authz, locker, publisher, notifier).
		WithClock(func() time.Time { return testNow })
	return svc, repo, publisher, notifier, locker
}

func TestCancelSellerCompensationCredit(t *testing.T) {
	order := placedOrder(models.PaymentCashOnDelivery, 1000, 5*time.Hour)
	svc, repo, publisher, _, locker := newCancellationFixture(order)

	result, err := svc.Cancel(context.Background(), "ord-1", models.RoleSeller, "seller-1")
	require.NoError(t, err)

	assert.True(t, result.Decision.Eligible)
	assert.Equal(t, models.RefundCompensationCredit, result.Decision.RefundKind)
	assert.Zero(t, result.Decision.RefundAmount)
	assert.Equal(t, 10, result.Decision.DiscountPercent)
	assert.True(t, result.EmailSent)

	assert.Equal(t, models.StatusCancelled, repo.orders["ord-1"].Status)
	assert.Equal(t, models.RoleSeller, repo.orders["ord-1"].CancelledBy)

	// No money moved, so a discount event but no refund event.
	assert.Contains(t, publisher.topics(), events.TopicOrderCancelled)
	assert.Contains(t, publisher.topics(), events.TopicDiscountGranted)
	assert.NotContains(t, publisher.topics(), events.TopicRefundIssued)

	assert.Equal(t, []string{"cancel_lock:ord-1"}, locker.acquired)
	assert.Equal(t, []string{"cancel_lock:ord-1"}, locker.released)
}

func TestCancelHotelOnlineStandardRefund(t *testing.T) {
	order := placedOrder(models.PaymentOnline, 2500, 10*time.Hour)
	svc, repo, publisher, _, _ := newCancellationFixture(order)

	result, err := svc.Cancel(context.Background(), "ord-1", models.RoleHotel, "hotel-1")
	require.NoError(t, err)

	assert.Equal(t, models.RefundStandard, result.Decision.RefundKind)
	assert.Equal(t, 2500.0, result.Decision.RefundAmount)
	assert.Zero(t, result.Decision.DiscountPercent)
	assert.Equal(t, "Within 3 business days", result.Decision.TimelineLabel)

	assert.Equal(t, models.StatusCancelled, repo.orders["ord-1"].Status)
	assert.Contains(t, publisher.topics(), events.TopicRefundIssued)
	assert.NotContains(t, publisher.topics(), events.TopicDiscountGranted)
}

func TestCancelHotelAfterWindowLeavesOrderUntouched(t *testing.T) {
	order := placedOrder(models.PaymentCashOnDelivery, 1000, 30*time.Hour)
	svc, repo, publisher, _, _ := newCancellationFixture(order)

	result, err := svc.Cancel(context.Background(), "ord-1", models.RoleHotel, "hotel-1")
	require.NoError(t, err)

	assert.False(t, result.Decision.Eligible)
	assert.Equal(t, models.RefundNone, result.Decision.RefundKind)
	assert.NotEmpty(t, result.Decision.Reason)

	assert.Equal(t, models.StatusPlaced, repo.orders["ord-1"].Status)
	assert.Empty(t, string(repo.orders["ord-1"].CancelledBy))
	assert.Empty(t, publisher.events)
}

func TestCancelTwiceReturnsAlreadyCancelled(t *testing.T) {
	order := placedOrder(models.PaymentOnline, 2500, time.Hour)
	svc, repo, _, _, _ := newCancellationFixture(order)

	first, err := svc.Cancel(context.Background(), "ord-1", models.RoleHotel, "hotel-1")
	require.NoError(t, err)
	require.True(t, first.Decision.Eligible)

	_, err = svc.Cancel(context.Background(), "ord-1", models.RoleHotel, "hotel-1")
	assert.ErrorIs(t, err, models.ErrAlreadyCancelled)

	// The first cancellation's outcome is untouched by the replay.
	assert.Equal(t, models.StatusCancelled, repo.orders["ord-1"].Status)
	assert.Equal(t, models.RoleHotel, repo.orders["ord-1"].CancelledBy)
}

func TestCancelUnknownOrder(t *testing.T) {
	svc, _, _, _, _ := newCancellationFixture(placedOrder(models.PaymentOnline, 100, time.Hour))

	_, err := svc.Cancel(context.Background(), "missing", models.RoleHotel, "hotel-1")
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestCancelForbiddenBeforePolicyEvaluation(t *testing.T) {
	order := placedOrder(models.PaymentOnline, 2500, time.Hour)
	svc, repo, publisher, _, _ := newCancellationFixture(order)

	_, err := svc.Cancel(context.Background(), "ord-1", models.RoleHotel, "intruder")
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Equal(t, models.StatusPlaced, repo.orders["ord-1"].Status)
	assert.Empty(t, publisher.events)

	// Claiming the seller role without supplying the order is rejected too.
	_, err = svc.Cancel(context.Background(), "ord-1", models.RoleSeller, "hotel-1")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestCancelSurvivesSideEffectFailures(t *testing.T) {
	order := placedOrder(models.PaymentOnline, 2500, time.Hour)
	svc, repo, publisher, notifier, _ := newCancellationFixture(order)
	publisher.err = errors.New("broker unavailable")
	notifier.err = errors.New("notification service down")

	result, err := svc.Cancel(context.Background(), "ord-1", models.RoleHotel, "hotel-1")
	require.NoError(t, err)

	// The committed cancellation takes precedence over auxiliary effects.
	assert.Equal(t, models.StatusCancelled, repo.orders["ord-1"].Status)
	assert.True(t, result.Decision.Eligible)
	assert.False(t, result.EmailSent)
}

func TestCancelWhileLockHeld(t *testing.T) {
	order := placedOrder(models.PaymentOnline, 2500, time.Hour)
	svc, repo, _, _, locker := newCancellationFixture(order)
	locker.busy = true

	_, err := svc.Cancel(context.Background(), "ord-1", models.RoleHotel, "hotel-1")
	assert.ErrorIs(t, err, models.ErrCancellationInProgress)
	assert.Equal(t, models.StatusPlaced, repo.orders["ord-1"].Status)
}

func TestCheckInfersRoleFromIdentity(t *testing.T) {
	order := placedOrder(models.PaymentOnline, 2500, 30*time.Hour)
	svc, _, _, _, _ := newCancellationFixture(order)

	// The hotel is past the window.
	ev, role, err := svc.Check(context.Background(), "ord-1", "hotel-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleHotel, role)
	assert.False(t, ev.Eligible)
	assert.InDelta(t, 30.0, ev.HoursSinceOrder, 1e-9)

	// The seller is not.
	ev, role, err = svc.Check(context.Background(), "ord-1", "seller-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeller, role)
	assert.True(t, ev.Eligible)

	// Strangers get nothing.
	_, _, err = svc.Check(context.Background(), "ord-1", "intruder")
	assert.ErrorIs(t, err, models.ErrForbidden)
}
