package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotelply/marketplace/refund-engine/internal/events"
	"github.com/hotelply/marketplace/refund-engine/internal/interfaces"
	"github.com/hotelply/marketplace/refund-engine/internal/models"
	"github.com/hotelply/marketplace/refund-engine/internal/policy"
	"github.com/hotelply/marketplace/refund-engine/internal/telemetry"
)

// CancellationService orchestrates a cancellation attempt: serialize on
// the order, authorize the actor, resolve the refund policy, flip the
// order status, then fire best-effort side effects.
type CancellationService struct {
	repo      interfaces.OrderRepository
	authz     interfaces.Authorizer
	locker    interfaces.Locker
	publisher interfaces.Publisher
	notifier  interfaces.Notifier
	lockTTL   time.Duration
	now       func() time.Time
}

func NewCancellationService(
	repo interfaces.OrderRepository,
	authz interfaces.Authorizer,
	locker interfaces.Locker,
	publisher interfaces.Publisher,
	notifier interfaces.Notifier,
) *CancellationService {
	return &CancellationService{
		repo:      repo,
		authz:     authz,
		locker:    locker,
		publisher: publisher,
		notifier:  notifier,
		lockTTL:   30 * time.Second,
		now:       time.Now,
	}
}

// WithClock pins the service clock, used by tests.
func (s *CancellationService) WithClock(now func() time.Time) *CancellationService {
	s.now = now
	return s
}

type CancellationResult struct {
	Order     *models.Order         `json:"order"`
	Decision  models.RefundDecision `json:"decision"`
	EmailSent bool                  `json:"email_sent"`
}

// Check runs the read-only eligibility pre-check, inferring the caller's
// role from their identity. No state is mutated.
func (s *CancellationService) Check(ctx context.Context, orderID, actorID string) (policy.Evaluation, models.Role, error) {
	order, err := s.repo.Load(ctx, orderID)
	if err != nil {
		return policy.Evaluation{}, "", err
	}

	role, err := s.inferRole(ctx, actorID, order)
	if err != nil {
		return policy.Evaluation{}, "", err
	}

	ev, err := policy.Evaluate(order, role, s.now().UTC())
	if err != nil {
		return policy.Evaluation{}, "", err
	}
	return ev, role, nil
}

func (s *CancellationService) inferRole(ctx context.Context, actorID string, order *models.Order) (models.Role, error) {
	for _, role := range []models.Role{models.RoleHotel, models.RoleSeller} {
		owns, err := s.authz.OwnsOrder(ctx, actorID, order, role)
		if err != nil {
			return "", fmt.Errorf("infer caller role: %w", err)
		}
		if owns {
			return role, nil
		}
	}
	return "", models.ErrForbidden
}

// Cancel attempts to cancel the order as the given role. A not-eligible
// verdict is returned as a normal result, not an error; conflicts and
// authorization failures are sentinel errors with no state mutated.
func (s *CancellationService) Cancel(ctx context.Context, orderID string, role models.Role, actorID string) (*CancellationResult, error) {
	lockKey := "cancel_lock:" + orderID
	acquired, err := s.locker.Acquire(ctx, lockKey, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire cancellation lock: %w", err)
	}
	if !acquired {
		return nil, models.ErrCancellationInProgress
	}
	defer s.locker.Release(ctx, lockKey)

	order, err := s.repo.Load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != models.StatusPlaced {
		telemetry.Cancellations.WithLabelValues(string(role), "conflict").Inc()
		return nil, models.ErrAlreadyCancelled
	}

	owns, err := s.authz.OwnsOrder(ctx, actorID, order, role)
	if err != nil {
		return nil, fmt.Errorf("authorize cancellation: %w", err)
	}
	if !owns {
		telemetry.Cancellations.WithLabelValues(string(role), "forbidden").Inc()
		return nil, models.ErrForbidden
	}

	now := s.now().UTC()
	decision, err := policy.Resolve(order, role, now)
	if err != nil {
		return nil, err
	}

	if !decision.Eligible {
		telemetry.Cancellations.WithLabelValues(string(role), "not_eligible").Inc()
		telemetry.Logger.Info("Cancellation not eligible",
			zap.String("order_id", orderID),
			zap.String("role", string(role)),
			zap.Float64("hours_since_order", decision.HoursSinceOrder),
		)
		return &CancellationResult{Order: order, Decision: decision}, nil
	}

	rows, err := s.repo.CompareAndSetStatus(ctx, orderID, models.StatusPlaced, models.StatusCancelled, role)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		telemetry.Cancellations.WithLabelValues(string(role), "conflict").Inc()
		return nil, models.ErrAlreadyCancelled
	}

	order.Status = models.StatusCancelled
	order.CancelledBy = role
	order.UpdatedAt = now

	// State is committed; everything below is best-effort and never
	// rolls the cancellation back.
	s.publishOutcome(ctx, order, decision, now)
	emailSent := s.sendNotification(ctx, order, role, decision)

	telemetry.Cancellations.WithLabelValues(string(role), "cancelled").Inc()
	telemetry.Logger.Info("Order cancelled",
		zap.String("order_id", orderID),
		zap.String("cancelled_by", string(role)),
		zap.String("refund_kind", string(decision.RefundKind)),
		zap.Float64("refund_amount", decision.RefundAmount),
	)

	return &CancellationResult{Order: order, Decision: decision, EmailSent: emailSent}, nil
}

func (s *CancellationService) publishOutcome(ctx context.Context, order *models.Order, decision models.RefundDecision, now time.Time) {
	cancelled := models.OrderCancelledEvent{
		EventID:     uuid.NewString(),
		OrderID:     order.ID,
		CancelledBy: order.CancelledBy,
		Decision:    decision,
		OccurredAt:  now,
	}
	if err := s.publisher.Publish(ctx, events.TopicOrderCancelled, order.ID, cancelled); err != nil {
		telemetry.Logger.Warn("Failed to publish cancellation event",
			zap.String("order_id", order.ID), zap.Error(err))
	}

	if decision.RefundAmount > 0 {
		refund := models.RefundIssuedEvent{
			EventID:    uuid.NewString(),
			OrderID:    order.ID,
			RefundKind: decision.RefundKind,
			Amount:     decision.RefundAmount,
			Timeline:   decision.TimelineLabel,
			OccurredAt: now,
		}
		if err := s.publisher.Publish(ctx, events.TopicRefundIssued, order.ID, refund); err != nil {
			telemetry.Logger.Warn("Failed to publish refund event",
				zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	if decision.DiscountPercent > 0 {
		discount := models.DiscountGrantedEvent{
			EventID:    uuid.NewString(),
			OrderID:    order.ID,
			GrantedTo:  order.CancelledBy,
			Percent:    decision.DiscountPercent,
			OccurredAt: now,
		}
		if err := s.publisher.Publish(ctx, events.TopicDiscountGranted, order.ID, discount); err != nil {
			telemetry.Logger.Warn("Failed to publish discount event",
				zap.String("order_id", order.ID), zap.Error(err))
		}
	}
}

func (s *CancellationService) sendNotification(ctx context.Context, order *models.Order, role models.Role, decision models.RefundDecision) bool {
	templateID := "order_cancelled_" + string(role)
	sent, err := s.notifier.Send(ctx, templateID, order, decision)
	if err != nil {
		telemetry.Logger.Warn("Cancellation notification failed",
			zap.String("order_id", order.ID), zap.Error(err))
		return false
	}
	return sent
}
