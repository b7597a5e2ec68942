package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotelply/marketplace/refund-engine/internal/events"
	"github.com/hotelply/marketplace/refund-engine/internal/interfaces"
	"github.com/hotelply/marketplace/refund-engine/internal/models"
	"github.com/hotelply/marketplace/refund-engine/internal/telemetry"
)

// Signature computes the mock gateway signature for an attempt: HMAC
// SHA-256 over "orderID|paymentID", hex-encoded. The simulator signs
// with the same secret, keeping verification deterministic and offline.
func Signature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerificationService accepts a claimed successful attempt from the
// simulator and settles the order at most once.
type VerificationService struct {
	repo      interfaces.OrderRepository
	publisher interfaces.Publisher
	secret    string
	now       func() time.Time
}

func NewVerificationService(repo interfaces.OrderRepository, publisher interfaces.Publisher, secret string) *VerificationService {
	return &VerificationService{repo: repo, publisher: publisher, secret: secret, now: time.Now}
}

// Signer returns the signature generator wired into gateway sessions.
func (s *VerificationService) Signer() func(orderID, referenceID string) string {
	return func(orderID, referenceID string) string {
		return Signature(s.secret, orderID, referenceID)
	}
}

// Verify marks the order paid if it is still placed and unsettled.
// Re-verifying an already-settled order with the same payment id is a
// no-op success; with a different id it is a conflict.
func (s *VerificationService) Verify(ctx context.Context, orderID, paymentID, method, signature string) error {
	expected := Signature(s.secret, orderID, paymentID)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return models.ErrInvalidSignature
	}

	order, err := s.repo.Load(ctx, orderID)
	if err != nil {
		return err
	}

	if order.PaymentStatus == models.PaymentPaid {
		if order.PaymentID == paymentID {
			return nil
		}
		return models.ErrConflictingPayment
	}
	if order.Status != models.StatusPlaced {
		return models.ErrOrderNotPayable
	}

	rows, err := s.repo.CompareAndSetPayment(ctx, orderID, paymentID)
	if err != nil {
		return err
	}
	if rows == 0 {
		// Lost a race since the load above; reload to tell an idempotent
		// replay apart from a genuine conflict.
		current, err := s.repo.Load(ctx, orderID)
		if err != nil {
			return err
		}
		if current.PaymentStatus == models.PaymentPaid && current.PaymentID == paymentID {
			return nil
		}
		if current.Status != models.StatusPlaced {
			return models.ErrOrderNotPayable
		}
		return models.ErrConflictingPayment
	}

	telemetry.Settlements.Inc()
	telemetry.Logger.Info("Payment settled",
		zap.String("order_id", orderID),
		zap.String("payment_id", paymentID),
		zap.String("method", method),
	)

	settled := models.PaymentSettledEvent{
		EventID:    uuid.NewString(),
		OrderID:    orderID,
		PaymentID:  paymentID,
		Method:     method,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, events.TopicPaymentSettled, orderID, settled); err != nil {
		telemetry.Logger.Warn("Failed to publish settlement event",
			zap.String("order_id", orderID), zap.Error(err))
	}

	return nil
}
