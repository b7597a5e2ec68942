package service

import (
	"context"
	"time"

	"github.com/hotelply/marketplace/refund-engine/internal/models"
)

// In-memory doubles for the collaborator interfaces.

type fakeRepo struct {
	orders map[string]*models.Order
}

func newFakeRepo(orders ...*models.Order) *fakeRepo {
	r := &fakeRepo{orders: map[string]*models.Order{}}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeRepo) Load(_ context.Context, id string) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *fakeRepo) CompareAndSetStatus(_ context.Context, id string, expected, next models.OrderStatus, cancelledBy models.Role) (int64, error) {
	o, ok := r.orders[id]
	if !ok || o.Status != expected {
		return 0, nil
	}
	o.Status = next
	o.CancelledBy = cancelledBy
	return 1, nil
}

func (r *fakeRepo) CompareAndSetPayment(_ context.Context, id, paymentID string) (int64, error) {
	o, ok := r.orders[id]
	if !ok || o.PaymentStatus != models.PaymentPending || o.Status != models.StatusPlaced {
		return 0, nil
	}
	o.PaymentStatus = models.PaymentPaid
	o.PaymentID = paymentID
	return 1, nil
}

type fakeAuthz struct {
	// allowed maps "actor/role" to ownership.
	allowed map[string]bool
}

func (a *fakeAuthz) OwnsOrder(_ context.Context, actorID string, _ *models.Order, role models.Role) (bool, error) {
	return a.allowed[actorID+"/"+string(role)], nil
}

type fakeLocker struct {
	busy     bool
	acquired []string
	released []string
}

func (l *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	if l.busy {
		return false, nil
	}
	l.acquired = append(l.acquired, key)
	return true, nil
}

func (l *fakeLocker) Release(_ context.Context, key string) error {
	l.released = append(l.released, key)
	return nil
}

type publishedEvent struct {
	topic   string
	key     string
	payload any
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, payload any) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{topic: topic, key: key, payload: payload})
	return nil
}

func (p *fakePublisher) topics() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.topic
	}
	return out
}

type fakeNotifier struct {
	sent bool
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, _ string, _ *models.Order, _ models.RefundDecision) (bool, error) {
	if n.err != nil {
		return false, n.err
	}
	return n.sent, nil
}
