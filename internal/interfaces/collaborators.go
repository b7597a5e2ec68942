package interfaces

import (
	"context"
	"time"

	"github.com/hotelply/marketplace/refund-engine/internal/models"
)

// Locker serializes mutating work on a single order across concurrent
// requests. Acquire returns false when the key is already held.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Publisher emits a side-effect event after a committed state change.
// Failures are logged by the caller and never roll the change back.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

// Notifier dispatches a notification for a cancellation outcome.
// Best-effort: the returned bool reports whether the message was sent.
type Notifier interface {
	Send(ctx context.Context, templateID string, order *models.Order, decision models.RefundDecision) (bool, error)
}

// Authorizer answers whether the actor owns or operates the order in the
// claimed role: hotels must be the order's placer, sellers must supply at
// least one item in it.
type Authorizer interface {
	OwnsOrder(ctx context.Context, actorID string, order *models.Order, role models.Role) (bool, error)
}
