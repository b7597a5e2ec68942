package interfaces

import (
	"context"

	"github.com/hotelply/marketplace/refund-engine/internal/models"
)

// OrderRepository is the contract for the shared order store. Both
// compare-and-set methods return the number of rows changed; zero means
// another request won the race and the caller must surface a conflict.
type OrderRepository interface {
	Load(ctx context.Context, id string) (*models.Order, error)
	CompareAndSetStatus(ctx context.Context, id string, expected, next models.OrderStatus, cancelledBy models.Role) (int64, error)
	CompareAndSetPayment(ctx context.Context, id, paymentID string) (int64, error)
}
