package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hotelply/marketplace/refund-engine/internal/models"
)

// Authorizer resolves order ownership against the store: the hotel role
// must match the order's placer, the seller role must supply at least one
// item in the order.
type Authorizer struct {
	db *sql.DB
}

func NewAuthorizer(db *sql.DB) *Authorizer {
	return &Authorizer{db: db}
}

func (a *Authorizer) OwnsOrder(ctx context.Context, actorID string, order *models.Order, role models.Role) (bool, error) {
	switch role {
	case models.RoleHotel:
		return order.HotelID == actorID, nil
	case models.RoleSeller:
		var exists bool
		err := a.db.QueryRowContext(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM order_sellers WHERE order_id = $1 AND seller_id = $2
			)
		`, order.ID, actorID).Scan(&exists)
		if err != nil {
			return false, fmt.Errorf("check seller ownership: %w", err)
		}
		return exists, nil
	default:
		return false, fmt.Errorf("unknown role %q", role)
	}
}
