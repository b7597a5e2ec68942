package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hotelply/marketplace/refund-engine/internal/models"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) InitDB() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id VARCHAR(64) PRIMARY KEY,
			hotel_id VARCHAR(64) NOT NULL,
			total_amount NUMERIC(12,2) NOT NULL,
			payment_method VARCHAR(32) NOT NULL,
			status VARCHAR(16) NOT NULL DEFAULT 'placed',
			cancelled_by VARCHAR(16),
			payment_status VARCHAR(16) NOT NULL DEFAULT 'pending',
			payment_id VARCHAR(64),
			placed_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS order_sellers (
			order_id VARCHAR(64) NOT NULL,
			seller_id VARCHAR(64) NOT NULL,
			PRIMARY KEY (order_id, seller_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

func (r *OrderRepository) Load(ctx context.Context, id string) (*models.Order, error) {
	var (
		o           models.Order
		cancelledBy sql.NullString
		paymentID   sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, hotel_id, total_amount, payment_method, status,
		       cancelled_by, payment_status, payment_id, placed_at, updated_at
		FROM orders WHERE id = $1
	`, id).Scan(&o.ID, &o.HotelID, &o.TotalAmount, &o.PaymentMethod, &o.Status,
		&cancelledBy, &o.PaymentStatus, &paymentID, &o.PlacedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	o.CancelledBy = models.Role(cancelledBy.String)
	o.PaymentID = paymentID.String
	return &o, nil
}

// CompareAndSetStatus flips the order status only if it still holds the
// expected value, so concurrent cancellations serialize on the row and
// exactly one wins.
func (r *OrderRepository) CompareAndSetStatus(ctx context.Context, id string, expected, next models.OrderStatus, cancelledBy models.Role) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, cancelled_by = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, next, cancelledBy, id, expected)
	if err != nil {
		return 0, fmt.Errorf("transition order status: %w", err)
	}
	return result.RowsAffected()
}

// CompareAndSetPayment settles the order at most once: the guard on both
// payment_status and status makes re-settlement and settling a cancelled
// order lose the race with zero rows affected.
func (r *OrderRepository) CompareAndSetPayment(ctx context.Context, id, paymentID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = 'paid', payment_id = $1, updated_at = NOW()
		WHERE id = $2 AND payment_status = 'pending' AND status = 'placed'
	`, paymentID, id)
	if err != nil {
		return 0, fmt.Errorf("settle order payment: %w", err)
	}
	return result.RowsAffected()
}
