package models

import "time"

type OrderStatus string

const (
	StatusPlaced    OrderStatus = "placed"
	StatusCancelled OrderStatus = "cancelled"
	StatusFulfilled OrderStatus = "fulfilled"
)

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentOnline         PaymentMethod = "online"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Role is the party acting on an order. Hotels place orders, sellers
// supply them; which one is cancelling decides the policy row applied.
type Role string

const (
	RoleHotel  Role = "hotel"
	RoleSeller Role = "seller"
)

type Order struct {
	ID            string        `json:"id"`
	HotelID       string        `json:"hotel_id"`
	TotalAmount   float64       `json:"total_amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        OrderStatus   `json:"status"`
	CancelledBy   Role          `json:"cancelled_by,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentID     string        `json:"payment_id,omitempty"`
	PlacedAt      time.Time     `json:"placed_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Terminal reports whether the order can still change status.
func (o *Order) Terminal() bool {
	return o.Status == StatusCancelled || o.Status == StatusFulfilled
}
