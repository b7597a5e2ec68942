package models

import "time"

type AttemptOutcome string

const (
	AttemptPending  AttemptOutcome = "pending"
	AttemptAccepted AttemptOutcome = "accepted"
	AttemptDeclined AttemptOutcome = "declined"
)

// PaymentAttempt is the ephemeral record of one gateway session. It lives
// only inside the simulator; once the terminal outcome has been reported
// to verification it is discarded.
type PaymentAttempt struct {
	OrderID     string         `json:"order_id"`
	Method      string         `json:"method"`
	Outcome     AttemptOutcome `json:"outcome"`
	ReferenceID string         `json:"reference_id,omitempty"`
	Signature   string         `json:"signature,omitempty"`
}

// Event payloads published to Kafka after a committed state change.

type OrderCancelledEvent struct {
	EventID     string         `json:"event_id"`
	OrderID     string         `json:"order_id"`
	CancelledBy Role           `json:"cancelled_by"`
	Decision    RefundDecision `json:"decision"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

type RefundIssuedEvent struct {
	EventID    string     `json:"event_id"`
	OrderID    string     `json:"order_id"`
	RefundKind RefundKind `json:"refund_kind"`
	Amount     float64    `json:"amount"`
	Timeline   string     `json:"timeline"`
	OccurredAt time.Time  `json:"occurred_at"`
}

type DiscountGrantedEvent struct {
	EventID    string    `json:"event_id"`
	OrderID    string    `json:"order_id"`
	GrantedTo  Role      `json:"granted_to"`
	Percent    int       `json:"percent"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PaymentSettledEvent struct {
	EventID    string    `json:"event_id"`
	OrderID    string    `json:"order_id"`
	PaymentID  string    `json:"payment_id"`
	Method     string    `json:"method"`
	OccurredAt time.Time `json:"occurred_at"`
}
