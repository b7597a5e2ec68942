package models

type RefundKind string

const (
	RefundNone               RefundKind = "none"
	RefundCompensationCredit RefundKind = "compensation_credit"
	RefundImmediate          RefundKind = "immediate_refund"
	RefundStandard           RefundKind = "standard_refund"
)

// RefundDecision is the resolver's verdict for one cancellation attempt.
// It is returned to the caller alongside the updated order and is never
// persisted on its own.
type RefundDecision struct {
	Eligible        bool       `json:"eligible"`
	RefundKind      RefundKind `json:"refund_kind"`
	RefundAmount    float64    `json:"refund_amount"`
	DiscountPercent int        `json:"discount_percent"`
	TimelineLabel   string     `json:"timeline_label,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	HoursSinceOrder float64    `json:"hours_since_order"`
}
