package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/hotelply/marketplace/refund-engine/internal/models"
)

const sendSubject = "notification.send"

type sendRequest struct {
	TemplateID string                `json:"template_id"`
	Order      *models.Order         `json:"order"`
	Decision   models.RefundDecision `json:"decision"`
}

type sendResponse struct {
	Sent bool `json:"sent"`
}

// NatsNotifier asks the notification service to dispatch an email over
// request/reply. A timeout or negative reply is reported to the caller
// but never fails the operation that triggered it.
type NatsNotifier struct {
	nc      *nats.Conn
	timeout time.Duration
}

func NewNatsNotifier(nc *nats.Conn, timeout time.Duration) *NatsNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NatsNotifier{nc: nc, timeout: timeout}
}

func (n *NatsNotifier) Send(ctx context.Context, templateID string, order *models.Order, decision models.RefundDecision) (bool, error) {
	req := sendRequest{TemplateID: templateID, Order: order, Decision: decision}
	data, err := json.Marshal(req)
	if err != nil {
		return false, err
	}

	timeout := n.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	msg, err := n.nc.Request(sendSubject, data, timeout)
	if err != nil {
		return false, err
	}

	var resp sendResponse
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return false, err
	}
	return resp.Sent, nil
}
