package gateway

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotelply/marketplace/refund-engine/internal/telemetry"
)

// State of a payment session. success and failed are terminal; failed is
// re-entrant via Retry.
type State string

const (
	StateMethodSelection State = "method_selection"
	StateCardForm        State = "card_form"
	StateUPIForm         State = "upi_form"
	StateBankSelect      State = "netbanking_bank_select"
	StateBankLogin       State = "netbanking_login"
	StateProcessing      State = "processing"
	StateSuccess         State = "success"
	StateFailed          State = "failed"
	StateClosed          State = "closed"
)

// DeclineReason is the fixed reason attached to every declined attempt.
const DeclineReason = "declined by issuer: credentials not recognized"

var (
	ErrInvalidTransition = errors.New("action not allowed in current gateway state")
	ErrSessionFinished   = errors.New("payment session already reached a terminal state")
)

// ValidationError reports a missing required field; the machine stays in
// its current state so the payer can resubmit.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

type CardDetails struct {
	Number     string `json:"number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	HolderName string `json:"holder_name"`
}

// Result is what a successful session reports upward to verification.
type Result struct {
	OrderID     string `json:"order_id"`
	Method      Method `json:"method"`
	ReferenceID string `json:"reference_id"`
	Signature   string `json:"signature,omitempty"`
}

// Machine is one payment session walked from method selection to a
// terminal outcome. It is owned entirely by the requesting client, holds
// no shared state, and never touches the order store; only verification
// does. The two simulated delays model gateway round-trips and are
// injectable so tests run synchronously.
type Machine struct {
	registry *Registry
	orderID  string

	state  State
	method Method
	bankID string

	result        *Result
	declineReason string

	submitDelay time.Duration
	settleDelay time.Duration
	sleep       func(time.Duration)
	sign        func(orderID, referenceID string) string
}

type Option func(*Machine)

// WithDelays sets the two simulated round-trip delays.
func WithDelays(submit, settle time.Duration) Option {
	return func(m *Machine) {
		m.submitDelay = submit
		m.settleDelay = settle
	}
}

// WithSleep replaces the wait function, letting tests use virtual time.
func WithSleep(sleep func(time.Duration)) Option {
	return func(m *Machine) { m.sleep = sleep }
}

// WithSigner attaches a signature generator for successful attempts.
func WithSigner(sign func(orderID, referenceID string) string) Option {
	return func(m *Machine) { m.sign = sign }
}

func NewMachine(orderID string, registry *Registry, opts ...Option) *Machine {
	m := &Machine{
		registry:    registry,
		orderID:     orderID,
		state:       StateMethodSelection,
		submitDelay: time.Second,
		settleDelay: 1500 * time.Millisecond,
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) State() State    { return m.state }
func (m *Machine) OrderID() string { return m.orderID }

// Result returns the success payload, nil unless state is success.
func (m *Machine) Result() *Result { return m.result }

// DeclineReason returns the decline reason, empty unless state is failed.
func (m *Machine) DeclineReason() string { return m.declineReason }

// SelectMethod moves from method selection into the chosen credential
// entry state.
func (m *Machine) SelectMethod(method Method) error {
	if m.state != StateMethodSelection {
		return ErrInvalidTransition
	}
	switch method {
	case MethodCard:
		m.state = StateCardForm
	case MethodUPI:
		m.state = StateUPIForm
	case MethodNetBanking:
		m.state = StateBankSelect
	default:
		return &ValidationError{Field: "method"}
	}
	m.method = method
	return nil
}

// SelectBank picks one of the configured banks before the login step.
func (m *Machine) SelectBank(bankID string) error {
	if m.state != StateBankSelect {
		return ErrInvalidTransition
	}
	if !m.registry.HasBank(bankID) {
		return &ValidationError{Field: "bank_id"}
	}
	m.bankID = bankID
	m.state = StateBankLogin
	return nil
}

// SubmitCard validates completeness, then runs the attempt to a terminal
// state per the registry's card allow list.
func (m *Machine) SubmitCard(details CardDetails) error {
	if m.state != StateCardForm {
		return ErrInvalidTransition
	}
	required := []struct{ field, value string }{
		{"number", details.Number},
		{"expiry", details.Expiry},
		{"cvv", details.CVV},
		{"holder_name", details.HolderName},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field}
		}
	}
	m.process(m.registry.AcceptCard(details.Number))
	return nil
}

// SubmitUPI validates the handle is present, then runs the attempt.
func (m *Machine) SubmitUPI(handle string) error {
	if m.state != StateUPIForm {
		return ErrInvalidTransition
	}
	if strings.TrimSpace(handle) == "" {
		return &ValidationError{Field: "upi_handle"}
	}
	m.process(m.registry.AcceptUPI(handle))
	return nil
}

// SubmitNetBanking checks the login pair against the selected bank's
// configured credential.
func (m *Machine) SubmitNetBanking(userID, password string) error {
	if m.state != StateBankLogin {
		return ErrInvalidTransition
	}
	if strings.TrimSpace(userID) == "" {
		return &ValidationError{Field: "user_id"}
	}
	if password == "" {
		return &ValidationError{Field: "password"}
	}
	m.process(m.registry.AcceptNetBanking(m.bankID, userID, password))
	return nil
}

// process walks submission through processing to the terminal state. The
// processing state is observable between the two waits, strictly after
// credential submission and strictly before the outcome.
func (m *Machine) process(accepted bool) {
	m.state = StateProcessing
	m.sleep(m.submitDelay)
	m.sleep(m.settleDelay)

	if !accepted {
		m.state = StateFailed
		m.declineReason = DeclineReason
		telemetry.PaymentAttempts.WithLabelValues(string(m.method), "declined").Inc()
		return
	}

	referenceID := "pay_" + uuid.NewString()
	m.result = &Result{
		OrderID:     m.orderID,
		Method:      m.method,
		ReferenceID: referenceID,
	}
	if m.sign != nil {
		m.result.Signature = m.sign(m.orderID, referenceID)
	}
	m.state = StateSuccess
	telemetry.PaymentAttempts.WithLabelValues(string(m.method), "accepted").Inc()
}

// Retry returns a failed session to method selection.
func (m *Machine) Retry() error {
	if m.state != StateFailed {
		return ErrInvalidTransition
	}
	m.state = StateMethodSelection
	m.method = ""
	m.bankID = ""
	m.declineReason = ""
	return nil
}

// Close discards the session at any non-terminal state with no side
// effect on the order. A closed session cannot be resumed; the payer
// opens a new one.
func (m *Machine) Close() error {
	if m.state == StateSuccess || m.state == StateFailed {
		return ErrSessionFinished
	}
	m.state = StateClosed
	m.method = ""
	m.bankID = ""
	m.result = nil
	return nil
}
