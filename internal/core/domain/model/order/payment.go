package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/core/domain/model/currency"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

var (
	ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment or RestorePayment")

	// ErrPaymentAlreadyCompleted is returned when an order already has a completed payment.
	ErrPaymentAlreadyCompleted = errors.New("order already has a completed payment")
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch st := PaymentStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return st, nil
	}
	return "", errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%q is not a payment status", s))
}

type Gateway string

const (
	GatewayStripe   Gateway = "stripe"
	GatewayPayPal   Gateway = "paypal"
	GatewayAfterpay Gateway = "afterpay"
	GatewayCash     Gateway = "cash"
)

func ParseGateway(s string) (Gateway, error) {
	switch g := Gateway(strings.ToLower(strings.TrimSpace(s))); g {
	case GatewayStripe, GatewayPayPal, GatewayAfterpay, GatewayCash:
		return g, nil
	}
	return "", errs.NewValueIsInvalidErrorWithCause("payment gateway", fmt.Errorf("%q is not a gateway", s))
}

// Payment is one gateway attempt against an order. The raw gateway response is
// kept as opaque bytes.
type Payment struct {
	id            kernel.UUID
	orderID       kernel.UUID
	gateway       Gateway
	transactionID string
	amount        kernel.Money
	currency      currency.Code
	status        PaymentStatus
	response      []byte
	createdAt     time.Time
	updatedAt     time.Time

	isConstructed bool
}

// NewPayment records a gateway result. Refunded is not a valid initial status.
func NewPayment(
	id, orderID kernel.UUID,
	gateway Gateway,
	transactionID string,
	amount kernel.Money,
	code currency.Code,
	status PaymentStatus,
	response []byte,
	at time.Time,
) (*Payment, error) {
	if status == PaymentRefunded {
		return nil, errs.NewValueIsInvalidErrorWithCause("payment status", errors.New("a new payment cannot be refunded"))
	}
	return RestorePayment(id, orderID, gateway, transactionID, amount, code, status, response, at, at)
}

// RestorePayment rebuilds a persisted payment.
func RestorePayment(
	id, orderID kernel.UUID,
	gateway Gateway,
	transactionID string,
	amount kernel.Money,
	code currency.Code,
	status PaymentStatus,
	response []byte,
	createdAt, updatedAt time.Time,
) (*Payment, error) {
	var txErr error
	if status == PaymentCompleted && strings.TrimSpace(transactionID) == "" {
		txErr = errs.NewValueIsRequiredError("transaction id")
	}
	_, gatewayErr := ParseGateway(string(gateway))
	_, statusErr := ParsePaymentStatus(string(status))
	_, codeErr := currency.ParseCode(string(code))

	if err := errors.Join(id.Validate(), orderID.Validate(), gatewayErr, statusErr, codeErr, txErr); err != nil {
		return nil, err
	}
	return &Payment{
		id:            id,
		orderID:       orderID,
		gateway:       gateway,
		transactionID: strings.TrimSpace(transactionID),
		amount:        amount,
		currency:      code,
		status:        status,
		response:      response,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}, nil
}

func (p *Payment) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPaymentIsNotConstructed
	}
	return nil
}

func (p *Payment) ID() kernel.UUID         { return p.id }
func (p *Payment) OrderID() kernel.UUID    { return p.orderID }
func (p *Payment) Gateway() Gateway        { return p.gateway }
func (p *Payment) TransactionID() string   { return p.transactionID }
func (p *Payment) Amount() kernel.Money    { return p.amount }
func (p *Payment) Currency() currency.Code { return p.currency }
func (p *Payment) Status() PaymentStatus   { return p.status }
func (p *Payment) Response() []byte        { return p.response }
func (p *Payment) CreatedAt() time.Time    { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time    { return p.updatedAt }

// Refund moves a completed payment to refunded.
func (p *Payment) Refund(at time.Time) error {
	if p.status != PaymentCompleted {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment status",
			fmt.Errorf("only completed payments can be refunded, payment is %s", p.status),
		)
	}
	p.status = PaymentRefunded
	p.updatedAt = at
	return nil
}

// EnsureCanRecord rejects a second completed payment for the same order.
func EnsureCanRecord(existing []*Payment, incoming *Payment) error {
	if incoming.status != PaymentCompleted {
		return nil
	}
	for _, p := range existing {
		if p.status == PaymentCompleted {
			return fmt.Errorf("%w: %s", ErrPaymentAlreadyCompleted, p.transactionID)
		}
	}
	return nil
}

// CompletedPayment returns the completed payment, if any.
func CompletedPayment(payments []*Payment) *Payment {
	for _, p := range payments {
		if p.status == PaymentCompleted {
			return p
		}
	}
	return nil
}
