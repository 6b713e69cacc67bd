package commands

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/currency"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/guard"
)

var ErrRecordPaymentCommandIsNotConstructed = errors.New(
	"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
)

// GatewayResult is a payment gateway callback, already verified by the
// gateway integration.
type GatewayResult struct {
	Gateway       order.Gateway
	TransactionID string
	Amount        kernel.Money
	Currency      string
	Status        order.PaymentStatus
	Response      []byte
}

// RecordPaymentCommand stores a gateway result against an order.
type RecordPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	result   GatewayResult
	currency currency.Code

	guard guard.ConstructorGuard
}

func NewRecordPaymentCommand(orderID kernel.UUID, result GatewayResult) (RecordPaymentCommand, error) {
	code, codeErr := currency.ParseCode(result.Currency)
	_, gatewayErr := order.ParseGateway(string(result.Gateway))
	_, statusErr := order.ParsePaymentStatus(string(result.Status))
	if err := errors.Join(orderID.Validate(), codeErr, gatewayErr, statusErr); err != nil {
		return RecordPaymentCommand{}, err
	}
	result.TransactionID = strings.TrimSpace(result.TransactionID)
	return RecordPaymentCommand{
		orderID:  orderID,
		result:   result,
		currency: code,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}

func (c RecordPaymentCommand) OrderID() kernel.UUID    { return c.orderID }
func (c RecordPaymentCommand) Result() GatewayResult   { return c.result }
func (c RecordPaymentCommand) Currency() currency.Code { return c.currency }
