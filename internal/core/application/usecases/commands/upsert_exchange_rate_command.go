package commands

import (
	"errors"

	"github.com/shopspring/decimal"

	"storefront/internal/core/domain/model/currency"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrUpsertExchangeRateCommandIsNotConstructed = errors.New(
	"UpsertExchangeRateCommand must be created via NewUpsertExchangeRateCommand constructor",
)

// UpsertExchangeRateCommand stores the AUD rate for a supported currency.
// Orders already placed keep the rate they were locked at.
type UpsertExchangeRateCommand struct { //nolint:recvcheck //using for validation
	target currency.Code
	rate   currency.Rate

	guard guard.ConstructorGuard
}

func NewUpsertExchangeRateCommand(actor kernel.Actor, target string, rate decimal.Decimal) (UpsertExchangeRateCommand, error) {
	if !actor.IsAdmin() && !actor.IsSystem() {
		return UpsertExchangeRateCommand{}, actor.Unauthorized("manage exchange rates")
	}
	code, err := currency.ParseCode(target)
	if err != nil {
		return UpsertExchangeRateCommand{}, err
	}
	if code == currency.Base {
		return UpsertExchangeRateCommand{}, errs.NewValueIsInvalidErrorWithCause("target currency",
			errors.New("the base currency always has rate 1"))
	}
	r, err := currency.NewRate(rate)
	if err != nil {
		return UpsertExchangeRateCommand{}, err
	}
	return UpsertExchangeRateCommand{target: code, rate: r, guard: guard.NewConstructorGuard()}, nil
}

func (c UpsertExchangeRateCommand) Validate() error {
	return c.guard.Validate(ErrUpsertExchangeRateCommandIsNotConstructed)
}

func (c UpsertExchangeRateCommand) Target() currency.Code { return c.target }
func (c UpsertExchangeRateCommand) Rate() currency.Rate   { return c.rate }
