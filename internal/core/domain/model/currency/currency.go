// Package currency holds the supported order currencies and the rate snapshot
// locked onto each order at checkout.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrUnsupportedCurrency is returned for unknown codes and for codes without a rate.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// rateScale matches the decimal(10,6) rate column.
const rateScale = 6

// Code is an ISO 4217 code from the closed set the storefront sells in.
type Code string

const (
	AUD Code = "AUD"
	NZD Code = "NZD"
	USD Code = "USD"
	GBP Code = "GBP"
	EUR Code = "EUR"
)

// Base is the catalogue currency. Prices, fees and thresholds are stored in it.
const Base = AUD

// Codes lists every supported code.
func Codes() []Code {
	return []Code{AUD, NZD, USD, GBP, EUR}
}

// ParseCode accepts any supported code, case-insensitively.
func ParseCode(s string) (Code, error) {
	c := Code(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case AUD, NZD, USD, GBP, EUR:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, s)
}

func (c Code) String() string { return string(c) }

// Rate is the number of target units per AUD.
type Rate struct {
	value decimal.Decimal
}

// One is the identity rate used for AUD orders.
var One = Rate{value: decimal.NewFromInt(1)}

// NewRate rounds to six places and rejects non-positive rates.
func NewRate(value decimal.Decimal) (Rate, error) {
	rounded := value.Round(rateScale)
	if !rounded.IsPositive() {
		return Rate{}, errs.NewValueIsInvalidErrorWithCause(
			"exchange rate",
			fmt.Errorf("%s is not positive", value.String()),
		)
	}
	return Rate{value: rounded}, nil
}

func (r Rate) Decimal() decimal.Decimal { return r.value }
func (r Rate) String() string           { return r.value.StringFixed(rateScale) }

// Snapshot is a currency and the rate locked for it. It is copied onto the order
// and never re-read from the rate table.
type Snapshot struct {
	code Code
	rate Rate
}

// NewSnapshot pairs a code with its rate. AUD always carries rate 1.
func NewSnapshot(code Code, rate Rate) (Snapshot, error) {
	if _, err := ParseCode(string(code)); err != nil {
		return Snapshot{}, err
	}
	if rate.value.IsZero() {
		return Snapshot{}, errs.NewValueIsRequiredError("exchange rate")
	}
	if code == Base && !rate.value.Equal(One.value) {
		return Snapshot{}, errs.NewValueIsInvalidErrorWithCause(
			"exchange rate",
			fmt.Errorf("%s must be 1 for %s", rate, Base),
		)
	}
	return Snapshot{code: code, rate: rate}, nil
}

// BaseSnapshot is the AUD snapshot.
func BaseSnapshot() Snapshot {
	return Snapshot{code: Base, rate: One}
}

func (s Snapshot) Code() Code { return s.code }
func (s Snapshot) Rate() Rate { return s.rate }

// Convert turns an AUD amount into the snapshot currency, rounded to cents.
func (s Snapshot) Convert(amount kernel.Money) kernel.Money {
	if s.code == Base {
		return amount
	}
	return amount.Convert(s.rate.value)
}
