package kernel

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/pkg/errs"

	"github.com/ttacon/libphonenumber"
)

// DefaultPhoneRegion is used to parse contact numbers written without a country code.
const DefaultPhoneRegion = "AU"

// Address is a delivery destination. Zones are matched on Suburb or Postcode;
// no geocoding is ever performed.
type Address struct {
	street   string
	suburb   string
	postcode string
	phone    string
}

// NewAddress validates the address and normalises the contact phone to E.164.
// An empty phone is allowed.
func NewAddress(street, suburb, postcode, phone string) (Address, error) {
	a := Address{
		street:   strings.TrimSpace(street),
		suburb:   strings.TrimSpace(suburb),
		postcode: strings.TrimSpace(postcode),
	}

	var errList []error
	if a.street == "" {
		errList = append(errList, errs.NewValueIsRequiredError("street"))
	}
	if a.suburb == "" && a.postcode == "" {
		errList = append(errList, errs.NewValueIsRequiredError("suburb or postcode"))
	}
	normalized, err := NormalizePhone(phone)
	if err != nil {
		errList = append(errList, err)
	}
	a.phone = normalized

	if err = errors.Join(errList...); err != nil {
		return Address{}, err
	}
	return a, nil
}

// NormalizePhone parses a number in DefaultPhoneRegion and formats it as E.164.
func NormalizePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", nil
	}
	parsed, err := libphonenumber.Parse(phone, DefaultPhoneRegion)
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause("phone", err)
	}
	if !libphonenumber.IsValidNumber(parsed) {
		return "", errs.NewValueIsInvalidErrorWithCause("phone", fmt.Errorf("%q is not a valid number", phone))
	}
	return libphonenumber.Format(parsed, libphonenumber.E164), nil
}

func (a Address) Street() string   { return a.street }
func (a Address) Suburb() string   { return a.suburb }
func (a Address) Postcode() string { return a.postcode }
func (a Address) Phone() string    { return a.phone }

func (a Address) IsZero() bool {
	return a == Address{}
}
