package order

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"time"

	"storefront/internal/pkg/errs"
)

const numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var numberPattern = regexp.MustCompile(`^ORD-\d{8}-[A-Z0-9]{6}$`)

// GenerateNumber returns a human readable order number, ORD-YYYYMMDD-XXXXXX.
// Uniqueness is enforced by the database; callers retry on a collision.
func GenerateNumber(at time.Time) string {
	var buf [6]byte
	_, _ = rand.Read(buf[:])
	for i, b := range buf {
		buf[i] = numberAlphabet[int(b)%len(numberAlphabet)]
	}
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("20060102"), buf[:])
}

// ValidateNumber checks the ORD-YYYYMMDD-XXXXXX shape produced by GenerateNumber.
func ValidateNumber(number string) error {
	if !numberPattern.MatchString(number) {
		return errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q does not match ORD-YYYYMMDD-XXXXXX", number))
	}
	return nil
}
