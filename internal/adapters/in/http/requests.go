package http

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

const dateLayout = time.DateOnly

type quoteRequest struct {
	Suburb   string `json:"suburb"`
	Postcode string `json:"postcode"`
	Subtotal string `json:"subtotal" validate:"required,numeric"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
	Pickup   bool   `json:"pickup"`
}

type addressBody struct {
	Street   string `json:"street"`
	Suburb   string `json:"suburb"`
	Postcode string `json:"postcode"`
	Phone    string `json:"phone"`
}

type orderLine struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"   validate:"gte=1"`
	UnitPrice string    `json:"unit_price" validate:"required,numeric"`
}

type newOrderRequest struct {
	Items         []orderLine  `json:"items"          validate:"required,min=1,dive"`
	Method        string       `json:"method"         validate:"required,oneof=delivery pickup"`
	Address       *addressBody `json:"address"`
	Currency      string       `json:"currency"       validate:"omitempty,len=3"`
	Discount      string       `json:"discount"       validate:"omitempty,numeric"`
	PromoCode     string       `json:"promo_code"`
	ScheduledDate string       `json:"scheduled_date" validate:"omitempty,datetime=2006-01-02"`
	TimeSlot      string       `json:"time_slot"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

type assignmentRequest struct {
	StaffID uuid.UUID `json:"staff_id" validate:"required"`
	Reason  string    `json:"reason"`
}

type issueRequest struct {
	Report string `json:"report" validate:"required"`
}

type resolutionRequest struct {
	Resolution string `json:"resolution" validate:"required"`
}

type deliveryRequest struct {
	SignatureKey  string `json:"signature_key"`
	PhotoKey      string `json:"photo_key"`
	RecipientName string `json:"recipient_name"`
	LeftAtDoor    bool   `json:"left_at_door"`
}

type paymentRequest struct {
	Gateway       string          `json:"gateway"        validate:"required"`
	TransactionID string          `json:"transaction_id" validate:"required"`
	Amount        string          `json:"amount"         validate:"required,numeric"`
	Currency      string          `json:"currency"       validate:"required,len=3"`
	Status        string          `json:"status"         validate:"required"`
	Response      json.RawMessage `json:"response"`
}

type movementRequest struct {
	Type      string `json:"type"     validate:"required,oneof=addition deduction adjustment"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
	Reason    string `json:"reason"   validate:"required"`
	Reference string `json:"reference"`
}

type wasteRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"   validate:"gte=1"`
	Reason    string    `json:"reason"     validate:"required"`
	Notes     string    `json:"notes"`
	UnitCost  string    `json:"unit_cost"  validate:"required,numeric"`
}

type decisionRequest struct {
	Approve *bool  `json:"approve" validate:"required"`
	Notes   string `json:"notes"`
}

type zoneRequest struct {
	Name                  string   `json:"name"                    validate:"required"`
	Localities            []string `json:"localities"              validate:"required,min=1"`
	DeliveryFee           string   `json:"delivery_fee"            validate:"required,numeric"`
	FreeDeliveryThreshold string   `json:"free_delivery_threshold" validate:"omitempty,numeric"`
	EstimatedDays         int      `json:"estimated_days"          validate:"gte=0"`
	IsActive              *bool    `json:"is_active"`
}

type exchangeRateRequest struct {
	Currency string `json:"currency" validate:"required,len=3"`
	Rate     string `json:"rate"     validate:"required,numeric"`
}

func parseMoney(field, s string) (kernel.Money, error) {
	m, err := kernel.MoneyFromString(s)
	if err != nil {
		return kernel.Money{}, errs.NewValueIsInvalidErrorWithCause(field, err)
	}
	return m, nil
}

// parseOptionalMoney returns nil for an empty string.
func parseOptionalMoney(field, s string) (*kernel.Money, error) {
	if s == "" {
		return nil, nil //nolint:nilnil // absent amount
	}
	m, err := parseMoney(field, s)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errs.NewValueIsInvalidErrorWithCause(field, err)
	}
	return d, nil
}

func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil //nolint:nilnil // absent date
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(field, err)
	}
	return &t, nil
}

func toKernelID(id uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromGoogle(id)
}
