package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront/internal/core/domain/model/currency"
	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/waste"
	"storefront/internal/core/domain/model/zone"
	"storefront/internal/generated/servers"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/logger"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{zone.ErrZoneNotServiced, http.StatusUnprocessableEntity, "zone_not_serviced"},
	{currency.ErrUnsupportedCurrency, http.StatusUnprocessableEntity, "unsupported_currency"},
	{inventory.ErrInsufficientStock, http.StatusUnprocessableEntity, "insufficient_stock"},
	{order.ErrInvalidTransition, http.StatusUnprocessableEntity, "invalid_transition"},
	{order.ErrPaymentAlreadyCompleted, http.StatusUnprocessableEntity, "payment_already_completed"},
	{waste.ErrAlreadyDecided, http.StatusUnprocessableEntity, "already_decided"},
	{kernel.ErrUnauthorizedActor, http.StatusForbidden, "unauthorized_actor"},
	{errs.ErrObjectNotFound, http.StatusNotFound, "not_found"},
	{errs.ErrConcurrencyConflict, http.StatusConflict, "conflict"},
	{errs.ErrValueIsRequired, http.StatusBadRequest, "value_required"},
	{errs.ErrValueIsInvalid, http.StatusBadRequest, "value_invalid"},
	{errs.ErrValueIsOutOfRange, http.StatusBadRequest, "value_out_of_range"},
}

// classify maps an error to its HTTP status and envelope code.
func classify(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}

	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		return http.StatusBadRequest, "validation_failed"
	}

	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		return herr.Code, strings.ToLower(strings.ReplaceAll(http.StatusText(herr.Code), " ", "_"))
	}
	return http.StatusInternalServerError, "internal"
}

// ErrorHandler renders every error returned by a handler as an envelope.
// Internal errors are logged and their message hidden.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, code := classify(err)
	message := err.Error()

	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		if msg, isString := herr.Message.(string); isString {
			message = msg
		}
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request().Context()).Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		message = http.StatusText(status)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, servers.Envelope{Error: &servers.Error{Code: code, Message: message}})
	}
	if err != nil {
		logger.FromContext(c.Request().Context()).Warn("write error response", zap.Error(err))
	}
}
