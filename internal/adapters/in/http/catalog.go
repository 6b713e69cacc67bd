package http

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/core/application/usecases/commands"
)

// UpsertZone handles PUT /api/v1/zones.
func (s *Server) UpsertZone(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req zoneRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	fee, err := parseMoney("delivery_fee", req.DeliveryFee)
	if err != nil {
		return err
	}
	threshold, err := parseOptionalMoney("free_delivery_threshold", req.FreeDeliveryThreshold)
	if err != nil {
		return err
	}
	active := req.IsActive == nil || *req.IsActive

	cmd, err := commands.NewUpsertZoneCommand(actor, req.Name, req.Localities, fee, threshold, req.EstimatedDays, active)
	if err != nil {
		return err
	}
	if err := s.h.UpsertZone.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	z := cmd.Zone()
	return ok(c, map[string]any{
		"name":           z.Name(),
		"localities":     z.Localities(),
		"delivery_fee":   fee,
		"estimated_days": req.EstimatedDays,
		"is_active":      active,
	})
}

// UpsertExchangeRate handles PUT /api/v1/exchange-rates.
func (s *Server) UpsertExchangeRate(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req exchangeRateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	rate, err := parseDecimal("rate", req.Rate)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpsertExchangeRateCommand(actor, req.Currency, rate)
	if err != nil {
		return err
	}
	if err := s.h.UpsertRate.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, map[string]any{"currency": cmd.Target(), "rate": cmd.Rate().String()})
}
