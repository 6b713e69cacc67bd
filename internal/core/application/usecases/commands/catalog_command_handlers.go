package commands

import (
	"context"
)

// UpsertZoneCommandHandler writes a delivery zone.
type UpsertZoneCommandHandler struct {
	uowFactory CatalogUoWFactory
}

// NewUpsertZoneCommandHandler creates the handler used by the admin zone endpoint.
func NewUpsertZoneCommandHandler(uowFactory CatalogUoWFactory) UpsertZoneCommandHandler {
	return UpsertZoneCommandHandler{uowFactory: uowFactory}
}

func (h *UpsertZoneCommandHandler) Handle(ctx context.Context, cmd UpsertZoneCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return inCatalogTx(ctx, h.uowFactory, func(uow CatalogUoW) error {
		return uow.ZoneRepository().Upsert(ctx, cmd.Zone())
	})
}

// UpsertExchangeRateCommandHandler writes an exchange rate.
type UpsertExchangeRateCommandHandler struct {
	uowFactory CatalogUoWFactory
}

func NewUpsertExchangeRateCommandHandler(uowFactory CatalogUoWFactory) UpsertExchangeRateCommandHandler {
	return UpsertExchangeRateCommandHandler{uowFactory: uowFactory}
}

func (h *UpsertExchangeRateCommandHandler) Handle(ctx context.Context, cmd UpsertExchangeRateCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return inCatalogTx(ctx, h.uowFactory, func(uow CatalogUoW) error {
		return uow.ExchangeRateRepository().Upsert(ctx, cmd.Target(), cmd.Rate(), now())
	})
}

func inCatalogTx(ctx context.Context, factory CatalogUoWFactory, fn func(uow CatalogUoW) error) error {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
