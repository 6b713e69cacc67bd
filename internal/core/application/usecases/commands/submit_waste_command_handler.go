package commands

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/waste"
)

// SubmitWasteCommandHandler stores a pending waste entry. Stock is not touched
// until an admin approves it.
type SubmitWasteCommandHandler struct {
	uowFactory WasteUoWFactory
}

func NewSubmitWasteCommandHandler(uowFactory WasteUoWFactory) SubmitWasteCommandHandler {
	return SubmitWasteCommandHandler{uowFactory: uowFactory}
}

func (h *SubmitWasteCommandHandler) Handle(ctx context.Context, cmd SubmitWasteCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.ProductRepository().Get(ctx, cmd.ProductID()); err != nil {
		return kernel.UUID{}, err
	}

	entry, err := waste.Submit(kernel.NewUUID(), cmd.ProductID(), cmd.Actor(),
		cmd.Quantity(), cmd.Reason(), cmd.Notes(), cmd.UnitCost(), now())
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = uow.WasteRepository().Add(ctx, entry); err != nil {
		return kernel.UUID{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}
	return entry.ID(), nil
}
