package commands

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/services"
)

// DecideWasteCommandHandler records an admin decision. Approval books a waste
// movement in the same transaction; when stock cannot cover it the whole
// decision is rolled back and the entry stays pending.
type DecideWasteCommandHandler struct {
	uowFactory WasteUoWFactory
	retry      RetryPolicy
	ledger     services.InventoryLedger
}

func NewDecideWasteCommandHandler(uowFactory WasteUoWFactory, retry RetryPolicy) DecideWasteCommandHandler {
	return DecideWasteCommandHandler{
		uowFactory: uowFactory,
		retry:      retry,
		ledger:     services.NewInventoryLedger(),
	}
}

// Handle returns waste.ErrAlreadyDecided for entries that were approved or
// rejected before, and inventory.ErrInsufficientStock when an approval cannot
// be covered.
func (h *DecideWasteCommandHandler) Handle(ctx context.Context, cmd DecideWasteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "DecideWaste")
	defer span.End()
	span.SetAttributes(
		attribute.String("waste.id", cmd.EntryID().String()),
		attribute.Bool("waste.approve", cmd.IsApproval()),
	)

	err := h.retry.Do(ctx, func(ctx context.Context) error {
		return h.decide(ctx, cmd)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (h *DecideWasteCommandHandler) decide(ctx context.Context, cmd DecideWasteCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	wasteRepo := uow.WasteRepository()
	entry, err := wasteRepo.GetForUpdate(ctx, cmd.EntryID())
	if err != nil {
		return err
	}

	at := now()
	if !cmd.IsApproval() {
		if err = entry.Reject(cmd.Actor(), cmd.Notes(), at); err != nil {
			return err
		}
	} else {
		if err = entry.Approve(cmd.Actor(), at); err != nil {
			return err
		}
		m, err := inventory.NewMovement(inventory.Waste, entry.Quantity(), entry.Reason(),
			entry.ID().String(), cmd.Actor().ID())
		if err != nil {
			return err
		}

		productRepo := uow.ProductRepository()
		products, err := productRepo.GetForUpdate(ctx, []kernel.UUID{entry.ProductID()})
		if err != nil {
			return err
		}
		if _, err = h.ledger.Apply(products, []services.StockRequest{
			{ProductID: entry.ProductID(), Movement: m},
		}, at); err != nil {
			return err
		}
		if err = saveProducts(ctx, productRepo, products); err != nil {
			return err
		}
	}

	if err = wasteRepo.Update(ctx, entry); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
