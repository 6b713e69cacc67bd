package ports

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/waste"
)

type WasteRepository interface {
	Add(ctx context.Context, entry *waste.Entry) error

	GetForUpdate(ctx context.Context, id kernel.UUID) (*waste.Entry, error)

	// Update writes the decision columns. It only matches undecided rows, so a
	// concurrent decision returns waste.ErrAlreadyDecided.
	Update(ctx context.Context, entry *waste.Entry) error
}
