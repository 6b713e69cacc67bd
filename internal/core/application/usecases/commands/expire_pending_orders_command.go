package commands

import (
	"errors"
	"time"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrExpirePendingOrdersCommandIsNotConstructed = errors.New(
	"ExpirePendingOrdersCommand must be created via NewExpirePendingOrdersCommand constructor",
)

// ExpirePendingOrdersCommand cancels orders left unpaid for longer than maxAge.
type ExpirePendingOrdersCommand struct { //nolint:recvcheck //using for validation
	maxAge    time.Duration
	batchSize int

	guard guard.ConstructorGuard
}

func NewExpirePendingOrdersCommand(maxAge time.Duration, batchSize int) (ExpirePendingOrdersCommand, error) {
	if maxAge <= 0 {
		return ExpirePendingOrdersCommand{}, errs.NewValueIsOutOfRangeError("max age", maxAge, "1ns", "unbounded")
	}
	if batchSize <= 0 {
		return ExpirePendingOrdersCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}
	return ExpirePendingOrdersCommand{
		maxAge:    maxAge,
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ExpirePendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrExpirePendingOrdersCommandIsNotConstructed)
}

func (c ExpirePendingOrdersCommand) MaxAge() time.Duration { return c.maxAge }
func (c ExpirePendingOrdersCommand) BatchSize() int        { return c.batchSize }
