// Package order implements the order aggregate and its state machine.
//
// The package includes:
//   - Order: the aggregate root tracking totals, the locked currency, fulfilment
//     details, staff assignment, delivery issues and status
//   - Status: the closed status enum with an explicit adjacency table per
//     delivery method
//   - HistoryEntry and Assignment: append-only audit rows
//   - DeliveryProof: immutable proof captured on delivery
//   - Payment: gateway attempts, at most one of them completed
//
// Role guards return kernel.ErrUnauthorizedActor; illegal moves return
// ErrInvalidTransition. A rejected call leaves the order untouched.
package order
