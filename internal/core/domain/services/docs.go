// Package services provides domain services that work across aggregates.
//
// The package includes:
//   - ZoneResolver: matches a delivery address to a zone and prices delivery
//   - CurrencySnapshotter: locks the exchange rate for a new order
//   - InventoryLedger: applies stock movements to several products all-or-nothing
package services
