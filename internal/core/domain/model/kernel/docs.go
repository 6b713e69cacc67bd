// Package kernel provides the value objects shared by every storefront aggregate.
//
// The package includes:
//   - UUID: identifiers, ordered bytewise for deterministic row locking
//   - Money: non-negative two-decimal amounts backed by shopspring/decimal
//   - Actor and Role: who is performing an operation, including the system actor
//   - Address: a delivery destination with an E.164 contact phone
//   - Event and EventRecorder: domain events collected for the outbox
//
// Values are immutable once constructed; zero values are rejected by Validate
// where a zero value has no meaning.
package kernel
