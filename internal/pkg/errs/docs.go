// Package errs provides the standardized error types shared by every layer of the
// storefront service.
//
// The package includes:
//   - ValueIsRequiredError: a mandatory value is missing
//   - ValueIsInvalidError: a value breaks a domain rule
//   - ValueIsOutOfRangeError: a value falls outside an allowed range
//   - ObjectNotFoundError: a lookup by identifier matched nothing
//   - ConcurrencyConflictError: a versioned row changed underneath a transaction
//
// Each type pairs with a sentinel (ErrValueIsRequired, ErrObjectNotFound, ...)
// returned from Unwrap, so callers classify failures with errors.Is and the HTTP
// adapter maps them to status codes without string matching.
//
// ErrConcurrencyConflict is the only retryable kind: command handlers rerun the
// whole unit of work a bounded number of times before surfacing it.
package errs
