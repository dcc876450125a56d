/*
errors.go - Centralized error types for the engine core

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages should wrap these errors with additional context.

  Note the split with severity.go: Go errors here are INFRASTRUCTURE
  failures (storage, malformed input at the boundary). Domain outcomes
  like ratio breaches are severities on result objects, never errors.

USAGE:
  Domain packages can wrap generic errors:

    if errors.Is(err, generic.ErrDuplicateIdempotencyKey) {
        // retry-safe, already recorded
    }

SEE ALSO:
  - ledger.go: Uses these errors
  - store.go: Uses these errors
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDuplicateIdempotencyKey is returned when a transaction with the same
	// idempotency key already exists. This is expected behavior for retries.
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

	// ErrTransactionFailed is returned when a transaction cannot be persisted.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrWorkerNotFound is returned when a referenced worker doesn't exist.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrUnknownJurisdiction is returned when a state code has no statutory
	// rule definition.
	ErrUnknownJurisdiction = errors.New("unknown jurisdiction")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ClockParseError reports a malformed "HH:MM" clock string. Raised only at
// the input boundary; validated ClockTime values never re-surface it.
type ClockParseError struct {
	Input string
}

func (e *ClockParseError) Error() string {
	return fmt.Sprintf("malformed clock time %q: want HH:MM in 24-hour form", e.Input)
}

// DuplicateTransactionError provides details about an idempotency collision.
type DuplicateTransactionError struct {
	WorkerID       WorkerID
	IdempotencyKey string
}

func (e *DuplicateTransactionError) Error() string {
	return fmt.Sprintf("transaction already recorded for %s (key: %s)",
		e.WorkerID, e.IdempotencyKey)
}

func (e *DuplicateTransactionError) Unwrap() error {
	return ErrDuplicateIdempotencyKey
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	var clockErr *ClockParseError
	return errors.Is(err, ErrDuplicateIdempotencyKey) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrUnknownJurisdiction) ||
		errors.As(err, &clockErr)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWorkerNotFound)
}
