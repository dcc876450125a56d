/*
store.go - Persistence interface for ledger transactions

PURPOSE:
  Defines the interface between the leave ledger and the database.
  The Store handles persistence while maintaining append-only semantics.
  Different implementations can use SQLite, PostgreSQL, or in-memory
  storage.

APPEND-ONLY CONTRACT:
  The Store interface enforces append-only semantics:
  - Append(): Single transaction write
  - AppendBatch(): Atomic multi-transaction write
  - NO Update() or Delete() methods exist

  Balances are derived running totals; the transaction history is the
  source of truth and is never rewritten. Corrections are reversal
  transactions.

IDEMPOTENCY:
  Every write may carry an idempotency key. If the key already exists,
  the write is rejected. This prevents duplicate postings from payroll
  retries or user double-clicks.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - ledger.go: Higher-level interface using Store
*/
package generic

import "context"

// =============================================================================
// STORE - Interface for transaction persistence (append-only)
// =============================================================================

// Store handles persistence of ledger transactions.
// IMPORTANT: Store is APPEND-ONLY. No Update, No Delete. Ever.
type Store interface {
	// Append persists a transaction. Returns error if idempotency key exists.
	// This is the ONLY write operation.
	Append(ctx context.Context, tx Transaction) error

	// AppendBatch persists multiple transactions atomically.
	// Either all succeed or none do.
	AppendBatch(ctx context.Context, txs []Transaction) error

	// Load returns all transactions for worker+entitlement, ordered by
	// EffectiveAt.
	Load(ctx context.Context, workerID WorkerID, ent Entitlement) ([]Transaction, error)

	// LoadRange returns transactions in [from, to].
	LoadRange(ctx context.Context, workerID WorkerID, ent Entitlement, from, to TimePoint) ([]Transaction, error)

	// LoadByWorker returns ALL transactions for a worker across every
	// entitlement in [from, to]. Used for the payroll ledger view.
	LoadByWorker(ctx context.Context, workerID WorkerID, from, to TimePoint) ([]Transaction, error)

	// Exists checks if idempotency key already exists.
	Exists(ctx context.Context, idempotencyKey string) (bool, error)
}
