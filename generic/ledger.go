/*
ledger.go - Append-only entitlement transaction log

PURPOSE:
  The Ledger is the immutable source of truth for all balance changes.
  Every accrual, leave taken, adjustment, and reversal is recorded here.
  Balance is always computed by replaying transactions - there's no
  separate "balance" field that can get out of sync.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No Update, No Delete. EVER.
  2. IMMUTABLE: Once written, transactions cannot be modified
  3. AUDITABLE: Every balance change is traceable with full context
  4. IDEMPOTENT: Same idempotency key = same transaction (no duplicates)

CORRECTIONS:
  If a payroll posting is wrong, you don't edit the transaction. Instead:
  1. Create a Reversal transaction (opposite sign)
  2. Both original and reversal remain in the ledger
  3. Net effect is correction, but history is preserved

SEE ALSO:
  - store.go: Low-level persistence interface
  - leave/ledger.go: Domain wrapper deriving LeaveBalance snapshots
*/
package generic

import "context"

// =============================================================================
// LEDGER - Append-only transaction log
// =============================================================================

// Ledger is the source of truth for all balance changes.
//
// INVARIANTS:
//   - Append-only: No Update, No Delete. EVER.
//   - Immutable: Once written, transactions cannot be modified.
//   - Auditable: Every balance change is traceable.
//
// Corrections are made via reversal transactions, not edits.
type Ledger interface {
	// Append adds a transaction. Fails if idempotency key exists.
	// This is the ONLY write operation.
	Append(ctx context.Context, tx Transaction) error

	// AppendBatch adds multiple transactions atomically.
	// Used when posting a pay period (three entitlements = three entries).
	AppendBatch(ctx context.Context, txs []Transaction) error

	// Transactions returns all transactions for worker+entitlement,
	// chronologically. Read-only.
	Transactions(ctx context.Context, workerID WorkerID, ent Entitlement) ([]Transaction, error)

	// TransactionsInRange returns transactions in [from, to]. Read-only.
	TransactionsInRange(ctx context.Context, workerID WorkerID, ent Entitlement, from, to TimePoint) ([]Transaction, error)

	// WorkerTransactions returns every transaction for a worker across all
	// entitlements in [from, to]. Read-only.
	WorkerTransactions(ctx context.Context, workerID WorkerID, from, to TimePoint) ([]Transaction, error)

	// BalanceAt computes balance at a specific time.
	// This is a derived value, computed from transactions.
	BalanceAt(ctx context.Context, workerID WorkerID, ent Entitlement, at TimePoint, unit Unit) (Amount, error)
}

// =============================================================================
// DEFAULT LEDGER - Implementation using Store
// =============================================================================

type DefaultLedger struct {
	Store Store
}

func NewLedger(store Store) *DefaultLedger {
	return &DefaultLedger{Store: store}
}

func (l *DefaultLedger) Append(ctx context.Context, tx Transaction) error {
	if tx.IdempotencyKey != "" {
		exists, err := l.Store.Exists(ctx, tx.IdempotencyKey)
		if err != nil {
			return err
		}
		if exists {
			return &DuplicateTransactionError{
				WorkerID:       tx.WorkerID,
				IdempotencyKey: tx.IdempotencyKey,
			}
		}
	}
	return l.Store.Append(ctx, tx)
}

func (l *DefaultLedger) AppendBatch(ctx context.Context, txs []Transaction) error {
	// Check all idempotency keys first
	for _, tx := range txs {
		if tx.IdempotencyKey != "" {
			exists, err := l.Store.Exists(ctx, tx.IdempotencyKey)
			if err != nil {
				return err
			}
			if exists {
				return &DuplicateTransactionError{
					WorkerID:       tx.WorkerID,
					IdempotencyKey: tx.IdempotencyKey,
				}
			}
		}
	}
	return l.Store.AppendBatch(ctx, txs)
}

func (l *DefaultLedger) Transactions(ctx context.Context, workerID WorkerID, ent Entitlement) ([]Transaction, error) {
	return l.Store.Load(ctx, workerID, ent)
}

func (l *DefaultLedger) TransactionsInRange(ctx context.Context, workerID WorkerID, ent Entitlement, from, to TimePoint) ([]Transaction, error) {
	return l.Store.LoadRange(ctx, workerID, ent, from, to)
}

func (l *DefaultLedger) WorkerTransactions(ctx context.Context, workerID WorkerID, from, to TimePoint) ([]Transaction, error) {
	return l.Store.LoadByWorker(ctx, workerID, from, to)
}

func (l *DefaultLedger) BalanceAt(ctx context.Context, workerID WorkerID, ent Entitlement, at TimePoint, unit Unit) (Amount, error) {
	txs, err := l.Store.Load(ctx, workerID, ent)
	if err != nil {
		return Amount{}, err
	}

	balance := NewAmount(0, unit)
	for _, tx := range txs {
		if tx.EffectiveAt.After(at) {
			break
		}
		balance = balance.Add(tx.Delta)
	}
	return balance, nil
}

// Snapshot summarizes a transaction set into a BalanceSnapshot. Pure.
func Snapshot(workerID WorkerID, ent Entitlement, txs []Transaction, asOf TimePoint, unit Unit) BalanceSnapshot {
	var (
		balance = NewAmount(0, unit)
		accrued = NewAmount(0, unit)
		taken   = NewAmount(0, unit)
		adjust  = NewAmount(0, unit)
	)

	for _, tx := range txs {
		if tx.EffectiveAt.After(asOf) {
			continue
		}
		balance = balance.Add(tx.Delta)
		switch tx.Type {
		case TxAccrual:
			accrued = accrued.Add(tx.Delta)
		case TxTaken:
			taken = taken.Add(tx.Delta.Neg()) // store as positive
		case TxAdjustment:
			adjust = adjust.Add(tx.Delta)
		case TxReversal:
			taken = taken.Sub(tx.Delta)
		}
	}

	return BalanceSnapshot{
		AsOf:         asOf,
		WorkerID:     workerID,
		Entitlement:  ent,
		Balance:      balance,
		TotalAccrued: accrued,
		TotalTaken:   taken,
		TotalAdjust:  adjust,
	}
}
