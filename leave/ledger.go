/*
ledger.go - Leave ledger wrapper deriving balances from transactions

PURPOSE:
  Wraps the generic append-only ledger with leave-domain operations:
  posting a pay-period Calculation as accrual transactions, and deriving
  LeaveBalance snapshots (running balance, period and year-to-date
  accrued/taken, monetary value) from the transaction history.

  The balance is ALWAYS a replay of the ledger. There is no stored balance
  row to drift out of sync, and the ledger is never edited - corrections
  are reversal transactions.
*/
package leave

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/generic"
)

// Ledger is the leave-domain view over the generic transaction ledger.
type Ledger struct {
	inner generic.Ledger
}

func NewLedger(store generic.Store) *Ledger {
	return &Ledger{inner: generic.NewLedger(store)}
}

// Inner exposes the wrapped generic ledger for raw transaction reads.
func (l *Ledger) Inner() generic.Ledger { return l.inner }

// PostCalculation appends one accrual transaction per non-zero line of the
// calculation, atomically. Re-posting the same worker+period is rejected
// via idempotency keys and returns generic.ErrDuplicateIdempotencyKey.
func (l *Ledger) PostCalculation(ctx context.Context, calc Calculation, hourlyRate decimal.Decimal, createdBy string) error {
	var txs []generic.Transaction
	for _, line := range calc.Lines() {
		if line.Accrued.IsZero() {
			continue
		}
		txs = append(txs, AccrualTransaction(line, calc.WorkerID, calc.Period, hourlyRate, createdBy))
	}
	if len(txs) == 0 {
		return nil
	}
	return l.inner.AppendBatch(ctx, txs)
}

// BalanceFor derives the LeaveBalance for one worker and entitlement.
// Period figures cover the given pay period; YTD figures cover the
// calendar year of asOf; the running balance covers all history up to
// asOf.
func (l *Ledger) BalanceFor(ctx context.Context, workerID generic.WorkerID, ent Entitlement, period generic.Period, hourlyRate decimal.Decimal, asOf generic.TimePoint) (LeaveBalance, error) {
	txs, err := l.inner.Transactions(ctx, workerID, ent)
	if err != nil {
		return LeaveBalance{}, err
	}

	year := generic.CalendarYear(asOf)

	bal := NewBalance(workerID, ent, asOf)
	for _, tx := range txs {
		if tx.EffectiveAt.After(asOf) {
			continue
		}

		bal.Balance = bal.Balance.Add(tx.Delta)

		accrual := tx.Type == generic.TxAccrual || (tx.Type == generic.TxAdjustment && tx.Delta.IsPositive())
		taken := tx.Type == generic.TxTaken || (tx.Type == generic.TxAdjustment && tx.Delta.IsNegative())

		if accrual {
			if period.Contains(tx.EffectiveAt) {
				bal.PeriodAccrued = bal.PeriodAccrued.Add(tx.Delta)
			}
			if year.Contains(tx.EffectiveAt) {
				bal.YTDAccrued = bal.YTDAccrued.Add(tx.Delta)
			}
		}
		if taken {
			if period.Contains(tx.EffectiveAt) {
				bal.PeriodTaken = bal.PeriodTaken.Add(tx.Delta.Neg())
			}
			if year.Contains(tx.EffectiveAt) {
				bal.YTDTaken = bal.YTDTaken.Add(tx.Delta.Neg())
			}
		}
	}

	bal.Value = bal.Balance.Value.Mul(hourlyRate)
	return bal, nil
}

// BalancesFor derives balances for every leave entitlement.
func (l *Ledger) BalancesFor(ctx context.Context, workerID generic.WorkerID, period generic.Period, hourlyRate decimal.Decimal, asOf generic.TimePoint) ([]LeaveBalance, error) {
	out := make([]LeaveBalance, 0, 3)
	for _, ent := range []Entitlement{Annual, Personal, LongService} {
		bal, err := l.BalanceFor(ctx, workerID, ent, period, hourlyRate, asOf)
		if err != nil {
			return nil, err
		}
		out = append(out, bal)
	}
	return out, nil
}
