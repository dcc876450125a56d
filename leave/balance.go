package leave

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// BALANCE APPLICATION - Pure record constructors; callers own persistence
// =============================================================================

// ApplyAccrualToBalance returns a new LeaveBalance with the accrual line
// applied. The input balance is not mutated.
func ApplyAccrualToBalance(bal LeaveBalance, line AccrualLine, hourlyRate decimal.Decimal, at generic.TimePoint) LeaveBalance {
	bal.Balance = bal.Balance.Add(line.Accrued)
	bal.PeriodAccrued = bal.PeriodAccrued.Add(line.Accrued)
	bal.YTDAccrued = bal.YTDAccrued.Add(line.Accrued)
	bal.Value = bal.Balance.Value.Mul(hourlyRate)
	bal.UpdatedAt = at
	return bal
}

// NewBalance creates the zero balance for a worker at onboarding.
func NewBalance(workerID generic.WorkerID, ent Entitlement, at generic.TimePoint) LeaveBalance {
	zero := generic.NewAmount(0, generic.UnitHours)
	return LeaveBalance{
		WorkerID:      workerID,
		Entitlement:   ent,
		Balance:       zero,
		PeriodAccrued: zero,
		PeriodTaken:   zero,
		YTDAccrued:    zero,
		YTDTaken:      zero,
		Value:         decimal.Zero,
		UpdatedAt:     at,
	}
}

// AccrualTransaction builds the immutable ledger entry for one accrual
// line. The idempotency key is derived from worker, entitlement and period
// so re-posting the same pay run is rejected rather than double-counted.
func AccrualTransaction(line AccrualLine, workerID generic.WorkerID, period generic.Period, hourlyRate decimal.Decimal, createdBy string) generic.Transaction {
	return generic.Transaction{
		ID:          generic.TransactionID(uuid.NewString()),
		WorkerID:    workerID,
		Entitlement: line.Entitlement,
		EffectiveAt: period.End,
		Delta:       line.Accrued,
		Type:        generic.TxAccrual,
		Value:       line.Accrued.Value.Mul(hourlyRate),
		Reason:      line.Formula,
		IdempotencyKey: fmt.Sprintf("accrual:%s:%s:%s",
			workerID, line.Entitlement.EntitlementID(), period.Start),
		CreatedBy:     createdBy,
		CreatedByType: "system",
		CreatedAt:     period.End,
	}
}

// TakenTransaction builds the ledger entry for leave taken.
func TakenTransaction(workerID generic.WorkerID, ent Entitlement, hours float64, hourlyRate decimal.Decimal, at generic.TimePoint, reason, createdBy string) generic.Transaction {
	amount := generic.NewAmount(hours, generic.UnitHours)
	return generic.Transaction{
		ID:            generic.TransactionID(uuid.NewString()),
		WorkerID:      workerID,
		Entitlement:   ent,
		EffectiveAt:   at,
		Delta:         amount.Neg(),
		Type:          generic.TxTaken,
		Value:         amount.Value.Mul(hourlyRate).Neg(),
		Reason:        reason,
		CreatedBy:     createdBy,
		CreatedByType: "manager",
		CreatedAt:     at,
	}
}

// AdjustmentTransaction builds a manual correction entry. Positive hours
// credit the balance, negative hours debit it.
func AdjustmentTransaction(workerID generic.WorkerID, ent Entitlement, hours float64, hourlyRate decimal.Decimal, at generic.TimePoint, reason, createdBy string) generic.Transaction {
	amount := generic.NewAmount(hours, generic.UnitHours)
	return generic.Transaction{
		ID:            generic.TransactionID(uuid.NewString()),
		WorkerID:      workerID,
		Entitlement:   ent,
		EffectiveAt:   at,
		Delta:         amount,
		Type:          generic.TxAdjustment,
		Value:         amount.Value.Mul(hourlyRate),
		Reason:        reason,
		CreatedBy:     createdBy,
		CreatedByType: "admin",
		CreatedAt:     at,
	}
}
