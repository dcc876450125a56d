/*
Package generic provides the shared engine core for workforce rule evaluation.

PURPOSE:
  This package contains domain-agnostic types used by every rules engine in
  the system. Whether checking room ratios, scoring fatigue, or accruing
  leave, the same building blocks handle quantities, time, severities, and
  the entitlement ledger.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 7.6 hours, 4 weeks)
  - Transaction: An immutable ledger entry recording entitlement changes
  - Worker/Transaction IDs: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Immutability: Transactions are never modified, only reversed
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Type Safety: Strong typing for IDs prevents mixing worker/transaction IDs
  4. Determinism: Every evaluation threads an explicit reference instant;
     nothing reads the wall clock

USAGE:
  amount := generic.NewAmount(7.6, generic.UnitHours)
  tx := generic.Transaction{
      WorkerID:    "wkr-123",
      Entitlement: leave.Annual,
      Delta:       amount,
      Type:        generic.TxAccrual,
  }

SEE ALSO:
  - ledger.go: Append-only transaction log
  - severity.go: ok/warning/blocking outcome taxonomy
  - time.go: TimePoint and ClockTime
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit (always time-based for this system)
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitHours Unit = "hours"
	UnitDays  Unit = "days"
	UnitWeeks Unit = "weeks"
)

// HoursPerDay is the fixed conversion used when an external payroll system
// is configured in days rather than hours. 7.6 hours = 38-hour week over
// five days, the national full-time standard.
const HoursPerDay = 7.6

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromDecimal(value decimal.Decimal, unit Unit) Amount {
	return Amount{Value: value, Unit: unit}
}

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a Amount) Zero() Amount                 { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg(), Unit: a.Unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }

// InDays converts an hours amount to days using the fixed HoursPerDay
// constant. Conversion of other units is the caller's responsibility.
func (a Amount) InDays() Amount {
	if a.Unit != UnitHours {
		return a
	}
	return Amount{
		Value: a.Value.Div(decimal.NewFromFloat(HoursPerDay)),
		Unit:  UnitDays,
	}
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type WorkerID string
type TransactionID string

// Entitlement identifies what kind of accruable entitlement a ledger entry
// affects. This is an interface so domain packages define their own concrete
// types. The generic package has NO knowledge of specific entitlements.
//
// Domain packages implement this:
//
//	// In leave/types.go
//	type Entitlement string
//	func (e Entitlement) EntitlementID() string { return string(e) }
//	func (e Entitlement) EntitlementDomain() string { return "leave" }
//	const Annual Entitlement = "annual_leave"
type Entitlement interface {
	// EntitlementID returns the unique identifier for this entitlement.
	EntitlementID() string

	// EntitlementDomain returns which domain this entitlement belongs to.
	EntitlementDomain() string
}

// =============================================================================
// TRANSACTION - Atomic change to an entitlement balance
// =============================================================================

type TransactionType string

const (
	TxAccrual    TransactionType = "accrual"    // Pay-period accrual from hours worked
	TxTaken      TransactionType = "taken"      // Leave taken (approved absence)
	TxAdjustment TransactionType = "adjustment" // Manual admin correction
	TxReversal   TransactionType = "reversal"   // Undo a previous transaction
)

type Transaction struct {
	ID             TransactionID
	WorkerID       WorkerID
	Entitlement    Entitlement
	EffectiveAt    TimePoint
	Delta          Amount
	Type           TransactionType
	Value          decimal.Decimal // monetary value of the delta at current rate
	ReferenceID    string
	Reason         string
	IdempotencyKey string

	// Audit fields
	CreatedBy     string // Actor who created this transaction
	CreatedByType string // "worker", "manager", "system", "admin"
	CreatedAt     TimePoint
}

// =============================================================================
// BALANCE SNAPSHOT - Computed state at a point in time
// =============================================================================

type BalanceSnapshot struct {
	AsOf         TimePoint
	WorkerID     WorkerID
	Entitlement  Entitlement
	Balance      Amount
	TotalAccrued Amount
	TotalTaken   Amount
	TotalAdjust  Amount
}
