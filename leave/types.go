/*
Package leave computes leave accrual from hours worked and jurisdictional
rules.

PURPOSE:
  Three entitlements accrue per pay period:
    - Annual leave:       statutory weeks per year over hours worked
    - Personal leave:     statutory weeks per year over hours worked
    - Long service leave: state-specific entitlement over years of service

  Casual-loaded employment accrues neither annual nor personal leave - the
  loading is paid in lieu. Long service leave accrues regardless of basis.

  Every calculation carries the exact rate and a formatted formula string
  so payroll can audit how each number was produced.

BALANCES:
  Balances are derived running totals over the append-only transaction
  ledger (see ledger.go). They are created once at onboarding, mutated
  every pay period, and never deleted.

SEE ALSO:
  - accrual.go: Annual and personal accrual
  - lsl.go: Long service accrual and pro-rata termination entitlement
  - statutory.go: Per-state rule table
*/
package leave

import (
	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// ENTITLEMENTS
// =============================================================================

// Entitlement is the concrete entitlement type for the leave domain.
// Implements generic.Entitlement.
type Entitlement string

func (e Entitlement) EntitlementID() string     { return string(e) }
func (e Entitlement) EntitlementDomain() string { return "leave" }

// Compile-time check that Entitlement implements generic.Entitlement
var _ generic.Entitlement = Entitlement("")

const (
	Annual      Entitlement = "annual_leave"
	Personal    Entitlement = "personal_leave"
	LongService Entitlement = "long_service_leave"
)

// Register all leave entitlements with the generic registry
func init() {
	generic.RegisterEntitlement(Annual)
	generic.RegisterEntitlement(Personal)
	generic.RegisterEntitlement(LongService)
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// State is an Australian jurisdiction code.
type State string

const (
	NSW State = "NSW"
	VIC State = "VIC"
	QLD State = "QLD"
	SA  State = "SA"
	WA  State = "WA"
	TAS State = "TAS"
	ACT State = "ACT"
	NT  State = "NT"
)

// Valid reports whether s is a recognised jurisdiction code.
func (s State) Valid() bool {
	switch s {
	case NSW, VIC, QLD, SA, WA, TAS, ACT, NT:
		return true
	}
	return false
}

type EmploymentBasis string

const (
	BasisPermanent EmploymentBasis = "permanent"
	BasisCasual    EmploymentBasis = "casual"
	BasisAgency    EmploymentBasis = "agency"
)

type TerminationType string

const (
	TermResignation TerminationType = "resignation"
	TermTermination TerminationType = "termination"
	TermRedundancy  TerminationType = "redundancy"
)

// AccrualConfig is the per-worker accrual configuration. It is an explicit
// value passed into every call; there is no hidden default singleton, so
// multiple jurisdictions and rule sets can run concurrently.
type AccrualConfig struct {
	State State
	Basis EmploymentBasis

	// CasualLoading suppresses annual and personal accrual: the loading is
	// paid in lieu of leave.
	CasualLoading bool

	// Custom entitlement overrides in weeks per year. Nil means statutory.
	CustomAnnualWeeks   *float64
	CustomPersonalWeeks *float64

	StandardWeeklyHours float64
	ServiceStart        generic.TimePoint
}

// =============================================================================
// CALCULATION RESULTS
// =============================================================================

// AccrualLine is one entitlement's pay-period accrual with its audit trail.
type AccrualLine struct {
	Entitlement Entitlement
	RatePerHour decimal.Decimal
	HoursWorked decimal.Decimal
	Accrued     generic.Amount

	// Formula is the human-readable derivation, e.g.
	// "76.00h × 0.076923 (4 weeks / 52)".
	Formula string
}

// Calculation bundles the three leave-type accruals for one pay period.
type Calculation struct {
	WorkerID generic.WorkerID
	Period   generic.Period

	Annual      AccrualLine
	Personal    AccrualLine
	LongService AccrualLine
}

// Lines returns the non-nil accrual lines in a stable order.
func (c Calculation) Lines() []AccrualLine {
	return []AccrualLine{c.Annual, c.Personal, c.LongService}
}

// LSLResult is the outcome of a long-service accrual calculation.
type LSLResult struct {
	Line     AccrualLine
	Eligible bool

	// EligibleOn is set when not yet eligible: service start plus the
	// state's entitlement years.
	EligibleOn *generic.TimePoint
}

// ProRataEntitlement is a termination payout determination.
type ProRataEntitlement struct {
	State           State
	TerminationType TerminationType
	Eligible        bool
	Reason          string

	Weeks decimal.Decimal
	Hours generic.Amount
	Value decimal.Decimal
}

// =============================================================================
// BALANCE
// =============================================================================

// LeaveBalance is the per-worker running position for one entitlement.
// Derived from the transaction ledger; never stored as authoritative state.
type LeaveBalance struct {
	WorkerID    generic.WorkerID
	Entitlement Entitlement

	Balance       generic.Amount
	PeriodAccrued generic.Amount
	PeriodTaken   generic.Amount
	YTDAccrued    generic.Amount
	YTDTaken      generic.Amount

	// Value is the monetary value of Balance at the worker's current rate.
	Value decimal.Decimal

	UpdatedAt generic.TimePoint
}
