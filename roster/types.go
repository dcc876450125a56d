/*
Package roster implements educator-to-child ratio compliance checking.

PURPOSE:
  Given a room's age-group ratio rule, the scheduled shifts, the staff
  directory, and a booked child count, this package answers two questions:
  1. Is the room compliant right now? (CheckRoomCompliance)
  2. Would it still be compliant after a shift create/modify/delete?
     (ValidateShiftAction - run BEFORE the mutation is committed)

  It also produces minimal-cost staffing recommendations
  (SuggestOptimalStaffing).

KEY CONCEPTS IN THIS FILE (types.go):
  - ShiftRecord: A raw roster entry (date + clock times + break)
  - WorkerRecord / QualificationRecord: The staff directory view
  - Room / RoomRatioRule: The regulatory configuration for an age band
  - RatioPolicy: Tunable policy knobs (qualified share, severity)

DESIGN PRINCIPLES:
  1. Purity: every operation is a pure function over immutable snapshots;
     safe to run concurrently across rooms and dates
  2. No hidden clock: qualification expiry and all evaluation is relative
     to an explicit reference instant passed by the caller
  3. No domain errors: degenerate inputs (zero children, zero staff)
     produce a correctly-shaped zero-valued result, never an error

SEE ALSO:
  - shift.go: ShiftRecord normalization (overnight handling)
  - ratio.go: Compliance calculation
  - action.go: Pre-commit action simulation
*/
package roster

import (
	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// STAFF DIRECTORY
// =============================================================================

type EmploymentBasis string

const (
	BasisPermanent EmploymentBasis = "permanent"
	BasisCasual    EmploymentBasis = "casual"
	BasisAgency    EmploymentBasis = "agency"
)

// QualificationType enumerates recognised early-childhood credentials.
type QualificationType string

const (
	QualDiploma        QualificationType = "diploma_early_childhood"
	QualCertificateIII QualificationType = "certificate_iii"
	QualTeacher        QualificationType = "early_childhood_teacher"
	QualFirstAid       QualificationType = "first_aid"
)

// QualificationRecord is a single credential held by a worker.
type QualificationRecord struct {
	Type    QualificationType
	Expires generic.TimePoint
}

// ExpiredAt reports whether the credential has lapsed as of the reference
// instant. A zero expiry means the credential does not expire.
func (q QualificationRecord) ExpiredAt(asOf generic.TimePoint) bool {
	if q.Expires.IsZero() {
		return false
	}
	return q.Expires.Before(asOf)
}

// ExpiringWithin reports whether the credential lapses within the next
// n days of the reference instant.
func (q QualificationRecord) ExpiringWithin(asOf generic.TimePoint, days int) bool {
	if q.Expires.IsZero() || q.ExpiredAt(asOf) {
		return false
	}
	return q.Expires.BeforeOrEqual(asOf.AddDays(days))
}

// WorkerRecord is the staff-directory view of an educator.
type WorkerRecord struct {
	ID             generic.WorkerID
	Name           string
	Role           string
	Basis          EmploymentBasis
	Qualifications []QualificationRecord
	MaxWeeklyHours float64
	HourlyRate     decimal.Decimal
}

// HoldsQualification reports whether the worker has a non-expired credential
// of the given type as of the reference instant.
func (w WorkerRecord) HoldsQualification(qt QualificationType, asOf generic.TimePoint) bool {
	for _, q := range w.Qualifications {
		if q.Type == qt && !q.ExpiredAt(asOf) {
			return true
		}
	}
	return false
}

// =============================================================================
// ROOM + RATIO CONFIGURATION
// =============================================================================

type Room struct {
	ID       string
	Name     string
	CentreID string
	Capacity int
}

// RoomRatioRule is the regulatory ratio configuration for an age band.
type RoomRatioRule struct {
	MinAgeMonths int
	MaxAgeMonths int

	// ChildrenPerEducator is the ratio denominator: 1 educator per this
	// many children.
	ChildrenPerEducator int

	// RequiresQualified mandates that part of the required headcount holds
	// Qualification. When false, every scheduled worker counts as qualified.
	RequiresQualified bool
	Qualification     QualificationType
}

// RatioPolicy carries the tunable policy knobs of the ratio calculation.
// These are organisational policy rather than cited regulation, so they are
// explicit configuration instead of constants baked into the algorithm.
type RatioPolicy struct {
	// QualifiedShare is the fraction of required educators that must hold
	// the mandated qualification (rounded up).
	QualifiedShare float64

	// QualificationBlocking escalates a qualification shortfall from a
	// warning to a blocking issue. Ratio headcount is always blocking.
	QualificationBlocking bool
}

// DefaultRatioPolicy mirrors the common internal standard: at least half of
// required staff qualified, enforced as a warning only.
func DefaultRatioPolicy() RatioPolicy {
	return RatioPolicy{QualifiedShare: 0.5, QualificationBlocking: false}
}

// =============================================================================
// SHIFTS
// =============================================================================

type ShiftStatus string

const (
	StatusScheduled ShiftStatus = "scheduled"
	StatusConfirmed ShiftStatus = "confirmed"
	StatusCompleted ShiftStatus = "completed"
	StatusCancelled ShiftStatus = "cancelled"
)

// ShiftRecord is a raw roster entry. Start and End are validated ClockTime
// values; parsing and rejection of malformed "HH:MM" strings happens at the
// API boundary, never here. End numerically before Start signals an
// overnight shift.
type ShiftRecord struct {
	ID           string
	WorkerID     generic.WorkerID
	RoomID       string
	CentreID     string
	Date         generic.TimePoint
	Start        generic.ClockTime
	End          generic.ClockTime
	BreakMinutes int
	Status       ShiftStatus
}

// CountsForStaffing reports whether the shift contributes to room coverage.
func (s ShiftRecord) CountsForStaffing() bool {
	return s.Status != StatusCancelled
}
