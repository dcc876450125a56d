/*
ratio.go - Room ratio compliance calculation

PURPOSE:
  Computes whether scheduled educator counts and qualified-educator counts
  satisfy a room's age-group ratio requirement for a given date and time
  slot. This is the regulatory core: its blocking issues are the hard stops
  the roster UI must surface before committing any change.

CALCULATION:
  requiredEducators  = ceil(bookedChildren / childrenPerEducator)
  requiredQualified  = ceil(requiredEducators × policy.QualifiedShare)
  shortfall          = max(0, required - actual)   (both dimensions)

SEVERITY RULES:
  - Capacity breach (booked > room capacity): always blocking
  - Educator shortfall: blocking (the hard regulatory line)
  - Qualification shortfall: warning by default; organisations that treat
    qualification mix as a hard standard set policy.QualificationBlocking

EDGE CASES:
  Zero booked children requires zero educators and is compliant regardless
  of staffing. Zero staff with nonzero children is a plain shortfall. There
  is no error path: every input shape degrades to a correctly-formed
  RatioStatus.
*/
package roster

import (
	"fmt"
	"math"

	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// RATIO STATUS - Per room+date+slot compliance snapshot
// =============================================================================

// StaffAssignment is one assigned-staff detail row in a RatioStatus.
type StaffAssignment struct {
	WorkerID  generic.WorkerID
	Name      string
	Qualified bool
	ShiftSpan string // e.g. "08:00-16:30"
}

// RatioStatus is the compliance snapshot for one room, date and time slot.
type RatioStatus struct {
	RoomID   string
	Date     generic.TimePoint
	TimeSlot string

	BookedChildren     int
	ScheduledEducators int
	QualifiedEducators int

	RequiredEducators int
	RequiredQualified int

	EducatorShortfall  int
	QualifiedShortfall int

	IsCompliant            bool
	QualificationCompliant bool

	Warnings       []string
	BlockingIssues []string
	Severity       generic.Severity

	Staff []StaffAssignment
}

// =============================================================================
// RATIO VALIDATOR
// =============================================================================

// RatioValidator evaluates room compliance under a RatioPolicy. The zero
// value is NOT usable; construct with NewRatioValidator so policy defaults
// apply.
type RatioValidator struct {
	Policy RatioPolicy
}

func NewRatioValidator(policy RatioPolicy) *RatioValidator {
	if policy.QualifiedShare <= 0 {
		policy.QualifiedShare = DefaultRatioPolicy().QualifiedShare
	}
	return &RatioValidator{Policy: policy}
}

// CheckRoomCompliance computes the RatioStatus for a room on a date.
//
// Shifts are filtered to the room and date (cancelled shifts never count);
// each distinct assigned worker is resolved against the directory and
// counted once. A worker counts as qualified when they hold a non-expired
// credential of the rule's mandated type as of asOf - or unconditionally
// when the rule mandates none.
//
// Pure and idempotent: identical inputs always yield an identical status.
func (v *RatioValidator) CheckRoomCompliance(
	room Room,
	rule RoomRatioRule,
	shifts []ShiftRecord,
	workers []WorkerRecord,
	date generic.TimePoint,
	bookedChildren int,
	timeSlot string,
	asOf generic.TimePoint,
) RatioStatus {
	directory := make(map[generic.WorkerID]WorkerRecord, len(workers))
	for _, w := range workers {
		directory[w.ID] = w
	}

	// Resolve distinct assigned workers for this room+date.
	seen := make(map[generic.WorkerID]bool)
	var staff []StaffAssignment
	qualified := 0

	for _, s := range shifts {
		if s.RoomID != room.ID || !s.Date.Equal(date) || !s.CountsForStaffing() {
			continue
		}
		if seen[s.WorkerID] {
			continue
		}
		seen[s.WorkerID] = true

		w := directory[s.WorkerID]
		isQualified := !rule.RequiresQualified || w.HoldsQualification(rule.Qualification, asOf)
		if isQualified {
			qualified++
		}

		staff = append(staff, StaffAssignment{
			WorkerID:  s.WorkerID,
			Name:      w.Name,
			Qualified: isQualified,
			ShiftSpan: s.Start.String() + "-" + s.End.String(),
		})
	}

	scheduled := len(staff)
	required := requiredEducators(bookedChildren, rule.ChildrenPerEducator)
	requiredQual := ceilShare(required, v.Policy.QualifiedShare)

	educatorShortfall := max(0, required-scheduled)
	qualifiedShortfall := max(0, requiredQual-qualified)

	var warnings, blocking []string

	if room.Capacity > 0 && bookedChildren > room.Capacity {
		blocking = append(blocking, fmt.Sprintf(
			"room %s over licensed capacity: %d children booked, capacity %d",
			room.Name, bookedChildren, room.Capacity))
	}

	if educatorShortfall > 0 {
		blocking = append(blocking, fmt.Sprintf(
			"only %d/%d required educators scheduled (ratio 1:%d for %d children)",
			scheduled, required, rule.ChildrenPerEducator, bookedChildren))
	}

	if qualifiedShortfall > 0 {
		msg := fmt.Sprintf("only %d/%d required qualified educators scheduled (%s)",
			qualified, requiredQual, rule.Qualification)
		if v.Policy.QualificationBlocking {
			blocking = append(blocking, msg)
		} else {
			warnings = append(warnings, msg)
		}
	}

	return RatioStatus{
		RoomID:                 room.ID,
		Date:                   date,
		TimeSlot:               timeSlot,
		BookedChildren:         bookedChildren,
		ScheduledEducators:     scheduled,
		QualifiedEducators:     qualified,
		RequiredEducators:      required,
		RequiredQualified:      requiredQual,
		EducatorShortfall:      educatorShortfall,
		QualifiedShortfall:     qualifiedShortfall,
		IsCompliant:            educatorShortfall == 0,
		QualificationCompliant: qualifiedShortfall == 0,
		Warnings:               warnings,
		BlockingIssues:         blocking,
		Severity:               generic.GradeOutcome(warnings, blocking),
		Staff:                  staff,
	}
}

// requiredEducators is ceil(children / ratio), zero for zero children or a
// degenerate ratio.
func requiredEducators(children, childrenPerEducator int) int {
	if children <= 0 || childrenPerEducator <= 0 {
		return 0
	}
	return (children + childrenPerEducator - 1) / childrenPerEducator
}

// ceilShare is ceil(n × share).
func ceilShare(n int, share float64) int {
	if n <= 0 || share <= 0 {
		return 0
	}
	return int(math.Ceil(float64(n) * share))
}
