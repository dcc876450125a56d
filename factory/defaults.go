/*
Package factory provides statutory default rule sets and JSON conversion.

PURPOSE:
  The settings surface stores rule sets as JSON; this package converts
  between that representation and the engine's Go configuration types,
  and ships sensible statutory defaults so a new centre is compliant-ready
  before anyone edits a setting.

DEFAULTS SHIPPED:
  - National age-band ratio rules with qualification mandates
  - Fatigue rule limits (consecutive days, weekly hours, rest, nights)
  - Per-basis leave accrual configuration per state

  Defaults are returned as fresh values on every call - never shared
  mutable singletons - so callers can customise a copy per centre or
  jurisdiction without cross-contamination.

SEE ALSO:
  - ruleset.go: JSON parsing for user-edited rule sets
*/
package factory

import (
	"time"

	"github.com/warp/roster-engine/fatigue"
	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/leave"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// RATIO DEFAULTS
// =============================================================================

// DefaultRatioRules returns the national age-band ratio requirements.
func DefaultRatioRules() []roster.RoomRatioRule {
	return []roster.RoomRatioRule{
		{
			MinAgeMonths:        0,
			MaxAgeMonths:        24,
			ChildrenPerEducator: 4,
			RequiresQualified:   true,
			Qualification:       roster.QualCertificateIII,
		},
		{
			MinAgeMonths:        25,
			MaxAgeMonths:        35,
			ChildrenPerEducator: 5,
			RequiresQualified:   true,
			Qualification:       roster.QualDiploma,
		},
		{
			MinAgeMonths:        36,
			MaxAgeMonths:        72,
			ChildrenPerEducator: 11,
			RequiresQualified:   true,
			Qualification:       roster.QualTeacher,
		},
	}
}

// RatioRuleForAge picks the band containing the given age in months.
// Returns false when no band covers the age.
func RatioRuleForAge(rules []roster.RoomRatioRule, ageMonths int) (roster.RoomRatioRule, bool) {
	for _, r := range rules {
		if ageMonths >= r.MinAgeMonths && ageMonths <= r.MaxAgeMonths {
			return r, true
		}
	}
	return roster.RoomRatioRule{}, false
}

// DefaultRatioPolicy mirrors roster.DefaultRatioPolicy for discoverability
// alongside the other defaults.
func DefaultRatioPolicy() roster.RatioPolicy {
	return roster.DefaultRatioPolicy()
}

// =============================================================================
// FATIGUE DEFAULTS
// =============================================================================

// DefaultFatigueRules returns the standard fatigue limits.
func DefaultFatigueRules() fatigue.RuleConfig {
	return fatigue.RuleConfig{
		MaxConsecutiveDays:   6,
		MaxWeeklyHours:       50,
		MinRestHours:         10,
		MaxConsecutiveNights: 4,
		NightWindow:          fatigue.NightWindow{StartHour: 22, EndHour: 6},
		CriticalScore:        80,
	}
}

// =============================================================================
// LEAVE DEFAULTS
// =============================================================================

// DefaultLeaveConfig returns the statutory accrual configuration for a
// state and employment basis. Casual workers carry casual loading, which
// suppresses annual and personal accrual.
func DefaultLeaveConfig(state leave.State, basis leave.EmploymentBasis, serviceStart generic.TimePoint) leave.AccrualConfig {
	return leave.AccrualConfig{
		State:               state,
		Basis:               basis,
		CasualLoading:       basis == leave.BasisCasual,
		StandardWeeklyHours: 38,
		ServiceStart:        serviceStart,
	}
}

// DefaultPayCycle returns the fortnightly pay cycle anchored to the first
// Monday of 2024, the convention most payroll exports in this product use.
func DefaultPayCycle() generic.PayCycleConfig {
	return generic.PayCycleConfig{
		Cycle:  generic.CycleFortnightly,
		Anchor: generic.NewTimePoint(2024, time.January, 1),
	}
}
