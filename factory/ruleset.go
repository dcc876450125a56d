/*
JSON rule set conversion.

PURPOSE:
  Converts JSON rule set definitions into the engine's configuration
  structs. Centre administrators edit rule sets in the settings UI, the
  service stores them as JSON, and this factory turns them into
  roster.RoomRatioRule, fatigue.RuleConfig and leave.AccrualConfig
  values without code changes.

JSON SCHEMA:
  {
    "id": "nsw-default",
    "name": "NSW defaults",
    "ratio": {
      "qualified_share": 0.5,
      "qualification_blocking": false,
      "bands": [
        {"min_age_months": 0, "max_age_months": 24,
         "children_per_educator": 4,
         "requires_qualified": true,
         "qualification": "certificate_iii"}
      ]
    },
    "fatigue": {
      "max_consecutive_days": 6,
      "max_weekly_hours": 50,
      "min_rest_hours": 10,
      "max_consecutive_nights": 4,
      "night_start_hour": 22,
      "night_end_hour": 6,
      "critical_score": 80
    },
    "leave": {
      "state": "NSW",
      "standard_weekly_hours": 38,
      "custom_annual_weeks": 5
    }
  }

KEY FEATURES:
  - Omitted sections fall back to statutory defaults
  - Validates age bands and limit signs
  - Round-trips via ToJSON for the settings API

SEE ALSO:
  - defaults.go: the statutory values used as fallbacks
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/roster-engine/fatigue"
	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/leave"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RuleSetJSON is the JSON representation of a centre's rule set.
type RuleSetJSON struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Ratio   *RatioJSON   `json:"ratio,omitempty"`
	Fatigue *FatigueJSON `json:"fatigue,omitempty"`
	Leave   *LeaveJSON   `json:"leave,omitempty"`
}

// RatioJSON configures the ratio validator.
type RatioJSON struct {
	QualifiedShare        float64    `json:"qualified_share,omitempty"`
	QualificationBlocking bool       `json:"qualification_blocking,omitempty"`
	Bands                 []BandJSON `json:"bands,omitempty"`
}

// BandJSON is one age band's ratio requirement.
type BandJSON struct {
	MinAgeMonths        int    `json:"min_age_months"`
	MaxAgeMonths        int    `json:"max_age_months"`
	ChildrenPerEducator int    `json:"children_per_educator"`
	RequiresQualified   bool   `json:"requires_qualified,omitempty"`
	Qualification       string `json:"qualification,omitempty"`
}

// FatigueJSON configures the fatigue scorer limits.
type FatigueJSON struct {
	MaxConsecutiveDays   int     `json:"max_consecutive_days,omitempty"`
	MaxWeeklyHours       float64 `json:"max_weekly_hours,omitempty"`
	MinRestHours         float64 `json:"min_rest_hours,omitempty"`
	MaxConsecutiveNights int     `json:"max_consecutive_nights,omitempty"`
	NightStartHour       int     `json:"night_start_hour,omitempty"`
	NightEndHour         int     `json:"night_end_hour,omitempty"`
	CriticalScore        float64 `json:"critical_score,omitempty"`
}

// LeaveJSON configures leave accrual for a centre.
type LeaveJSON struct {
	State               string   `json:"state"`
	StandardWeeklyHours float64  `json:"standard_weekly_hours,omitempty"`
	CustomAnnualWeeks   *float64 `json:"custom_annual_weeks,omitempty"`
	CustomPersonalWeeks *float64 `json:"custom_personal_weeks,omitempty"`
}

// RuleSet is the parsed, engine-ready form of a rule set.
type RuleSet struct {
	ID          string
	Name        string
	RatioRules  []roster.RoomRatioRule
	RatioPolicy roster.RatioPolicy
	Fatigue     fatigue.RuleConfig
	LeaveState  leave.State
	WeeklyHours float64
	AnnualWeeks *float64
	PersonalWks *float64
}

// LeaveConfigFor builds an AccrualConfig for one worker from the rule
// set's centre-level leave settings.
func (rs *RuleSet) LeaveConfigFor(basis leave.EmploymentBasis, serviceStart generic.TimePoint) leave.AccrualConfig {
	cfg := DefaultLeaveConfig(rs.LeaveState, basis, serviceStart)
	cfg.StandardWeeklyHours = rs.WeeklyHours
	cfg.CustomAnnualWeeks = rs.AnnualWeeks
	cfg.CustomPersonalWeeks = rs.PersonalWks
	return cfg
}

// =============================================================================
// RULE SET FACTORY
// =============================================================================

// RuleSetFactory converts JSON rule sets to engine configuration.
type RuleSetFactory struct{}

// NewRuleSetFactory creates a new rule set factory.
func NewRuleSetFactory() *RuleSetFactory {
	return &RuleSetFactory{}
}

// Parse parses a JSON string into a RuleSet.
func (f *RuleSetFactory) Parse(jsonStr string) (*RuleSet, error) {
	var rj RuleSetJSON
	if err := json.Unmarshal([]byte(jsonStr), &rj); err != nil {
		return nil, fmt.Errorf("failed to parse rule set JSON: %w", err)
	}
	return f.FromJSON(rj)
}

// FromJSON converts RuleSetJSON to a RuleSet, filling omitted sections
// with statutory defaults.
func (f *RuleSetFactory) FromJSON(rj RuleSetJSON) (*RuleSet, error) {
	rs := &RuleSet{
		ID:          rj.ID,
		Name:        rj.Name,
		RatioRules:  DefaultRatioRules(),
		RatioPolicy: DefaultRatioPolicy(),
		Fatigue:     DefaultFatigueRules(),
		LeaveState:  leave.NSW,
		WeeklyHours: 38,
	}

	if rj.Ratio != nil {
		if rj.Ratio.QualifiedShare < 0 || rj.Ratio.QualifiedShare > 1 {
			return nil, fmt.Errorf("qualified_share must be in [0,1], got %g", rj.Ratio.QualifiedShare)
		}
		if rj.Ratio.QualifiedShare > 0 {
			rs.RatioPolicy.QualifiedShare = rj.Ratio.QualifiedShare
		}
		rs.RatioPolicy.QualificationBlocking = rj.Ratio.QualificationBlocking

		if len(rj.Ratio.Bands) > 0 {
			bands, err := parseBands(rj.Ratio.Bands)
			if err != nil {
				return nil, err
			}
			rs.RatioRules = bands
		}
	}

	if rj.Fatigue != nil {
		if err := applyFatigue(&rs.Fatigue, *rj.Fatigue); err != nil {
			return nil, err
		}
	}

	if rj.Leave != nil {
		st := leave.State(rj.Leave.State)
		if !st.Valid() {
			return nil, fmt.Errorf("unknown state %q", rj.Leave.State)
		}
		rs.LeaveState = st
		if rj.Leave.StandardWeeklyHours > 0 {
			rs.WeeklyHours = rj.Leave.StandardWeeklyHours
		}
		rs.AnnualWeeks = rj.Leave.CustomAnnualWeeks
		rs.PersonalWks = rj.Leave.CustomPersonalWeeks
	}

	return rs, nil
}

// ToJSON converts a RuleSet back to its JSON representation.
func (f *RuleSetFactory) ToJSON(rs *RuleSet) RuleSetJSON {
	rj := RuleSetJSON{
		ID:   rs.ID,
		Name: rs.Name,
		Ratio: &RatioJSON{
			QualifiedShare:        rs.RatioPolicy.QualifiedShare,
			QualificationBlocking: rs.RatioPolicy.QualificationBlocking,
		},
		Fatigue: &FatigueJSON{
			MaxConsecutiveDays:   rs.Fatigue.MaxConsecutiveDays,
			MaxWeeklyHours:       rs.Fatigue.MaxWeeklyHours,
			MinRestHours:         rs.Fatigue.MinRestHours,
			MaxConsecutiveNights: rs.Fatigue.MaxConsecutiveNights,
			NightStartHour:       rs.Fatigue.NightWindow.StartHour,
			NightEndHour:         rs.Fatigue.NightWindow.EndHour,
			CriticalScore:        rs.Fatigue.CriticalScore,
		},
		Leave: &LeaveJSON{
			State:               string(rs.LeaveState),
			StandardWeeklyHours: rs.WeeklyHours,
			CustomAnnualWeeks:   rs.AnnualWeeks,
			CustomPersonalWeeks: rs.PersonalWks,
		},
	}
	for _, b := range rs.RatioRules {
		rj.Ratio.Bands = append(rj.Ratio.Bands, BandJSON{
			MinAgeMonths:        b.MinAgeMonths,
			MaxAgeMonths:        b.MaxAgeMonths,
			ChildrenPerEducator: b.ChildrenPerEducator,
			RequiresQualified:   b.RequiresQualified,
			Qualification:       string(b.Qualification),
		})
	}
	return rj
}

// =============================================================================
// SECTION PARSERS
// =============================================================================

func parseBands(in []BandJSON) ([]roster.RoomRatioRule, error) {
	out := make([]roster.RoomRatioRule, 0, len(in))
	for i, b := range in {
		if b.ChildrenPerEducator <= 0 {
			return nil, fmt.Errorf("band %d: children_per_educator must be positive", i)
		}
		if b.MaxAgeMonths < b.MinAgeMonths {
			return nil, fmt.Errorf("band %d: max_age_months %d below min_age_months %d", i, b.MaxAgeMonths, b.MinAgeMonths)
		}
		if b.RequiresQualified && b.Qualification == "" {
			return nil, fmt.Errorf("band %d: requires_qualified set without a qualification", i)
		}
		out = append(out, roster.RoomRatioRule{
			MinAgeMonths:        b.MinAgeMonths,
			MaxAgeMonths:        b.MaxAgeMonths,
			ChildrenPerEducator: b.ChildrenPerEducator,
			RequiresQualified:   b.RequiresQualified,
			Qualification:       roster.QualificationType(b.Qualification),
		})
	}
	return out, nil
}

func applyFatigue(rc *fatigue.RuleConfig, fj FatigueJSON) error {
	if fj.MaxWeeklyHours < 0 || fj.MinRestHours < 0 {
		return fmt.Errorf("fatigue limits must be non-negative")
	}
	if fj.MaxConsecutiveDays > 0 {
		rc.MaxConsecutiveDays = fj.MaxConsecutiveDays
	}
	if fj.MaxWeeklyHours > 0 {
		rc.MaxWeeklyHours = fj.MaxWeeklyHours
	}
	if fj.MinRestHours > 0 {
		rc.MinRestHours = fj.MinRestHours
	}
	if fj.MaxConsecutiveNights > 0 {
		rc.MaxConsecutiveNights = fj.MaxConsecutiveNights
	}
	if fj.NightStartHour > 0 || fj.NightEndHour > 0 {
		if fj.NightStartHour < 0 || fj.NightStartHour > 23 || fj.NightEndHour < 0 || fj.NightEndHour > 23 {
			return fmt.Errorf("night window hours must be in [0,23]")
		}
		rc.NightWindow = fatigue.NightWindow{StartHour: fj.NightStartHour, EndHour: fj.NightEndHour}
	}
	if fj.CriticalScore > 0 {
		rc.CriticalScore = fj.CriticalScore
	}
	return nil
}
