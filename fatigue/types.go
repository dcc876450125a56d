/*
Package fatigue scores cumulative worker fatigue risk from shift history.

PURPOSE:
  Given a worker's trailing two-week shift history and a rule configuration,
  this package computes a weighted 0-100 fatigue score from four factors,
  classifies risk, and detects discrete rule violations:

    weekly hours          up to 35 points
    consecutive work days up to 30 points
    night-shift load      up to 20 points
    inter-shift rest      up to 15 points

  Risk bands: <40 low, 40-59 moderate, 60-79 high, >=80 critical.

DETERMINISM:
  Scoring is a pure function of (worker, shifts, rules, reference instant).
  The only forward-looking output - the projected next-period score - is
  advisory, produced behind an injectable Estimator seam, and must never
  feed compliance decisions.

SEE ALSO:
  - score.go: Factor derivation and weighting
  - violations.go: Discrete limit breaches
  - projection.go: Advisory next-period estimators
*/
package fatigue

import (
	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// RULE CONFIGURATION
// =============================================================================

// NightWindow bounds the hours considered night work. A window of 22..6
// covers 22:00 through 06:00 across midnight.
type NightWindow struct {
	StartHour int
	EndHour   int
}

// ContainsHour reports whether the hour falls inside the window, handling
// windows that wrap midnight.
func (w NightWindow) ContainsHour(hour int) bool {
	if w.StartHour <= w.EndHour {
		return hour >= w.StartHour && hour <= w.EndHour
	}
	return hour >= w.StartHour || hour <= w.EndHour
}

// RuleConfig is an explicit, immutable fatigue rule set passed into every
// call. There is no package-level default singleton: callers needing
// multiple jurisdictions run distinct configs concurrently without
// cross-contamination.
type RuleConfig struct {
	MaxConsecutiveDays   int
	MaxWeeklyHours       float64
	MinRestHours         float64
	MaxConsecutiveNights int
	NightWindow          NightWindow

	// CriticalScore triggers the mandatory manager-review recommendation.
	CriticalScore float64
}

// =============================================================================
// SCORE
// =============================================================================

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskFor classifies a 0-100 score into its band.
func RiskFor(score float64) RiskLevel {
	switch {
	case score >= 80:
		return RiskCritical
	case score >= 60:
		return RiskHigh
	case score >= 40:
		return RiskModerate
	default:
		return RiskLow
	}
}

// Factor is one weighted contribution to the total score.
type Factor struct {
	Name   string
	Points float64
	Max    float64
	Detail string
}

const (
	FactorWeeklyHours     = "weekly_hours"
	FactorConsecutiveDays = "consecutive_days"
	FactorNightShifts     = "night_shifts"
	FactorRestDeficit     = "rest_deficit"
)

// Score is the full fatigue assessment for one worker.
type Score struct {
	WorkerID generic.WorkerID
	AsOf     generic.TimePoint

	Score float64
	Risk  RiskLevel

	Factors         []Factor
	Recommendations []string

	// ProjectedNext is an ADVISORY next-period estimate produced by the
	// configured Estimator. It is not load-bearing for compliance.
	ProjectedNext float64
}

// =============================================================================
// VIOLATIONS
// =============================================================================

type ViolationType string

const (
	ViolationConsecutiveDays ViolationType = "consecutive_days"
	ViolationWeeklyHours     ViolationType = "weekly_hours"
	ViolationRestBreak       ViolationType = "rest_break"
)

type ViolationSeverity string

const (
	SeverityWarning   ViolationSeverity = "warning"
	SeverityViolation ViolationSeverity = "violation"
	SeverityCritical  ViolationSeverity = "critical"
)

// Violation is a single concrete rule breach.
type Violation struct {
	WorkerID   generic.WorkerID
	Type       ViolationType
	Current    float64
	Limit      float64
	Severity   ViolationSeverity
	DetectedAt generic.TimePoint

	// Acknowledged starts false; managers flip it after review.
	Acknowledged bool
}
