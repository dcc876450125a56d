/*
violations.go - Discrete fatigue rule breaches

PURPOSE:
  While the score blends factors into one number, violations are concrete
  breaches of a single configured limit: too many consecutive days, too
  many weekly hours, or insufficient rest between shifts.

GRADING:
  Each violation is tagged by how far past the limit the value sits:
    within 10% over  -> warning
    within 20% over  -> violation
    more than 20%    -> critical
  Rest breaches grade on the deficit below the minimum instead.

  A metric at or below its limit never produces a violation.
*/
package fatigue

import (
	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/roster"
)

// Violations detects discrete rule breaches for one worker over the
// trailing 14 days ending at ref.
func (sc *Scorer) Violations(worker roster.WorkerRecord, allShifts []roster.ShiftRecord, ref generic.TimePoint) []Violation {
	history := sc.history(worker.ID, allShifts, ref, 14)
	week := sc.history(worker.ID, allShifts, ref, 7)

	var out []Violation

	if consecutive := longestRun(history); consecutive > sc.Rules.MaxConsecutiveDays {
		out = append(out, Violation{
			WorkerID:   worker.ID,
			Type:       ViolationConsecutiveDays,
			Current:    float64(consecutive),
			Limit:      float64(sc.Rules.MaxConsecutiveDays),
			Severity:   gradeOver(float64(consecutive), float64(sc.Rules.MaxConsecutiveDays)),
			DetectedAt: ref,
		})
	}

	if weekly := totalHours(week); weekly > sc.Rules.MaxWeeklyHours {
		out = append(out, Violation{
			WorkerID:   worker.ID,
			Type:       ViolationWeeklyHours,
			Current:    weekly,
			Limit:      sc.Rules.MaxWeeklyHours,
			Severity:   gradeOver(weekly, sc.Rules.MaxWeeklyHours),
			DetectedAt: ref,
		})
	}

	if minRest, _, pairs := restGaps(history); pairs > 0 && minRest < sc.Rules.MinRestHours {
		out = append(out, Violation{
			WorkerID:   worker.ID,
			Type:       ViolationRestBreak,
			Current:    minRest,
			Limit:      sc.Rules.MinRestHours,
			Severity:   gradeUnder(minRest, sc.Rules.MinRestHours),
			DetectedAt: ref,
		})
	}

	return out
}

// gradeOver grades a value exceeding its limit.
func gradeOver(value, limit float64) ViolationSeverity {
	if limit <= 0 {
		return SeverityCritical
	}
	excess := (value - limit) / limit
	switch {
	case excess > 0.2:
		return SeverityCritical
	case excess > 0.1:
		return SeverityViolation
	default:
		return SeverityWarning
	}
}

// gradeUnder grades a value falling short of its minimum.
func gradeUnder(value, minimum float64) ViolationSeverity {
	if minimum <= 0 {
		return SeverityWarning
	}
	deficit := (minimum - value) / minimum
	switch {
	case deficit > 0.2:
		return SeverityCritical
	case deficit > 0.1:
		return SeverityViolation
	default:
		return SeverityWarning
	}
}
