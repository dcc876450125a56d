/*
score.go - Weighted fatigue score calculation

PURPOSE:
  Derives the four raw fatigue metrics from a worker's trailing 14-day
  shift history, converts each to a ratio against its configured limit,
  and caps each into its fixed point budget:

    weekly-hours ratio      × 35  (max 35)
    consecutive-days ratio  × 30  (max 30)
    night-shift ratio       × 20  (max 20)
    rest-deficit ratio      × 15  (max 15)

  The capped contributions sum to the 0-100 score.

METRICS:
  1. Weekly hours: net worked hours for shifts in the trailing 7 days
  2. Consecutive days: longest run of calendar days with at least one
     shift, breaking whenever the gap between worked dates exceeds 1 day
  3. Night shifts: trailing-7-day shifts whose start or end hour falls in
     the night window, or which cross midnight
  4. Rest: min and average gap between the end of each shift and the start
     of the next, over adjacent pairs with a positive gap
*/
package fatigue

import (
	"fmt"
	"sort"

	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// SCORER
// =============================================================================

// Scorer computes fatigue scores under one rule configuration. The
// Estimator produces the advisory next-period projection only; swapping it
// never changes the score itself.
type Scorer struct {
	Rules     RuleConfig
	Estimator Estimator
}

func NewScorer(rules RuleConfig) *Scorer {
	return &Scorer{Rules: rules, Estimator: DecayEstimator{Decay: 5}}
}

// Score computes the weighted fatigue score for one worker from the
// trailing 14 days of shift history ending at ref.
func (sc *Scorer) Score(worker roster.WorkerRecord, allShifts []roster.ShiftRecord, ref generic.TimePoint) Score {
	history := sc.history(worker.ID, allShifts, ref, 14)
	week := sc.history(worker.ID, allShifts, ref, 7)

	weeklyHours := totalHours(week)
	consecutive := longestRun(history)
	nights := sc.nightShifts(week)
	minRest, avgRest, restPairs := restGaps(history)

	factors := []Factor{
		sc.weeklyFactor(weeklyHours),
		sc.consecutiveFactor(consecutive),
		sc.nightFactor(nights),
		sc.restFactor(minRest, avgRest, restPairs),
	}

	total := 0.0
	for _, f := range factors {
		total += f.Points
	}
	if total > 100 {
		total = 100
	}

	score := Score{
		WorkerID:        worker.ID,
		AsOf:            ref,
		Score:           total,
		Risk:            RiskFor(total),
		Factors:         factors,
		Recommendations: sc.recommend(total, consecutive, minRest, restPairs),
	}
	score.ProjectedNext = sc.Estimator.ProjectNext(total, factors)
	return score
}

// history restricts allShifts to the worker's shifts dated within the
// trailing n days ending at ref, normalized and sorted by start instant.
func (sc *Scorer) history(workerID generic.WorkerID, shifts []roster.ShiftRecord, ref generic.TimePoint, n int) []roster.NormalizedShift {
	window := generic.TrailingDays(ref, n)

	var out []roster.NormalizedShift
	for _, s := range shifts {
		if s.WorkerID != workerID || !s.CountsForStaffing() {
			continue
		}
		if !window.Contains(s.Date) {
			continue
		}
		out = append(out, roster.Normalize(s))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartAt.Before(out[j].StartAt)
	})
	return out
}

// =============================================================================
// RAW METRICS
// =============================================================================

func totalHours(shifts []roster.NormalizedShift) float64 {
	total := 0.0
	for _, s := range shifts {
		total += s.WorkedHours
	}
	return total
}

// longestRun finds the longest streak of consecutive worked calendar days.
func longestRun(shifts []roster.NormalizedShift) int {
	if len(shifts) == 0 {
		return 0
	}

	seen := make(map[string]generic.TimePoint)
	for _, s := range shifts {
		seen[s.Shift.Date.String()] = s.Shift.Date
	}

	dates := make([]generic.TimePoint, 0, len(seen))
	for _, d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if generic.DaysBetween(dates[i-1], dates[i]) <= 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// nightShifts counts shifts touching the night window or crossing midnight.
func (sc *Scorer) nightShifts(shifts []roster.NormalizedShift) int {
	n := 0
	for _, s := range shifts {
		start, end := s.Shift.Start.Hour, s.Shift.End.Hour
		if sc.Rules.NightWindow.ContainsHour(start) ||
			sc.Rules.NightWindow.ContainsHour(end) ||
			end < start {
			n++
		}
	}
	return n
}

// restGaps computes the minimum and average rest between adjacent shifts.
// Only pairs with a positive gap count; overlapping roster entries are a
// data problem, not a zero-rest event.
func restGaps(shifts []roster.NormalizedShift) (minRest, avgRest float64, pairs int) {
	for i := 1; i < len(shifts); i++ {
		gap := shifts[i].StartAt.Sub(shifts[i-1].EndAt).Hours()
		if gap <= 0 {
			continue
		}
		if pairs == 0 || gap < minRest {
			minRest = gap
		}
		avgRest += gap
		pairs++
	}
	if pairs > 0 {
		avgRest /= float64(pairs)
	}
	return minRest, avgRest, pairs
}

// =============================================================================
// WEIGHTED FACTORS
// =============================================================================

func cappedRatio(value, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	r := value / limit
	if r > 1 {
		r = 1
	}
	return r
}

func (sc *Scorer) weeklyFactor(hours float64) Factor {
	return Factor{
		Name:   FactorWeeklyHours,
		Points: cappedRatio(hours, sc.Rules.MaxWeeklyHours) * 35,
		Max:    35,
		Detail: fmt.Sprintf("%.1f of %.1f max weekly hours", hours, sc.Rules.MaxWeeklyHours),
	}
}

func (sc *Scorer) consecutiveFactor(days int) Factor {
	return Factor{
		Name:   FactorConsecutiveDays,
		Points: cappedRatio(float64(days), float64(sc.Rules.MaxConsecutiveDays)) * 30,
		Max:    30,
		Detail: fmt.Sprintf("%d of %d max consecutive days", days, sc.Rules.MaxConsecutiveDays),
	}
}

func (sc *Scorer) nightFactor(nights int) Factor {
	return Factor{
		Name:   FactorNightShifts,
		Points: cappedRatio(float64(nights), float64(sc.Rules.MaxConsecutiveNights)) * 20,
		Max:    20,
		Detail: fmt.Sprintf("%d night shifts this week (limit %d)", nights, sc.Rules.MaxConsecutiveNights),
	}
}

func (sc *Scorer) restFactor(minRest, avgRest float64, pairs int) Factor {
	f := Factor{Name: FactorRestDeficit, Max: 15}
	if pairs == 0 {
		f.Detail = "no adjacent shift pairs to measure rest"
		return f
	}

	if minRest < sc.Rules.MinRestHours {
		deficit := (sc.Rules.MinRestHours - minRest) / sc.Rules.MinRestHours
		f.Points = cappedRatio(deficit, 1) * 15
	}
	f.Detail = fmt.Sprintf("min rest %.1fh, avg %.1fh (required %.1fh)",
		minRest, avgRest, sc.Rules.MinRestHours)
	return f
}

// =============================================================================
// RECOMMENDATIONS
// =============================================================================

func (sc *Scorer) recommend(score float64, consecutive int, minRest float64, restPairs int) []string {
	var recs []string

	if restPairs > 0 && minRest < sc.Rules.MinRestHours {
		recs = append(recs, fmt.Sprintf(
			"ensure a minimum of %.0f hours rest between shifts", sc.Rules.MinRestHours))
	}

	if consecutive >= sc.Rules.MaxConsecutiveDays {
		recs = append(recs, "schedule a rest day urgently: consecutive work days at or above the limit")
	}

	if score >= sc.Rules.CriticalScore {
		recs = append(recs, "mandatory manager review before assigning further shifts")
	}

	return recs
}
