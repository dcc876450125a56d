package roster

import (
	"fmt"
	"sort"

	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// STAFFING SUGGESTION - Minimal-cost roster recommendation
// =============================================================================

// StaffingSuggestion is a minimal-cost staffing recommendation for a room.
type StaffingSuggestion struct {
	Workers            []WorkerRecord
	RequiredEducators  int
	RequiredQualified  int
	SatisfiesRatio     bool
	SatisfiesQualified bool
	Message            string
}

// SuggestOptimalStaffing recommends the cheapest worker set that satisfies
// the room's ratio requirement.
//
// Selection is greedy: candidates sorted by ascending hourly rate, taking
// the required headcount. If the greedy pick under-satisfies the qualified
// requirement, a swap pass exchanges the most expensive unqualified picks
// for the cheapest qualified workers left in the pool.
func (v *RatioValidator) SuggestOptimalStaffing(
	room Room,
	rule RoomRatioRule,
	bookedChildren int,
	available []WorkerRecord,
	asOf generic.TimePoint,
) StaffingSuggestion {
	required := requiredEducators(bookedChildren, rule.ChildrenPerEducator)
	requiredQual := ceilShare(required, v.Policy.QualifiedShare)

	if required == 0 {
		return StaffingSuggestion{
			RequiredEducators:  0,
			RequiredQualified:  0,
			SatisfiesRatio:     true,
			SatisfiesQualified: true,
			Message:            fmt.Sprintf("no educators required for %d booked children", bookedChildren),
		}
	}

	qualifies := func(w WorkerRecord) bool {
		return !rule.RequiresQualified || w.HoldsQualification(rule.Qualification, asOf)
	}

	candidates := make([]WorkerRecord, len(available))
	copy(candidates, available)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].HourlyRate.LessThan(candidates[j].HourlyRate)
	})

	take := required
	if take > len(candidates) {
		take = len(candidates)
	}
	selected := candidates[:take]
	remaining := candidates[take:]

	countQualified := func(ws []WorkerRecord) int {
		n := 0
		for _, w := range ws {
			if qualifies(w) {
				n++
			}
		}
		return n
	}

	// Swap pass: trade unqualified picks for the cheapest qualified workers
	// still in the pool until the qualified requirement is met or the pool
	// runs dry. Remaining is already rate-sorted within each class.
	if countQualified(selected) < requiredQual {
		poolQualified := make([]WorkerRecord, 0, len(remaining))
		for _, w := range remaining {
			if qualifies(w) {
				poolQualified = append(poolQualified, w)
			}
		}

		for i := len(selected) - 1; i >= 0 && len(poolQualified) > 0; i-- {
			if countQualified(selected) >= requiredQual {
				break
			}
			if qualifies(selected[i]) {
				continue
			}
			selected[i] = poolQualified[0]
			poolQualified = poolQualified[1:]
		}
	}

	gotQualified := countQualified(selected)
	suggestion := StaffingSuggestion{
		Workers:            selected,
		RequiredEducators:  required,
		RequiredQualified:  requiredQual,
		SatisfiesRatio:     len(selected) >= required,
		SatisfiesQualified: gotQualified >= requiredQual,
	}

	switch {
	case !suggestion.SatisfiesRatio:
		suggestion.Message = fmt.Sprintf(
			"insufficient available staff: %d of %d required educators for %s",
			len(selected), required, room.Name)
	case !suggestion.SatisfiesQualified:
		suggestion.Message = fmt.Sprintf(
			"staffed %d educators but only %d/%d hold %s",
			len(selected), gotQualified, requiredQual, rule.Qualification)
	default:
		suggestion.Message = fmt.Sprintf(
			"staff %s with %d educators (%d qualified) for %d children",
			room.Name, len(selected), gotQualified, bookedChildren)
	}

	return suggestion
}
