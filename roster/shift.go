package roster

import (
	"time"

	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// SHIFT WINDOW NORMALIZATION
// =============================================================================

// NormalizedShift is a ShiftRecord with derived absolute instants and net
// worked duration. Derived and ephemeral: recomputed on demand, never
// persisted.
type NormalizedShift struct {
	Shift ShiftRecord

	// Absolute window. EndAt is date-shifted by one day for overnight
	// shifts.
	StartAt time.Time
	EndAt   time.Time

	Overnight bool

	// Net worked duration in hours after break deduction, floored at zero.
	WorkedHours float64
}

// Normalize converts a raw shift record into an absolute start/end window
// and a net worked duration. An end hour numerically less than the start
// hour signals a shift that crosses midnight, so the end instant advances
// one calendar day.
//
// There are no error conditions: ShiftRecord carries validated ClockTime
// values, and a break longer than the worked span clamps the duration to
// zero rather than going negative.
func Normalize(s ShiftRecord) NormalizedShift {
	startAt := s.Date.At(s.Start)
	endAt := s.Date.At(s.End)

	overnight := s.End.Hour < s.Start.Hour
	if overnight {
		endAt = endAt.AddDate(0, 0, 1)
	}

	netMinutes := endAt.Sub(startAt).Minutes() - float64(s.BreakMinutes)
	if netMinutes < 0 {
		netMinutes = 0
	}

	return NormalizedShift{
		Shift:       s,
		StartAt:     startAt,
		EndAt:       endAt,
		Overnight:   overnight,
		WorkedHours: netMinutes / 60,
	}
}

// NormalizeAll maps Normalize over a shift set.
func NormalizeAll(shifts []ShiftRecord) []NormalizedShift {
	out := make([]NormalizedShift, len(shifts))
	for i, s := range shifts {
		out[i] = Normalize(s)
	}
	return out
}

// WorkedOn reports whether the shift's roster date matches the given day.
func (n NormalizedShift) WorkedOn(day generic.TimePoint) bool {
	return n.Shift.Date.Equal(day)
}
