package generic

// =============================================================================
// PERIOD - Time boundary for balance and accrual calculation
// =============================================================================

// Period defines the time boundary for a balance or accrual calculation.
// Balance is ALWAYS computed for a period, not at a point in time.
//
// Examples:
//   - Calendar year 2026: Jan 1 - Dec 31
//   - Fortnightly pay period: Mon Jan 5 - Sun Jan 18
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the time point is within the period [Start, End].
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// PayCycle defines how pay periods are calculated.
type PayCycle string

const (
	CycleWeekly      PayCycle = "weekly"
	CycleFortnightly PayCycle = "fortnightly"
	CycleMonthly     PayCycle = "monthly"
)

// PayCycleConfig anchors a repeating pay cycle. Anchor is the first day of
// any known period; weekly and fortnightly cycles count forward and backward
// from it, monthly cycles use the anchor's day-of-month.
type PayCycleConfig struct {
	Cycle  PayCycle
	Anchor TimePoint
}

// PeriodFor returns the pay period that contains the given date.
func (pc PayCycleConfig) PeriodFor(date TimePoint) Period {
	switch pc.Cycle {
	case CycleMonthly:
		return pc.monthlyPeriod(date)
	case CycleWeekly:
		return pc.rollingPeriod(date, 7)
	case CycleFortnightly:
		return pc.rollingPeriod(date, 14)
	default:
		return pc.rollingPeriod(date, 14)
	}
}

func (pc PayCycleConfig) rollingPeriod(date TimePoint, length int) Period {
	offset := DaysBetween(pc.Anchor, date)
	// Floor division so dates before the anchor land in earlier periods.
	periods := offset / length
	if offset < 0 && offset%length != 0 {
		periods--
	}
	start := pc.Anchor.AddDays(periods * length)
	return Period{Start: start, End: start.AddDays(length - 1)}
}

func (pc PayCycleConfig) monthlyPeriod(date TimePoint) Period {
	anchorDay := pc.Anchor.Day()
	start := NewTimePoint(date.Year(), date.Month(), anchorDay)
	if date.Before(start) {
		start = start.AddMonths(-1)
	}
	return Period{Start: start, End: start.AddMonths(1).AddDays(-1)}
}

// NextPeriod returns the period following this one.
func (p Period) NextPeriod() Period {
	newStart := p.End.AddDays(1)
	duration := DaysBetween(p.Start, p.End)
	newEnd := newStart.AddDays(duration)
	return Period{Start: newStart, End: newEnd}
}

// PreviousPeriod returns the period before this one.
func (p Period) PreviousPeriod() Period {
	duration := DaysBetween(p.Start, p.End)
	newEnd := p.Start.AddDays(-1)
	newStart := newEnd.AddDays(-duration)
	return Period{Start: newStart, End: newEnd}
}

// CalendarYear returns the calendar-year period containing the date.
func CalendarYear(date TimePoint) Period {
	return Period{Start: StartOfYear(date.Year()), End: EndOfYear(date.Year())}
}

// TrailingDays returns the period covering the N days ending at 'end'
// inclusive. Fatigue lookback windows are built from this.
func TrailingDays(end TimePoint, n int) Period {
	return Period{Start: end.AddDays(-(n - 1)), End: end}
}
