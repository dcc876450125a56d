package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// TIME POINT - Calendar-date abstraction (rosters are day-keyed)
// =============================================================================

type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// Today reads the wall clock. For API-boundary defaults only; engines take
// explicit reference instants.
func Today() TimePoint {
	return FromTime(time.Now().UTC())
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool  { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool  { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool {
	return tp.Before(other) || tp.Equal(other)
}
func (tp TimePoint) AfterOrEqual(other TimePoint) bool {
	return tp.After(other) || tp.Equal(other)
}

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint   { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }
func (tp TimePoint) AddMonths(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(0, n, 0)} }
func (tp TimePoint) AddYears(n int) TimePoint  { return TimePoint{Time: tp.Time.AddDate(n, 0, 0)} }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

func (tp TimePoint) String() string { return tp.Time.Format("2006-01-02") }

// At anchors a clock time to this calendar date, producing an absolute
// instant. Shift windows are built from exactly this operation.
func (tp TimePoint) At(c ClockTime) time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(),
		c.Hour, c.Minute, 0, 0, time.UTC)
}

func DaysBetween(from, to TimePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

func StartOfYear(year int) TimePoint { return NewTimePoint(year, time.January, 1) }
func EndOfYear(year int) TimePoint   { return NewTimePoint(year, time.December, 31) }

// =============================================================================
// CLOCK TIME - Wall-clock time of day, independent of date
// =============================================================================

// ClockTime is an already-validated time of day. Raw "HH:MM" strings from
// external callers must go through ParseClock; once a ClockTime exists the
// engines treat it as well-formed and never re-validate.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (24-hour). This is the single rejection point
// for malformed clock strings; engines downstream assume validity.
func ParseClock(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return ClockTime{}, &ClockParseError{Input: s}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return ClockTime{}, &ClockParseError{Input: s}
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

// MustParseClock panics on malformed input. Use in tests and static presets.
func MustParseClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) MinutesOfDay() int { return c.Hour*60 + c.Minute }

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }
