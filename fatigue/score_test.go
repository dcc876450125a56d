package fatigue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/roster-engine/fatigue"
	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/roster"
)

// ===== TEST FIXTURES =====

var ref = generic.NewTimePoint(2026, time.March, 15)

func worker() roster.WorkerRecord {
	return roster.WorkerRecord{
		ID:             "wkr-1",
		Name:           "Aisha",
		Basis:          roster.BasisPermanent,
		MaxWeeklyHours: 38,
	}
}

// shiftOn builds a scheduled shift for wkr-1 on ref minus daysAgo.
func shiftOn(daysAgo int, start, end string) roster.ShiftRecord {
	return roster.ShiftRecord{
		ID:       start + "-" + ref.AddDays(-daysAgo).String(),
		WorkerID: "wkr-1",
		RoomID:   "room-1",
		Date:     ref.AddDays(-daysAgo),
		Start:    generic.MustParseClock(start),
		End:      generic.MustParseClock(end),
		Status:   roster.StatusScheduled,
	}
}

func defaultRules() fatigue.RuleConfig {
	return fatigue.RuleConfig{
		MaxConsecutiveDays:   6,
		MaxWeeklyHours:       50,
		MinRestHours:         10,
		MaxConsecutiveNights: 4,
		NightWindow:          fatigue.NightWindow{StartHour: 22, EndHour: 6},
		CriticalScore:        80,
	}
}

// ===== SCORE =====

func TestScore_EmptyHistoryIsZeroAndLow(t *testing.T) {
	// GIVEN: No shift history at all
	// THEN: Zero score, low risk, four zero-point factors, no error path

	sc := fatigue.NewScorer(defaultRules())
	s := sc.Score(worker(), nil, ref)

	assert.Equal(t, 0.0, s.Score)
	assert.Equal(t, fatigue.RiskLow, s.Risk)
	require.Len(t, s.Factors, 4)
	for _, f := range s.Factors {
		assert.Equal(t, 0.0, f.Points, f.Name)
	}
	assert.Empty(t, s.Recommendations)
}

func TestScore_MaxWeeklyHoursAloneIsStillLowRisk(t *testing.T) {
	// GIVEN: Rules where only the weekly-hours factor can contribute and a
	//        single shift hitting the weekly limit exactly
	// THEN: Score is exactly the 35-point weekly budget, which stays in the
	//       low band (bands start at 40)

	rules := defaultRules()
	rules.MaxWeeklyHours = 10
	rules.MaxConsecutiveDays = 0
	rules.MaxConsecutiveNights = 0

	sc := fatigue.NewScorer(rules)
	shifts := []roster.ShiftRecord{shiftOn(0, "08:00", "18:00")}

	s := sc.Score(worker(), shifts, ref)

	assert.Equal(t, 35.0, s.Score)
	assert.Equal(t, fatigue.RiskLow, s.Risk)
}

func TestScore_FactorBudgetsAreCapped(t *testing.T) {
	// GIVEN: A brutal fortnight blowing every limit
	// THEN: Each factor caps at its budget and the score caps at 100

	sc := fatigue.NewScorer(defaultRules())
	var shifts []roster.ShiftRecord
	for d := 0; d < 14; d++ {
		shifts = append(shifts, shiftOn(d, "22:00", "09:00"))
	}

	s := sc.Score(worker(), shifts, ref)

	byName := make(map[string]fatigue.Factor)
	for _, f := range s.Factors {
		byName[f.Name] = f
		assert.LessOrEqual(t, f.Points, f.Max, f.Name)
	}

	// 7 days x 11h = 77h against a 50h limit: weekly factor at its cap.
	assert.Equal(t, 35.0, byName[fatigue.FactorWeeklyHours].Points)
	// 14 straight days against a 6-day limit: consecutive factor at its cap.
	assert.Equal(t, 30.0, byName[fatigue.FactorConsecutiveDays].Points)
	// 7 night shifts against a limit of 4: night factor at its cap.
	assert.Equal(t, 20.0, byName[fatigue.FactorNightShifts].Points)

	assert.LessOrEqual(t, s.Score, 100.0)
	assert.Equal(t, fatigue.RiskCritical, s.Risk)
	assert.Contains(t, s.Recommendations, "mandatory manager review before assigning further shifts")
}

func TestScore_RestDeficitFactor(t *testing.T) {
	// GIVEN: An overnight shift ending 06:00 followed by a 14:00 start the
	//        same day (8h rest against a 10h minimum)
	// THEN: The rest factor carries a 20% deficit worth 3 of 15 points

	sc := fatigue.NewScorer(defaultRules())
	shifts := []roster.ShiftRecord{
		shiftOn(1, "22:00", "06:00"),
		shiftOn(0, "14:00", "20:00"),
	}

	s := sc.Score(worker(), shifts, ref)

	var rest fatigue.Factor
	for _, f := range s.Factors {
		if f.Name == fatigue.FactorRestDeficit {
			rest = f
		}
	}
	assert.InDelta(t, 3.0, rest.Points, 0.0001)
	assert.Contains(t, s.Recommendations, "ensure a minimum of 10 hours rest between shifts")
}

func TestScore_CancelledShiftsIgnored(t *testing.T) {
	sc := fatigue.NewScorer(defaultRules())
	cancelled := shiftOn(0, "08:00", "18:00")
	cancelled.Status = roster.StatusCancelled

	s := sc.Score(worker(), []roster.ShiftRecord{cancelled}, ref)

	assert.Equal(t, 0.0, s.Score)
}

func TestScore_OtherWorkersShiftsIgnored(t *testing.T) {
	sc := fatigue.NewScorer(defaultRules())
	other := shiftOn(0, "08:00", "18:00")
	other.WorkerID = "wkr-2"

	s := sc.Score(worker(), []roster.ShiftRecord{other}, ref)

	assert.Equal(t, 0.0, s.Score)
}

func TestScore_ShiftsOutsideLookbackIgnored(t *testing.T) {
	// A shift 14 days before ref falls outside the trailing 14-day window
	// (the window covers ref-13 through ref inclusive).
	sc := fatigue.NewScorer(defaultRules())
	s := sc.Score(worker(), []roster.ShiftRecord{shiftOn(14, "08:00", "18:00")}, ref)

	assert.Equal(t, 0.0, s.Score)
}

func TestScore_Deterministic(t *testing.T) {
	sc := fatigue.NewScorer(defaultRules())
	shifts := []roster.ShiftRecord{
		shiftOn(2, "08:00", "16:00"),
		shiftOn(1, "22:00", "06:00"),
		shiftOn(0, "14:00", "20:00"),
	}

	a := sc.Score(worker(), shifts, ref)
	b := sc.Score(worker(), shifts, ref)
	assert.Equal(t, a, b)
}

// ===== RISK BANDS =====

func TestRiskFor_Bands(t *testing.T) {
	assert.Equal(t, fatigue.RiskLow, fatigue.RiskFor(0))
	assert.Equal(t, fatigue.RiskLow, fatigue.RiskFor(39.9))
	assert.Equal(t, fatigue.RiskModerate, fatigue.RiskFor(40))
	assert.Equal(t, fatigue.RiskModerate, fatigue.RiskFor(59.9))
	assert.Equal(t, fatigue.RiskHigh, fatigue.RiskFor(60))
	assert.Equal(t, fatigue.RiskHigh, fatigue.RiskFor(79.9))
	assert.Equal(t, fatigue.RiskCritical, fatigue.RiskFor(80))
	assert.Equal(t, fatigue.RiskCritical, fatigue.RiskFor(100))
}

// ===== NIGHT WINDOW =====

func TestNightWindow_WrapsMidnight(t *testing.T) {
	w := fatigue.NightWindow{StartHour: 22, EndHour: 6}

	assert.True(t, w.ContainsHour(22))
	assert.True(t, w.ContainsHour(23))
	assert.True(t, w.ContainsHour(0))
	assert.True(t, w.ContainsHour(6))
	assert.False(t, w.ContainsHour(7))
	assert.False(t, w.ContainsHour(21))
}

// ===== PROJECTION =====

func TestDecayEstimator_FixedRecovery(t *testing.T) {
	e := fatigue.DecayEstimator{Decay: 5}

	assert.Equal(t, 45.0, e.ProjectNext(50, nil))
	assert.Equal(t, 0.0, e.ProjectNext(3, nil), "projection floors at zero")
}

func TestJitterEstimator_SeededReproducible(t *testing.T) {
	a := fatigue.NewJitterEstimator(42, 5, 2)
	b := fatigue.NewJitterEstimator(42, 5, 2)

	assert.Equal(t, a.ProjectNext(50, nil), b.ProjectNext(50, nil))
}
