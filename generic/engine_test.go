package generic_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/generic/store"
)

// ===== HELPERS =====

type testEntitlement string

func (e testEntitlement) EntitlementID() string     { return string(e) }
func (e testEntitlement) EntitlementDomain() string { return "test" }

const entAnnual testEntitlement = "annual_leave"

func hoursTx(id, key string, effective generic.TimePoint, hours float64) generic.Transaction {
	return generic.Transaction{
		ID:             generic.TransactionID(id),
		WorkerID:       "wkr-1",
		Entitlement:    entAnnual,
		EffectiveAt:    effective,
		Delta:          generic.NewAmount(hours, generic.UnitHours),
		Type:           generic.TxAccrual,
		IdempotencyKey: key,
		CreatedAt:      effective,
	}
}

// ===== AMOUNT =====

func TestAmount_Arithmetic(t *testing.T) {
	a := generic.NewAmount(7.6, generic.UnitHours)
	b := generic.NewAmount(2.4, generic.UnitHours)

	sum := a.Add(b)
	if !sum.Value.Equal(decimal.NewFromFloat(10)) {
		t.Errorf("7.6 + 2.4 = %s, want 10", sum.Value)
	}

	diff := a.Sub(b)
	if !diff.Value.Equal(decimal.NewFromFloat(5.2)) {
		t.Errorf("7.6 - 2.4 = %s, want 5.2", diff.Value)
	}

	if !a.Neg().IsNegative() {
		t.Error("negated amount should be negative")
	}
}

func TestAmount_InDays(t *testing.T) {
	// 7.6 hours is exactly one standard day.
	day := generic.NewAmount(7.6, generic.UnitHours).InDays()

	if day.Unit != generic.UnitDays {
		t.Errorf("unit: got %s, want days", day.Unit)
	}
	if !day.Value.Equal(decimal.NewFromInt(1)) {
		t.Errorf("7.6h = %s days, want 1", day.Value)
	}

	// Non-hour amounts pass through untouched.
	weeks := generic.NewAmount(2, generic.UnitWeeks).InDays()
	if weeks.Unit != generic.UnitWeeks {
		t.Error("non-hour amounts should not convert")
	}
}

// ===== CLOCK =====

func TestParseClock(t *testing.T) {
	c, err := generic.ParseClock("09:30")
	if err != nil {
		t.Fatalf("parse 09:30: %v", err)
	}
	if c.Hour != 9 || c.Minute != 30 {
		t.Errorf("got %02d:%02d", c.Hour, c.Minute)
	}

	for _, bad := range []string{"", "24:00", "12:60", "-1:00", "noon"} {
		if _, err := generic.ParseClock(bad); err == nil {
			t.Errorf("expected rejection of %q", bad)
		}
		var parseErr *generic.ClockParseError
		if _, err := generic.ParseClock(bad); !errors.As(err, &parseErr) {
			t.Errorf("expected ClockParseError for %q, got %v", bad, err)
		}
	}
}

// ===== PAY CYCLE =====

func TestPayCycle_FortnightlyPeriods(t *testing.T) {
	// GIVEN: A fortnightly cycle anchored Monday 2024-01-01
	// THEN: Every date maps to the 14-day period containing it

	pc := generic.PayCycleConfig{
		Cycle:  generic.CycleFortnightly,
		Anchor: generic.NewTimePoint(2024, time.January, 1),
	}

	p := pc.PeriodFor(generic.NewTimePoint(2024, time.January, 1))
	if !p.Start.Equal(pc.Anchor) || !p.End.Equal(generic.NewTimePoint(2024, time.January, 14)) {
		t.Errorf("anchor period: %s", p)
	}

	// Last day of the first period stays in it; the next day rolls over.
	if got := pc.PeriodFor(generic.NewTimePoint(2024, time.January, 14)); !got.Start.Equal(pc.Anchor) {
		t.Errorf("Jan 14 should be in the anchor period, got %s", got)
	}
	if got := pc.PeriodFor(generic.NewTimePoint(2024, time.January, 15)); !got.Start.Equal(generic.NewTimePoint(2024, time.January, 15)) {
		t.Errorf("Jan 15 should start the second period, got %s", got)
	}
}

func TestPayCycle_DatesBeforeAnchor(t *testing.T) {
	// Floor division: dates before the anchor land in earlier periods.
	pc := generic.PayCycleConfig{
		Cycle:  generic.CycleFortnightly,
		Anchor: generic.NewTimePoint(2024, time.January, 15),
	}

	p := pc.PeriodFor(generic.NewTimePoint(2024, time.January, 10))
	if !p.Start.Equal(generic.NewTimePoint(2024, time.January, 1)) {
		t.Errorf("period start: %s, want 2024-01-01", p.Start)
	}
	if !p.Contains(generic.NewTimePoint(2024, time.January, 10)) {
		t.Error("period must contain its query date")
	}
}

func TestPayCycle_Monthly(t *testing.T) {
	pc := generic.PayCycleConfig{
		Cycle:  generic.CycleMonthly,
		Anchor: generic.NewTimePoint(2024, time.January, 15),
	}

	p := pc.PeriodFor(generic.NewTimePoint(2026, time.March, 20))
	if !p.Start.Equal(generic.NewTimePoint(2026, time.March, 15)) {
		t.Errorf("period start: %s", p.Start)
	}
	if !p.End.Equal(generic.NewTimePoint(2026, time.April, 14)) {
		t.Errorf("period end: %s", p.End)
	}

	// A date before this month's anchor day belongs to the prior period.
	early := pc.PeriodFor(generic.NewTimePoint(2026, time.March, 10))
	if !early.Start.Equal(generic.NewTimePoint(2026, time.February, 15)) {
		t.Errorf("early period start: %s", early.Start)
	}
}

func TestPeriod_Navigation(t *testing.T) {
	p := generic.Period{
		Start: generic.NewTimePoint(2026, time.March, 2),
		End:   generic.NewTimePoint(2026, time.March, 15),
	}

	next := p.NextPeriod()
	if !next.Start.Equal(generic.NewTimePoint(2026, time.March, 16)) ||
		!next.End.Equal(generic.NewTimePoint(2026, time.March, 29)) {
		t.Errorf("next period: %s", next)
	}

	if prev := next.PreviousPeriod(); !prev.Start.Equal(p.Start) || !prev.End.Equal(p.End) {
		t.Errorf("previous of next should round-trip, got %s", prev)
	}
}

func TestTrailingDays(t *testing.T) {
	// A 14-day window ending March 15 starts March 2, inclusive both ends.
	end := generic.NewTimePoint(2026, time.March, 15)
	w := generic.TrailingDays(end, 14)

	if !w.Start.Equal(generic.NewTimePoint(2026, time.March, 2)) {
		t.Errorf("window start: %s", w.Start)
	}
	if !w.Contains(w.Start) || !w.Contains(end) {
		t.Error("window must include both endpoints")
	}
	if w.Contains(generic.NewTimePoint(2026, time.March, 1)) {
		t.Error("window must exclude the day before its start")
	}
}

// ===== SEVERITY =====

func TestSeverity_WorseAndGrading(t *testing.T) {
	if generic.SeverityWarning.Worse(generic.SeverityBlocking) != generic.SeverityBlocking {
		t.Error("blocking outranks warning")
	}
	if generic.SeverityOK.Worse(generic.SeverityWarning) != generic.SeverityWarning {
		t.Error("warning outranks ok")
	}

	if got := generic.GradeOutcome(nil, nil); got != generic.SeverityOK {
		t.Errorf("no issues should grade ok, got %s", got)
	}
	if got := generic.GradeOutcome([]string{"w"}, nil); got != generic.SeverityWarning {
		t.Errorf("warnings only should grade warning, got %s", got)
	}
	if got := generic.GradeOutcome([]string{"w"}, []string{"b"}); got != generic.SeverityBlocking {
		t.Errorf("any blocking issue should grade blocking, got %s", got)
	}
}

// ===== LEDGER =====

func TestLedger_AppendAndBalanceReplay(t *testing.T) {
	// GIVEN: Three transactions over three months
	// THEN: BalanceAt replays only those effective at or before the query

	ctx := context.Background()
	ledger := generic.NewLedger(store.NewMemory())

	jan := generic.NewTimePoint(2026, time.January, 14)
	feb := generic.NewTimePoint(2026, time.February, 14)
	mar := generic.NewTimePoint(2026, time.March, 14)

	for i, tx := range []generic.Transaction{
		hoursTx("t1", "k1", jan, 5),
		hoursTx("t2", "k2", feb, 5),
		hoursTx("t3", "k3", mar, -3),
	} {
		if err := ledger.Append(ctx, tx); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	at, err := ledger.BalanceAt(ctx, "wkr-1", entAnnual, feb, generic.UnitHours)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !at.Value.Equal(decimal.NewFromInt(10)) {
		t.Errorf("balance at feb: %s, want 10", at.Value)
	}

	final, err := ledger.BalanceAt(ctx, "wkr-1", entAnnual, mar, generic.UnitHours)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !final.Value.Equal(decimal.NewFromInt(7)) {
		t.Errorf("balance at mar: %s, want 7", final.Value)
	}
}

func TestLedger_DuplicateIdempotencyKey(t *testing.T) {
	ctx := context.Background()
	ledger := generic.NewLedger(store.NewMemory())
	effective := generic.NewTimePoint(2026, time.January, 14)

	if err := ledger.Append(ctx, hoursTx("t1", "same-key", effective, 5)); err != nil {
		t.Fatalf("first append: %v", err)
	}

	err := ledger.Append(ctx, hoursTx("t2", "same-key", effective, 5))
	var dup *generic.DuplicateTransactionError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateTransactionError, got %v", err)
	}
	if dup.IdempotencyKey != "same-key" || dup.WorkerID != "wkr-1" {
		t.Errorf("error context: %+v", dup)
	}
	if !errors.Is(err, generic.ErrDuplicateIdempotencyKey) {
		t.Error("duplicate error should unwrap to the sentinel")
	}
}

func TestLedger_AppendBatchRejectsAnyDuplicate(t *testing.T) {
	// One colliding key rejects the whole batch before anything lands.
	ctx := context.Background()
	ledger := generic.NewLedger(store.NewMemory())
	effective := generic.NewTimePoint(2026, time.January, 14)

	if err := ledger.Append(ctx, hoursTx("t1", "k1", effective, 5)); err != nil {
		t.Fatalf("seed append: %v", err)
	}

	err := ledger.AppendBatch(ctx, []generic.Transaction{
		hoursTx("t2", "k2", effective, 5),
		hoursTx("t3", "k1", effective, 5),
	})
	if !errors.Is(err, generic.ErrDuplicateIdempotencyKey) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	balance, err := ledger.BalanceAt(ctx, "wkr-1", entAnnual, effective, generic.UnitHours)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Value.Equal(decimal.NewFromInt(5)) {
		t.Errorf("batch must not partially apply: balance %s, want 5", balance.Value)
	}
}
