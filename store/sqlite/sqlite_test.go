package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/leave"
	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/store/sqlite"
)

// ===== TEST SETUP =====

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func accrualTx(id, key string, effective generic.TimePoint, hours float64) generic.Transaction {
	return generic.Transaction{
		ID:             generic.TransactionID(id),
		WorkerID:       "wkr-1",
		Entitlement:    leave.Annual,
		EffectiveAt:    effective,
		Delta:          generic.NewAmount(hours, generic.UnitHours),
		Type:           generic.TxAccrual,
		Value:          decimal.NewFromFloat(hours * 40),
		Reason:         "76.00h × 0.076923 (4 weeks / 52)",
		IdempotencyKey: key,
		CreatedBy:      "payroll",
		CreatedByType:  "system",
		CreatedAt:      effective,
	}
}

// ===== TRANSACTIONS =====

func TestAppendAndLoad_RoundTrip(t *testing.T) {
	// GIVEN: An accrual transaction with full audit fields
	// WHEN: Appended and loaded back
	// THEN: Every field survives, entitlement rehydrated via the registry

	ctx := context.Background()
	s := newTestStore(t)
	effective := generic.NewTimePoint(2026, time.March, 15)

	require.NoError(t, s.Append(ctx, accrualTx("t1", "k1", effective, 5.85)))

	txs, err := s.Load(ctx, "wkr-1", leave.Annual)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	tx := txs[0]
	assert.Equal(t, generic.TransactionID("t1"), tx.ID)
	assert.Equal(t, leave.Annual.EntitlementID(), tx.Entitlement.EntitlementID())
	assert.True(t, tx.EffectiveAt.Equal(effective))
	assert.True(t, tx.Delta.Value.Equal(decimal.NewFromFloat(5.85)))
	assert.Equal(t, generic.UnitHours, tx.Delta.Unit)
	assert.Equal(t, generic.TxAccrual, tx.Type)
	assert.Equal(t, "76.00h × 0.076923 (4 weeks / 52)", tx.Reason)
	assert.Equal(t, "k1", tx.IdempotencyKey)
	assert.Equal(t, "payroll", tx.CreatedBy)
}

func TestAppend_DuplicateIdempotencyKey(t *testing.T) {
	// The unique index is the enforcement point, not application code.
	ctx := context.Background()
	s := newTestStore(t)
	effective := generic.NewTimePoint(2026, time.March, 15)

	require.NoError(t, s.Append(ctx, accrualTx("t1", "same", effective, 5)))

	err := s.Append(ctx, accrualTx("t2", "same", effective, 5))
	var dup *generic.DuplicateTransactionError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "same", dup.IdempotencyKey)
	assert.ErrorIs(t, err, generic.ErrDuplicateIdempotencyKey)
}

func TestAppendBatch_AtomicOnCollision(t *testing.T) {
	// GIVEN: A batch where the second entry collides with an existing key
	// THEN: Nothing from the batch lands

	ctx := context.Background()
	s := newTestStore(t)
	effective := generic.NewTimePoint(2026, time.March, 15)

	require.NoError(t, s.Append(ctx, accrualTx("t1", "k1", effective, 5)))

	err := s.AppendBatch(ctx, []generic.Transaction{
		accrualTx("t2", "k2", effective, 3),
		accrualTx("t3", "k1", effective, 3),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, generic.ErrDuplicateIdempotencyKey)

	txs, err := s.Load(ctx, "wkr-1", leave.Annual)
	require.NoError(t, err)
	assert.Len(t, txs, 1, "failed batch must not partially apply")
}

func TestAppendBatch_RejectsInBatchDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	effective := generic.NewTimePoint(2026, time.March, 15)

	err := s.AppendBatch(ctx, []generic.Transaction{
		accrualTx("t1", "same", effective, 3),
		accrualTx("t2", "same", effective, 3),
	})
	assert.ErrorIs(t, err, generic.ErrDuplicateIdempotencyKey)
}

func TestLoadRange_FiltersByEffectiveDate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	jan := generic.NewTimePoint(2026, time.January, 14)
	feb := generic.NewTimePoint(2026, time.February, 14)
	mar := generic.NewTimePoint(2026, time.March, 14)
	for i, eff := range []generic.TimePoint{jan, feb, mar} {
		require.NoError(t, s.Append(ctx, accrualTx(
			string(rune('a'+i)), string(rune('x'+i)), eff, 5)))
	}

	txs, err := s.LoadRange(ctx, "wkr-1", leave.Annual, feb, mar)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.True(t, txs[0].EffectiveAt.Equal(feb))
	assert.True(t, txs[1].EffectiveAt.Equal(mar))
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ok, err := s.Exists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Append(ctx, accrualTx("t1", "yep", generic.NewTimePoint(2026, time.March, 15), 5)))

	ok, err = s.Exists(ctx, "yep")
	require.NoError(t, err)
	assert.True(t, ok)
}

// ===== WORKERS =====

func TestWorker_SaveAndGet(t *testing.T) {
	// GIVEN: A worker with qualifications, a rate and leave configuration
	// WHEN: Saved and read back
	// THEN: The full record round-trips, including the qualifications JSON

	ctx := context.Background()
	s := newTestStore(t)

	w := sqlite.Worker{
		WorkerRecord: roster.WorkerRecord{
			ID:    "wkr-1",
			Name:  "Aisha",
			Role:  "educator",
			Basis: roster.BasisPermanent,
			Qualifications: []roster.QualificationRecord{
				{Type: roster.QualCertificateIII, Expires: generic.NewTimePoint(2027, time.June, 30)},
				{Type: roster.QualFirstAid},
			},
			MaxWeeklyHours: 38,
			HourlyRate:     decimal.NewFromFloat(34.50),
		},
		State:        leave.VIC,
		ServiceStart: generic.NewTimePoint(2021, time.February, 1),
	}
	require.NoError(t, s.SaveWorker(ctx, w))

	got, err := s.GetWorker(ctx, "wkr-1")
	require.NoError(t, err)

	assert.Equal(t, "Aisha", got.Name)
	assert.Equal(t, roster.BasisPermanent, got.WorkerRecord.Basis)
	assert.Equal(t, leave.BasisPermanent, got.LeaveBasis())
	require.Len(t, got.Qualifications, 2)
	assert.Equal(t, roster.QualCertificateIII, got.Qualifications[0].Type)
	assert.True(t, got.HourlyRate.Equal(decimal.NewFromFloat(34.50)))
	assert.Equal(t, leave.VIC, got.State)
	assert.True(t, got.ServiceStart.Equal(w.ServiceStart))
}

func TestWorker_SaveUpserts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	w := sqlite.Worker{WorkerRecord: roster.WorkerRecord{ID: "wkr-1", Name: "Aisha"}, State: leave.NSW}
	require.NoError(t, s.SaveWorker(ctx, w))

	w.Name = "Aisha K"
	require.NoError(t, s.SaveWorker(ctx, w))

	got, err := s.GetWorker(ctx, "wkr-1")
	require.NoError(t, err)
	assert.Equal(t, "Aisha K", got.Name)

	all, err := s.ListWorkers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWorker_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetWorker(ctx, "ghost")
	assert.True(t, errors.Is(err, generic.ErrWorkerNotFound))
}

func TestWorker_DeleteRetainsLedger(t *testing.T) {
	// Deleting a worker keeps their transactions: the ledger is the audit
	// trail.
	ctx := context.Background()
	s := newTestStore(t)

	w := sqlite.Worker{WorkerRecord: roster.WorkerRecord{ID: "wkr-1", Name: "Aisha"}, State: leave.NSW}
	require.NoError(t, s.SaveWorker(ctx, w))
	require.NoError(t, s.Append(ctx, accrualTx("t1", "k1", generic.NewTimePoint(2026, time.March, 15), 5)))

	require.NoError(t, s.DeleteWorker(ctx, "wkr-1"))

	_, err := s.GetWorker(ctx, "wkr-1")
	assert.Error(t, err)

	txs, err := s.Load(ctx, "wkr-1", leave.Annual)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

// ===== SHIFTS =====

func testShift(id string, date generic.TimePoint, start, end string) roster.ShiftRecord {
	return roster.ShiftRecord{
		ID:           id,
		WorkerID:     "wkr-1",
		RoomID:       "room-1",
		CentreID:     "centre-1",
		Date:         date,
		Start:        generic.MustParseClock(start),
		End:          generic.MustParseClock(end),
		BreakMinutes: 30,
		Status:       roster.StatusScheduled,
	}
}

func TestShift_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	date := generic.NewTimePoint(2026, time.March, 9)

	require.NoError(t, s.SaveShift(ctx, testShift("s1", date, "08:00", "16:30")))

	got, err := s.GetShift(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Date.Equal(date))
	assert.Equal(t, generic.ClockTime{Hour: 8, Minute: 0}, got.Start)
	assert.Equal(t, generic.ClockTime{Hour: 16, Minute: 30}, got.End)
	assert.Equal(t, 30, got.BreakMinutes)

	missing, err := s.GetShift(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing, "missing shift is nil, not an error")
}

func TestShiftsByWorker_DateWindowOrdered(t *testing.T) {
	// GIVEN: Shifts across several days plus one outside the window
	// THEN: Only in-window shifts return, ordered by date then start

	ctx := context.Background()
	s := newTestStore(t)

	d1 := generic.NewTimePoint(2026, time.March, 9)
	d2 := generic.NewTimePoint(2026, time.March, 10)
	outside := generic.NewTimePoint(2026, time.February, 1)

	require.NoError(t, s.SaveShift(ctx, testShift("late", d2, "14:00", "22:00")))
	require.NoError(t, s.SaveShift(ctx, testShift("early", d1, "08:00", "16:00")))
	require.NoError(t, s.SaveShift(ctx, testShift("old", outside, "08:00", "16:00")))

	shifts, err := s.ShiftsByWorker(ctx, "wkr-1", d1, d2)
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, "early", shifts[0].ID)
	assert.Equal(t, "late", shifts[1].ID)
}

func TestShiftsByRoom_SingleDate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	date := generic.NewTimePoint(2026, time.March, 9)

	a := testShift("a", date, "08:00", "16:00")
	b := testShift("b", date, "06:30", "14:30")
	other := testShift("other", date, "08:00", "16:00")
	other.RoomID = "room-2"

	for _, sh := range []roster.ShiftRecord{a, b, other} {
		require.NoError(t, s.SaveShift(ctx, sh))
	}

	shifts, err := s.ShiftsByRoom(ctx, "room-1", date)
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, "b", shifts[0].ID, "ordered by start time")
}

// ===== ROOMS + RULE SETS =====

func TestRoom_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	r := sqlite.RoomRecord{
		Room:         roster.Room{ID: "room-1", Name: "Toddlers", CentreID: "centre-1", Capacity: 20},
		MinAgeMonths: 0,
		MaxAgeMonths: 24,
	}
	require.NoError(t, s.SaveRoom(ctx, r))

	got, err := s.GetRoom(ctx, "room-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 20, got.Capacity)
	assert.Equal(t, 24, got.MaxAgeMonths)

	missing, err := s.GetRoom(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRuleSet_VersionBumpsOnUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rs := sqlite.RuleSetRecord{ID: "rs-1", Name: "Defaults", ConfigJSON: `{"id":"rs-1"}`}
	require.NoError(t, s.SaveRuleSet(ctx, rs))

	got, err := s.GetRuleSet(ctx, "rs-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Version)

	rs.Name = "Defaults v2"
	require.NoError(t, s.SaveRuleSet(ctx, rs))

	got, err = s.GetRuleSet(ctx, "rs-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, "Defaults v2", got.Name)
}

func TestReset_ClearsEverything(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveWorker(ctx, sqlite.Worker{
		WorkerRecord: roster.WorkerRecord{ID: "wkr-1", Name: "Aisha"}, State: leave.NSW}))
	require.NoError(t, s.Append(ctx, accrualTx("t1", "k1", generic.NewTimePoint(2026, time.March, 15), 5)))

	require.NoError(t, s.Reset(ctx))

	workers, err := s.ListWorkers(ctx)
	require.NoError(t, err)
	assert.Empty(t, workers)

	txs, err := s.Load(ctx, "wkr-1", leave.Annual)
	require.NoError(t, err)
	assert.Empty(t, txs)
}
