/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements persistence for the roster engine: the append-only leave
  transaction ledger (generic.Store), the worker directory, scheduled
  shifts, rooms, and stored rule sets. In production the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  generic.Store: Leave transaction persistence

APPEND-ONLY ENFORCEMENT:
  The transactions table is append-only:
  - No UPDATE statements on transactions
  - No DELETE statements on transactions
  - Corrections via reversal transactions only

KEY TABLES:
  transactions: Immutable ledger of all entitlement changes
  workers:      Staff directory (qualifications stored as JSON)
  shifts:       Roster entries, the input to ratio and fatigue checks
  rooms:        Licensed rooms with capacity and age band
  rule_sets:    Centre rule sets as JSON (see factory package)

INDEXES:
  - idx_transactions_worker_ent_date: Balance replay (hot path)
  - idx_transactions_idempotency: Duplicate posting rejection
  - idx_shifts_worker_date: Fatigue history lookback
  - idx_shifts_room_date: Ratio checks for one room-day

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. With PostgreSQL, database-level
  concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/roster.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger := generic.NewLedger(store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/ledger.go: Higher-level ledger using Store
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/leave"
	"github.com/warp/roster-engine/roster"
)

const dateLayout = "2006-01-02"

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Transactions (append-only ledger)
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL,
		entitlement_id TEXT NOT NULL,
		effective_at TEXT NOT NULL,
		delta_value TEXT NOT NULL,
		delta_unit TEXT NOT NULL,
		tx_type TEXT NOT NULL,
		value TEXT NOT NULL DEFAULT '0',
		reference_id TEXT,
		reason TEXT,
		idempotency_key TEXT UNIQUE,
		created_by TEXT,
		created_by_type TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_worker_ent_date
		ON transactions(worker_id, entitlement_id, effective_at);
	CREATE INDEX IF NOT EXISTS idx_transactions_worker_date
		ON transactions(worker_id, effective_at);
	CREATE INDEX IF NOT EXISTS idx_transactions_idempotency
		ON transactions(idempotency_key) WHERE idempotency_key IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_transactions_reference
		ON transactions(reference_id) WHERE reference_id IS NOT NULL;

	-- Workers (staff directory + leave configuration)
	CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT,
		basis TEXT NOT NULL,
		qualifications_json TEXT,
		max_weekly_hours REAL DEFAULT 0,
		hourly_rate TEXT NOT NULL DEFAULT '0',
		state TEXT NOT NULL DEFAULT 'NSW',
		service_start TEXT,
		created_at TEXT NOT NULL
	);

	-- Shifts (roster entries)
	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL,
		room_id TEXT NOT NULL,
		centre_id TEXT,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		break_minutes INTEGER DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'scheduled',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_worker_date
		ON shifts(worker_id, date);
	CREATE INDEX IF NOT EXISTS idx_shifts_room_date
		ON shifts(room_id, date);

	-- Rooms (licensed capacity + age band)
	CREATE TABLE IF NOT EXISTS rooms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		centre_id TEXT,
		capacity INTEGER NOT NULL,
		min_age_months INTEGER DEFAULT 0,
		max_age_months INTEGER DEFAULT 0,
		created_at TEXT NOT NULL
	);

	-- Rule sets (centre configuration as JSON, see factory package)
	CREATE TABLE IF NOT EXISTS rule_sets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		version INTEGER DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTION STORE (generic.Store interface)
// =============================================================================

// Append adds a transaction to the ledger.
func (s *Store) Append(ctx context.Context, tx generic.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendTx(ctx, s.db, tx)
}

func (s *Store) appendTx(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, tx generic.Transaction) error {
	query := `
		INSERT INTO transactions
		(id, worker_id, entitlement_id, effective_at, delta_value, delta_unit,
		 tx_type, value, reference_id, reason, idempotency_key,
		 created_by, created_by_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := tx.CreatedAt
	if createdAt.IsZero() {
		createdAt = generic.FromTime(time.Now().UTC())
	}

	_, err := db.ExecContext(ctx, query,
		tx.ID,
		tx.WorkerID,
		tx.Entitlement.EntitlementID(),
		tx.EffectiveAt.String(),
		tx.Delta.Value.String(),
		tx.Delta.Unit,
		tx.Type,
		tx.Value.String(),
		tx.ReferenceID,
		tx.Reason,
		nullString(tx.IdempotencyKey),
		tx.CreatedBy,
		tx.CreatedByType,
		createdAt.String(),
	)

	if err != nil {
		if isUniqueConstraintError(err) {
			return &generic.DuplicateTransactionError{WorkerID: tx.WorkerID, IdempotencyKey: tx.IdempotencyKey}
		}
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	return nil
}

// AppendBatch adds multiple transactions atomically.
func (s *Store) AppendBatch(ctx context.Context, txs []generic.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Reject duplicate idempotency keys within the batch before touching
	// the database.
	seen := make(map[string]bool)
	for _, tx := range txs {
		if tx.IdempotencyKey != "" {
			if seen[tx.IdempotencyKey] {
				return &generic.DuplicateTransactionError{IdempotencyKey: tx.IdempotencyKey}
			}
			seen[tx.IdempotencyKey] = true
		}
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, tx := range txs {
		if err := s.appendTx(ctx, sqlTx, tx); err != nil {
			return err
		}
	}

	return sqlTx.Commit()
}

// Load returns all transactions for a worker+entitlement.
func (s *Store) Load(ctx context.Context, workerID generic.WorkerID, ent generic.Entitlement) ([]generic.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, worker_id, entitlement_id, effective_at, delta_value, delta_unit,
		       tx_type, value, reference_id, reason, idempotency_key,
		       created_by, created_by_type, created_at
		FROM transactions
		WHERE worker_id = ? AND entitlement_id = ?
		ORDER BY effective_at ASC, created_at ASC
	`

	return s.queryTransactions(ctx, query, workerID, ent.EntitlementID())
}

// LoadRange returns transactions in a date range.
func (s *Store) LoadRange(ctx context.Context, workerID generic.WorkerID, ent generic.Entitlement, from, to generic.TimePoint) ([]generic.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, worker_id, entitlement_id, effective_at, delta_value, delta_unit,
		       tx_type, value, reference_id, reason, idempotency_key,
		       created_by, created_by_type, created_at
		FROM transactions
		WHERE worker_id = ? AND entitlement_id = ?
		  AND effective_at >= ? AND effective_at <= ?
		ORDER BY effective_at ASC, created_at ASC
	`

	return s.queryTransactions(ctx, query, workerID, ent.EntitlementID(),
		from.String(), to.String())
}

// LoadByWorker returns all transactions for a worker across every
// entitlement in a date range.
func (s *Store) LoadByWorker(ctx context.Context, workerID generic.WorkerID, from, to generic.TimePoint) ([]generic.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, worker_id, entitlement_id, effective_at, delta_value, delta_unit,
		       tx_type, value, reference_id, reason, idempotency_key,
		       created_by, created_by_type, created_at
		FROM transactions
		WHERE worker_id = ?
		  AND effective_at >= ? AND effective_at <= ?
		ORDER BY effective_at ASC, created_at ASC
	`

	return s.queryTransactions(ctx, query, workerID, from.String(), to.String())
}

// Exists checks if an idempotency key exists.
func (s *Store) Exists(ctx context.Context, idempotencyKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE idempotency_key = ?",
		idempotencyKey,
	).Scan(&count)

	return count > 0, err
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]generic.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []generic.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func scanTransaction(rows *sql.Rows) (generic.Transaction, error) {
	var (
		tx             generic.Transaction
		entitlementID  string
		effectiveAt    string
		deltaValue     string
		deltaUnit      string
		value          string
		referenceID    sql.NullString
		reason         sql.NullString
		idempotencyKey sql.NullString
		createdBy      sql.NullString
		createdByType  sql.NullString
		createdAt      string
	)

	err := rows.Scan(
		&tx.ID, &tx.WorkerID, &entitlementID, &effectiveAt,
		&deltaValue, &deltaUnit, &tx.Type, &value,
		&referenceID, &reason, &idempotencyKey,
		&createdBy, &createdByType, &createdAt,
	)
	if err != nil {
		return tx, fmt.Errorf("failed to scan transaction: %w", err)
	}

	// Convert string to Entitlement via registry
	tx.Entitlement = generic.GetOrCreateEntitlement(entitlementID)
	tx.EffectiveAt = parseDate(effectiveAt)
	tx.Delta = generic.Amount{
		Value: generic.MustParseDecimal(deltaValue),
		Unit:  generic.Unit(deltaUnit),
	}
	tx.Value = generic.MustParseDecimal(value)
	tx.ReferenceID = referenceID.String
	tx.Reason = reason.String
	tx.IdempotencyKey = idempotencyKey.String
	tx.CreatedBy = createdBy.String
	tx.CreatedByType = createdByType.String
	tx.CreatedAt = parseDate(createdAt)

	return tx, nil
}

// =============================================================================
// WORKER STORE
// =============================================================================

// Worker is the persisted worker record: the staff-directory view plus
// the leave configuration the accrual engine needs.
type Worker struct {
	roster.WorkerRecord
	State        leave.State
	ServiceStart generic.TimePoint
	CreatedAt    time.Time
}

// LeaveBasis returns the worker's employment basis in leave terms. The
// two packages share the same wire values.
func (w Worker) LeaveBasis() leave.EmploymentBasis {
	return leave.EmploymentBasis(w.WorkerRecord.Basis)
}

// SaveWorker inserts or updates a worker.
func (s *Store) SaveWorker(ctx context.Context, w Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	qualsJSON, err := json.Marshal(w.Qualifications)
	if err != nil {
		return fmt.Errorf("failed to encode qualifications: %w", err)
	}

	query := `
		INSERT INTO workers
		(id, name, role, basis, qualifications_json, max_weekly_hours,
		 hourly_rate, state, service_start, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			basis = excluded.basis,
			qualifications_json = excluded.qualifications_json,
			max_weekly_hours = excluded.max_weekly_hours,
			hourly_rate = excluded.hourly_rate,
			state = excluded.state,
			service_start = excluded.service_start
	`

	var serviceStart *string
	if !w.ServiceStart.IsZero() {
		v := w.ServiceStart.String()
		serviceStart = &v
	}

	_, err = s.db.ExecContext(ctx, query,
		w.ID, w.Name, w.Role, w.WorkerRecord.Basis, string(qualsJSON),
		w.MaxWeeklyHours, w.HourlyRate.String(), w.State, serviceStart,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetWorker retrieves a worker by ID. Returns generic.ErrWorkerNotFound
// when no row exists.
func (s *Store) GetWorker(ctx context.Context, id generic.WorkerID) (*Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, role, basis, qualifications_json, max_weekly_hours,
		        hourly_rate, state, service_start, created_at
		 FROM workers WHERE id = ?`, id)

	w, err := scanWorker(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("worker %s: %w", id, generic.ErrWorkerNotFound)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ListWorkers returns all workers ordered by name.
func (s *Store) ListWorkers(ctx context.Context) ([]Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, role, basis, qualifications_json, max_weekly_hours,
		        hourly_rate, state, service_start, created_at
		 FROM workers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, *w)
	}
	return workers, rows.Err()
}

// DeleteWorker removes a worker from the directory. Ledger transactions
// are retained; the history is the audit trail.
func (s *Store) DeleteWorker(ctx context.Context, id generic.WorkerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM workers WHERE id = ?", id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorker(row rowScanner) (*Worker, error) {
	var (
		w            Worker
		role         sql.NullString
		qualsJSON    sql.NullString
		hourlyRate   string
		serviceStart sql.NullString
		createdAt    string
	)

	err := row.Scan(&w.ID, &w.Name, &role, &w.WorkerRecord.Basis, &qualsJSON,
		&w.MaxWeeklyHours, &hourlyRate, &w.State, &serviceStart, &createdAt)
	if err != nil {
		return nil, err
	}

	w.Role = role.String
	if qualsJSON.Valid && qualsJSON.String != "" {
		if err := json.Unmarshal([]byte(qualsJSON.String), &w.Qualifications); err != nil {
			return nil, fmt.Errorf("failed to decode qualifications for %s: %w", w.ID, err)
		}
	}
	w.HourlyRate = generic.MustParseDecimal(hourlyRate)
	if serviceStart.Valid {
		w.ServiceStart = parseDate(serviceStart.String)
	}
	w.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &w, nil
}

// =============================================================================
// SHIFT STORE
// =============================================================================

// SaveShift inserts or updates a roster entry.
func (s *Store) SaveShift(ctx context.Context, sh roster.ShiftRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO shifts
		(id, worker_id, room_id, centre_id, date, start_time, end_time,
		 break_minutes, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			worker_id = excluded.worker_id,
			room_id = excluded.room_id,
			centre_id = excluded.centre_id,
			date = excluded.date,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			break_minutes = excluded.break_minutes,
			status = excluded.status
	`

	_, err := s.db.ExecContext(ctx, query,
		sh.ID, sh.WorkerID, sh.RoomID, sh.CentreID,
		sh.Date.String(), sh.Start.String(), sh.End.String(),
		sh.BreakMinutes, sh.Status,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetShift retrieves a shift by ID. Returns nil when not found.
func (s *Store) GetShift(ctx context.Context, id string) (*roster.ShiftRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, worker_id, room_id, centre_id, date, start_time, end_time,
		        break_minutes, status
		 FROM shifts WHERE id = ?`, id)

	sh, err := scanShift(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sh, nil
}

// DeleteShift removes a roster entry.
func (s *Store) DeleteShift(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM shifts WHERE id = ?", id)
	return err
}

// ShiftsByWorker returns a worker's shifts with dates in [from, to],
// ordered by date then start time. This is the fatigue lookback query.
func (s *Store) ShiftsByWorker(ctx context.Context, workerID generic.WorkerID, from, to generic.TimePoint) ([]roster.ShiftRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, worker_id, room_id, centre_id, date, start_time, end_time,
		       break_minutes, status
		FROM shifts
		WHERE worker_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, start_time ASC
	`

	return s.queryShifts(ctx, query, workerID, from.String(), to.String())
}

// ShiftsByRoom returns all shifts for a room on one date.
func (s *Store) ShiftsByRoom(ctx context.Context, roomID string, date generic.TimePoint) ([]roster.ShiftRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, worker_id, room_id, centre_id, date, start_time, end_time,
		       break_minutes, status
		FROM shifts
		WHERE room_id = ? AND date = ?
		ORDER BY start_time ASC
	`

	return s.queryShifts(ctx, query, roomID, date.String())
}

func (s *Store) queryShifts(ctx context.Context, query string, args ...any) ([]roster.ShiftRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []roster.ShiftRecord
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *sh)
	}
	return shifts, rows.Err()
}

func scanShift(row rowScanner) (*roster.ShiftRecord, error) {
	var (
		sh       roster.ShiftRecord
		centreID sql.NullString
		date     string
		start    string
		end      string
	)

	err := row.Scan(&sh.ID, &sh.WorkerID, &sh.RoomID, &centreID,
		&date, &start, &end, &sh.BreakMinutes, &sh.Status)
	if err != nil {
		return nil, err
	}

	sh.CentreID = centreID.String
	sh.Date = parseDate(date)
	// Stored clock strings were validated on the way in.
	sh.Start, err = generic.ParseClock(start)
	if err != nil {
		return nil, fmt.Errorf("corrupt start time for shift %s: %w", sh.ID, err)
	}
	sh.End, err = generic.ParseClock(end)
	if err != nil {
		return nil, fmt.Errorf("corrupt end time for shift %s: %w", sh.ID, err)
	}
	return &sh, nil
}

// =============================================================================
// ROOM STORE
// =============================================================================

// RoomRecord is a persisted room with its age band.
type RoomRecord struct {
	roster.Room
	MinAgeMonths int
	MaxAgeMonths int
}

// SaveRoom inserts or updates a room.
func (s *Store) SaveRoom(ctx context.Context, r RoomRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO rooms (id, name, centre_id, capacity, min_age_months, max_age_months, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			centre_id = excluded.centre_id,
			capacity = excluded.capacity,
			min_age_months = excluded.min_age_months,
			max_age_months = excluded.max_age_months
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.Name, r.CentreID, r.Capacity, r.MinAgeMonths, r.MaxAgeMonths,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetRoom retrieves a room by ID. Returns nil when not found.
func (s *Store) GetRoom(ctx context.Context, id string) (*RoomRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		r        RoomRecord
		centreID sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, centre_id, capacity, min_age_months, max_age_months FROM rooms WHERE id = ?",
		id,
	).Scan(&r.ID, &r.Name, &centreID, &r.Capacity, &r.MinAgeMonths, &r.MaxAgeMonths)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.CentreID = centreID.String
	return &r, nil
}

// ListRooms returns all rooms ordered by name.
func (s *Store) ListRooms(ctx context.Context) ([]RoomRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, centre_id, capacity, min_age_months, max_age_months FROM rooms ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []RoomRecord
	for rows.Next() {
		var (
			r        RoomRecord
			centreID sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Name, &centreID, &r.Capacity, &r.MinAgeMonths, &r.MaxAgeMonths); err != nil {
			return nil, err
		}
		r.CentreID = centreID.String
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// =============================================================================
// RULE SET STORE
// =============================================================================

// RuleSetRecord is a stored rule set with its JSON config.
type RuleSetRecord struct {
	ID         string
	Name       string
	ConfigJSON string
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SaveRuleSet saves a rule set, bumping the version on update.
func (s *Store) SaveRuleSet(ctx context.Context, rs RuleSetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO rule_sets (id, name, config_json, version, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			version = rule_sets.version + 1,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query, rs.ID, rs.Name, rs.ConfigJSON, now, now)
	return err
}

// GetRuleSet retrieves a rule set by ID. Returns nil when not found.
func (s *Store) GetRuleSet(ctx context.Context, id string) (*RuleSetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rs RuleSetRecord
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, config_json, version, created_at, updated_at FROM rule_sets WHERE id = ?",
		id,
	).Scan(&rs.ID, &rs.Name, &rs.ConfigJSON, &rs.Version, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rs.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rs.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rs, nil
}

// ListRuleSets returns all stored rule sets.
func (s *Store) ListRuleSets(ctx context.Context) ([]RuleSetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, config_json, version, created_at, updated_at FROM rule_sets ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []RuleSetRecord
	for rows.Next() {
		var rs RuleSetRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&rs.ID, &rs.Name, &rs.ConfigJSON, &rs.Version, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		rs.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		rs.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		sets = append(sets, rs)
	}
	return sets, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"transactions", "shifts", "workers", "rooms", "rule_sets"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func parseDate(s string) generic.TimePoint {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		// Older rows may carry full RFC3339 stamps.
		t, _ = time.Parse(time.RFC3339, s)
	}
	return generic.FromTime(t)
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
