/*
handlers.go - HTTP API handlers for the roster compliance engine

PURPOSE:
  Exposes the compliance, fatigue and leave engines via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Workers:
    GET    /api/workers                     List workers
    POST   /api/workers                     Create/update worker
    GET    /api/workers/{id}                Get worker
    DELETE /api/workers/{id}                Remove from directory
    GET    /api/workers/{id}/shifts         Shift history
    GET    /api/workers/{id}/fatigue        Fatigue score
    GET    /api/workers/{id}/violations     Fatigue rule breaches
    POST   /api/workers/{id}/accruals       Calculate (and optionally post)
    GET    /api/workers/{id}/balances       Leave balances
    GET    /api/workers/{id}/transactions   Ledger history
    POST   /api/workers/{id}/leave          Record leave taken
    POST   /api/workers/{id}/termination    Pro-rata LSL determination

  Compliance:
    POST   /api/compliance/check            Room ratio status
    POST   /api/compliance/actions          Simulate shift mutation
    POST   /api/compliance/staffing         Minimal-cost staffing

  Configuration:
    GET    /api/rulesets                    List stored rule sets
    POST   /api/rulesets                    Save rule set
    GET    /api/rulesets/defaults           Statutory defaults
    GET    /api/rulesets/{id}               Get rule set
    POST   /api/rulesets/{id}/activate      Make a rule set active

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (idempotency, duplicate posting)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/factory"
	"github.com/warp/roster-engine/fatigue"
	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/leave"
	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Factory  *factory.RuleSetFactory
	Ledger   *leave.Ledger
	PayCycle generic.PayCycleConfig

	// ruleSet is the active configuration; statutory defaults until a
	// stored rule set is activated.
	ruleSet *factory.RuleSet
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	f := factory.NewRuleSetFactory()
	defaults, _ := f.FromJSON(factory.RuleSetJSON{ID: "defaults", Name: "Statutory defaults"})
	return &Handler{
		Store:    store,
		Factory:  f,
		Ledger:   leave.NewLedger(store),
		PayCycle: factory.DefaultPayCycle(),
		ruleSet:  defaults,
	}
}

// =============================================================================
// WORKER ENDPOINTS
// =============================================================================

// ListWorkers returns all workers.
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.Store.ListWorkers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list workers", err)
		return
	}

	dtos := make([]WorkerDTO, len(workers))
	for i, wr := range workers {
		dtos[i] = workerToDTO(wr)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetWorker returns a single worker.
func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	worker, ok := h.loadWorker(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, workerToDTO(*worker))
}

// SaveWorker creates or updates a worker.
func (h *Handler) SaveWorker(w http.ResponseWriter, r *http.Request) {
	var req SaveWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Worker name is required", nil)
		return
	}

	st := leave.State(req.State)
	if req.State == "" {
		st = h.ruleSet.LeaveState
	}
	if !st.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown state code", nil)
		return
	}

	worker := sqlite.Worker{
		WorkerRecord: roster.WorkerRecord{
			ID:             generic.WorkerID(req.ID),
			Name:           req.Name,
			Role:           req.Role,
			Basis:          roster.EmploymentBasis(req.Basis),
			MaxWeeklyHours: req.MaxWeeklyHours,
			HourlyRate:     decimal.NewFromFloat(req.HourlyRate),
		},
		State: st,
	}
	if req.ID == "" {
		worker.ID = generic.WorkerID(uuid.NewString())
	}

	for _, q := range req.Qualifications {
		rec := roster.QualificationRecord{Type: roster.QualificationType(q.Type)}
		if q.Expires != "" {
			exp, err := parseDate(q.Expires)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid qualification expiry", err)
				return
			}
			rec.Expires = exp
		}
		worker.Qualifications = append(worker.Qualifications, rec)
	}

	if req.ServiceStart != "" {
		start, err := parseDate(req.ServiceStart)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid service_start", err)
			return
		}
		worker.ServiceStart = start
	}

	if err := h.Store.SaveWorker(r.Context(), worker); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save worker", err)
		return
	}
	writeJSON(w, http.StatusCreated, workerToDTO(worker))
}

// DeleteWorker removes a worker from the directory.
func (h *Handler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteWorker(r.Context(), generic.WorkerID(id)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete worker", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListWorkerShifts returns a worker's shifts in a date range.
// GET /api/workers/{id}/shifts?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) ListWorkerShifts(w http.ResponseWriter, r *http.Request) {
	id := generic.WorkerID(chi.URLParam(r, "id"))

	from, to, ok := h.rangeParams(w, r)
	if !ok {
		return
	}

	shifts, err := h.Store.ShiftsByWorker(r.Context(), id, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
		return
	}

	dtos := make([]ShiftDTO, len(shifts))
	for i, s := range shifts {
		dtos[i] = shiftToDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SHIFT ENDPOINTS
// =============================================================================

// SaveShift creates or updates a roster entry.
func (h *Handler) SaveShift(w http.ResponseWriter, r *http.Request) {
	var req SaveShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	shift, err := req.ToRecord()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift", err)
		return
	}
	if shift.ID == "" {
		shift.ID = uuid.NewString()
	}

	if err := h.Store.SaveShift(r.Context(), shift); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, shiftToDTO(shift))
}

// GetShift returns a roster entry.
func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	shift, err := h.Store.GetShift(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get shift", err)
		return
	}
	if shift == nil {
		writeError(w, http.StatusNotFound, "Shift not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, shiftToDTO(*shift))
}

// DeleteShift removes a roster entry.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteShift(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete shift", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// COMPLIANCE ENDPOINTS
// =============================================================================

// CheckCompliance evaluates a room's ratio status for one date.
// POST /api/compliance/check
func (h *Handler) CheckCompliance(w http.ResponseWriter, r *http.Request) {
	var req ComplianceCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	room, rule, ok := h.roomAndRule(w, r, req.RoomID, req.AgeMonths)
	if !ok {
		return
	}

	shifts, ok := h.resolveShifts(w, r, req.Shifts, req.RoomID, date)
	if !ok {
		return
	}

	workers, ok := h.directory(w, r)
	if !ok {
		return
	}

	validator := roster.NewRatioValidator(h.ruleSet.RatioPolicy)
	status := validator.CheckRoomCompliance(
		room, rule, shifts, workers, date, req.BookedChildren, req.TimeSlot, date)

	writeJSON(w, http.StatusOK, statusToDTO(status))
}

// ValidateAction simulates a shift mutation before commit.
// POST /api/compliance/actions
func (h *Handler) ValidateAction(w http.ResponseWriter, r *http.Request) {
	var req ActionCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	action := roster.Action(req.Action)
	switch action {
	case roster.ActionCreate, roster.ActionModify, roster.ActionDelete:
	default:
		writeError(w, http.StatusBadRequest, "Unknown action (use create, modify or delete)", nil)
		return
	}

	target, err := req.Shift.ToRecord()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift", err)
		return
	}

	room, rule, ok := h.roomAndRule(w, r, target.RoomID, req.AgeMonths)
	if !ok {
		return
	}

	shifts, err2 := h.Store.ShiftsByRoom(r.Context(), target.RoomID, target.Date)
	if err2 != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load roster", err2)
		return
	}

	workers, ok := h.directory(w, r)
	if !ok {
		return
	}

	validator := roster.NewRatioValidator(h.ruleSet.RatioPolicy)
	result := validator.ValidateShiftAction(
		action, target, shifts, workers, room, rule,
		req.BookedChildren, req.TimeSlot,
		roster.CheckOptions{AllowOverride: req.AllowOverride, EnforceBlocking: req.EnforceBlocking},
		target.Date)

	dto := ActionCheckDTO{
		Action:      string(result.Action),
		CanProceed:  result.CanProceed,
		Severity:    string(result.Severity),
		Status:      statusToDTO(result.Status),
		Suggestions: result.Suggestions,
	}
	writeJSON(w, http.StatusOK, dto)
}

// SuggestStaffing returns the minimal-cost staffing recommendation.
// POST /api/compliance/staffing
func (h *Handler) SuggestStaffing(w http.ResponseWriter, r *http.Request) {
	var req StaffingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	room, rule, ok := h.roomAndRule(w, r, req.RoomID, req.AgeMonths)
	if !ok {
		return
	}

	workers, ok := h.directory(w, r)
	if !ok {
		return
	}

	if len(req.AvailableWorkerIDs) > 0 {
		allowed := make(map[generic.WorkerID]bool, len(req.AvailableWorkerIDs))
		for _, id := range req.AvailableWorkerIDs {
			allowed[generic.WorkerID(id)] = true
		}
		filtered := workers[:0]
		for _, wr := range workers {
			if allowed[wr.ID] {
				filtered = append(filtered, wr)
			}
		}
		workers = filtered
	}

	validator := roster.NewRatioValidator(h.ruleSet.RatioPolicy)
	suggestion := validator.SuggestOptimalStaffing(room, rule, req.BookedChildren, workers, date)

	dto := StaffingDTO{
		RequiredEducators:  suggestion.RequiredEducators,
		RequiredQualified:  suggestion.RequiredQualified,
		SatisfiesRatio:     suggestion.SatisfiesRatio,
		SatisfiesQualified: suggestion.SatisfiesQualified,
		Message:            suggestion.Message,
		Workers:            []WorkerSummaryDTO{},
	}
	for _, wr := range suggestion.Workers {
		dto.Workers = append(dto.Workers, WorkerSummaryDTO{
			ID:         string(wr.ID),
			Name:       wr.Name,
			HourlyRate: wr.HourlyRate.StringFixed(2),
		})
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// FATIGUE ENDPOINTS
// =============================================================================

// GetFatigueScore computes a worker's fatigue score.
// GET /api/workers/{id}/fatigue?as_of=YYYY-MM-DD
func (h *Handler) GetFatigueScore(w http.ResponseWriter, r *http.Request) {
	worker, shifts, asOf, ok := h.fatigueInputs(w, r)
	if !ok {
		return
	}

	scorer := fatigue.NewScorer(h.ruleSet.Fatigue)
	score := scorer.Score(worker.WorkerRecord, shifts, asOf)
	writeJSON(w, http.StatusOK, scoreToDTO(score))
}

// GetViolations detects a worker's discrete fatigue rule breaches.
// GET /api/workers/{id}/violations?as_of=YYYY-MM-DD
func (h *Handler) GetViolations(w http.ResponseWriter, r *http.Request) {
	worker, shifts, asOf, ok := h.fatigueInputs(w, r)
	if !ok {
		return
	}

	scorer := fatigue.NewScorer(h.ruleSet.Fatigue)
	violations := scorer.Violations(worker.WorkerRecord, shifts, asOf)

	dtos := make([]ViolationDTO, len(violations))
	for i, v := range violations {
		dtos[i] = violationToDTO(v)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// fatigueInputs resolves the worker, the trailing shift history and the
// reference date shared by both fatigue endpoints.
func (h *Handler) fatigueInputs(w http.ResponseWriter, r *http.Request) (*sqlite.Worker, []roster.ShiftRecord, generic.TimePoint, bool) {
	worker, ok := h.loadWorker(w, r)
	if !ok {
		return nil, nil, generic.TimePoint{}, false
	}

	asOf, ok := h.asOfParam(w, r)
	if !ok {
		return nil, nil, generic.TimePoint{}, false
	}

	window := generic.TrailingDays(asOf, 14)
	shifts, err := h.Store.ShiftsByWorker(r.Context(), worker.ID, window.Start, window.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load shift history", err)
		return nil, nil, generic.TimePoint{}, false
	}
	return worker, shifts, asOf, true
}

// =============================================================================
// LEAVE ENDPOINTS
// =============================================================================

// CalculateAccruals computes a pay-period accrual calculation, optionally
// posting it to the ledger.
// POST /api/workers/{id}/accruals
func (h *Handler) CalculateAccruals(w http.ResponseWriter, r *http.Request) {
	worker, ok := h.loadWorker(w, r)
	if !ok {
		return
	}

	var req AccrualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	periodDate, err := parseDate(req.PeriodDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period_date", err)
		return
	}
	period := h.PayCycle.PeriodFor(periodDate)

	hoursWorked, ok := h.resolveHoursWorked(w, r, worker.ID, period, req.HoursWorked)
	if !ok {
		return
	}

	cfg := h.ruleSet.LeaveConfigFor(worker.LeaveBasis(), worker.ServiceStart)
	cfg.State = worker.State

	calc, err := leave.PeriodAccruals(worker.ID, period, hoursWorked,
		serviceYears(worker.ServiceStart, period.End), cfg)
	if err != nil {
		writeDomainError(w, "Accrual calculation failed", err)
		return
	}

	dto := CalculationDTO{
		WorkerID:    string(calc.WorkerID),
		PeriodStart: calc.Period.Start.String(),
		PeriodEnd:   calc.Period.End.String(),
	}
	for _, line := range calc.Lines() {
		dto.Lines = append(dto.Lines, lineToDTO(line))
	}

	if req.Post {
		if err := h.Ledger.PostCalculation(r.Context(), calc, worker.HourlyRate, "payroll"); err != nil {
			writeDomainError(w, "Failed to post accruals", err)
			return
		}
		dto.Posted = true
	}

	writeJSON(w, http.StatusOK, dto)
}

// GetBalances derives the worker's leave balances from the ledger.
// GET /api/workers/{id}/balances?as_of=YYYY-MM-DD
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	worker, ok := h.loadWorker(w, r)
	if !ok {
		return
	}

	asOf, ok := h.asOfParam(w, r)
	if !ok {
		return
	}
	period := h.PayCycle.PeriodFor(asOf)

	balances, err := h.Ledger.BalancesFor(r.Context(), worker.ID, period, worker.HourlyRate, asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to derive balances", err)
		return
	}

	dtos := make([]BalanceDTO, len(balances))
	for i, b := range balances {
		dtos[i] = balanceToDTO(b)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTransactions returns a worker's ledger history in a date range.
// GET /api/workers/{id}/transactions?from=...&to=...
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	worker, ok := h.loadWorker(w, r)
	if !ok {
		return
	}

	from, to, ok := h.rangeParams(w, r)
	if !ok {
		return
	}

	txs, err := h.Store.LoadByWorker(r.Context(), worker.ID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load transactions", err)
		return
	}

	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = transactionToDTO(tx)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// TakeLeave records leave taken against a worker's balance.
// POST /api/workers/{id}/leave
func (h *Handler) TakeLeave(w http.ResponseWriter, r *http.Request) {
	worker, ok := h.loadWorker(w, r)
	if !ok {
		return
	}

	var req TakeLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Hours <= 0 {
		writeError(w, http.StatusBadRequest, "Hours must be positive", nil)
		return
	}

	ent, ok := h.entitlementParam(w, req.Entitlement)
	if !ok {
		return
	}
	at, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	tx := leave.TakenTransaction(worker.ID, ent, req.Hours, worker.HourlyRate, at, req.Reason, req.CreatedBy)
	if err := h.Ledger.Inner().Append(r.Context(), tx); err != nil {
		writeDomainError(w, "Failed to record leave", err)
		return
	}
	writeJSON(w, http.StatusCreated, transactionToDTO(tx))
}

// CreateAdjustment records a manual balance correction.
// POST /api/admin/adjustments
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "Adjustments require a reason", nil)
		return
	}

	worker, err := h.Store.GetWorker(r.Context(), generic.WorkerID(req.WorkerID))
	if err != nil {
		writeDomainError(w, "Failed to load worker", err)
		return
	}

	ent, ok := h.entitlementParam(w, req.Entitlement)
	if !ok {
		return
	}
	at, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	tx := leave.AdjustmentTransaction(worker.ID, ent, req.Hours, worker.HourlyRate, at, req.Reason, req.CreatedBy)
	if err := h.Ledger.Inner().Append(r.Context(), tx); err != nil {
		writeDomainError(w, "Failed to record adjustment", err)
		return
	}
	writeJSON(w, http.StatusCreated, transactionToDTO(tx))
}

// Termination determines the pro-rata LSL payout on exit.
// POST /api/workers/{id}/termination
func (h *Handler) Termination(w http.ResponseWriter, r *http.Request) {
	worker, ok := h.loadWorker(w, r)
	if !ok {
		return
	}

	var req TerminationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	term := leave.TerminationType(req.TerminationType)
	switch term {
	case leave.TermResignation, leave.TermTermination, leave.TermRedundancy:
	default:
		writeError(w, http.StatusBadRequest, "Unknown termination type", nil)
		return
	}

	date, err := parseDate(req.TerminationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid termination_date", err)
		return
	}

	result, err := leave.ProRataEntitlementFor(
		worker.State, serviceYears(worker.ServiceStart, date), term,
		worker.HourlyRate, h.ruleSet.WeeklyHours)
	if err != nil {
		writeDomainError(w, "Pro-rata determination failed", err)
		return
	}
	writeJSON(w, http.StatusOK, proRataToDTO(result))
}

// =============================================================================
// RULE SET ENDPOINTS
// =============================================================================

// ListRuleSets returns stored rule sets.
func (h *Handler) ListRuleSets(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListRuleSets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rule sets", err)
		return
	}

	out := make([]factory.RuleSetJSON, 0, len(records))
	for _, rec := range records {
		rs, err := h.Factory.Parse(rec.ConfigJSON)
		if err != nil {
			continue // skip unparseable rows rather than failing the list
		}
		out = append(out, h.Factory.ToJSON(rs))
	}
	writeJSON(w, http.StatusOK, out)
}

// SaveRuleSet validates and stores a rule set.
func (h *Handler) SaveRuleSet(w http.ResponseWriter, r *http.Request) {
	var rj factory.RuleSetJSON
	if err := json.NewDecoder(r.Body).Decode(&rj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if rj.ID == "" {
		writeError(w, http.StatusBadRequest, "Rule set id is required", nil)
		return
	}

	rs, err := h.Factory.FromJSON(rj)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rule set", err)
		return
	}

	raw, err := json.Marshal(h.Factory.ToJSON(rs))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode rule set", err)
		return
	}

	rec := sqlite.RuleSetRecord{ID: rs.ID, Name: rs.Name, ConfigJSON: string(raw)}
	if err := h.Store.SaveRuleSet(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rule set", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.Factory.ToJSON(rs))
}

// GetRuleSet returns one stored rule set.
func (h *Handler) GetRuleSet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.Store.GetRuleSet(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get rule set", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Rule set not found", nil)
		return
	}

	rs, err := h.Factory.Parse(rec.ConfigJSON)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Stored rule set is invalid", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Factory.ToJSON(rs))
}

// ActivateRuleSet makes a stored rule set the active configuration.
func (h *Handler) ActivateRuleSet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.Store.GetRuleSet(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get rule set", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Rule set not found", nil)
		return
	}

	rs, err := h.Factory.Parse(rec.ConfigJSON)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Stored rule set is invalid", err)
		return
	}

	h.ruleSet = rs
	writeJSON(w, http.StatusOK, h.Factory.ToJSON(rs))
}

// GetDefaults returns the statutory default rule set.
func (h *Handler) GetDefaults(w http.ResponseWriter, r *http.Request) {
	defaults, err := h.Factory.FromJSON(factory.RuleSetJSON{ID: "defaults", Name: "Statutory defaults"})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build defaults", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Factory.ToJSON(defaults))
}

// =============================================================================
// ROOM ENDPOINTS
// =============================================================================

// ListRooms returns all rooms.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Store.ListRooms(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rooms", err)
		return
	}

	dtos := make([]RoomDTO, len(rooms))
	for i, rm := range rooms {
		dtos[i] = RoomDTO{
			ID:           rm.ID,
			Name:         rm.Name,
			CentreID:     rm.CentreID,
			Capacity:     rm.Capacity,
			MinAgeMonths: rm.MinAgeMonths,
			MaxAgeMonths: rm.MaxAgeMonths,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveRoom creates or updates a room.
func (h *Handler) SaveRoom(w http.ResponseWriter, r *http.Request) {
	var req RoomDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Capacity <= 0 {
		writeError(w, http.StatusBadRequest, "Room capacity must be positive", nil)
		return
	}

	rec := sqlite.RoomRecord{
		Room: roster.Room{
			ID:       req.ID,
			Name:     req.Name,
			CentreID: req.CentreID,
			Capacity: req.Capacity,
		},
		MinAgeMonths: req.MinAgeMonths,
		MaxAgeMonths: req.MaxAgeMonths,
	}
	if err := h.Store.SaveRoom(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save room", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// =============================================================================
// SHARED RESOLUTION HELPERS
// =============================================================================

// loadWorker resolves the {id} route param to a stored worker, writing the
// error response itself on failure.
func (h *Handler) loadWorker(w http.ResponseWriter, r *http.Request) (*sqlite.Worker, bool) {
	id := chi.URLParam(r, "id")
	worker, err := h.Store.GetWorker(r.Context(), generic.WorkerID(id))
	if err != nil {
		writeDomainError(w, "Failed to load worker", err)
		return nil, false
	}
	return worker, true
}

// roomAndRule resolves the room and the age-band ratio rule. The band comes
// from the request's age when given, else from the room's stored band.
func (h *Handler) roomAndRule(w http.ResponseWriter, r *http.Request, roomID string, ageMonths int) (roster.Room, roster.RoomRatioRule, bool) {
	rec, err := h.Store.GetRoom(r.Context(), roomID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load room", err)
		return roster.Room{}, roster.RoomRatioRule{}, false
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Room not found", nil)
		return roster.Room{}, roster.RoomRatioRule{}, false
	}

	age := ageMonths
	if age == 0 {
		age = rec.MinAgeMonths
	}
	rule, ok := factory.RatioRuleForAge(h.ruleSet.RatioRules, age)
	if !ok {
		writeError(w, http.StatusBadRequest, "No ratio band covers the given age", nil)
		return roster.Room{}, roster.RoomRatioRule{}, false
	}
	return rec.Room, rule, true
}

// resolveShifts uses inline shifts when provided, the stored roster
// otherwise.
func (h *Handler) resolveShifts(w http.ResponseWriter, r *http.Request, inline []SaveShiftRequest, roomID string, date generic.TimePoint) ([]roster.ShiftRecord, bool) {
	if len(inline) == 0 {
		shifts, err := h.Store.ShiftsByRoom(r.Context(), roomID, date)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load roster", err)
			return nil, false
		}
		return shifts, true
	}

	out := make([]roster.ShiftRecord, 0, len(inline))
	for _, sr := range inline {
		shift, err := sr.ToRecord()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid shift", err)
			return nil, false
		}
		out = append(out, shift)
	}
	return out, true
}

// directory loads the full staff directory as roster records.
func (h *Handler) directory(w http.ResponseWriter, r *http.Request) ([]roster.WorkerRecord, bool) {
	workers, err := h.Store.ListWorkers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load workers", err)
		return nil, false
	}
	out := make([]roster.WorkerRecord, len(workers))
	for i, wr := range workers {
		out[i] = wr.WorkerRecord
	}
	return out, true
}

// resolveHoursWorked sums the worker's normalized shift hours in the period
// unless the request gave an explicit figure.
func (h *Handler) resolveHoursWorked(w http.ResponseWriter, r *http.Request, workerID generic.WorkerID, period generic.Period, explicit *float64) (float64, bool) {
	if explicit != nil {
		if *explicit < 0 {
			writeError(w, http.StatusBadRequest, "hours_worked cannot be negative", nil)
			return 0, false
		}
		return *explicit, true
	}

	shifts, err := h.Store.ShiftsByWorker(r.Context(), workerID, period.Start, period.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load shifts", err)
		return 0, false
	}

	total := 0.0
	for _, n := range roster.NormalizeAll(shifts) {
		if n.Shift.CountsForStaffing() {
			total += n.WorkedHours
		}
	}
	return total, true
}

// asOfParam reads ?as_of, defaulting to today when absent.
func (h *Handler) asOfParam(w http.ResponseWriter, r *http.Request) (generic.TimePoint, bool) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return generic.Today(), true
	}
	asOf, err := parseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of", err)
		return generic.TimePoint{}, false
	}
	return asOf, true
}

// rangeParams reads ?from and ?to, defaulting to the trailing year.
func (h *Handler) rangeParams(w http.ResponseWriter, r *http.Request) (generic.TimePoint, generic.TimePoint, bool) {
	to := generic.Today()
	from := to.AddDays(-365)

	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to", err)
			return generic.TimePoint{}, generic.TimePoint{}, false
		}
		to = t
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		f, err := parseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from", err)
			return generic.TimePoint{}, generic.TimePoint{}, false
		}
		from = f
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "from must not be after to", nil)
		return generic.TimePoint{}, generic.TimePoint{}, false
	}
	return from, to, true
}

// entitlementParam resolves an entitlement ID to a leave entitlement.
func (h *Handler) entitlementParam(w http.ResponseWriter, id string) (leave.Entitlement, bool) {
	switch leave.Entitlement(id) {
	case leave.Annual, leave.Personal, leave.LongService:
		return leave.Entitlement(id), true
	default:
		writeError(w, http.StatusBadRequest, "Unknown entitlement", nil)
		return "", false
	}
}

// serviceYears converts a service-start date into fractional years at the
// reference date.
func serviceYears(start, at generic.TimePoint) float64 {
	if start.IsZero() || at.Before(start) {
		return 0
	}
	return float64(generic.DaysBetween(start, at)) / 365.25
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain error classes onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, generic.ErrDuplicateIdempotencyKey):
		writeError(w, http.StatusConflict, message, err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
