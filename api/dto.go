/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

  This file is ALSO the validation boundary for external input: dates
  ("YYYY-MM-DD") and clock times ("HH:MM") are parsed and rejected here.
  The engines receive only validated values and never re-check them.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Worker:     WorkerDTO, SaveWorkerRequest
  Shift:      ShiftDTO, SaveShiftRequest
  Compliance: ComplianceCheckRequest, RatioStatusDTO, ActionCheckRequest,
              StaffingRequest
  Fatigue:    FatigueScoreDTO, ViolationDTO
  Leave:      AccrualRequest, CalculationDTO, BalanceDTO, TransactionDTO,
              TerminationRequest, ProRataDTO

SEE ALSO:
  - handlers.go: Uses these types
  - factory/ruleset.go: RuleSetJSON type reused for the settings surface
*/
package api

import (
	"fmt"
	"time"

	"github.com/warp/roster-engine/fatigue"
	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/leave"
	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/store/sqlite"
)

const dateLayout = "2006-01-02"

// parseDate is the single rejection point for malformed date strings.
func parseDate(s string) (generic.TimePoint, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return generic.TimePoint{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return generic.FromTime(t), nil
}

// =============================================================================
// WORKER TYPES
// =============================================================================

// QualificationDTO is one credential in API form.
type QualificationDTO struct {
	Type    string `json:"type"`
	Expires string `json:"expires,omitempty"`
}

// WorkerDTO represents a worker in API responses.
type WorkerDTO struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Role           string             `json:"role,omitempty"`
	Basis          string             `json:"basis"`
	Qualifications []QualificationDTO `json:"qualifications,omitempty"`
	MaxWeeklyHours float64            `json:"max_weekly_hours,omitempty"`
	HourlyRate     string             `json:"hourly_rate"`
	State          string             `json:"state"`
	ServiceStart   string             `json:"service_start,omitempty"`
}

// SaveWorkerRequest is the request to create or update a worker.
type SaveWorkerRequest struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Role           string             `json:"role,omitempty"`
	Basis          string             `json:"basis"`
	Qualifications []QualificationDTO `json:"qualifications,omitempty"`
	MaxWeeklyHours float64            `json:"max_weekly_hours,omitempty"`
	HourlyRate     float64            `json:"hourly_rate,omitempty"`
	State          string             `json:"state"`
	ServiceStart   string             `json:"service_start,omitempty"`
}

func workerToDTO(w sqlite.Worker) WorkerDTO {
	dto := WorkerDTO{
		ID:             string(w.ID),
		Name:           w.Name,
		Role:           w.Role,
		Basis:          string(w.WorkerRecord.Basis),
		MaxWeeklyHours: w.MaxWeeklyHours,
		HourlyRate:     w.HourlyRate.StringFixed(2),
		State:          string(w.State),
	}
	for _, q := range w.Qualifications {
		qd := QualificationDTO{Type: string(q.Type)}
		if !q.Expires.IsZero() {
			qd.Expires = q.Expires.String()
		}
		dto.Qualifications = append(dto.Qualifications, qd)
	}
	if !w.ServiceStart.IsZero() {
		dto.ServiceStart = w.ServiceStart.String()
	}
	return dto
}

// =============================================================================
// SHIFT TYPES
// =============================================================================

// ShiftDTO represents a roster entry in API responses.
type ShiftDTO struct {
	ID           string  `json:"id"`
	WorkerID     string  `json:"worker_id"`
	RoomID       string  `json:"room_id"`
	CentreID     string  `json:"centre_id,omitempty"`
	Date         string  `json:"date"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	BreakMinutes int     `json:"break_minutes,omitempty"`
	Status       string  `json:"status"`
	Overnight    bool    `json:"overnight"`
	WorkedHours  float64 `json:"worked_hours"`
}

// SaveShiftRequest is the request to create or update a shift.
type SaveShiftRequest struct {
	ID           string `json:"id"`
	WorkerID     string `json:"worker_id"`
	RoomID       string `json:"room_id"`
	CentreID     string `json:"centre_id,omitempty"`
	Date         string `json:"date"`
	Start        string `json:"start"`
	End          string `json:"end"`
	BreakMinutes int    `json:"break_minutes,omitempty"`
	Status       string `json:"status,omitempty"`
}

// ToRecord validates and converts the request into a ShiftRecord. This is
// where malformed clock strings are rejected.
func (r SaveShiftRequest) ToRecord() (roster.ShiftRecord, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return roster.ShiftRecord{}, err
	}
	start, err := generic.ParseClock(r.Start)
	if err != nil {
		return roster.ShiftRecord{}, err
	}
	end, err := generic.ParseClock(r.End)
	if err != nil {
		return roster.ShiftRecord{}, err
	}

	status := roster.ShiftStatus(r.Status)
	if r.Status == "" {
		status = roster.StatusScheduled
	}

	return roster.ShiftRecord{
		ID:           r.ID,
		WorkerID:     generic.WorkerID(r.WorkerID),
		RoomID:       r.RoomID,
		CentreID:     r.CentreID,
		Date:         date,
		Start:        start,
		End:          end,
		BreakMinutes: r.BreakMinutes,
		Status:       status,
	}, nil
}

func shiftToDTO(s roster.ShiftRecord) ShiftDTO {
	n := roster.Normalize(s)
	return ShiftDTO{
		ID:           s.ID,
		WorkerID:     string(s.WorkerID),
		RoomID:       s.RoomID,
		CentreID:     s.CentreID,
		Date:         s.Date.String(),
		Start:        s.Start.String(),
		End:          s.End.String(),
		BreakMinutes: s.BreakMinutes,
		Status:       string(s.Status),
		Overnight:    n.Overnight,
		WorkedHours:  n.WorkedHours,
	}
}

// =============================================================================
// COMPLIANCE TYPES
// =============================================================================

// RoomDTO represents a room in requests and responses.
type RoomDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CentreID     string `json:"centre_id,omitempty"`
	Capacity     int    `json:"capacity"`
	MinAgeMonths int    `json:"min_age_months,omitempty"`
	MaxAgeMonths int    `json:"max_age_months,omitempty"`
}

// ComplianceCheckRequest asks for a room's ratio status on a date.
// Shifts default to the stored roster for the room and date when omitted.
type ComplianceCheckRequest struct {
	RoomID         string `json:"room_id"`
	Date           string `json:"date"`
	BookedChildren int    `json:"booked_children"`
	TimeSlot       string `json:"time_slot,omitempty"`
	AgeMonths      int    `json:"age_months"`

	Shifts []SaveShiftRequest `json:"shifts,omitempty"`
}

// StaffAssignmentDTO is one assigned-staff row in a ratio status.
type StaffAssignmentDTO struct {
	WorkerID  string `json:"worker_id"`
	Name      string `json:"name"`
	Qualified bool   `json:"qualified"`
	ShiftSpan string `json:"shift_span"`
}

// RatioStatusDTO is the compliance snapshot in API form.
type RatioStatusDTO struct {
	RoomID   string `json:"room_id"`
	Date     string `json:"date"`
	TimeSlot string `json:"time_slot,omitempty"`

	BookedChildren     int `json:"booked_children"`
	ScheduledEducators int `json:"scheduled_educators"`
	QualifiedEducators int `json:"qualified_educators"`
	RequiredEducators  int `json:"required_educators"`
	RequiredQualified  int `json:"required_qualified"`
	EducatorShortfall  int `json:"educator_shortfall"`
	QualifiedShortfall int `json:"qualified_shortfall"`

	IsCompliant            bool `json:"is_compliant"`
	QualificationCompliant bool `json:"qualification_compliant"`

	Warnings       []string `json:"warnings"`
	BlockingIssues []string `json:"blocking_issues"`
	Severity       string   `json:"severity"`

	Staff []StaffAssignmentDTO `json:"staff"`
}

func statusToDTO(s roster.RatioStatus) RatioStatusDTO {
	dto := RatioStatusDTO{
		RoomID:                 s.RoomID,
		Date:                   s.Date.String(),
		TimeSlot:               s.TimeSlot,
		BookedChildren:         s.BookedChildren,
		ScheduledEducators:     s.ScheduledEducators,
		QualifiedEducators:     s.QualifiedEducators,
		RequiredEducators:      s.RequiredEducators,
		RequiredQualified:      s.RequiredQualified,
		EducatorShortfall:      s.EducatorShortfall,
		QualifiedShortfall:     s.QualifiedShortfall,
		IsCompliant:            s.IsCompliant,
		QualificationCompliant: s.QualificationCompliant,
		Warnings:               s.Warnings,
		BlockingIssues:         s.BlockingIssues,
		Severity:               string(s.Severity),
	}
	if dto.Warnings == nil {
		dto.Warnings = []string{}
	}
	if dto.BlockingIssues == nil {
		dto.BlockingIssues = []string{}
	}
	for _, a := range s.Staff {
		dto.Staff = append(dto.Staff, StaffAssignmentDTO{
			WorkerID:  string(a.WorkerID),
			Name:      a.Name,
			Qualified: a.Qualified,
			ShiftSpan: a.ShiftSpan,
		})
	}
	return dto
}

// ActionCheckRequest simulates a shift create/modify/delete against the
// stored roster before it is committed.
type ActionCheckRequest struct {
	Action         string           `json:"action"`
	Shift          SaveShiftRequest `json:"shift"`
	BookedChildren int              `json:"booked_children"`
	TimeSlot       string           `json:"time_slot,omitempty"`
	AgeMonths      int              `json:"age_months"`

	AllowOverride   bool  `json:"allow_override,omitempty"`
	EnforceBlocking *bool `json:"enforce_blocking,omitempty"`
}

// ActionCheckDTO is the simulation outcome.
type ActionCheckDTO struct {
	Action      string         `json:"action"`
	CanProceed  bool           `json:"can_proceed"`
	Severity    string         `json:"severity"`
	Status      RatioStatusDTO `json:"status"`
	Suggestions []string       `json:"suggestions,omitempty"`
}

// StaffingRequest asks for a minimal-cost staffing recommendation.
type StaffingRequest struct {
	RoomID         string `json:"room_id"`
	Date           string `json:"date"`
	BookedChildren int    `json:"booked_children"`
	AgeMonths      int    `json:"age_months"`

	// AvailableWorkerIDs narrows the candidate pool. Empty means the whole
	// directory is available.
	AvailableWorkerIDs []string `json:"available_worker_ids,omitempty"`
}

// StaffingDTO is the staffing recommendation.
type StaffingDTO struct {
	Workers            []WorkerSummaryDTO `json:"workers"`
	RequiredEducators  int                `json:"required_educators"`
	RequiredQualified  int                `json:"required_qualified"`
	SatisfiesRatio     bool               `json:"satisfies_ratio"`
	SatisfiesQualified bool               `json:"satisfies_qualified"`
	Message            string             `json:"message"`
}

// WorkerSummaryDTO is the compact worker view used inside recommendations.
type WorkerSummaryDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	HourlyRate string `json:"hourly_rate"`
}

// =============================================================================
// FATIGUE TYPES
// =============================================================================

// FactorDTO is one weighted score contribution.
type FactorDTO struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
	Max    float64 `json:"max"`
	Detail string  `json:"detail"`
}

// FatigueScoreDTO is the full fatigue assessment.
type FatigueScoreDTO struct {
	WorkerID        string      `json:"worker_id"`
	AsOf            string      `json:"as_of"`
	Score           float64     `json:"score"`
	Risk            string      `json:"risk"`
	Factors         []FactorDTO `json:"factors"`
	Recommendations []string    `json:"recommendations"`
	ProjectedNext   float64     `json:"projected_next"`
}

func scoreToDTO(s fatigue.Score) FatigueScoreDTO {
	dto := FatigueScoreDTO{
		WorkerID:        string(s.WorkerID),
		AsOf:            s.AsOf.String(),
		Score:           s.Score,
		Risk:            string(s.Risk),
		Recommendations: s.Recommendations,
		ProjectedNext:   s.ProjectedNext,
	}
	if dto.Recommendations == nil {
		dto.Recommendations = []string{}
	}
	for _, f := range s.Factors {
		dto.Factors = append(dto.Factors, FactorDTO(f))
	}
	return dto
}

// ViolationDTO is one discrete rule breach.
type ViolationDTO struct {
	WorkerID   string  `json:"worker_id"`
	Type       string  `json:"type"`
	Current    float64 `json:"current"`
	Limit      float64 `json:"limit"`
	Severity   string  `json:"severity"`
	DetectedAt string  `json:"detected_at"`
}

func violationToDTO(v fatigue.Violation) ViolationDTO {
	return ViolationDTO{
		WorkerID:   string(v.WorkerID),
		Type:       string(v.Type),
		Current:    v.Current,
		Limit:      v.Limit,
		Severity:   string(v.Severity),
		DetectedAt: v.DetectedAt.String(),
	}
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

// AccrualRequest asks for a pay-period accrual calculation. Hours worked
// default to the worker's stored shifts in the period when omitted.
type AccrualRequest struct {
	PeriodDate  string   `json:"period_date"`
	HoursWorked *float64 `json:"hours_worked,omitempty"`

	// Post writes the calculation to the ledger after computing it.
	Post bool `json:"post,omitempty"`
}

// AccrualLineDTO is one entitlement's accrual with its audit trail.
type AccrualLineDTO struct {
	Entitlement string `json:"entitlement"`
	RatePerHour string `json:"rate_per_hour"`
	HoursWorked string `json:"hours_worked"`
	Accrued     string `json:"accrued_hours"`
	AccruedDays string `json:"accrued_days"`
	Formula     string `json:"formula"`
}

// CalculationDTO is the full pay-period accrual result.
type CalculationDTO struct {
	WorkerID    string           `json:"worker_id"`
	PeriodStart string           `json:"period_start"`
	PeriodEnd   string           `json:"period_end"`
	Lines       []AccrualLineDTO `json:"lines"`
	Posted      bool             `json:"posted"`
}

func lineToDTO(l leave.AccrualLine) AccrualLineDTO {
	return AccrualLineDTO{
		Entitlement: l.Entitlement.EntitlementID(),
		RatePerHour: l.RatePerHour.StringFixed(6),
		HoursWorked: l.HoursWorked.StringFixed(2),
		Accrued:     l.Accrued.Value.StringFixed(4),
		AccruedDays: l.Accrued.InDays().Value.StringFixed(4),
		Formula:     l.Formula,
	}
}

// BalanceDTO is the per-entitlement running position.
type BalanceDTO struct {
	WorkerID      string `json:"worker_id"`
	Entitlement   string `json:"entitlement"`
	BalanceHours  string `json:"balance_hours"`
	BalanceDays   string `json:"balance_days"`
	PeriodAccrued string `json:"period_accrued"`
	PeriodTaken   string `json:"period_taken"`
	YTDAccrued    string `json:"ytd_accrued"`
	YTDTaken      string `json:"ytd_taken"`
	Value         string `json:"value"`
	AsOf          string `json:"as_of"`
}

func balanceToDTO(b leave.LeaveBalance) BalanceDTO {
	return BalanceDTO{
		WorkerID:      string(b.WorkerID),
		Entitlement:   b.Entitlement.EntitlementID(),
		BalanceHours:  b.Balance.Value.StringFixed(4),
		BalanceDays:   b.Balance.InDays().Value.StringFixed(4),
		PeriodAccrued: b.PeriodAccrued.Value.StringFixed(4),
		PeriodTaken:   b.PeriodTaken.Value.StringFixed(4),
		YTDAccrued:    b.YTDAccrued.Value.StringFixed(4),
		YTDTaken:      b.YTDTaken.Value.StringFixed(4),
		Value:         b.Value.StringFixed(2),
		AsOf:          b.UpdatedAt.String(),
	}
}

// TransactionDTO is one ledger entry.
type TransactionDTO struct {
	ID            string `json:"id"`
	WorkerID      string `json:"worker_id"`
	Entitlement   string `json:"entitlement"`
	EffectiveAt   string `json:"effective_at"`
	DeltaHours    string `json:"delta_hours"`
	Type          string `json:"type"`
	Value         string `json:"value"`
	Reason        string `json:"reason,omitempty"`
	CreatedBy     string `json:"created_by,omitempty"`
	CreatedByType string `json:"created_by_type,omitempty"`
}

func transactionToDTO(tx generic.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:            string(tx.ID),
		WorkerID:      string(tx.WorkerID),
		Entitlement:   tx.Entitlement.EntitlementID(),
		EffectiveAt:   tx.EffectiveAt.String(),
		DeltaHours:    tx.Delta.Value.StringFixed(4),
		Type:          string(tx.Type),
		Value:         tx.Value.StringFixed(2),
		Reason:        tx.Reason,
		CreatedBy:     tx.CreatedBy,
		CreatedByType: tx.CreatedByType,
	}
}

// TakeLeaveRequest records leave taken against a balance.
type TakeLeaveRequest struct {
	Entitlement string  `json:"entitlement"`
	Hours       float64 `json:"hours"`
	Date        string  `json:"date"`
	Reason      string  `json:"reason,omitempty"`
	CreatedBy   string  `json:"created_by,omitempty"`
}

// AdjustmentRequest is a manual balance correction.
type AdjustmentRequest struct {
	WorkerID    string  `json:"worker_id"`
	Entitlement string  `json:"entitlement"`
	Hours       float64 `json:"hours"`
	Date        string  `json:"date"`
	Reason      string  `json:"reason"`
	CreatedBy   string  `json:"created_by,omitempty"`
}

// TerminationRequest asks for the pro-rata LSL determination on exit.
type TerminationRequest struct {
	TerminationType string `json:"termination_type"`
	TerminationDate string `json:"termination_date"`
}

// ProRataDTO is the termination payout determination.
type ProRataDTO struct {
	State           string `json:"state"`
	TerminationType string `json:"termination_type"`
	Eligible        bool   `json:"eligible"`
	Reason          string `json:"reason"`
	Weeks           string `json:"weeks"`
	Hours           string `json:"hours"`
	Value           string `json:"value"`
}

func proRataToDTO(p leave.ProRataEntitlement) ProRataDTO {
	return ProRataDTO{
		State:           string(p.State),
		TerminationType: string(p.TerminationType),
		Eligible:        p.Eligible,
		Reason:          p.Reason,
		Weeks:           p.Weeks.StringFixed(4),
		Hours:           p.Hours.Value.StringFixed(2),
		Value:           p.Value.StringFixed(2),
	}
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
