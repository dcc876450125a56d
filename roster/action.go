/*
action.go - Pre-commit shift action simulation

PURPOSE:
  Evaluates a hypothetical shift create/modify/delete BEFORE it is
  committed. The roster UI calls this synchronously on every edit and must
  surface blocking issues as hard stops and warnings as soft confirmations.

  The same operation backs both "can I add a worker to this room" and
  "can I remove a worker without breaching ratio" - removal is simply the
  delete action.

SIMULATION:
  The post-action shift set is constructed without mutating caller state:
    create: append the target shift
    modify: replace the shift with matching ID
    delete: filter the shift out
  The resulting set is then run through CheckRoomCompliance.

PROCEED RULES:
  - Warnings only: always proceed
  - Blocking issues: proceed only with opts.AllowOverride, or when
    opts.EnforceBlocking is explicitly false. The blocking text is still
    reported either way - overriding never hides the issue.
*/
package roster

import (
	"fmt"

	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// ACTIONS AND OPTIONS
// =============================================================================

type Action string

const (
	ActionCreate Action = "create"
	ActionModify Action = "modify"
	ActionDelete Action = "delete"
)

// CheckOptions controls enforcement for a single validation call.
type CheckOptions struct {
	// AllowOverride permits proceeding despite blocking issues. Overrides
	// are always explicit; there is no implicit escalation path.
	AllowOverride bool

	// EnforceBlocking defaults to true when nil. Setting it explicitly to
	// false downgrades enforcement for this call (advisory mode).
	EnforceBlocking *bool
}

func (o CheckOptions) enforced() bool {
	return o.EnforceBlocking == nil || *o.EnforceBlocking
}

// ComplianceCheckResult is the outcome of simulating a shift mutation.
type ComplianceCheckResult struct {
	Action     Action
	CanProceed bool
	Status     RatioStatus
	Severity   generic.Severity

	// Suggestions carries remediation actions when the result blocks.
	Suggestions []string
}

// =============================================================================
// ACTION VALIDATION
// =============================================================================

// ValidateShiftAction simulates the mutation and evaluates the resulting
// roster. The caller's shift slice is never mutated.
func (v *RatioValidator) ValidateShiftAction(
	action Action,
	target ShiftRecord,
	allShifts []ShiftRecord,
	workers []WorkerRecord,
	room Room,
	rule RoomRatioRule,
	bookedChildren int,
	timeSlot string,
	opts CheckOptions,
	asOf generic.TimePoint,
) ComplianceCheckResult {
	simulated := simulate(action, target, allShifts)

	status := v.CheckRoomCompliance(
		room, rule, simulated, workers, target.Date, bookedChildren, timeSlot, asOf)

	result := ComplianceCheckResult{
		Action:     action,
		Status:     status,
		Severity:   status.Severity,
		CanProceed: true,
	}

	if len(status.BlockingIssues) > 0 {
		result.CanProceed = opts.AllowOverride || !opts.enforced()
		result.Suggestions = remediations(status, room, rule)
	}

	return result
}

// simulate builds the post-action shift set without touching the input.
func simulate(action Action, target ShiftRecord, shifts []ShiftRecord) []ShiftRecord {
	out := make([]ShiftRecord, 0, len(shifts)+1)

	switch action {
	case ActionCreate:
		out = append(out, shifts...)
		out = append(out, target)

	case ActionModify:
		for _, s := range shifts {
			if s.ID == target.ID {
				out = append(out, target)
			} else {
				out = append(out, s)
			}
		}

	case ActionDelete:
		for _, s := range shifts {
			if s.ID != target.ID {
				out = append(out, s)
			}
		}

	default:
		out = append(out, shifts...)
	}

	return out
}

// remediations suggests the concrete ways out of a blocking status.
func remediations(status RatioStatus, room Room, rule RoomRatioRule) []string {
	var out []string

	if status.EducatorShortfall > 0 {
		out = append(out, fmt.Sprintf(
			"add %d more educator(s) to %s", status.EducatorShortfall, room.Name))

		coverable := status.ScheduledEducators * rule.ChildrenPerEducator
		out = append(out, fmt.Sprintf(
			"reduce booked children to %d or fewer", coverable))
	}

	if room.Capacity > 0 && status.BookedChildren > room.Capacity {
		out = append(out, fmt.Sprintf(
			"reduce booked children to the licensed capacity of %d", room.Capacity))
	}

	if status.EducatorShortfall > 0 || status.BookedChildren > room.Capacity {
		out = append(out, "split the group across rooms with available staff")
	}

	return out
}
