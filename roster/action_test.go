package roster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/roster"
)

func boolPtr(b bool) *bool { return &b }

func TestValidateShiftAction_DeleteLastEducatorBlocks(t *testing.T) {
	// GIVEN: 4 children covered by a single educator
	// WHEN: Deleting that educator's shift is simulated
	// THEN: Blocked with remediation suggestions; the roster is untouched

	v := roster.NewRatioValidator(roster.DefaultRatioPolicy())
	workers := []roster.WorkerRecord{educator("w1", "Aisha", roster.QualCertificateIII)}
	shifts := []roster.ShiftRecord{roomShift("s1", "w1")}

	result := v.ValidateShiftAction(roster.ActionDelete, shifts[0], shifts, workers,
		toddlerRoom(), toddlerRule(), 4, "morning", roster.CheckOptions{}, testAsOf)

	assert.False(t, result.CanProceed)
	assert.Equal(t, generic.SeverityBlocking, result.Severity)
	assert.Equal(t, 1, result.Status.EducatorShortfall)
	require.NotEmpty(t, result.Suggestions)
	assert.Contains(t, result.Suggestions, "add 1 more educator(s) to Toddlers")

	// Input slice must survive the simulation unchanged.
	assert.Len(t, shifts, 1)
}

func TestValidateShiftAction_OverrideProceedsButReports(t *testing.T) {
	// Overriding never hides the blocking text.
	v := roster.NewRatioValidator(roster.DefaultRatioPolicy())
	workers := []roster.WorkerRecord{educator("w1", "Aisha", roster.QualCertificateIII)}
	shifts := []roster.ShiftRecord{roomShift("s1", "w1")}

	result := v.ValidateShiftAction(roster.ActionDelete, shifts[0], shifts, workers,
		toddlerRoom(), toddlerRule(), 4, "morning",
		roster.CheckOptions{AllowOverride: true}, testAsOf)

	assert.True(t, result.CanProceed)
	assert.Equal(t, generic.SeverityBlocking, result.Severity)
	assert.NotEmpty(t, result.Status.BlockingIssues)
}

func TestValidateShiftAction_AdvisoryModeProceeds(t *testing.T) {
	// EnforceBlocking explicitly false downgrades this call to advisory.
	v := roster.NewRatioValidator(roster.DefaultRatioPolicy())
	workers := []roster.WorkerRecord{educator("w1", "Aisha", roster.QualCertificateIII)}
	shifts := []roster.ShiftRecord{roomShift("s1", "w1")}

	result := v.ValidateShiftAction(roster.ActionDelete, shifts[0], shifts, workers,
		toddlerRoom(), toddlerRule(), 4, "morning",
		roster.CheckOptions{EnforceBlocking: boolPtr(false)}, testAsOf)

	assert.True(t, result.CanProceed)
	assert.Equal(t, generic.SeverityBlocking, result.Severity)
}

func TestValidateShiftAction_CreateFillsShortfall(t *testing.T) {
	// GIVEN: 8 children, one educator on roster (shortfall of one)
	// WHEN: A create action adds a second educator
	// THEN: The simulated roster is compliant and the action proceeds

	v := roster.NewRatioValidator(roster.DefaultRatioPolicy())
	workers := []roster.WorkerRecord{
		educator("w1", "Aisha", roster.QualCertificateIII),
		educator("w2", "Ben", roster.QualCertificateIII),
	}
	existing := []roster.ShiftRecord{roomShift("s1", "w1")}
	incoming := roomShift("s2", "w2")

	result := v.ValidateShiftAction(roster.ActionCreate, incoming, existing, workers,
		toddlerRoom(), toddlerRule(), 8, "morning", roster.CheckOptions{}, testAsOf)

	assert.True(t, result.CanProceed)
	assert.True(t, result.Status.IsCompliant)
	assert.Equal(t, 2, result.Status.ScheduledEducators)
	assert.Empty(t, result.Suggestions)
}

func TestValidateShiftAction_ModifyReplacesByID(t *testing.T) {
	// GIVEN: A shift reassigned from one room to another via modify
	// THEN: The source room loses coverage in the simulation

	v := roster.NewRatioValidator(roster.DefaultRatioPolicy())
	workers := []roster.WorkerRecord{educator("w1", "Aisha", roster.QualCertificateIII)}
	original := roomShift("s1", "w1")
	moved := original
	moved.RoomID = "room-2"

	result := v.ValidateShiftAction(roster.ActionModify, moved, []roster.ShiftRecord{original},
		workers, toddlerRoom(), toddlerRule(), 4, "morning", roster.CheckOptions{}, testAsOf)

	assert.False(t, result.CanProceed)
	assert.Equal(t, 0, result.Status.ScheduledEducators)
}

func TestValidateShiftAction_WarningsNeverBlock(t *testing.T) {
	// A qualification shortfall (warning under the default policy) proceeds.
	v := roster.NewRatioValidator(roster.DefaultRatioPolicy())
	workers := []roster.WorkerRecord{
		educator("w1", "Aisha"),
		educator("w2", "Ben"),
	}
	existing := []roster.ShiftRecord{roomShift("s1", "w1")}
	incoming := roomShift("s2", "w2")

	result := v.ValidateShiftAction(roster.ActionCreate, incoming, existing, workers,
		toddlerRoom(), toddlerRule(), 8, "morning", roster.CheckOptions{}, testAsOf)

	assert.True(t, result.CanProceed)
	assert.Equal(t, generic.SeverityWarning, result.Severity)
}

func TestValidateShiftAction_SuggestionsIncludeChildReduction(t *testing.T) {
	// GIVEN: 9 children and 2 educators at ratio 1:4
	// THEN: Suggestions include reducing to the coverable count (8)

	v := roster.NewRatioValidator(roster.DefaultRatioPolicy())
	workers := []roster.WorkerRecord{
		educator("w1", "Aisha", roster.QualCertificateIII),
		educator("w2", "Ben", roster.QualCertificateIII),
		educator("w3", "Cara", roster.QualCertificateIII),
	}
	shifts := []roster.ShiftRecord{roomShift("s1", "w1"), roomShift("s2", "w2"), roomShift("s3", "w3")}

	result := v.ValidateShiftAction(roster.ActionDelete, shifts[2], shifts, workers,
		toddlerRoom(), toddlerRule(), 9, "morning", roster.CheckOptions{}, testAsOf)

	assert.False(t, result.CanProceed)
	assert.Contains(t, result.Suggestions, "reduce booked children to 8 or fewer")
	assert.Contains(t, result.Suggestions, "split the group across rooms with available staff")
}
