package leave

import (
	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// PAY PERIOD COMPOSITION
// =============================================================================

// PeriodAccruals composes the three entitlement accruals into one
// audit-friendly Calculation for a pay period. Each line carries the exact
// rate and formula used.
func PeriodAccruals(workerID generic.WorkerID, period generic.Period, hoursWorked, serviceYears float64, cfg AccrualConfig) (Calculation, error) {
	return PeriodAccrualsWithRules(workerID, period, hoursWorked, serviceYears, cfg, DefaultStateRules())
}

// PeriodAccrualsWithRules is the rule-table-injected variant.
func PeriodAccrualsWithRules(workerID generic.WorkerID, period generic.Period, hoursWorked, serviceYears float64, cfg AccrualConfig, rules map[State]StateRule) (Calculation, error) {
	lsl, err := LSLAccrualWithRules(hoursWorked, serviceYears, cfg.State, cfg, rules)
	if err != nil {
		return Calculation{}, err
	}

	return Calculation{
		WorkerID:    workerID,
		Period:      period,
		Annual:      AnnualAccrual(hoursWorked, cfg),
		Personal:    PersonalAccrual(hoursWorked, cfg),
		LongService: lsl.Line,
	}, nil
}
