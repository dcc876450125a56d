/*
lsl.go - Long service leave accrual and pro-rata termination entitlement

PURPOSE:
  Long service leave is state legislation. The accrual rate derives from
  the state's entitlement ratio:

    rate = entitlementWeeks / (entitlementYears × 52)

  so a NSW worker (8.67 weeks after 10 years) accrues ~0.0167 LSL hours
  per hour worked. LSL accrues from day one but only vests at the state's
  qualifying period; before that the result reports when eligibility will
  be reached.

PRO-RATA ON TERMINATION:
  Each state independently allows or disallows a pro-rata payout per
  termination type, with its own minimum-service threshold. At or above
  the full entitlement years the payout is the full statutory weeks plus a
  per-additional-year increment; between the pro-rata threshold and the
  full period it is a strict fraction of the full entitlement.
*/
package leave

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/generic"
)

// LSLAccrual computes long-service accrual under the default statutory
// table.
func LSLAccrual(hoursWorked, serviceYears float64, state State, cfg AccrualConfig) (LSLResult, error) {
	return LSLAccrualWithRules(hoursWorked, serviceYears, state, cfg, DefaultStateRules())
}

// LSLAccrualWithRules computes long-service accrual under a caller-supplied
// rule table.
func LSLAccrualWithRules(hoursWorked, serviceYears float64, state State, cfg AccrualConfig, rules map[State]StateRule) (LSLResult, error) {
	rule, ok := rules[state]
	if !ok {
		return LSLResult{}, fmt.Errorf("lsl accrual for %q: %w", state, generic.ErrUnknownJurisdiction)
	}

	hours := decimal.NewFromFloat(hoursWorked)
	rate := decimal.NewFromFloat(rule.EntitlementWeeks).
		Div(decimal.NewFromFloat(rule.EntitlementYears * WeeksPerYear))
	accrued := hours.Mul(rate)

	result := LSLResult{
		Line: AccrualLine{
			Entitlement: LongService,
			RatePerHour: rate,
			HoursWorked: hours,
			Accrued:     generic.NewAmountFromDecimal(accrued, generic.UnitHours),
			Formula: fmt.Sprintf("%sh × %s (%g weeks / %g years × %g)",
				hours.StringFixed(2), rate.StringFixed(6),
				rule.EntitlementWeeks, rule.EntitlementYears, WeeksPerYear),
		},
		Eligible: serviceYears >= rule.EntitlementYears,
	}

	if !result.Eligible && !cfg.ServiceStart.IsZero() {
		on := cfg.ServiceStart.AddYears(int(rule.EntitlementYears))
		result.EligibleOn = &on
	}

	return result, nil
}

// ProRataEntitlementFor determines whether a pro-rata LSL payout applies on
// termination, under the default statutory table.
func ProRataEntitlementFor(state State, serviceYears float64, term TerminationType, hourlyRate decimal.Decimal, standardWeeklyHours float64) (ProRataEntitlement, error) {
	return ProRataEntitlementWithRules(state, serviceYears, term, hourlyRate, standardWeeklyHours, DefaultStateRules())
}

// ProRataEntitlementWithRules is the rule-table-injected variant.
func ProRataEntitlementWithRules(state State, serviceYears float64, term TerminationType, hourlyRate decimal.Decimal, standardWeeklyHours float64, rules map[State]StateRule) (ProRataEntitlement, error) {
	rule, ok := rules[state]
	if !ok {
		return ProRataEntitlement{}, fmt.Errorf("pro-rata entitlement for %q: %w", state, generic.ErrUnknownJurisdiction)
	}

	out := ProRataEntitlement{
		State:           state,
		TerminationType: term,
		Hours:           generic.NewAmount(0, generic.UnitHours),
	}

	if !rule.ProRataOn[term] {
		out.Reason = fmt.Sprintf("%s does not grant pro-rata long service leave on %s", state, term)
		return out, nil
	}

	if serviceYears < rule.ProRataYears {
		out.Reason = fmt.Sprintf("%.2f years of service is below the %s pro-rata minimum of %g years",
			serviceYears, state, rule.ProRataYears)
		return out, nil
	}

	out.Eligible = true

	weeks := decimal.NewFromFloat(rule.EntitlementWeeks)
	years := decimal.NewFromFloat(serviceYears)
	fullYears := decimal.NewFromFloat(rule.EntitlementYears)

	if serviceYears >= rule.EntitlementYears {
		// Full entitlement plus the per-additional-year increment.
		perYear := weeks.Div(fullYears)
		out.Weeks = weeks.Add(years.Sub(fullYears).Mul(perYear))
		out.Reason = fmt.Sprintf("full entitlement after %g years plus %s weeks per additional year",
			rule.EntitlementYears, perYear.StringFixed(4))
	} else {
		// Strict pro-rata fraction of the full entitlement.
		out.Weeks = weeks.Mul(years).Div(fullYears)
		out.Reason = fmt.Sprintf("pro-rata fraction %.2f/%g of %g weeks",
			serviceYears, rule.EntitlementYears, rule.EntitlementWeeks)
	}

	hours := out.Weeks.Mul(decimal.NewFromFloat(standardWeeklyHours))
	out.Hours = generic.NewAmountFromDecimal(hours, generic.UnitHours)
	out.Value = hours.Mul(hourlyRate)

	return out, nil
}
