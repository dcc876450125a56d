/*
accrual.go - Annual and personal leave accrual

PURPOSE:
  Hours-worked accrual for the two NES entitlements. The per-hour rate is
  derived from weeks-per-year over a 52-week year:

    rate = entitlementWeeks / 52
    accrued hours = hoursWorked × rate

  The rate is independent of standard weekly hours: a worker accrues in
  proportion to hours actually worked, which makes the accrual exactly
  linear in hoursWorked for a fixed config.

CASUAL LOADING:
  When the config carries casual loading, both entitlements accrue zero
  and the formula records why. The zero is a real AccrualLine, not a nil -
  payroll audit wants the explicit suppression on record.
*/
package leave

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/generic"
)

var weeksPerYear = decimal.NewFromFloat(WeeksPerYear)

// AnnualAccrual computes annual leave accrued for hours worked in a pay
// period.
func AnnualAccrual(hoursWorked float64, cfg AccrualConfig) AccrualLine {
	weeks := AnnualWeeksPerYear
	if cfg.CustomAnnualWeeks != nil {
		weeks = *cfg.CustomAnnualWeeks
	}
	return hoursAccrual(Annual, hoursWorked, weeks, cfg)
}

// PersonalAccrual computes personal (sick/carer's) leave accrued for hours
// worked in a pay period.
func PersonalAccrual(hoursWorked float64, cfg AccrualConfig) AccrualLine {
	weeks := PersonalWeeksPerYear
	if cfg.CustomPersonalWeeks != nil {
		weeks = *cfg.CustomPersonalWeeks
	}
	return hoursAccrual(Personal, hoursWorked, weeks, cfg)
}

func hoursAccrual(ent Entitlement, hoursWorked, entitlementWeeks float64, cfg AccrualConfig) AccrualLine {
	hours := decimal.NewFromFloat(hoursWorked)

	if cfg.CasualLoading {
		return AccrualLine{
			Entitlement: ent,
			RatePerHour: decimal.Zero,
			HoursWorked: hours,
			Accrued:     generic.NewAmount(0, generic.UnitHours),
			Formula:     "0 (casual loading paid in lieu of leave accrual)",
		}
	}

	rate := decimal.NewFromFloat(entitlementWeeks).Div(weeksPerYear)
	accrued := hours.Mul(rate)

	return AccrualLine{
		Entitlement: ent,
		RatePerHour: rate,
		HoursWorked: hours,
		Accrued:     generic.NewAmountFromDecimal(accrued, generic.UnitHours),
		Formula: fmt.Sprintf("%sh × %s (%g weeks / %g)",
			hours.StringFixed(2), rate.StringFixed(6), entitlementWeeks, WeeksPerYear),
	}
}
