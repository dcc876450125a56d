/*
statutory.go - Jurisdictional rule table

PURPOSE:
  Statutory leave parameters per Australian state and territory. National
  Employment Standards set annual and personal leave uniformly; long
  service leave remains state legislation with materially different
  entitlements, qualifying periods, and pro-rata termination rules.

  These are DEFAULTS. The settings surface can override entitlement weeks
  via AccrualConfig custom overrides; the LSL table itself can be replaced
  wholesale by passing a custom map to the calculation functions' *WithRules
  variants.
*/
package leave

// National Employment Standards entitlements, in weeks per year.
const (
	AnnualWeeksPerYear   = 4.0
	PersonalWeeksPerYear = 2.0
	WeeksPerYear         = 52.0
)

// StateRule is one state's long-service-leave legislation, reduced to the
// parameters the calculator needs.
type StateRule struct {
	State State

	// EntitlementWeeks of leave after EntitlementYears of service.
	EntitlementWeeks float64
	EntitlementYears float64

	// ProRataYears is the minimum service for a pro-rata payout on a
	// termination type allowed by ProRataOn.
	ProRataYears float64
	ProRataOn    map[TerminationType]bool
}

// DefaultStateRules returns the statutory LSL table. Returned fresh on each
// call so callers can customise their copy without affecting others.
func DefaultStateRules() map[State]StateRule {
	all := func() map[TerminationType]bool {
		return map[TerminationType]bool{
			TermResignation: true,
			TermTermination: true,
			TermRedundancy:  true,
		}
	}
	noResignation := func() map[TerminationType]bool {
		return map[TerminationType]bool{
			TermResignation: false,
			TermTermination: true,
			TermRedundancy:  true,
		}
	}

	return map[State]StateRule{
		NSW: {State: NSW, EntitlementWeeks: 8.6667, EntitlementYears: 10, ProRataYears: 5, ProRataOn: noResignation()},
		VIC: {State: VIC, EntitlementWeeks: 8.6667, EntitlementYears: 10, ProRataYears: 7, ProRataOn: all()},
		QLD: {State: QLD, EntitlementWeeks: 8.6667, EntitlementYears: 10, ProRataYears: 7, ProRataOn: all()},
		SA:  {State: SA, EntitlementWeeks: 13, EntitlementYears: 10, ProRataYears: 7, ProRataOn: all()},
		WA:  {State: WA, EntitlementWeeks: 8.6667, EntitlementYears: 10, ProRataYears: 7, ProRataOn: all()},
		TAS: {State: TAS, EntitlementWeeks: 8.6667, EntitlementYears: 10, ProRataYears: 7, ProRataOn: all()},
		ACT: {State: ACT, EntitlementWeeks: 6.0667, EntitlementYears: 7, ProRataYears: 5, ProRataOn: all()},
		NT:  {State: NT, EntitlementWeeks: 13, EntitlementYears: 10, ProRataYears: 7, ProRataOn: all()},
	}
}
