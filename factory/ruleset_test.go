package factory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/roster-engine/factory"
	"github.com/warp/roster-engine/fatigue"
	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/leave"
	"github.com/warp/roster-engine/roster"
)

func TestParse_EmptySectionsFallBackToDefaults(t *testing.T) {
	// GIVEN: A rule set naming nothing but itself
	// THEN: Statutory defaults fill every section

	f := factory.NewRuleSetFactory()
	rs, err := f.Parse(`{"id": "centre-1", "name": "Bare minimum"}`)
	require.NoError(t, err)

	assert.Equal(t, "centre-1", rs.ID)
	assert.Len(t, rs.RatioRules, 3)
	assert.Equal(t, 0.5, rs.RatioPolicy.QualifiedShare)
	assert.False(t, rs.RatioPolicy.QualificationBlocking)
	assert.Equal(t, 6, rs.Fatigue.MaxConsecutiveDays)
	assert.Equal(t, 50.0, rs.Fatigue.MaxWeeklyHours)
	assert.Equal(t, leave.NSW, rs.LeaveState)
	assert.Equal(t, 38.0, rs.WeeklyHours)
}

func TestParse_FullRuleSet(t *testing.T) {
	f := factory.NewRuleSetFactory()
	rs, err := f.Parse(`{
		"id": "vic-centre",
		"name": "VIC custom",
		"ratio": {
			"qualified_share": 0.6,
			"qualification_blocking": true,
			"bands": [
				{"min_age_months": 0, "max_age_months": 36,
				 "children_per_educator": 5,
				 "requires_qualified": true,
				 "qualification": "diploma_early_childhood"}
			]
		},
		"fatigue": {
			"max_consecutive_days": 5,
			"max_weekly_hours": 45,
			"night_start_hour": 21,
			"night_end_hour": 5
		},
		"leave": {
			"state": "VIC",
			"standard_weekly_hours": 40,
			"custom_annual_weeks": 5
		}
	}`)
	require.NoError(t, err)

	assert.Equal(t, 0.6, rs.RatioPolicy.QualifiedShare)
	assert.True(t, rs.RatioPolicy.QualificationBlocking)
	require.Len(t, rs.RatioRules, 1)
	assert.Equal(t, roster.QualDiploma, rs.RatioRules[0].Qualification)

	assert.Equal(t, 5, rs.Fatigue.MaxConsecutiveDays)
	assert.Equal(t, 45.0, rs.Fatigue.MaxWeeklyHours)
	assert.Equal(t, fatigue.NightWindow{StartHour: 21, EndHour: 5}, rs.Fatigue.NightWindow)
	// Omitted fatigue limits keep their statutory values.
	assert.Equal(t, 10.0, rs.Fatigue.MinRestHours)

	assert.Equal(t, leave.VIC, rs.LeaveState)
	assert.Equal(t, 40.0, rs.WeeklyHours)
	require.NotNil(t, rs.AnnualWeeks)
	assert.Equal(t, 5.0, *rs.AnnualWeeks)
}

func TestParse_Rejections(t *testing.T) {
	f := factory.NewRuleSetFactory()

	cases := []struct {
		name string
		json string
	}{
		{"malformed json", `{`},
		{"qualified share over one", `{"ratio": {"qualified_share": 1.5}}`},
		{"non-positive ratio", `{"ratio": {"bands": [{"min_age_months": 0, "max_age_months": 24, "children_per_educator": 0}]}}`},
		{"inverted age band", `{"ratio": {"bands": [{"min_age_months": 24, "max_age_months": 12, "children_per_educator": 4}]}}`},
		{"mandate without qualification", `{"ratio": {"bands": [{"min_age_months": 0, "max_age_months": 24, "children_per_educator": 4, "requires_qualified": true}]}}`},
		{"unknown state", `{"leave": {"state": "NZ"}}`},
		{"night hour out of range", `{"fatigue": {"night_start_hour": 25, "night_end_hour": 6}}`},
		{"negative weekly hours", `{"fatigue": {"max_weekly_hours": -1}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.Parse(tc.json)
			assert.Error(t, err)
		})
	}
}

func TestToJSON_RoundTrip(t *testing.T) {
	// GIVEN: A parsed rule set
	// WHEN: Serialized and re-parsed
	// THEN: The engine configuration survives unchanged

	f := factory.NewRuleSetFactory()
	original, err := f.Parse(`{
		"id": "rt",
		"name": "Round trip",
		"ratio": {"qualified_share": 0.75},
		"leave": {"state": "QLD", "custom_personal_weeks": 3}
	}`)
	require.NoError(t, err)

	again, err := f.FromJSON(f.ToJSON(original))
	require.NoError(t, err)

	assert.Equal(t, original.RatioPolicy, again.RatioPolicy)
	assert.Equal(t, original.RatioRules, again.RatioRules)
	assert.Equal(t, original.Fatigue, again.Fatigue)
	assert.Equal(t, original.LeaveState, again.LeaveState)
	require.NotNil(t, again.PersonalWks)
	assert.Equal(t, 3.0, *again.PersonalWks)
}

func TestLeaveConfigFor_AppliesCentreSettings(t *testing.T) {
	// GIVEN: A rule set with custom weekly hours and annual weeks
	// THEN: Per-worker configs inherit them; casual basis carries loading

	f := factory.NewRuleSetFactory()
	rs, err := f.Parse(`{"leave": {"state": "SA", "standard_weekly_hours": 40, "custom_annual_weeks": 5}}`)
	require.NoError(t, err)

	start := generic.NewTimePoint(2020, time.February, 1)

	perm := rs.LeaveConfigFor(leave.BasisPermanent, start)
	assert.Equal(t, leave.SA, perm.State)
	assert.Equal(t, 40.0, perm.StandardWeeklyHours)
	assert.False(t, perm.CasualLoading)
	require.NotNil(t, perm.CustomAnnualWeeks)
	assert.Equal(t, 5.0, *perm.CustomAnnualWeeks)

	cas := rs.LeaveConfigFor(leave.BasisCasual, start)
	assert.True(t, cas.CasualLoading)
}

func TestRatioRuleForAge(t *testing.T) {
	rules := factory.DefaultRatioRules()

	band, ok := factory.RatioRuleForAge(rules, 18)
	require.True(t, ok)
	assert.Equal(t, 4, band.ChildrenPerEducator)

	band, ok = factory.RatioRuleForAge(rules, 48)
	require.True(t, ok)
	assert.Equal(t, 11, band.ChildrenPerEducator)

	_, ok = factory.RatioRuleForAge(rules, 90)
	assert.False(t, ok, "ages beyond the last band have no rule")
}
