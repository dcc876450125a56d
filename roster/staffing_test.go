package roster_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/roster"
)

func ratedEducator(id string, rate float64, quals ...roster.QualificationType) roster.WorkerRecord {
	w := educator(id, id, quals...)
	w.HourlyRate = decimal.NewFromFloat(rate)
	return w
}

func TestSuggestOptimalStaffing_CheapestSufficientSet(t *testing.T) {
	// GIVEN: 8 children at 1:4 (2 educators, 1 qualified) and a mixed pool
	// WHEN: A suggestion is computed
	// THEN: The cheapest pair already carrying a qualified worker is picked

	v := roster.NewRatioValidator(roster.DefaultRatioPolicy())
	pool := []roster.WorkerRecord{
		ratedEducator("expensive-qual", 45, roster.QualCertificateIII),
		ratedEducator("cheap-qual", 30, roster.QualCertificateIII),
		ratedEducator("cheap-unqual", 25),
	}

	s := v.SuggestOptimalStaffing(toddlerRoom(), toddlerRule(), 8, pool, testAsOf)

	require.Len(t, s.Workers, 2)
	assert.Equal(t, generic.WorkerID("cheap-unqual"), s.Workers[0].ID)
	assert.Equal(t, generic.WorkerID("cheap-qual"), s.Workers[1].ID)
	assert.True(t, s.SatisfiesRatio)
	assert.True(t, s.SatisfiesQualified)
}

func TestSuggestOptimalStaffing_SwapPassMeetsQualifiedShare(t *testing.T) {
	// GIVEN: 12 children at 1:4 (3 educators, 2 of them qualified) where the
	//        cheapest three carry only one qualified worker
	// WHEN: A suggestion is computed
	// THEN: The swap pass trades an unqualified pick for the remaining
	//       qualified worker

	v := roster.NewRatioValidator(roster.DefaultRatioPolicy())
	pool := []roster.WorkerRecord{
		ratedEducator("q1", 38, roster.QualCertificateIII),
		ratedEducator("q2", 50, roster.QualCertificateIII),
		ratedEducator("u1", 22),
		ratedEducator("u2", 24),
	}

	s := v.SuggestOptimalStaffing(toddlerRoom(), toddlerRule(), 12, pool, testAsOf)

	require.Len(t, s.Workers, 3)
	assert.True(t, s.SatisfiesQualified)

	qualified := 0
	ids := make(map[generic.WorkerID]bool)
	for _, w := range s.Workers {
		ids[w.ID] = true
		if w.HoldsQualification(roster.QualCertificateIII, testAsOf) {
			qualified++
		}
	}
	assert.Equal(t, 2, qualified)
	assert.True(t, ids["u1"], "the cheapest unqualified worker should survive the swap")
	assert.False(t, ids["u2"], "the pricier unqualified worker should be swapped out")
}

func TestSuggestOptimalStaffing_InsufficientPool(t *testing.T) {
	// GIVEN: 12 children but only one available worker
	// THEN: Partial suggestion with an explanatory message, never an error

	v := roster.NewRatioValidator(roster.DefaultRatioPolicy())
	pool := []roster.WorkerRecord{ratedEducator("w1", 30, roster.QualCertificateIII)}

	s := v.SuggestOptimalStaffing(toddlerRoom(), toddlerRule(), 12, pool, testAsOf)

	assert.Len(t, s.Workers, 1)
	assert.False(t, s.SatisfiesRatio)
	assert.Contains(t, s.Message, "insufficient available staff")
}

func TestSuggestOptimalStaffing_ZeroChildren(t *testing.T) {
	v := roster.NewRatioValidator(roster.DefaultRatioPolicy())

	s := v.SuggestOptimalStaffing(toddlerRoom(), toddlerRule(), 0, nil, testAsOf)

	assert.Empty(t, s.Workers)
	assert.True(t, s.SatisfiesRatio)
	assert.True(t, s.SatisfiesQualified)
	assert.Contains(t, s.Message, "no educators required")
}

func TestSuggestOptimalStaffing_PoolNotMutated(t *testing.T) {
	// The available slice must come back in its original order.
	v := roster.NewRatioValidator(roster.DefaultRatioPolicy())
	pool := []roster.WorkerRecord{
		ratedEducator("b", 50),
		ratedEducator("a", 20, roster.QualCertificateIII),
	}

	v.SuggestOptimalStaffing(toddlerRoom(), toddlerRule(), 4, pool, testAsOf)

	assert.Equal(t, generic.WorkerID("b"), pool[0].ID)
	assert.Equal(t, generic.WorkerID("a"), pool[1].ID)
}
