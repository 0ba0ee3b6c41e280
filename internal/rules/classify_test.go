package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"RuleForge/internal/domain/models"
)

func TestClassifyDirectionFollowsSign(t *testing.T) {
	long := Classify(simplified(gtRSI(30), 0.5, 0.4, 10), 0.3, 0.1)
	require.Equal(t, models.Long, long.Direction)

	short := Classify(simplified(gtRSI(30), -0.2, 0.6, 10), 0.3, 0.1)
	require.Equal(t, models.Short, short.Direction)
}

func TestClassifyZeroPredictionIsShortByConvention(t *testing.T) {
	s := Classify(simplified(gtRSI(30), 0, 0.5, 1), 0.3, 0.1)
	require.Equal(t, models.Short, s.Direction)
}

func TestClassifyStrengthTiers(t *testing.T) {
	cases := []struct {
		pred float64
		want models.Strength
	}{
		{0.5, models.Strong},    // above the high cutoff
		{-0.5, models.Strong},   // magnitude, not sign
		{0.2, models.Moderate},  // between the cutoffs
		{0.3, models.Moderate},  // exactly the high cutoff is not above it
		{0.1, models.Weak},      // exactly the low cutoff
		{0.05, models.Weak},     // below the low cutoff
		{0, models.Weak},
	}
	for _, tc := range cases {
		s := Classify(simplified(gtRSI(30), tc.pred, 0.4, 1), 0.3, 0.1)
		require.Equal(t, tc.want, s.Strength, "prediction %v", tc.pred)
	}
}

func TestClassifyCarriesRuleFields(t *testing.T) {
	r := simplified(gtRSI(16.6), 0.5, 0.4, 12.5)
	r.Samples = 40
	r.TreeIndex = 2

	s := Classify(r, 0.3, 0.1)
	require.Equal(t, r.Conditions, s.Conditions)
	require.Equal(t, 0.5, s.Prediction)
	require.Equal(t, 0.4, s.Coverage)
	require.Equal(t, 12.5, s.Importance)
	require.Equal(t, 40, s.Samples)
	require.Equal(t, 2, s.TreeIndex)
}
