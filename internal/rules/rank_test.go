package rules

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"RuleForge/internal/domain/models"
)

func cand(importance, coverage float64, conds int, tree int) models.RankedRule {
	cs := make([]models.Condition, conds)
	for i := range cs {
		cs[i] = models.Condition{Feature: fmt.Sprintf("f%d", i), Op: models.OpGreater, Threshold: float64(i)}
	}
	return models.RankedRule{
		Path:       models.DecisionPath{Conditions: cs, TreeIndex: tree},
		Importance: importance,
		Coverage:   coverage,
	}
}

func TestRankOrdersByImportanceDescending(t *testing.T) {
	in := []models.RankedRule{
		cand(1, 0.5, 1, 0),
		cand(3, 0.1, 1, 1),
		cand(2, 0.9, 1, 2),
	}
	out := Rank(in, 0, 0)
	require.Len(t, out, 3)
	require.Equal(t, 3.0, out[0].Importance)
	require.Equal(t, 2.0, out[1].Importance)
	require.Equal(t, 1.0, out[2].Importance)
}

func TestRankTieBreaks(t *testing.T) {
	// Equal importance: higher coverage wins, then fewer conditions.
	in := []models.RankedRule{
		cand(5, 0.2, 1, 0),
		cand(5, 0.4, 3, 1),
		cand(5, 0.4, 2, 2),
	}
	out := Rank(in, 0, 0)
	require.Equal(t, 2, out[0].Path.TreeIndex) // 0.4 coverage, 2 conditions
	require.Equal(t, 1, out[1].Path.TreeIndex) // 0.4 coverage, 3 conditions
	require.Equal(t, 0, out[2].Path.TreeIndex)
}

func TestRankCoverageFilterAndCap(t *testing.T) {
	var in []models.RankedRule
	for i := 0; i < 50; i++ {
		in = append(in, cand(float64(i), float64(i)/50.0, 1, i))
	}

	out := Rank(in, 0.2, 15)
	require.Len(t, out, 15)
	for i, r := range out {
		require.GreaterOrEqual(t, r.Coverage, 0.2)
		if i > 0 {
			require.LessOrEqual(t, r.Importance, out[i-1].Importance)
		}
	}
}

func TestRankEmptyResultIsValid(t *testing.T) {
	in := []models.RankedRule{cand(1, 0.05, 1, 0)}
	out := Rank(in, 0.5, 10)
	require.Empty(t, out)
	require.NotNil(t, out)
}

func TestRankDeterministicAcrossRuns(t *testing.T) {
	var in []models.RankedRule
	for i := 0; i < 20; i++ {
		in = append(in, cand(float64(i%4), 0.3, i%3+1, i))
	}
	first := Rank(in, 0, 0)
	for run := 0; run < 5; run++ {
		require.Equal(t, first, Rank(in, 0, 0))
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := []models.RankedRule{cand(1, 0.5, 1, 0), cand(2, 0.5, 1, 1)}
	snapshot := append([]models.RankedRule(nil), in...)
	_ = Rank(in, 0, 1)
	require.Equal(t, snapshot, in)
}
