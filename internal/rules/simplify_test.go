package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"RuleForge/internal/domain/models"
)

func ranked(conds []models.Condition) models.RankedRule {
	return models.RankedRule{
		Path: models.DecisionPath{
			Conditions: conds,
			Prediction: 0.25,
			Samples:    40,
			TreeIndex:  2,
		},
		Importance: 12.5,
		Coverage:   0.4,
	}
}

func TestSimplifyKeepsMostRestrictivePerPair(t *testing.T) {
	r := ranked([]models.Condition{
		{Feature: "RSI", Op: models.OpGreater, Threshold: 15.86},
		{Feature: "RSI", Op: models.OpGreater, Threshold: 16.23},
		{Feature: "RSI", Op: models.OpGreater, Threshold: 16.53},
	})

	s := Simplify(r, 1)
	require.Len(t, s.Conditions, 1)
	// max kept for >, then rounded up so the bound never relaxes
	require.Equal(t, models.Condition{Feature: "RSI", Op: models.OpGreater, Threshold: 16.6}, s.Conditions[0])
}

func TestSimplifyLessEqKeepsMinimumAndFloors(t *testing.T) {
	r := ranked([]models.Condition{
		{Feature: "CallDex", Op: models.OpLessEq, Threshold: 4.27},
		{Feature: "CallDex", Op: models.OpLessEq, Threshold: 3.91},
	})

	s := Simplify(r, 1)
	require.Equal(t, []models.Condition{
		{Feature: "CallDex", Op: models.OpLessEq, Threshold: 3.9},
	}, s.Conditions)
}

func TestSimplifyKeepsBothDirectionsOfSameFeature(t *testing.T) {
	r := ranked([]models.Condition{
		{Feature: "RSI", Op: models.OpGreater, Threshold: 20.12},
		{Feature: "RSI", Op: models.OpLessEq, Threshold: 42.88},
	})

	s := Simplify(r, 1)
	require.Equal(t, []models.Condition{
		{Feature: "RSI", Op: models.OpGreater, Threshold: 20.2},
		{Feature: "RSI", Op: models.OpLessEq, Threshold: 42.8},
	}, s.Conditions)
}

func TestSimplifyRoundingPreservesDirection(t *testing.T) {
	thresholds := []float64{15.86, -3.217, 0.04, 99.999, -0.001}
	for _, th := range thresholds {
		le := Simplify(ranked([]models.Condition{{Feature: "X", Op: models.OpLessEq, Threshold: th}}), 1)
		require.LessOrEqual(t, le.Conditions[0].Threshold, th, "<= bound must never move up")

		gt := Simplify(ranked([]models.Condition{{Feature: "X", Op: models.OpGreater, Threshold: th}}), 1)
		require.GreaterOrEqual(t, gt.Conditions[0].Threshold, th, "> bound must never move down")
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	r := ranked([]models.Condition{
		{Feature: "RSI", Op: models.OpGreater, Threshold: 16.53},
		{Feature: "Volume", Op: models.OpLessEq, Threshold: 1250.75},
		{Feature: "RSI", Op: models.OpGreater, Threshold: 15.86},
	})

	once := Simplify(r, 1)
	again := Simplify(models.RankedRule{
		Path: models.DecisionPath{
			Conditions: once.Conditions,
			Prediction: once.Prediction,
			Samples:    once.Samples,
			TreeIndex:  once.TreeIndex,
		},
		Importance: once.Importance,
		Coverage:   once.Coverage,
	}, 1)
	require.Equal(t, once, again)
}

func TestSimplifyLeavesStatisticsUntouched(t *testing.T) {
	r := ranked([]models.Condition{{Feature: "RSI", Op: models.OpGreater, Threshold: 16.53}})
	s := Simplify(r, 1)
	require.Equal(t, r.Path.Prediction, s.Prediction)
	require.Equal(t, r.Path.Samples, s.Samples)
	require.Equal(t, r.Coverage, s.Coverage)
	require.Equal(t, r.Importance, s.Importance)
	require.Equal(t, r.Path.TreeIndex, s.TreeIndex)
}

func TestSimplifyEmptyConditions(t *testing.T) {
	s := Simplify(ranked(nil), 1)
	require.Empty(t, s.Conditions)
}

func TestRoundingUnit(t *testing.T) {
	require.InDelta(t, 0.1, RoundingUnit(1), 1e-12)
	require.InDelta(t, 1.0, RoundingUnit(0), 1e-12)
	require.InDelta(t, 0.01, RoundingUnit(2), 1e-12)
	require.InDelta(t, 1.0, RoundingUnit(-3), 1e-12) // clamped
}
