package rules

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"RuleForge/internal/domain/models"
)

func extractCfg() Config {
	return Config{
		MaxRules:       20,
		RoundingDigits: 1,
		StrongCutoff:   0.3,
		WeakCutoff:     0.1,
	}
}

func TestExtractTwoLeafScenario(t *testing.T) {
	ens := &models.Ensemble{Trees: []*models.Tree{rsiTree()}}

	signals, report, err := Extract(ens, 100, extractCfg())
	require.NoError(t, err)
	require.Equal(t, 2, report.Paths)
	require.Len(t, signals, 2)

	byDirection := map[models.Direction]models.Signal{}
	for _, s := range signals {
		byDirection[s.Direction] = s
	}

	long := byDirection[models.Long]
	require.Equal(t, models.Strong, long.Strength)
	require.InDelta(t, 0.40, long.Coverage, 1e-9)
	require.Equal(t, []models.Condition{{Feature: "RSI", Op: models.OpLessEq, Threshold: 30}}, long.Conditions)

	short := byDirection[models.Short]
	require.InDelta(t, 0.60, short.Coverage, 1e-9)
	require.Equal(t, models.Moderate, short.Strength) // |-0.2| sits between the 0.1 and 0.3 cutoffs
	require.Equal(t, []models.Condition{{Feature: "RSI", Op: models.OpGreater, Threshold: 30}}, short.Conditions)
}

func TestExtractEmptyEnsembleFailsFast(t *testing.T) {
	_, _, err := Extract(&models.Ensemble{}, 100, extractCfg())
	require.ErrorIs(t, err, models.ErrEmptyEnsemble)
}

func TestExtractSkipsMalformedTreesAndReports(t *testing.T) {
	cyclic := split("A", 1, nil, leaf(0, 1))
	cyclic.LessEq = cyclic
	ens := &models.Ensemble{Trees: []*models.Tree{
		rsiTree(),
		{Index: 1, Root: cyclic},
	}}

	signals, report, err := Extract(ens, 100, extractCfg())
	require.NoError(t, err)
	require.Equal(t, []int{1}, report.SkippedTrees)
	require.Len(t, signals, 2)
}

func TestExtractRootRulesPolicy(t *testing.T) {
	ens := &models.Ensemble{Trees: []*models.Tree{{Index: 0, Root: leaf(0.5, 100)}}}

	cfg := extractCfg()
	signals, _, err := Extract(ens, 100, cfg)
	require.NoError(t, err)
	require.Empty(t, signals, "always-true rules are dropped by default")

	cfg.KeepRootRules = true
	signals, _, err = Extract(ens, 100, cfg)
	require.NoError(t, err)
	require.Len(t, signals, 1)
	require.Empty(t, signals[0].Conditions)
}

func TestExtractMaxConditionsFilter(t *testing.T) {
	deep := &models.Tree{Root: split("A", 1,
		split("B", 2,
			split("C", 3,
				split("D", 4, leaf(0.5, 10), leaf(0.4, 10)),
				leaf(0.3, 20)),
			leaf(0.2, 30)),
		leaf(0.1, 30),
	)}
	ens := &models.Ensemble{Trees: []*models.Tree{deep}}

	cfg := extractCfg()
	cfg.MaxConditions = 3
	signals, report, err := Extract(ens, 100, cfg)
	require.NoError(t, err)
	require.Equal(t, 5, report.Ranked)
	require.Len(t, signals, 3) // the two 4-condition paths are dropped
	for _, s := range signals {
		require.LessOrEqual(t, len(s.Conditions), 3)
	}
}

func TestExtractCoverageAlwaysInUnitInterval(t *testing.T) {
	ens := &models.Ensemble{Trees: []*models.Tree{
		rsiTree(),
		{Index: 1, Root: split("Volume", 1000, leaf(0.05, 900), leaf(-0.9, 100))},
	}}

	signals, _, err := Extract(ens, 100, extractCfg()) // inconsistent totals on purpose
	require.NoError(t, err)
	for _, s := range signals {
		require.GreaterOrEqual(t, s.Coverage, 0.0)
		require.LessOrEqual(t, s.Coverage, 1.0)
	}
}

func TestExtractParallelMatchesSequential(t *testing.T) {
	var trees []*models.Tree
	for i := 0; i < 50; i++ {
		trees = append(trees, &models.Tree{
			Index: i,
			Root: split("RSI", float64(20+i),
				leaf(0.1+float64(i)*0.01, 30+i),
				split(fmt.Sprintf("f%d", i%5), float64(i), leaf(-0.2, 40), leaf(0.3, 30-i%10)),
			),
		})
	}
	ens := &models.Ensemble{Trees: trees}

	cfg := extractCfg()
	cfg.MaxRules = 15
	cfg.MinSampleCoverage = 0.2

	seq, seqReport, err := Extract(ens, 100, cfg)
	require.NoError(t, err)
	require.LessOrEqual(t, len(seq), 15)
	for i, s := range seq {
		require.GreaterOrEqual(t, s.Coverage, 0.2)
		if i > 0 {
			require.LessOrEqual(t, s.Importance, seq[i-1].Importance)
		}
	}

	cfg.Workers = 8
	par, parReport, err := Extract(ens, 100, cfg)
	require.NoError(t, err)
	require.Equal(t, seq, par)
	require.Equal(t, seqReport, parReport)
}

func TestExtractMergesNearDuplicatesAcrossTrees(t *testing.T) {
	// Two trees produce near-identical > rules on the same feature with
	// agreeing direction; the higher-coverage one survives.
	t1 := &models.Tree{Index: 0, Root: split("RSI", 16.53, leaf(-0.4, 40), leaf(0.5, 60))}
	t2 := &models.Tree{Index: 1, Root: split("RSI", 16.58, leaf(-0.4, 55), leaf(0.5, 45))}
	ens := &models.Ensemble{Trees: []*models.Tree{t1, t2}}

	cfg := extractCfg()
	cfg.MergeTolerance = 0.1
	signals, report, err := Extract(ens, 100, cfg)
	require.NoError(t, err)
	require.Equal(t, 4, report.Simplified)
	require.Len(t, signals, 2)

	for _, s := range signals {
		if s.Direction == models.Long {
			require.InDelta(t, 0.60, s.Coverage, 1e-9) // tree 0's wider long leaf won
		} else {
			require.InDelta(t, 0.55, s.Coverage, 1e-9) // tree 1's wider short leaf won
		}
	}
}
