package rules

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"RuleForge/internal/domain/models"
)

func leaf(v float64, count int) *models.Node {
	return &models.Node{Leaf: true, Value: v, Count: count, Weight: math.Abs(v)}
}

func split(feature string, threshold float64, le, gt *models.Node) *models.Node {
	return &models.Node{Feature: feature, Threshold: threshold, LessEq: le, Greater: gt}
}

// rsiTree is the canonical two-leaf fixture: RSI <= 30 predicts +0.5 over 40
// samples, RSI > 30 predicts -0.2 over 60.
func rsiTree() *models.Tree {
	return &models.Tree{
		Index: 0,
		Root:  split("RSI", 30, leaf(0.5, 40), leaf(-0.2, 60)),
	}
}

func TestWalkEmitsOnePathPerLeaf(t *testing.T) {
	tree := &models.Tree{
		Index: 3,
		Root: split("RSI", 30,
			split("MACD", -0.5, leaf(0.1, 10), leaf(0.2, 20)),
			leaf(-0.3, 70),
		),
	}

	paths, err := Paths(tree)
	require.NoError(t, err)
	require.Len(t, paths, tree.NumLeaves())

	// Depth-first, less-equal branch first.
	require.Equal(t, []models.Condition{
		{Feature: "RSI", Op: models.OpLessEq, Threshold: 30},
		{Feature: "MACD", Op: models.OpLessEq, Threshold: -0.5},
	}, paths[0].Conditions)
	require.Equal(t, []models.Condition{
		{Feature: "RSI", Op: models.OpLessEq, Threshold: 30},
		{Feature: "MACD", Op: models.OpGreater, Threshold: -0.5},
	}, paths[1].Conditions)
	require.Equal(t, []models.Condition{
		{Feature: "RSI", Op: models.OpGreater, Threshold: 30},
	}, paths[2].Conditions)

	for i, p := range paths {
		require.Equal(t, 3, p.TreeIndex)
		require.Equal(t, i, p.LeafIndex)
	}
}

func TestWalkRootOnlyTreeYieldsAlwaysTruePath(t *testing.T) {
	tree := &models.Tree{Index: 0, Root: leaf(0.7, 100)}

	paths, err := Paths(tree)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	require.Empty(t, paths[0].Conditions)
	require.Equal(t, 0.7, paths[0].Prediction)
	require.Equal(t, 100, paths[0].Samples)
}

func TestWalkDetectsCycle(t *testing.T) {
	a := split("RSI", 30, nil, nil)
	b := split("MACD", 0, leaf(0.1, 5), a)
	a.LessEq = b
	a.Greater = leaf(-0.1, 5)

	_, err := Paths(&models.Tree{Index: 1, Root: a})
	require.ErrorIs(t, err, models.ErrMalformedTree)
	require.ErrorContains(t, err, "cycle")
}

func TestWalkRejectsDualTypedNode(t *testing.T) {
	n := leaf(0.2, 10)
	n.LessEq = leaf(0.1, 5)

	_, err := Paths(&models.Tree{Root: split("RSI", 30, n, leaf(0, 1))})
	require.ErrorIs(t, err, models.ErrMalformedTree)
	require.ErrorContains(t, err, "both leaf and split")
}

func TestWalkRejectsSplitMissingBranch(t *testing.T) {
	root := &models.Node{Feature: "RSI", Threshold: 30, LessEq: leaf(0.1, 5)}

	_, err := Paths(&models.Tree{Root: root})
	require.ErrorIs(t, err, models.ErrMalformedTree)
}

func TestWalkRejectsNilRoot(t *testing.T) {
	_, err := Paths(&models.Tree{Index: 2})
	require.ErrorIs(t, err, models.ErrMalformedTree)

	_, err = Paths(nil)
	require.ErrorIs(t, err, models.ErrMalformedTree)
}

func TestWalkStopsOnEmitError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := Walk(rsiTree(), func(models.DecisionPath) error {
		calls++
		return stop
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 1, calls)
}

// Every sample the tree routes to a leaf must satisfy that leaf's extracted
// conjunction (round-trip fidelity between structure and path).
func TestWalkPathsMatchTreeRouting(t *testing.T) {
	tree := &models.Tree{
		Root: split("RSI", 30,
			split("Volume", 1000, leaf(0.4, 10), leaf(0.1, 15)),
			split("MACD", 0, leaf(-0.2, 30), leaf(-0.6, 45)),
		),
	}
	paths, err := Paths(tree)
	require.NoError(t, err)

	samples := []models.Sample{
		{"RSI": 25, "Volume": 500, "MACD": 1},
		{"RSI": 25, "Volume": 2000, "MACD": 1},
		{"RSI": 70, "Volume": 500, "MACD": -1},
		{"RSI": 70, "Volume": 500, "MACD": 1},
		{"RSI": 30, "Volume": 1000, "MACD": 0}, // boundary: <= wins everywhere
	}
	for _, sample := range samples {
		leafValue := route(t, tree.Root, sample)
		for _, p := range paths {
			if p.Prediction != leafValue {
				continue
			}
			sig := models.Signal{Conditions: p.Conditions}
			ok, err := sig.Matches(sample)
			require.NoError(t, err)
			require.True(t, ok, "path for leaf %v must cover sample %v", leafValue, sample)
		}
	}
}

func route(t *testing.T, n *models.Node, s models.Sample) float64 {
	t.Helper()
	for !n.Leaf {
		v, ok := s[n.Feature]
		require.True(t, ok)
		if v <= n.Threshold {
			n = n.LessEq
		} else {
			n = n.Greater
		}
	}
	return n.Value
}
