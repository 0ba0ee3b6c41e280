package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func sig(dir Direction, imp float64, conds ...Condition) Signal {
	return Signal{
		Conditions: conds,
		Direction:  dir,
		Strength:   Strong,
		Prediction: 0.5,
		Coverage:   0.4,
		Importance: imp,
	}
}

func TestSignalMatches(t *testing.T) {
	s := sig(Long, 1,
		Condition{Feature: "RSI", Op: OpGreater, Threshold: 16.6},
		Condition{Feature: "CallDex", Op: OpLessEq, Threshold: 12.5},
	)

	ok, err := s.Matches(Sample{"RSI": 20, "CallDex": 10})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Matches(Sample{"RSI": 20, "CallDex": 13})
	require.NoError(t, err)
	require.False(t, ok)

	// boundary: <= is inclusive, > is exclusive
	ok, err = s.Matches(Sample{"RSI": 16.6, "CallDex": 12.5})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSignalMatchesUnknownFeatureIsError(t *testing.T) {
	s := sig(Long, 1, Condition{Feature: "RSI", Op: OpGreater, Threshold: 16.6})

	_, err := s.Matches(Sample{"MACD": 1})
	require.ErrorIs(t, err, ErrUnknownFeature)
	require.ErrorContains(t, err, "RSI")
}

func TestMatchingSignalsPreservesOrderAndCaps(t *testing.T) {
	signals := []Signal{
		sig(Long, 9, Condition{Feature: "RSI", Op: OpGreater, Threshold: 10}),
		sig(Short, 7, Condition{Feature: "RSI", Op: OpGreater, Threshold: 50}),
		sig(Long, 5, Condition{Feature: "RSI", Op: OpGreater, Threshold: 15}),
		sig(Long, 3, Condition{Feature: "RSI", Op: OpGreater, Threshold: 18}),
	}

	matched, err := MatchingSignals(signals, Sample{"RSI": 20}, 2)
	require.NoError(t, err)
	require.Len(t, matched, 2)
	require.Equal(t, 9.0, matched[0].Importance)
	require.Equal(t, 5.0, matched[1].Importance)
}

func TestMatchingSignalsUnknownFeaturePropagates(t *testing.T) {
	signals := []Signal{sig(Long, 1, Condition{Feature: "Gamma", Op: OpGreater, Threshold: 0})}
	_, err := MatchingSignals(signals, Sample{"RSI": 20}, 0)
	require.ErrorIs(t, err, ErrUnknownFeature)
}

func TestSignalText(t *testing.T) {
	s := sig(Long, 1,
		Condition{Feature: "RSI", Op: OpGreater, Threshold: 16.6},
		Condition{Feature: "CallDex", Op: OpLessEq, Threshold: 12.5},
	)
	require.Equal(t, "IF RSI > 16.6 AND CallDex <= 12.5 THEN STRONG LONG SPY", s.Text("SPY"))
	require.Equal(t, "IF RSI > 16.6 AND CallDex <= 12.5 THEN STRONG LONG", s.Text(""))

	empty := Signal{Direction: Short, Strength: Weak}
	require.Equal(t, "IF always THEN WEAK SHORT SPY", empty.Text("SPY"))
}

func TestSignalJSONShape(t *testing.T) {
	s := sig(Long, 12.5, Condition{Feature: "RSI", Op: OpGreater, Threshold: 16.6})
	b, err := json.Marshal(s)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	require.Equal(t, "LONG", m["direction"])
	require.Equal(t, "STRONG", m["strength"])
	require.Equal(t, 12.5, m["importance"])

	conds, ok := m["conditions"].([]any)
	require.True(t, ok)
	first, ok := conds[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "RSI", first["feature"])
	require.Equal(t, ">", first["operator"])
	require.Equal(t, 16.6, first["threshold"])
}
