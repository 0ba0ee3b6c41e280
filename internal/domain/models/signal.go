package models

import (
	"fmt"
	"time"
)

// Direction is the trade side implied by a rule's predicted value.
type Direction string

// Strength buckets the magnitude of the predicted value.
type Strength string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"

	Strong   Strength = "STRONG"
	Moderate Strength = "MODERATE"
	Weak     Strength = "WEAK"
)

// Signal is the terminal exported record: a simplified rule labelled with a
// direction and a strength tier. Fields are sufficient for rendering as
// text, a table, or JSON without further computation.
type Signal struct {
	Conditions []Condition `json:"conditions"`
	Direction  Direction   `json:"direction"`
	Strength   Strength    `json:"strength"`
	Prediction float64     `json:"prediction"`
	Coverage   float64     `json:"coverage"`
	Importance float64     `json:"importance"`
	Samples    int         `json:"samples"`
	TreeIndex  int         `json:"tree_index"`
}

// Sample is a feature-value mapping for one observation.
type Sample map[string]float64

// Matches evaluates the conjunction of the signal's conditions against a
// sample. A feature referenced by the rule but absent from the sample is a
// reportable error, not a silent false.
func (s *Signal) Matches(sample Sample) (bool, error) {
	for _, c := range s.Conditions {
		v, ok := sample[c.Feature]
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrUnknownFeature, c.Feature)
		}
		if !c.Holds(v) {
			return false, nil
		}
	}
	return true, nil
}

// Text renders the signal as a one-line trading rule, e.g.
// "IF RSI > 16.6 AND CallDex <= 12.5 THEN STRONG LONG SPY".
func (s *Signal) Text(asset string) string {
	out := "IF " + ConditionText(s.Conditions) + " THEN " + string(s.Strength) + " " + string(s.Direction)
	if asset != "" {
		out += " " + asset
	}
	return out
}

// MatchingSignals returns the signals whose conditions hold for the sample,
// preserving input order (importance-descending for classifier output).
// topN <= 0 means no cap.
func MatchingSignals(signals []Signal, sample Sample, topN int) ([]Signal, error) {
	var matched []Signal
	for i := range signals {
		ok, err := signals[i].Matches(sample)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, signals[i])
		}
	}
	if topN > 0 && len(matched) > topN {
		matched = matched[:topN]
	}
	return matched, nil
}

// Report summarises one extraction run stage by stage.
type Report struct {
	Trees        int   `json:"trees"`
	SkippedTrees []int `json:"skipped_trees,omitempty"`
	Paths        int   `json:"paths"`
	Ranked       int   `json:"ranked"`
	Simplified   int   `json:"simplified"`
	Deduplicated int   `json:"deduplicated"`
	TotalSamples int   `json:"total_samples"`
}

// SignalSet is the unit handed to sinks: one run's signals plus provenance.
type SignalSet struct {
	RunID       string    `json:"run_id"`
	Asset       string    `json:"asset"`
	GeneratedAt time.Time `json:"generated_at"`
	Signals     []Signal  `json:"signals"`
	Report      Report    `json:"report"`
}
