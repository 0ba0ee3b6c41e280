package rules

import (
	"math"

	"RuleForge/internal/domain/models"
)

// Simplify collapses a ranked rule's conditions to at most one per
// (feature, operator) pair, keeping the most restrictive threshold: the
// minimum for <=, the maximum for >. The kept threshold is then rounded to
// the given number of decimal places in the direction that preserves the
// original semantics: a <= bound only moves down, a > bound only moves up,
// so the rounded rule never covers samples the original excluded.
//
// Rounding can shrink the rule's true population by less than one rounding
// unit per condition. That is an accepted display approximation, not a
// correctness bug: the leaf statistics (prediction, samples, coverage,
// importance) always describe the original unrounded path.
//
// Simplify is idempotent: a simplified rule simplifies to itself.
func Simplify(r models.RankedRule, digits int) models.SimplifiedRule {
	type key struct {
		feature string
		op      models.Operator
	}

	order := make([]key, 0, len(r.Path.Conditions))
	best := make(map[key]float64, len(r.Path.Conditions))
	for _, c := range r.Path.Conditions {
		k := key{c.Feature, c.Op}
		cur, seen := best[k]
		if !seen {
			order = append(order, k)
			best[k] = c.Threshold
			continue
		}
		if c.Op == models.OpLessEq {
			if c.Threshold < cur {
				best[k] = c.Threshold
			}
		} else if c.Threshold > cur {
			best[k] = c.Threshold
		}
	}

	conds := make([]models.Condition, 0, len(order))
	for _, k := range order {
		t := best[k]
		if k.op == models.OpLessEq {
			t = roundDown(t, digits)
		} else {
			t = roundUp(t, digits)
		}
		conds = append(conds, models.Condition{Feature: k.feature, Op: k.op, Threshold: t})
	}

	return models.SimplifiedRule{
		Conditions: conds,
		Prediction: r.Path.Prediction,
		Samples:    r.Path.Samples,
		Coverage:   r.Coverage,
		Importance: r.Importance,
		TreeIndex:  r.Path.TreeIndex,
	}
}

// RoundingUnit is the smallest threshold distance distinguishable after
// rounding to the given precision; the deduplicator's default tolerance.
func RoundingUnit(digits int) float64 {
	return math.Pow(10, -float64(clampDigits(digits)))
}

func roundDown(v float64, digits int) float64 {
	p := math.Pow(10, float64(clampDigits(digits)))
	return math.Floor(snap(v*p)) / p
}

func roundUp(v float64, digits int) float64 {
	p := math.Pow(10, float64(clampDigits(digits)))
	return math.Ceil(snap(v*p)) / p
}

// snap collapses binary float noise around integers so that re-rounding an
// already-rounded threshold cannot drift by one unit.
func snap(scaled float64) float64 {
	r := math.Round(scaled)
	if math.Abs(scaled-r) < 1e-9*math.Max(1, math.Abs(scaled)) {
		return r
	}
	return scaled
}

func clampDigits(d int) int {
	if d < 0 {
		return 0
	}
	if d > 10 {
		return 10
	}
	return d
}
