package rules

import (
	"sort"

	"RuleForge/internal/domain/models"
)

// Dedup removes redundant rules from a simplified list. Two reductions
// apply, in order of strictness:
//
//   - set-equal: identical condition sets keep the higher-importance rule;
//   - near-merge: condition sets with the same (feature, operator) shape
//     whose thresholds all differ by less than tolerance, with agreeing
//     predicted directions, keep the higher-coverage rule.
//
// The input is re-sorted with the ranker's ordering before merging, which
// makes the reduction insensitive to input permutation and idempotent.
// Output preserves importance-descending order. Zero or one rule passes
// through unchanged.
func Dedup(rules []models.SimplifiedRule, tolerance float64) []models.SimplifiedRule {
	if len(rules) <= 1 {
		return rules
	}

	sorted := append([]models.SimplifiedRule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool { return lessSimplified(sorted[i], sorted[j]) })

	kept := make([]models.SimplifiedRule, 0, len(sorted))
	for _, r := range sorted {
		merged := false
		for i := range kept {
			k := &kept[i]
			if !sameShape(k.Conditions, r.Conditions) {
				continue
			}
			if setEqual(k.Conditions, r.Conditions) {
				if r.Importance > k.Importance {
					*k = r
				}
				merged = true
				break
			}
			if tolerance > 0 && withinTolerance(k.Conditions, r.Conditions, tolerance) && sameDirection(k.Prediction, r.Prediction) {
				if r.Coverage > k.Coverage {
					*k = r
				}
				merged = true
				break
			}
		}
		if !merged {
			kept = append(kept, r)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool { return lessSimplified(kept[i], kept[j]) })
	return kept
}

// canonical returns the conditions sorted by (feature, operator). Simplified
// rules hold at most one condition per pair, so the result is a total order.
func canonical(conds []models.Condition) []models.Condition {
	out := append([]models.Condition(nil), conds...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Feature != out[j].Feature {
			return out[i].Feature < out[j].Feature
		}
		return out[i].Op < out[j].Op
	})
	return out
}

func sameShape(a, b []models.Condition) bool {
	if len(a) != len(b) {
		return false
	}
	ca, cb := canonical(a), canonical(b)
	for i := range ca {
		if ca[i].Feature != cb[i].Feature || ca[i].Op != cb[i].Op {
			return false
		}
	}
	return true
}

func setEqual(a, b []models.Condition) bool {
	if len(a) != len(b) {
		return false
	}
	ca, cb := canonical(a), canonical(b)
	for i := range ca {
		if ca[i] != cb[i] {
			return false
		}
	}
	return true
}

// withinTolerance assumes sameShape already holds.
func withinTolerance(a, b []models.Condition, tol float64) bool {
	ca, cb := canonical(a), canonical(b)
	for i := range ca {
		d := ca[i].Threshold - cb[i].Threshold
		if d < 0 {
			d = -d
		}
		if d >= tol {
			return false
		}
	}
	return true
}

// sameDirection uses the classifier's convention: positive predictions are
// long, everything else short.
func sameDirection(a, b float64) bool {
	return (a > 0) == (b > 0)
}
