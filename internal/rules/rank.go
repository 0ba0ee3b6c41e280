package rules

import (
	"sort"

	"RuleForge/internal/domain/models"
)

// Rank filters candidates below the coverage floor and returns the top
// maxRules by importance. maxRules <= 0 means no cap. An empty result is a
// valid outcome, never an error.
//
// Ordering is fully deterministic: importance descending, then coverage
// descending, then fewer conditions, then source tree and leaf position.
func Rank(cands []models.RankedRule, minCoverage float64, maxRules int) []models.RankedRule {
	kept := make([]models.RankedRule, 0, len(cands))
	for _, c := range cands {
		if c.Coverage < minCoverage {
			continue
		}
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return lessRanked(kept[i], kept[j])
	})

	if maxRules > 0 && len(kept) > maxRules {
		kept = kept[:maxRules]
	}
	return kept
}

func lessRanked(a, b models.RankedRule) bool {
	if a.Importance != b.Importance {
		return a.Importance > b.Importance
	}
	if a.Coverage != b.Coverage {
		return a.Coverage > b.Coverage
	}
	if len(a.Path.Conditions) != len(b.Path.Conditions) {
		return len(a.Path.Conditions) < len(b.Path.Conditions)
	}
	if a.Path.TreeIndex != b.Path.TreeIndex {
		return a.Path.TreeIndex < b.Path.TreeIndex
	}
	return a.Path.LeafIndex < b.Path.LeafIndex
}

// lessSimplified applies the same ordering to simplified rules so the
// deduplicator can restore rank order after merging.
func lessSimplified(a, b models.SimplifiedRule) bool {
	if a.Importance != b.Importance {
		return a.Importance > b.Importance
	}
	if a.Coverage != b.Coverage {
		return a.Coverage > b.Coverage
	}
	if len(a.Conditions) != len(b.Conditions) {
		return len(a.Conditions) < len(b.Conditions)
	}
	return a.TreeIndex < b.TreeIndex
}
