package rules

import (
	"fmt"
	"math"

	"RuleForge/internal/domain/models"
)

// Aggregate flattens every tree's decision paths into one candidate list and
// attaches importance and coverage to each. Malformed trees are skipped and
// their indices reported; the run fails only when the ensemble has no trees
// at all or the sample total is unusable.
//
// Importance is sampleCount x leafWeight, with the weight read from the tree
// as exported by the trainer. It is monotonic in sample count and needs no
// cross-tree normalisation.
func Aggregate(e *models.Ensemble, totalSamples int) (cands []models.RankedRule, skipped []int, err error) {
	if e == nil || len(e.Trees) == 0 {
		return nil, nil, models.ErrEmptyEnsemble
	}
	if totalSamples <= 0 {
		return nil, nil, fmt.Errorf("total samples must be positive, got %d", totalSamples)
	}

	var paths []models.DecisionPath
	for i, t := range e.Trees {
		tp, werr := Paths(t)
		if werr != nil {
			skipped = append(skipped, i)
			continue
		}
		paths = append(paths, tp...)
	}
	return score(paths, totalSamples), skipped, nil
}

// score turns raw paths into ranked candidates. Coverage is clamped into
// [0,1] so a sink never sees an out-of-range fraction even on inconsistent
// leaf counts.
func score(paths []models.DecisionPath, totalSamples int) []models.RankedRule {
	cands := make([]models.RankedRule, 0, len(paths))
	for _, p := range paths {
		cov := float64(p.Samples) / float64(totalSamples)
		if cov < 0 {
			cov = 0
		} else if cov > 1 {
			cov = 1
		}
		cands = append(cands, models.RankedRule{
			Path:       p,
			Importance: float64(p.Samples) * math.Abs(p.Weight),
			Coverage:   cov,
		})
	}
	return cands
}
