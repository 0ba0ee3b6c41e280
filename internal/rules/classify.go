package rules

import (
	"math"

	"RuleForge/internal/domain/models"
)

// Classify labels a deduplicated rule with a direction and a strength tier.
//
// Direction follows the sign of the predicted value. An exact zero is
// classified SHORT by convention; the tie-break is arbitrary and documented
// here rather than left implicit.
//
// Strength compares the absolute prediction against two configured cutoffs:
// above strongCutoff is STRONG, at or below weakCutoff is WEAK, anything
// between is MODERATE. The cutoffs are scale-dependent on the target
// variable and therefore configuration, not constants.
func Classify(r models.SimplifiedRule, strongCutoff, weakCutoff float64) models.Signal {
	dir := models.Short
	if r.Prediction > 0 {
		dir = models.Long
	}

	mag := math.Abs(r.Prediction)
	strength := models.Weak
	switch {
	case mag > strongCutoff:
		strength = models.Strong
	case mag > weakCutoff:
		strength = models.Moderate
	}

	return models.Signal{
		Conditions: r.Conditions,
		Direction:  dir,
		Strength:   strength,
		Prediction: r.Prediction,
		Coverage:   r.Coverage,
		Importance: r.Importance,
		Samples:    r.Samples,
		TreeIndex:  r.TreeIndex,
	}
}
