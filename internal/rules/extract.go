package rules

import (
	"context"

	"RuleForge/internal/domain/models"
	"RuleForge/pkg/workerpool"
)

// Config holds the knobs of one extraction run. The zero value is usable:
// no coverage floor, no rule cap, one decimal of rounding, sequential walk.
type Config struct {
	MaxRules          int     // top-N cap after ranking; <= 0 means no cap
	MinSampleCoverage float64 // discard candidates below this coverage fraction
	RoundingDigits    int     // decimal places kept on display thresholds
	StrongCutoff      float64 // |prediction| above this is STRONG
	WeakCutoff        float64 // |prediction| at or below this is WEAK
	MergeTolerance    float64 // near-duplicate merge distance; <= 0 means one rounding unit
	MaxConditions     int     // drop simplified rules with more conditions; <= 0 means unlimited
	KeepRootRules     bool    // keep always-true paths from split-free trees
	Workers           int     // parallel tree walkers; <= 1 walks sequentially
}

// Extract runs the whole pipeline: walk every tree, aggregate and score the
// paths, rank, simplify, deduplicate and classify. It returns the final
// signals in importance-descending order together with a stage-by-stage
// report. An empty signal slice with a nil error is a valid outcome.
//
// Per-tree traversal is read-only and independent, so cfg.Workers > 1
// distributes the walk across goroutines; results are merged in tree order
// and the output is identical to a sequential run.
func Extract(e *models.Ensemble, totalSamples int, cfg Config) ([]models.Signal, models.Report, error) {
	report := models.Report{TotalSamples: totalSamples}
	if e != nil {
		report.Trees = len(e.Trees)
	}

	cands, skipped, err := aggregate(e, totalSamples, cfg.Workers)
	if err != nil {
		return nil, report, err
	}
	report.SkippedTrees = skipped
	report.Paths = len(cands)

	if !cfg.KeepRootRules {
		cands = dropRootRules(cands)
	}

	ranked := Rank(cands, cfg.MinSampleCoverage, cfg.MaxRules)
	report.Ranked = len(ranked)

	simplified := make([]models.SimplifiedRule, 0, len(ranked))
	for _, r := range ranked {
		s := Simplify(r, cfg.RoundingDigits)
		if cfg.MaxConditions > 0 && len(s.Conditions) > cfg.MaxConditions {
			continue
		}
		simplified = append(simplified, s)
	}
	report.Simplified = len(simplified)

	tol := cfg.MergeTolerance
	if tol <= 0 {
		tol = RoundingUnit(cfg.RoundingDigits)
	}
	deduped := Dedup(simplified, tol)
	report.Deduplicated = len(deduped)

	signals := make([]models.Signal, 0, len(deduped))
	for _, r := range deduped {
		signals = append(signals, Classify(r, cfg.StrongCutoff, cfg.WeakCutoff))
	}
	return signals, report, nil
}

// aggregate walks all trees, in parallel when workers > 1, and scores the
// merged path list. The merge happens in tree order so parallelism never
// changes the output.
func aggregate(e *models.Ensemble, totalSamples int, workers int) ([]models.RankedRule, []int, error) {
	if workers <= 1 {
		return Aggregate(e, totalSamples)
	}
	if e == nil || len(e.Trees) == 0 {
		return nil, nil, models.ErrEmptyEnsemble
	}
	if totalSamples <= 0 {
		return Aggregate(e, totalSamples) // reuse the sequential error path
	}

	type treeResult struct {
		paths []models.DecisionPath
		err   error
	}
	results := workerpool.Map(context.Background(), workers, e.Trees,
		func(_ context.Context, t *models.Tree) treeResult {
			p, err := Paths(t)
			return treeResult{paths: p, err: err}
		})

	var paths []models.DecisionPath
	var skipped []int
	for i, r := range results {
		if r.err != nil {
			skipped = append(skipped, i)
			continue
		}
		paths = append(paths, r.paths...)
	}
	return score(paths, totalSamples), skipped, nil
}

func dropRootRules(cands []models.RankedRule) []models.RankedRule {
	kept := cands[:0]
	for _, c := range cands {
		if len(c.Path.Conditions) == 0 {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
