package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"RuleForge/internal/domain/models"
	drepo "RuleForge/internal/domain/repository"
	"RuleForge/internal/rules"
	"RuleForge/internal/service/lightgbm"
	"RuleForge/pkg/logger"
	"RuleForge/pkg/util"
)

// ExtractionRunner turns model dumps into signal sets and delivers them
// to the configured sink. Results are cached by dump digest so the same
// dump is only walked once per settings combination.
type ExtractionRunner struct {
	cfg      rules.Config
	sink     drepo.SignalSink
	sinkName string
	cache    drepo.ResultCache
	metrics  drepo.Metrics
	log      *logger.Logger
}

// NewExtractionRunner creates a new ExtractionRunner instance.
func NewExtractionRunner(
	cfg rules.Config,
	sink drepo.SignalSink,
	sinkName string,
	cache drepo.ResultCache,
	metrics drepo.Metrics,
	log *logger.Logger,
) *ExtractionRunner {
	return &ExtractionRunner{
		cfg:      cfg,
		sink:     sink,
		sinkName: sinkName,
		cache:    cache,
		metrics:  metrics,
		log:      log,
	}
}

// Run decodes the request's model dump, extracts signals and publishes
// the resulting set. Request overrides take precedence over the
// configured extraction settings.
func (r *ExtractionRunner) Run(ctx context.Context, req *models.ExtractionRequest) (*models.SignalSet, error) {
	if req == nil || len(req.Model) == 0 {
		r.metrics.RecordError("empty_request")
		return nil, fmt.Errorf("extraction request has no model dump")
	}

	cfg := r.cfg
	if req.MaxRules != nil {
		cfg.MaxRules = *req.MaxRules
	}
	if req.MinSampleCoverage != nil {
		cfg.MinSampleCoverage = *req.MinSampleCoverage
	}

	key := cacheKey(req, cfg)
	if set, ok, err := r.cache.Get(ctx, key); err != nil {
		r.log.Warn("result cache lookup failed", logger.Error(err))
	} else if ok {
		r.log.Info("serving cached signal set",
			logger.String("asset", req.Asset),
			logger.String("run_id", set.RunID),
			logger.Int("signals", len(set.Signals)))
		r.metrics.RecordRun("cached")
		return set, r.publish(ctx, set)
	}

	start := time.Now()

	ens, dumpTotal, err := lightgbm.Decode(req.Model)
	if err != nil {
		r.metrics.RecordError("decode")
		r.metrics.RecordRun("failed")
		return nil, fmt.Errorf("decode model dump: %w", err)
	}
	total := dumpTotal
	if req.TotalSamples > 0 {
		total = req.TotalSamples
	}

	signals, report, err := rules.Extract(ens, total, cfg)
	if err != nil {
		r.metrics.RecordError("extract")
		r.metrics.RecordRun("failed")
		return nil, fmt.Errorf("extract signals: %w", err)
	}

	set := &models.SignalSet{
		RunID:       key[:12],
		Asset:       req.Asset,
		GeneratedAt: time.Now().UTC(),
		Signals:     signals,
		Report:      report,
	}

	r.metrics.RecordRun("ok")
	r.metrics.RecordPaths(report.Paths)
	r.metrics.RecordSkippedTrees(len(report.SkippedTrees))
	for _, s := range signals {
		r.metrics.RecordSignal(string(s.Direction), string(s.Strength))
	}
	r.metrics.RecordLatency("extract", time.Since(start).Seconds())

	r.log.Info("extraction complete",
		logger.String("asset", req.Asset),
		logger.String("run_id", set.RunID),
		logger.Int("trees", report.Trees),
		logger.Int("skipped_trees", len(report.SkippedTrees)),
		logger.Int("paths", report.Paths),
		logger.Int("signals", len(signals)),
		logger.Duration("took", time.Since(start)))

	if err := r.cache.Set(ctx, key, set); err != nil {
		r.log.Warn("result cache store failed", logger.Error(err))
	}

	return set, r.publish(ctx, set)
}

func (r *ExtractionRunner) publish(ctx context.Context, set *models.SignalSet) error {
	start := time.Now()
	if err := r.sink.Publish(ctx, set); err != nil {
		r.metrics.RecordError("publish")
		return fmt.Errorf("publish signal set: %w", err)
	}
	r.metrics.RecordPublished(r.sinkName)
	r.metrics.RecordLatency("publish", time.Since(start).Seconds())
	return nil
}

// Close closes underlying resources.
func (r *ExtractionRunner) Close() {
	if r.sink != nil {
		_ = r.sink.Close()
	}
	if r.cache != nil {
		_ = r.cache.Close()
	}
}

// cacheKey derives a stable digest from the dump and the effective settings.
func cacheKey(req *models.ExtractionRequest, cfg rules.Config) string {
	settings := fmt.Sprintf("%s|%d|%d|%s|%d|%s|%s|%s|%d|%t",
		req.Asset,
		req.TotalSamples,
		cfg.MaxRules,
		strconv.FormatFloat(cfg.MinSampleCoverage, 'f', -1, 64),
		cfg.RoundingDigits,
		strconv.FormatFloat(cfg.StrongCutoff, 'f', -1, 64),
		strconv.FormatFloat(cfg.WeakCutoff, 'f', -1, 64),
		strconv.FormatFloat(cfg.MergeTolerance, 'f', -1, 64),
		cfg.MaxConditions,
		cfg.KeepRootRules,
	)
	return util.DigestHex(req.Model, []byte(settings))
}
