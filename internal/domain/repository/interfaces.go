package repository

import (
	"context"

	"RuleForge/internal/domain/models"
)

// SignalSink delivers completed signal sets to an output backend.
type SignalSink interface {
	Publish(ctx context.Context, set *models.SignalSet) error
	Close() error
}

// ResultCache stores signal sets keyed by a model dump digest so repeated
// extractions of the same dump are served without re-walking the ensemble.
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.SignalSet, bool, error)
	Set(ctx context.Context, key string, set *models.SignalSet) error
	Close() error
}

type Metrics interface {
	RecordRun(outcome string)
	RecordSignal(direction, strength string)
	RecordPaths(n int)
	RecordSkippedTrees(n int)
	RecordError(kind string)
	RecordPublished(sink string)
	RecordLatency(op string, seconds float64)
}
