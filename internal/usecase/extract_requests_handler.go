package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"RuleForge/internal/domain/models"
	drepo "RuleForge/internal/domain/repository"
	pkgkafka "RuleForge/pkg/kafka"
)

// ExtractRequestsHandler consumes extraction requests from Kafka and runs
// them through the extraction pipeline.
type ExtractRequestsHandler struct {
	topic   string
	runner  *ExtractionRunner
	metrics drepo.Metrics
}

func NewExtractRequestsHandler(topic string, runner *ExtractionRunner, metrics drepo.Metrics) *ExtractRequestsHandler {
	return &ExtractRequestsHandler{topic: topic, runner: runner, metrics: metrics}
}

func (h *ExtractRequestsHandler) Topic() string { return h.topic }

// incoming message schema: {asset, total_samples, model, max_rules?, min_sample_coverage?}
func (h *ExtractRequestsHandler) Handle(ctx context.Context, b []byte) error {
	var req models.ExtractionRequest
	if err := json.Unmarshal(b, &req); err != nil {
		h.metrics.RecordError("request_unmarshal")
		return fmt.Errorf("unmarshal extraction request: %w", err)
	}

	if _, err := h.runner.Run(ctx, &req); err != nil {
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*ExtractRequestsHandler)(nil)
