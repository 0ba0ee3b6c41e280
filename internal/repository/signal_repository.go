package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"RuleForge/internal/domain/models"
	"RuleForge/internal/domain/repository"
	pkgkafka "RuleForge/pkg/kafka"
)

// SignalsSchema holds the DDL for the signals table, applied by the
// ClickHouse client at startup.
func SignalsSchema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			run_id       String,
			asset        String,
			generated_at DateTime64(3),
			rule         String,
			conditions   String,
			direction    LowCardinality(String),
			strength     LowCardinality(String),
			prediction   Float64,
			coverage     Float64,
			importance   Float64,
			samples      UInt64,
			tree_index   UInt32
		) ENGINE = MergeTree()
		ORDER BY (asset, run_id, importance)`, database, table),
	}
}

// ClickHouseSignalStore implements SignalSink backed by ClickHouse.
type ClickHouseSignalStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseSignalStore creates a ClickHouse-backed sink.
func NewClickHouseSignalStore(db *sql.DB, table string) repository.SignalSink {
	return &ClickHouseSignalStore{db: db, table: table}
}

func (s *ClickHouseSignalStore) Publish(ctx context.Context, set *models.SignalSet) error {
	if len(set.Signals) == 0 {
		return nil
	}

	// Multi-row VALUES insert to keep one round-trip per set.
	values := make([]string, 0, len(set.Signals))
	args := make([]interface{}, 0, len(set.Signals)*12)
	for _, sig := range set.Signals {
		conds, err := json.Marshal(sig.Conditions)
		if err != nil {
			return fmt.Errorf("marshal conditions: %w", err)
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			set.RunID,
			set.Asset,
			set.GeneratedAt,
			sig.Text(set.Asset),
			string(conds),
			string(sig.Direction),
			string(sig.Strength),
			sig.Prediction,
			sig.Coverage,
			sig.Importance,
			uint64(sig.Samples),
			uint32(sig.TreeIndex),
		)
	}

	q := fmt.Sprintf(
		"INSERT INTO %s (run_id, asset, generated_at, rule, conditions, direction, strength, prediction, coverage, importance, samples, tree_index) VALUES %s",
		s.table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert signals: %w", err)
	}
	return nil
}

func (s *ClickHouseSignalStore) Close() error {
	return nil // Managed by pkg
}

// KafkaSignalPublisher implements SignalSink for Kafka.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSignalPublisher creates a Kafka-backed sink.
func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) repository.SignalSink {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, set *models.SignalSet) error {
	// One message per set, keyed by asset for per-asset ordering.
	return p.producer.Publish(ctx, p.topic, []byte(set.Asset), set)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// WriterSink implements SignalSink writing indented JSON to an io.Writer.
// It is the default sink for one-shot file runs.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a writer-backed sink.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Publish(_ context.Context, set *models.SignalSet) error {
	b, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal signal set: %w", err)
	}
	b = append(b, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(b); err != nil {
		return fmt.Errorf("write signal set: %w", err)
	}
	return nil
}

func (s *WriterSink) Close() error {
	return nil
}
