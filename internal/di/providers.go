package di

import (
	"context"
	"fmt"
	"os"
	"time"

	"RuleForge/internal/domain/repository"
	internalrepo "RuleForge/internal/repository"
	"RuleForge/internal/usecase"
	pkgcache "RuleForge/pkg/cache"
	pkgch "RuleForge/pkg/clickhouse"
	"RuleForge/pkg/config"
	pkgkafka "RuleForge/pkg/kafka"
	applogger "RuleForge/pkg/logger"
	"RuleForge/pkg/metrics"
	"RuleForge/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client when the sink needs
// one, nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Sink.Type != "clickhouse" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	schema := internalrepo.SignalsSchema(cfg.ClickHouse.Database, cfg.ClickHouse.Table)
	if err := client.InitSchema(ctx, schema); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer when the sink needs one,
// nil otherwise.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Sink.Type != "kafka" {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideSignalSink selects the configured sink backend.
func ProvideSignalSink(
	cfg *config.Config,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) (repository.SignalSink, error) {
	switch cfg.Sink.Type {
	case "stdout":
		return internalrepo.NewWriterSink(os.Stdout), nil
	case "kafka":
		return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic), nil
	case "clickhouse":
		table := cfg.ClickHouse.Database + "." + cfg.ClickHouse.Table
		return internalrepo.NewClickHouseSignalStore(chClient.DB(), table), nil
	default:
		return nil, fmt.Errorf("unknown sink type: %s", cfg.Sink.Type)
	}
}

// ProvideResultCache selects the configured cache backend.
func ProvideResultCache(cfg *config.Config) (repository.ResultCache, error) {
	switch cfg.Cache.Backend {
	case "none":
		return internalrepo.NopResultCache{}, nil
	case "memory":
		return internalrepo.NewSignalSetCache(pkgcache.NewMemoryCache(), cfg.Cache.TTL), nil
	case "redis":
		rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisAddr(cfg.Cache.Redis.Addr),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return internalrepo.NewSignalSetCache(rc, cfg.Cache.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Cache.Backend)
	}
}

// ProvideExtractionRunner creates the extraction use case.
func ProvideExtractionRunner(
	cfg *config.Config,
	sink repository.SignalSink,
	cache repository.ResultCache,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.ExtractionRunner {
	return usecase.NewExtractionRunner(cfg.ToRules(), sink, cfg.Sink.Type, cache, m, log)
}

// ProvideKafkaConsumer creates a Kafka consumer when requests come from
// Kafka, nil otherwise.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Source.Mode != "kafka" {
		return nil, nil
	}

	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideExtractRequestsHandler registers the handler for the requests topic.
func ProvideExtractRequestsHandler(
	cfg *config.Config,
	runner *usecase.ExtractionRunner,
	m repository.Metrics,
) *usecase.ExtractRequestsHandler {
	return usecase.NewExtractRequestsHandler(cfg.Kafka.Consumer.Topic, runner, m)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	runner *usecase.ExtractionRunner,
	consumer *pkgkafka.Consumer,
	kh *usecase.ExtractRequestsHandler,
	chClient *pkgch.Client,
	log *applogger.Logger,
) *server.App {
	return server.New(cfg, runner, consumer, kh, chClient, log)
}
