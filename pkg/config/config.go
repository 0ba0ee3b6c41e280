package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"RuleForge/internal/rules"
)

var validate = validator.New()

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Logging     struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Server struct {
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Extractor struct {
		MaxRules          int     `yaml:"max_rules" default:"20" validate:"gt=0"`
		MinSampleCoverage float64 `yaml:"min_sample_coverage" validate:"gte=0,lte=1"`
		RoundingDigits    int     `yaml:"rounding_digits" default:"1" validate:"gte=0,lte=10"`
		StrongCutoff      float64 `yaml:"strong_cutoff" default:"0.002" validate:"gt=0"`
		WeakCutoff        float64 `yaml:"weak_cutoff" default:"0.001" validate:"gt=0"`
		MergeTolerance    float64 `yaml:"merge_tolerance" validate:"gte=0"`
		MaxConditions     int     `yaml:"max_conditions" default:"3" validate:"gte=0"`
		KeepRootRules     bool    `yaml:"keep_root_rules"`
		Workers           int     `yaml:"workers" default:"4" validate:"gte=0"`
	} `yaml:"extractor"`
	Source struct {
		Mode  string `yaml:"mode" default:"file" validate:"oneof=file kafka"`
		Path  string `yaml:"path"`
		Asset string `yaml:"asset"`
	} `yaml:"source"`
	Sink struct {
		Type string `yaml:"type" default:"stdout" validate:"oneof=stdout kafka clickhouse"`
	} `yaml:"sink"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"snappy"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			BatchTimeout time.Duration `yaml:"batch_timeout" default:"50ms"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			Topic      string        `yaml:"topic"`
			GroupID    string        `yaml:"group_id" default:"ruleforge"`
			Workers    int           `yaml:"workers" default:"2" validate:"gt=0"`
			BufferSize int           `yaml:"buffer_size" default:"64"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"200ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"5s"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes" default:"1"`
			MaxBytes   int           `yaml:"max_bytes" default:"10485760"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"ruleforge"`
		Table            string        `yaml:"table" default:"signals"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"30s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
	} `yaml:"clickhouse"`
	Cache struct {
		Backend string        `yaml:"backend" default:"memory" validate:"oneof=none memory redis"`
		TTL     time.Duration `yaml:"ttl" default:"1h"`
		Redis   struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads a YAML configuration file, fills defaults and validates it.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("SINK"); v != "" {
		c.Sink.Type = v
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// Validate checks struct tags plus the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Extractor.StrongCutoff <= c.Extractor.WeakCutoff {
		return fmt.Errorf("extractor.strong_cutoff (%v) must be greater than extractor.weak_cutoff (%v)",
			c.Extractor.StrongCutoff, c.Extractor.WeakCutoff)
	}
	if c.Source.Mode == "file" && c.Source.Path == "" {
		return fmt.Errorf("source.path is required when source.mode is 'file'")
	}
	if c.Source.Mode == "kafka" || c.Sink.Type == "kafka" {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when kafka is used")
		}
	}
	if c.Source.Mode == "kafka" && c.Kafka.Consumer.Topic == "" {
		return fmt.Errorf("kafka.consumer.topic is required when source.mode is 'kafka'")
	}
	if c.Sink.Type == "kafka" && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when sink.type is 'kafka'")
	}
	return nil
}

// ToRules converts the extractor section into the engine's config.
// MergeTolerance zero means one rounding unit, resolved by the engine.
func (c *Config) ToRules() rules.Config {
	e := c.Extractor
	return rules.Config{
		MaxRules:          e.MaxRules,
		MinSampleCoverage: e.MinSampleCoverage,
		RoundingDigits:    e.RoundingDigits,
		StrongCutoff:      e.StrongCutoff,
		WeakCutoff:        e.WeakCutoff,
		MergeTolerance:    e.MergeTolerance,
		MaxConditions:     e.MaxConditions,
		KeepRootRules:     e.KeepRootRules,
		Workers:           e.Workers,
	}
}
