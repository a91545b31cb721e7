package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"CapLens/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string          `yaml:"environment" default:"development" validate:"oneof=development staging production test"`
	Server      ServerConfig    `yaml:"server"`
	Log         LogConfig       `yaml:"log"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	Catalog     CatalogConfig   `yaml:"catalog"`
	Cache       CacheConfig     `yaml:"cache"`
	Kafka       KafkaConfig     `yaml:"kafka"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
	SlowRequest     time.Duration `yaml:"slow_request" default:"500ms"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"json" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stdout"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics" validate:"startswith=/"`
}

// CatalogConfig points at external dataset files. Empty paths use the embedded dataset.
type CatalogConfig struct {
	CompaniesPath string `yaml:"companies_path"`
	EventsPath    string `yaml:"events_path" validate:"required_with=CompaniesPath"`
}

type CacheConfig struct {
	Backend       string        `yaml:"backend" default:"memory" validate:"oneof=memory redis layered"`
	TTL           time.Duration `yaml:"ttl" default:"5m"`
	MemoryMaxSize int           `yaml:"memory_max_size" default:"1000" validate:"gte=0"`
	MemoryTTL     time.Duration `yaml:"memory_ttl" default:"1m"`
	Redis         RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
	Prefix   string `yaml:"prefix" default:"caplens"`

	PoolSize    int           `yaml:"pool_size" default:"10" validate:"gte=1"`
	MinIdle     int           `yaml:"min_idle" default:"2" validate:"gte=0"`
	PoolTimeout time.Duration `yaml:"pool_timeout" default:"30s"`
}

type KafkaConfig struct {
	Enabled       bool                `yaml:"enabled"`
	Brokers       []string            `yaml:"brokers" validate:"required_if=Enabled true"`
	TriggersTopic string              `yaml:"triggers_topic" default:"caplens.triggers"`
	StanceTopic   string              `yaml:"stance_topic" default:"caplens.stance"`
	Producer      KafkaProducerConfig `yaml:"producer"`
	Consumer      KafkaConsumerConfig `yaml:"consumer"`
}

type KafkaProducerConfig struct {
	RequiredAcks int           `yaml:"required_acks" default:"-1"`
	Compression  string        `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
	MaxAttempts  int           `yaml:"max_attempts" default:"3"`
	BatchSize    int           `yaml:"batch_size" default:"100"`
	Linger       time.Duration `yaml:"linger" default:"10ms"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
}

type KafkaConsumerConfig struct {
	GroupID         string        `yaml:"group_id" default:"caplens"`
	AutoOffsetReset string        `yaml:"auto_offset_reset" default:"earliest" validate:"oneof=earliest latest"`
	Workers         int           `yaml:"workers" default:"2" validate:"gte=1"`
	BufferSize      int           `yaml:"buffer_size" default:"64" validate:"gte=1"`
	RetryMax        int           `yaml:"retry_max" default:"3" validate:"gte=0"`
	BackoffMin      time.Duration `yaml:"backoff_min" default:"50ms"`
	BackoffMax      time.Duration `yaml:"backoff_max" default:"2s"`
	DLQTopic        string        `yaml:"dlq_topic"`
}

// RateLimitConfig bounds the mutating endpoints per client IP.
type RateLimitConfig struct {
	Enabled         bool    `yaml:"enabled" default:"true"`
	Capacity        float64 `yaml:"capacity" default:"10" validate:"gt=0"`
	RefillPerSecond float64 `yaml:"refill_per_second" default:"1" validate:"gt=0"`
}

// Default returns a configuration built from defaults alone.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &c
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides it with environment variables.
// A missing file is not an error: defaults plus environment are used.
func LoadWithEnv(path string) (*Config, error) {
	var (
		c   *Config
		err error
	)
	if _, statErr := os.Stat(path); statErr == nil {
		c, err = Load(path)
		if err != nil {
			return nil, err
		}
	} else {
		c = Default()
	}

	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("CAPLENS_ENV"); v != "" {
		c.Environment = v
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	// Tuning knobs fall back to the file value when unparsable.
	c.Cache.Redis.DB = util.ParseIntDefault(getenv("REDIS_DB"), c.Cache.Redis.DB)
	c.RateLimit.RefillPerSecond = util.ParseFloatDefault(getenv("RATE_LIMIT_REFILL"), c.RateLimit.RefillPerSecond)
	return nil
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Kafka.Consumer.BackoffMax < c.Kafka.Consumer.BackoffMin {
		return fmt.Errorf("kafka.consumer.backoff_max must be >= backoff_min")
	}
	if c.Catalog.CompaniesPath == "" && c.Catalog.EventsPath != "" {
		return fmt.Errorf("catalog.companies_path is required with events_path")
	}
	return nil
}
