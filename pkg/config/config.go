package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Analysis struct {
		BaseURL       string        `yaml:"base_url"`
		Timeout       time.Duration `yaml:"timeout"`
		RetryAttempts int           `yaml:"retry_attempts"`
	} `yaml:"analysis"`
	ML struct {
		Endpoint      string        `yaml:"endpoint"`
		Budget        time.Duration `yaml:"budget"` // ML path latency budget
		CacheTTL      time.Duration `yaml:"cache_ttl"`
		MaxWeight     float64       `yaml:"max_weight"`
		MinConfidence float64       `yaml:"min_confidence"`
	} `yaml:"ml"`
	Cache struct {
		Backend string `yaml:"backend"` // memory or redis
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Audit struct {
		Kafka struct {
			Enabled      bool          `yaml:"enabled"`
			Brokers      []string      `yaml:"brokers"`
			Topic        string        `yaml:"topic"`
			RequiredAcks int           `yaml:"required_acks"`
			Compression  string        `yaml:"compression"`
			MaxAttempts  int           `yaml:"max_attempts"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"kafka"`
		ClickHouse struct {
			Enabled      bool          `yaml:"enabled"`
			Host         string        `yaml:"host"`
			Port         int           `yaml:"port"`
			Database     string        `yaml:"database"`
			User         string        `yaml:"user"`
			Password     string        `yaml:"password"`
			Table        string        `yaml:"table"`
			DialTimeout  time.Duration `yaml:"dial_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
		} `yaml:"clickhouse"`
	} `yaml:"audit"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

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

	if v := os.Getenv("ANALYSIS_BASE_URL"); v != "" {
		c.Analysis.BaseURL = v
	}
	if v := os.Getenv("ML_ENDPOINT"); v != "" {
		c.ML.Endpoint = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Audit.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Audit.Kafka.Topic = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Analysis.Timeout <= 0 {
		c.Analysis.Timeout = 3 * time.Second
	}
	if c.Analysis.RetryAttempts <= 0 {
		c.Analysis.RetryAttempts = 2
	}
	if c.ML.Budget <= 0 {
		c.ML.Budget = 100 * time.Millisecond
	}
	if c.ML.CacheTTL <= 0 {
		c.ML.CacheTTL = 60 * time.Second
	}
	if c.ML.MaxWeight <= 0 {
		c.ML.MaxWeight = 0.15
	}
	if c.ML.MinConfidence <= 0 {
		c.ML.MinConfidence = 0.5
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "investscore"
	}
	if c.Audit.Kafka.Topic == "" {
		c.Audit.Kafka.Topic = "score.computed"
	}
	if c.Audit.Kafka.MaxAttempts <= 0 {
		c.Audit.Kafka.MaxAttempts = 3
	}
	if c.Audit.Kafka.WriteTimeout <= 0 {
		c.Audit.Kafka.WriteTimeout = 10 * time.Second
	}
	if c.Audit.ClickHouse.Table == "" {
		c.Audit.ClickHouse.Table = "score_history"
	}
	if c.Audit.ClickHouse.DialTimeout <= 0 {
		c.Audit.ClickHouse.DialTimeout = 5 * time.Second
	}
	if c.Audit.ClickHouse.ReadTimeout <= 0 {
		c.Audit.ClickHouse.ReadTimeout = 10 * time.Second
	}
	if c.Audit.ClickHouse.WriteTimeout <= 0 {
		c.Audit.ClickHouse.WriteTimeout = 10 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Analysis.BaseURL == "" {
		return fmt.Errorf("analysis.base_url is required")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for redis backend")
	}
	if c.ML.MaxWeight > 1 {
		return fmt.Errorf("ml.max_weight must be <= 1, got %v", c.ML.MaxWeight)
	}
	if c.Audit.Kafka.Enabled && len(c.Audit.Kafka.Brokers) == 0 {
		return fmt.Errorf("audit.kafka.brokers cannot be empty when enabled")
	}
	if c.Audit.ClickHouse.Enabled && c.Audit.ClickHouse.Host == "" {
		return fmt.Errorf("audit.clickhouse.host is required when enabled")
	}
	return nil
}
