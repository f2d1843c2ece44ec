package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
environment: test
analysis:
  base_url: http://analysis.local
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 100*time.Millisecond, cfg.ML.Budget)
	assert.Equal(t, 60*time.Second, cfg.ML.CacheTTL)
	assert.Equal(t, 0.15, cfg.ML.MaxWeight)
	assert.Equal(t, 0.5, cfg.ML.MinConfidence)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, "score.computed", cfg.Audit.Kafka.Topic)
	assert.Equal(t, "score_history", cfg.Audit.ClickHouse.Table)
}

func TestLoad_ExplicitValuesWin(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
environment: production
server:
  port: 9090
analysis:
  base_url: http://analysis.local
ml:
  endpoint: http://ml.local
  budget: 250ms
  max_weight: 0.3
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.ML.Budget)
	assert.Equal(t, 0.3, cfg.ML.MaxWeight)
	assert.Equal(t, "http://ml.local", cfg.ML.Endpoint)
}

func TestLoad_RejectsMissingEnvironment(t *testing.T) {
	_, err := Load(writeConfig(t, `
analysis:
  base_url: http://analysis.local
`))
	assert.ErrorContains(t, err, "environment")
}

func TestLoad_RejectsMissingAnalysisURL(t *testing.T) {
	_, err := Load(writeConfig(t, `environment: test`))
	assert.ErrorContains(t, err, "analysis.base_url")
}

func TestLoad_RejectsUnknownCacheBackend(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
cache:
  backend: memcached
`))
	assert.ErrorContains(t, err, "cache.backend")
}

func TestLoad_RedisBackendRequiresAddr(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
cache:
  backend: redis
`))
	assert.ErrorContains(t, err, "cache.redis.addr")
}

func TestLoad_RejectsOverweightML(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
ml:
  max_weight: 1.5
`))
	assert.ErrorContains(t, err, "ml.max_weight")
}

func TestLoad_KafkaEnabledRequiresBrokers(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
audit:
  kafka:
    enabled: true
`))
	assert.ErrorContains(t, err, "audit.kafka.brokers")
}

func TestLoadWithEnv_Overrides(t *testing.T) {
	t.Setenv("ANALYSIS_BASE_URL", "http://override.local")
	t.Setenv("ML_ENDPOINT", "http://ml-override.local")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "http://override.local", cfg.Analysis.BaseURL)
	assert.Equal(t, "http://ml-override.local", cfg.ML.Endpoint)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Audit.Kafka.Brokers)
}
