package di

import (
	"context"
	"fmt"
	"io"
	"time"

	"InvestScore/internal/domain/models"
	domrepo "InvestScore/internal/domain/repository"
	domsvc "InvestScore/internal/domain/service"
	"InvestScore/internal/handler/api"
	internalrepo "InvestScore/internal/repository"
	"InvestScore/internal/service/analysis"
	"InvestScore/internal/service/cache"
	"InvestScore/internal/service/prediction"
	"InvestScore/internal/usecase"
	pkgch "InvestScore/pkg/clickhouse"
	"InvestScore/pkg/config"
	pkgkafka "InvestScore/pkg/kafka"
	applogger "InvestScore/pkg/logger"
	"InvestScore/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideBaseAnalyzer creates the base analysis provider adapter.
func ProvideBaseAnalyzer(cfg *config.Config) domsvc.BaseAnalysisProvider {
	return analysis.NewHTTPBaseAnalyzer(cfg.Analysis.BaseURL, cfg.Analysis.Timeout, cfg.Analysis.RetryAttempts)
}

// ProvidePredictionCache creates the configured prediction cache backend.
func ProvidePredictionCache(cfg *config.Config) (domsvc.PredictionCache, error) {
	if cfg.Cache.Backend == "redis" {
		c, err := cache.NewRedisPredictionCache(cache.RedisOptions{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return cache.NewMemoryPredictionCache(), nil
}

// ProvidePredictor creates the ML provider behind cache and single-flight.
// Returns nil when no ML endpoint is configured; the orchestrator degrades.
func ProvidePredictor(cfg *config.Config, c domsvc.PredictionCache, l *applogger.Logger) domsvc.MLPredictionProvider {
	if cfg.ML.Endpoint == "" {
		return nil
	}
	upstream := analysis.NewHTTPPredictor(cfg.ML.Endpoint, cfg.ML.Budget)
	return prediction.NewCachedPredictor(upstream, c, cfg.ML.CacheTTL, l)
}

// ProvideOrchestrator creates the selection orchestrator.
func ProvideOrchestrator(cfg *config.Config, base domsvc.BaseAnalysisProvider, ml domsvc.MLPredictionProvider, l *applogger.Logger) *usecase.Orchestrator {
	fusion := models.FusionConfig{
		MaxMLWeight:   cfg.ML.MaxWeight,
		MinConfidence: cfg.ML.MinConfidence,
	}
	return usecase.NewOrchestrator(base, ml, fusion, cfg.ML.Budget, l)
}

// ProvideScorePublisher creates the Kafka audit publisher, or nil when disabled.
func ProvideScorePublisher(cfg *config.Config) (domrepo.ScoreEventPublisher, error) {
	if !cfg.Audit.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Audit.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Audit.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Audit.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Audit.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Audit.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Audit.Kafka.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaScorePublisher(producer, cfg.Audit.Kafka.Topic), nil
}

// ProvideClickHouseClient creates the ClickHouse client, or nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.Audit.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.Audit.ClickHouse.Host),
		pkgch.WithPort(cfg.Audit.ClickHouse.Port),
		pkgch.WithDatabase(cfg.Audit.ClickHouse.Database),
		pkgch.WithCredentials(cfg.Audit.ClickHouse.User, cfg.Audit.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.Audit.ClickHouse.DialTimeout, cfg.Audit.ClickHouse.ReadTimeout, cfg.Audit.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	table := cfg.Audit.ClickHouse.Table
	if err := client.InitSchema(ctx, []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.Audit.ClickHouse.Database),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (ts DateTime, instrument String, horizon String, final_score Float64, base_score Float64, ml_score Nullable(Float64), ml_weight Float64, degraded UInt8, warnings String, model_version String, elapsed_ms Int64) ENGINE=MergeTree ORDER BY (instrument, ts)", table),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideScoreStore creates the ClickHouse history store, or nil when disabled.
func ProvideScoreStore(cfg *config.Config, client *pkgch.Client) domrepo.ScoreHistoryStore {
	if client == nil {
		return nil
	}
	return internalrepo.NewClickHouseScoreStore(client.DB(), cfg.Audit.ClickHouse.Table)
}

// ProvideRecorder creates the best-effort audit recorder.
func ProvideRecorder(pub domrepo.ScoreEventPublisher, store domrepo.ScoreHistoryStore, l *applogger.Logger) *usecase.ScoreRecorder {
	return usecase.NewScoreRecorder(pub, store, l)
}

type healthChecker interface {
	Health(ctx context.Context) error
}

// ProvideHealthChecks gathers reachability probes for the configured backends.
// In-process backends expose no probe and are skipped.
func ProvideHealthChecks(
	c domsvc.PredictionCache,
	pub domrepo.ScoreEventPublisher,
	store domrepo.ScoreHistoryStore,
) []api.HealthCheck {
	var checks []api.HealthCheck
	if hc, ok := c.(healthChecker); ok {
		checks = append(checks, api.HealthCheck{Name: "cache", Check: hc.Health})
	}
	if hc, ok := pub.(healthChecker); ok {
		checks = append(checks, api.HealthCheck{Name: "kafka", Check: hc.Health})
	}
	if store != nil {
		checks = append(checks, api.HealthCheck{Name: "clickhouse", Check: store.Health})
	}
	return checks
}

// ProvideCacheCloser exposes the cache connection for shutdown, or nil for
// in-process backends.
func ProvideCacheCloser(c domsvc.PredictionCache) io.Closer {
	if closer, ok := c.(io.Closer); ok {
		return closer
	}
	return nil
}

// ProvideSelectHandler creates the HTTP handler.
func ProvideSelectHandler(l *applogger.Logger, orch *usecase.Orchestrator, rec *usecase.ScoreRecorder, checks []api.HealthCheck) *api.SelectHandler {
	return api.NewSelectHandler(l, orch, rec, checks...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.SelectHandler,
	pub domrepo.ScoreEventPublisher,
	chClient *pkgch.Client,
	cacheCloser io.Closer,
) *server.App {
	return server.New(cfg, l, handler, pub, chClient, cacheCloser)
}
