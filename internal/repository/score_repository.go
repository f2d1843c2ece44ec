package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"InvestScore/internal/domain/models"
	domrepo "InvestScore/internal/domain/repository"
	pkgkafka "InvestScore/pkg/kafka"
)

// ClickHouseScoreStore implements ScoreHistoryStore for ClickHouse.
type ClickHouseScoreStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseScoreStore creates ClickHouse score history storage.
func NewClickHouseScoreStore(db *sql.DB, table string) *ClickHouseScoreStore {
	return &ClickHouseScoreStore{db: db, table: table}
}

var _ domrepo.ScoreHistoryStore = (*ClickHouseScoreStore)(nil)

func (s *ClickHouseScoreStore) Insert(ctx context.Context, r *models.SelectionResponse) error {
	q := fmt.Sprintf(
		"INSERT INTO %s (ts, instrument, horizon, final_score, base_score, ml_score, ml_weight, degraded, warnings, model_version, elapsed_ms) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.table,
	)

	var mlScore sql.NullFloat64
	if r.Fusion.MLScore != nil {
		mlScore = sql.NullFloat64{Float64: *r.Fusion.MLScore, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, q,
		r.GeneratedAt,
		r.Instrument,
		string(r.Horizon),
		r.Fusion.FinalScore,
		r.Fusion.BaseScore,
		mlScore,
		r.Fusion.EffectiveMLWeight,
		r.Fusion.Degraded,
		strings.Join(r.Fusion.Warnings, ";"),
		r.ModelVersion,
		r.ElapsedMs,
	)
	return err
}

func (s *ClickHouseScoreStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// KafkaScorePublisher implements ScoreEventPublisher for Kafka.
type KafkaScorePublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaScorePublisher creates Kafka score event publisher.
func NewKafkaScorePublisher(producer *pkgkafka.Producer, topic string) *KafkaScorePublisher {
	return &KafkaScorePublisher{producer: producer, topic: topic}
}

var _ domrepo.ScoreEventPublisher = (*KafkaScorePublisher)(nil)

func (p *KafkaScorePublisher) Publish(ctx context.Context, r *models.SelectionResponse) error {
	// Keyed by instrument so consumers see scores for one instrument in order.
	return p.producer.Publish(ctx, p.topic, []byte(r.Instrument), r)
}

// Health reports broker reachability.
func (p *KafkaScorePublisher) Health(ctx context.Context) error {
	return p.producer.Health(ctx)
}

func (p *KafkaScorePublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
