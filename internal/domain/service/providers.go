package service

import (
	"context"
	"time"

	"InvestScore/internal/domain/models"
)

// BaseAnalysisProvider produces the deterministic multi-factor composite.
// Its result is mandatory: any failure here is fatal to the request.
type BaseAnalysisProvider interface {
	Analyze(ctx context.Context, instrument string, opts models.AnalysisOptions) (*models.BaseAnalysisResult, error)
}

// MLPredictionProvider produces a predicted score and confidence for an
// (instrument, horizon) pair. Implementations must honor ctx deadlines and
// return promptly on timeout rather than hang.
type MLPredictionProvider interface {
	Predict(ctx context.Context, instrument string, horizon models.Horizon) (*models.Prediction, error)
}

// PredictionCache is a short-TTL store keyed by (instrument, horizon).
// Expired entries behave exactly like misses. Failed fetches are never cached.
type PredictionCache interface {
	Get(ctx context.Context, instrument string, horizon models.Horizon) (*models.Prediction, bool, error)
	Put(ctx context.Context, p *models.Prediction, ttl time.Duration) error
	Invalidate(ctx context.Context, instrument string, horizon models.Horizon) error
}
