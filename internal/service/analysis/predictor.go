package analysis

import (
	"context"
	"fmt"
	"time"

	"InvestScore/internal/domain/models"
	domsvc "InvestScore/internal/domain/service"
)

// HTTPPredictor calls the ML model-serving endpoint. No retry: the caller
// holds the latency budget in ctx and a failed prediction is survivable.
type HTTPPredictor struct {
	api *apiClient
}

func NewHTTPPredictor(baseURL string, timeout time.Duration) *HTTPPredictor {
	return &HTTPPredictor{api: newAPIClient(baseURL, timeout)}
}

type predictReq struct {
	Instrument string `json:"instrument"`
	Horizon    string `json:"horizon"`
}

type predictResp struct {
	PredictedScore float64 `json:"predicted_score"`
	Confidence     float64 `json:"confidence"`
	ModelVersion   string  `json:"model_version"`
}

func (s *HTTPPredictor) Predict(ctx context.Context, instrument string, horizon models.Horizon) (*models.Prediction, error) {
	var pr predictResp
	req := predictReq{Instrument: instrument, Horizon: string(horizon)}
	if err := s.api.postJSON(ctx, "/predict", req, &pr); err != nil {
		return nil, fmt.Errorf("post predict: %w", err)
	}

	return &models.Prediction{
		Instrument:     instrument,
		Horizon:        horizon,
		PredictedScore: pr.PredictedScore,
		Confidence:     pr.Confidence,
		ModelVersion:   pr.ModelVersion,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

var _ domsvc.MLPredictionProvider = (*HTTPPredictor)(nil)
