package models

import "time"

// Prediction is an ML price-movement forecast for (instrument, horizon).
// Never mutated after creation; the cache owns its lifetime across requests.
type Prediction struct {
	Instrument     string    `json:"instrument"`
	Horizon        Horizon   `json:"horizon"`
	PredictedScore float64   `json:"predicted_score"` // 0-100
	Confidence     float64   `json:"confidence"`      // 0.0-1.0
	ModelVersion   string    `json:"model_version"`
	GeneratedAt    time.Time `json:"generated_at"`
}
