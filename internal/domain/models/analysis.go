package models

import "time"

// SubScores are the named components of the deterministic base analysis.
type SubScores struct {
	Technical   float64 `json:"technical"`
	Fundamental float64 `json:"fundamental"`
	Sentiment   float64 `json:"sentiment"`
	Momentum    float64 `json:"momentum"`
	Value       float64 `json:"value"`
	Quality     float64 `json:"quality"`
}

// BaseAnalysisResult is the multi-factor composite produced by the base
// analysis provider. Immutable once created; one instance per request.
type BaseAnalysisResult struct {
	Instrument  string             `json:"instrument"`
	Score       float64            `json:"score"` // 0-100
	SubScores   SubScores          `json:"sub_scores"`
	Factors     map[string]float64 `json:"factors,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
}
