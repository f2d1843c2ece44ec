package models

// Warning strings surfaced on FusionResult. Callers match on these to audit
// how a score was produced, so they are part of the API contract.
const (
	WarnLowConfidence = "low_confidence_prediction_ignored"
	WarnScoreClamped  = "final_score_clamped"

	// WarnMLUnavailable prefixes the reason, e.g. "ml_unavailable: context deadline exceeded".
	WarnMLUnavailable = "ml_unavailable"
)

// FusionConfig tunes the confidence-weighted blend. Read-only after startup.
type FusionConfig struct {
	MaxMLWeight   float64 `yaml:"max_ml_weight"`
	MinConfidence float64 `yaml:"min_confidence"`
}

// DefaultFusionConfig returns the production defaults.
func DefaultFusionConfig() FusionConfig {
	return FusionConfig{MaxMLWeight: 0.15, MinConfidence: 0.5}
}

// FusionResult is the outcome of blending the base score with an optional
// ML prediction. FinalScore always lies within the convex hull of its inputs.
type FusionResult struct {
	FinalScore        float64  `json:"final_score"`
	BaseScore         float64  `json:"base_score"`
	MLScore           *float64 `json:"ml_score,omitempty"`
	EffectiveMLWeight float64  `json:"effective_ml_weight"`
	Degraded          bool     `json:"degraded"`
	Warnings          []string `json:"warnings,omitempty"`
}
