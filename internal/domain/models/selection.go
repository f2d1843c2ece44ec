package models

import "time"

// Horizon is the forecast window an ML prediction targets.
type Horizon string

const (
	Horizon1Day   Horizon = "1d"
	Horizon1Week  Horizon = "1w"
	Horizon1Month Horizon = "1m"
)

// Valid reports whether h is a recognized forecast window.
func (h Horizon) Valid() bool {
	switch h {
	case Horizon1Day, Horizon1Week, Horizon1Month:
		return true
	}
	return false
}

// NormalizeHorizon maps free-form input to a Horizon, defaulting to 1w.
func NormalizeHorizon(s string) Horizon {
	h := Horizon(s)
	if h.Valid() {
		return h
	}
	return Horizon1Week
}

// AnalysisOptions are passed through unchanged to the base analysis provider.
type AnalysisOptions struct {
	Depth   string   `json:"depth,omitempty"`
	Factors []string `json:"factors,omitempty"`
}

// SelectionRequest asks for an investment-worthiness score for one instrument.
// Horizon is only meaningful when IncludeML is set.
type SelectionRequest struct {
	Instrument string
	IncludeML  bool
	Horizon    Horizon
	Options    AnalysisOptions
}

// SelectionResponse is the audit-friendly result of a selection: the fused
// score plus every component that produced it.
type SelectionResponse struct {
	Instrument   string       `json:"instrument"`
	Horizon      Horizon      `json:"horizon,omitempty"`
	Fusion       FusionResult `json:"fusion"`
	SubScores    SubScores    `json:"sub_scores"`
	Factors      map[string]float64 `json:"factors,omitempty"`
	ModelVersion string       `json:"model_version,omitempty"`
	GeneratedAt  time.Time    `json:"generated_at"`
	ElapsedMs    int64        `json:"elapsed_ms"`
}
