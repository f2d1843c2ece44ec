package usecase

import (
	"math"

	"InvestScore/internal/domain/models"
)

// Fuse blends a base composite score with an optional ML prediction.
// Pure and deterministic: no I/O, no clock, no logging.
//
// Weights always sum to 1: when confidence shrinks the ML weight, the base
// weight compensates, so the result never leaves the convex hull of the two
// input scores. A prediction below the confidence threshold contributes
// nothing and is reported via WarnLowConfidence.
func Fuse(base *models.BaseAnalysisResult, pred *models.Prediction, cfg models.FusionConfig) models.FusionResult {
	res := models.FusionResult{
		BaseScore:  base.Score,
		FinalScore: base.Score,
	}

	if pred != nil {
		ml := pred.PredictedScore
		res.MLScore = &ml

		if pred.Confidence >= cfg.MinConfidence {
			res.EffectiveMLWeight = cfg.MaxMLWeight * pred.Confidence
		} else {
			res.Warnings = append(res.Warnings, models.WarnLowConfidence)
		}

		if res.EffectiveMLWeight == 0 {
			res.Degraded = true
		} else {
			w := res.EffectiveMLWeight
			res.FinalScore = base.Score*(1-w) + ml*w
		}
	}

	// Well-formed inputs cannot leave [0,100]; a clamp trip means a provider
	// violated its contract. Every path clamps, so an out-of-range base score
	// cannot slip through when the prediction is absent or ignored.
	if res.FinalScore < 0 || res.FinalScore > 100 {
		res.Warnings = append(res.Warnings, models.WarnScoreClamped)
		res.FinalScore = math.Max(0, math.Min(100, res.FinalScore))
	}
	return res
}
