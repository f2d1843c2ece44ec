package usecase

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InvestScore/internal/domain/models"
)

func baseResult(score float64) *models.BaseAnalysisResult {
	return &models.BaseAnalysisResult{Instrument: "AAPL", Score: score}
}

func prediction(score, confidence float64) *models.Prediction {
	return &models.Prediction{
		Instrument:     "AAPL",
		Horizon:        models.Horizon1Week,
		PredictedScore: score,
		Confidence:     confidence,
		ModelVersion:   "v3",
	}
}

func TestFuse_NoPrediction_PassesBaseThrough(t *testing.T) {
	res := Fuse(baseResult(64.2), nil, models.DefaultFusionConfig())

	assert.Equal(t, 64.2, res.FinalScore)
	assert.Equal(t, 64.2, res.BaseScore)
	assert.Nil(t, res.MLScore)
	assert.Zero(t, res.EffectiveMLWeight)
	assert.False(t, res.Degraded)
	assert.Empty(t, res.Warnings)
}

func TestFuse_FullConfidence_BlendsAtMaxWeight(t *testing.T) {
	res := Fuse(baseResult(70), prediction(90, 1.0), models.DefaultFusionConfig())

	// 70*0.85 + 90*0.15
	assert.InDelta(t, 73.0, res.FinalScore, 1e-9)
	assert.InDelta(t, 0.15, res.EffectiveMLWeight, 1e-9)
	require.NotNil(t, res.MLScore)
	assert.Equal(t, 90.0, *res.MLScore)
	assert.False(t, res.Degraded)
	assert.Empty(t, res.Warnings)
}

func TestFuse_ConfidenceScalesWeight(t *testing.T) {
	res := Fuse(baseResult(70), prediction(90, 0.8), models.DefaultFusionConfig())

	// w = 0.15*0.8 = 0.12 -> 70*0.88 + 90*0.12
	assert.InDelta(t, 0.12, res.EffectiveMLWeight, 1e-9)
	assert.InDelta(t, 72.4, res.FinalScore, 1e-9)
}

func TestFuse_ConfidenceAtThreshold_StillCounts(t *testing.T) {
	res := Fuse(baseResult(50), prediction(100, 0.5), models.DefaultFusionConfig())

	assert.InDelta(t, 0.075, res.EffectiveMLWeight, 1e-9)
	assert.False(t, res.Degraded)
	assert.Empty(t, res.Warnings)
}

func TestFuse_LowConfidence_IgnoresPrediction(t *testing.T) {
	res := Fuse(baseResult(70), prediction(95, 0.49), models.DefaultFusionConfig())

	assert.Equal(t, 70.0, res.FinalScore)
	assert.Zero(t, res.EffectiveMLWeight)
	assert.True(t, res.Degraded)
	assert.Contains(t, res.Warnings, models.WarnLowConfidence)
	// The ignored prediction is still reported for auditability.
	require.NotNil(t, res.MLScore)
	assert.Equal(t, 95.0, *res.MLScore)
}

func TestFuse_FinalScoreStaysInConvexHull(t *testing.T) {
	cfg := models.DefaultFusionConfig()
	cases := []struct {
		base, ml, conf float64
	}{
		{0, 100, 1.0},
		{100, 0, 1.0},
		{30, 80, 0.5},
		{80, 30, 0.75},
		{55, 55, 0.9},
		{12.5, 98.3, 0.61},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("base=%v_ml=%v_conf=%v", tc.base, tc.ml, tc.conf), func(t *testing.T) {
			res := Fuse(baseResult(tc.base), prediction(tc.ml, tc.conf), cfg)

			lo := math.Min(tc.base, tc.ml)
			hi := math.Max(tc.base, tc.ml)
			assert.GreaterOrEqual(t, res.FinalScore, lo)
			assert.LessOrEqual(t, res.FinalScore, hi)
			assert.NotContains(t, res.Warnings, models.WarnScoreClamped)
		})
	}
}

func TestFuse_OutOfRangeInputs_ClampedWithWarning(t *testing.T) {
	res := Fuse(baseResult(150), prediction(200, 1.0), models.DefaultFusionConfig())

	assert.Equal(t, 100.0, res.FinalScore)
	assert.Contains(t, res.Warnings, models.WarnScoreClamped)

	res = Fuse(baseResult(-40), prediction(-10, 1.0), models.DefaultFusionConfig())

	assert.Equal(t, 0.0, res.FinalScore)
	assert.Contains(t, res.Warnings, models.WarnScoreClamped)
}

func TestFuse_OutOfRangeBase_ClampedWithoutPrediction(t *testing.T) {
	res := Fuse(baseResult(150), nil, models.DefaultFusionConfig())

	assert.Equal(t, 100.0, res.FinalScore)
	assert.Contains(t, res.Warnings, models.WarnScoreClamped)

	res = Fuse(baseResult(-5), nil, models.DefaultFusionConfig())

	assert.Equal(t, 0.0, res.FinalScore)
	assert.Contains(t, res.Warnings, models.WarnScoreClamped)
}

func TestFuse_OutOfRangeBase_ClampedWhenPredictionIgnored(t *testing.T) {
	res := Fuse(baseResult(150), prediction(90, 0.1), models.DefaultFusionConfig())

	assert.Equal(t, 100.0, res.FinalScore)
	assert.True(t, res.Degraded)
	assert.Contains(t, res.Warnings, models.WarnLowConfidence)
	assert.Contains(t, res.Warnings, models.WarnScoreClamped)
}

func TestFuse_IsDeterministic(t *testing.T) {
	cfg := models.DefaultFusionConfig()
	first := Fuse(baseResult(61.7), prediction(84.1, 0.73), cfg)
	for i := 0; i < 10; i++ {
		again := Fuse(baseResult(61.7), prediction(84.1, 0.73), cfg)
		assert.Equal(t, first.FinalScore, again.FinalScore)
		assert.Equal(t, first.EffectiveMLWeight, again.EffectiveMLWeight)
	}
}
