package usecase

import (
	"context"
	"fmt"
	"time"

	"InvestScore/internal/domain/models"
	domsvc "InvestScore/internal/domain/service"
	"InvestScore/internal/service/metrics"
	applogger "InvestScore/pkg/logger"
)

// Orchestrator is the sole public entry point of the scoring core. It runs
// the mandatory base analysis and the optional ML path concurrently, fuses
// their outputs, and degrades to base-only whenever the ML path misbehaves.
type Orchestrator struct {
	base      domsvc.BaseAnalysisProvider
	predictor domsvc.MLPredictionProvider // nil when ML is not configured
	fusion    models.FusionConfig
	mlBudget  time.Duration
	l         *applogger.Logger
}

// NewOrchestrator builds an Orchestrator. predictor may be nil; requests with
// includeML then degrade with a warning instead of failing.
func NewOrchestrator(
	base domsvc.BaseAnalysisProvider,
	predictor domsvc.MLPredictionProvider,
	fusion models.FusionConfig,
	mlBudget time.Duration,
	l *applogger.Logger,
) *Orchestrator {
	if mlBudget <= 0 {
		mlBudget = 100 * time.Millisecond
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &Orchestrator{
		base:      base,
		predictor: predictor,
		fusion:    fusion,
		mlBudget:  mlBudget,
		l:         l,
	}
}

type baseOut struct {
	res *models.BaseAnalysisResult
	err error
}

type mlOut struct {
	pred *models.Prediction
	err  error
}

// Select validates the request, gathers base and (optionally) ML scores, and
// returns the fused response. Only validation failures and base-analysis
// failures surface as errors; every ML-path condition becomes a warning.
func (o *Orchestrator) Select(ctx context.Context, req models.SelectionRequest) (*models.SelectionResponse, error) {
	start := time.Now()

	if err := validateRequest(req); err != nil {
		metrics.SelectionErrors.WithLabelValues("validation").Inc()
		o.l.Warn("selection request rejected",
			applogger.String("instrument", req.Instrument),
			applogger.Error(err),
		)
		return nil, err
	}

	if !req.IncludeML {
		base, err := o.base.Analyze(ctx, req.Instrument, req.Options)
		if err != nil {
			metrics.SelectionErrors.WithLabelValues("base_analysis").Inc()
			return nil, &models.UpstreamError{Provider: "base_analysis", Err: err}
		}
		fusion := Fuse(base, nil, o.fusion)
		return o.respond(req, base, fusion, "", start), nil
	}

	baseCh := make(chan baseOut, 1)
	go func() {
		res, err := o.base.Analyze(ctx, req.Instrument, req.Options)
		baseCh <- baseOut{res, err}
	}()

	// The budget is relative to ML sub-task start, not request start, so a
	// slow base analysis never eats into the ML path's time.
	mlCtx, cancelML := context.WithTimeout(ctx, o.mlBudget)
	defer cancelML()

	mlCh := make(chan mlOut, 1)
	if o.predictor == nil {
		mlCh <- mlOut{err: models.ErrPredictorNotConfigured}
	} else {
		go func() {
			pred, err := o.predictor.Predict(mlCtx, req.Instrument, req.Horizon)
			mlCh <- mlOut{pred, err}
		}()
	}

	// Base result is mandatory; fusion never begins without it.
	b := <-baseCh
	if b.err != nil {
		cancelML() // the in-flight prediction is useless now
		metrics.SelectionErrors.WithLabelValues("base_analysis").Inc()
		return nil, &models.UpstreamError{Provider: "base_analysis", Err: b.err}
	}

	var pred *models.Prediction
	var mlErr error
	select {
	case m := <-mlCh:
		pred, mlErr = m.pred, m.err
	case <-mlCtx.Done():
		// Budget exhausted: cancel and discard whatever the provider
		// eventually returns.
		mlErr = mlCtx.Err()
		metrics.MLTimeouts.Inc()
	}

	fusion := Fuse(b.res, pred, o.fusion)
	modelVersion := ""
	if pred != nil {
		modelVersion = pred.ModelVersion
	}

	if mlErr != nil {
		fusion.Degraded = true
		fusion.Warnings = append(fusion.Warnings, fmt.Sprintf("%s: %v", models.WarnMLUnavailable, mlErr))
		metrics.Degradations.WithLabelValues("ml_unavailable").Inc()
		o.l.Warn("ml path unavailable, using base score",
			applogger.String("instrument", req.Instrument),
			applogger.String("horizon", string(req.Horizon)),
			applogger.Error(mlErr),
		)
	} else if fusion.Degraded {
		metrics.Degradations.WithLabelValues("low_confidence").Inc()
	}

	return o.respond(req, b.res, fusion, modelVersion, start), nil
}

func (o *Orchestrator) respond(req models.SelectionRequest, base *models.BaseAnalysisResult, fusion models.FusionResult, modelVersion string, start time.Time) *models.SelectionResponse {
	for _, w := range fusion.Warnings {
		if w == models.WarnScoreClamped {
			// Clamp means a provider fed us an out-of-range score. The
			// response still goes out; operators need to see this.
			o.l.Error("fusion clamped out-of-range score",
				applogger.String("instrument", req.Instrument),
				applogger.Float64("base_score", fusion.BaseScore),
				applogger.Float64("final_score", fusion.FinalScore),
			)
			metrics.SelectionErrors.WithLabelValues("clamp").Inc()
		}
	}

	resp := &models.SelectionResponse{
		Instrument:   req.Instrument,
		Fusion:       fusion,
		SubScores:    base.SubScores,
		Factors:      base.Factors,
		ModelVersion: modelVersion,
		GeneratedAt:  time.Now().UTC(),
		ElapsedMs:    time.Since(start).Milliseconds(),
	}
	if req.IncludeML {
		resp.Horizon = req.Horizon
	}
	metrics.SelectionLatency.WithLabelValues(pathLabel(req.IncludeML)).Observe(time.Since(start).Seconds())
	return resp
}

func validateRequest(req models.SelectionRequest) error {
	if req.Instrument == "" {
		return models.NewValidationError("instrument", "is required")
	}
	if req.IncludeML && !req.Horizon.Valid() {
		return models.NewValidationError("horizon", fmt.Sprintf("%q is not a recognized forecast window", req.Horizon))
	}
	return nil
}

func pathLabel(includeML bool) string {
	if includeML {
		return "ml"
	}
	return "base"
}
