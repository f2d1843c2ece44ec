package prediction

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"InvestScore/internal/domain/models"
	domsvc "InvestScore/internal/domain/service"
	"InvestScore/internal/service/cache"
	"InvestScore/internal/service/metrics"
	applogger "InvestScore/pkg/logger"
)

// CachedPredictor fronts an MLPredictionProvider with a TTL cache and
// single-flight coordination: under concurrent load, at most one upstream
// call per (instrument, horizon) key is in flight; everyone else shares its
// result. Failed fetches are never cached.
type CachedPredictor struct {
	upstream domsvc.MLPredictionProvider
	cache    domsvc.PredictionCache
	ttl      time.Duration
	group    singleflight.Group
	l        *applogger.Logger
}

func NewCachedPredictor(upstream domsvc.MLPredictionProvider, c domsvc.PredictionCache, ttl time.Duration, l *applogger.Logger) *CachedPredictor {
	if l == nil {
		l = applogger.Nop()
	}
	return &CachedPredictor{upstream: upstream, cache: c, ttl: ttl, l: l}
}

func (p *CachedPredictor) Predict(ctx context.Context, instrument string, horizon models.Horizon) (*models.Prediction, error) {
	if pred, ok, err := p.cache.Get(ctx, instrument, horizon); err != nil {
		// A broken cache read degrades to a miss; the upstream call below
		// still gives the caller a usable prediction.
		p.l.Warn("prediction cache read failed",
			applogger.String("instrument", instrument),
			applogger.Error(err),
		)
		metrics.PredictionCacheOps.WithLabelValues("error").Inc()
	} else if ok {
		metrics.PredictionCacheOps.WithLabelValues("hit").Inc()
		return pred, nil
	} else {
		metrics.PredictionCacheOps.WithLabelValues("miss").Inc()
	}

	// Note: the winning caller's ctx governs the shared fetch; followers
	// joining mid-flight inherit its deadline.
	v, err, _ := p.group.Do(cache.Key(instrument, horizon), func() (interface{}, error) {
		pred, err := p.upstream.Predict(ctx, instrument, horizon)
		if err != nil {
			return nil, err
		}
		if err := p.cache.Put(ctx, pred, p.ttl); err != nil {
			p.l.Warn("prediction cache write failed",
				applogger.String("instrument", instrument),
				applogger.Error(err),
			)
			metrics.PredictionCacheOps.WithLabelValues("error").Inc()
		}
		return pred, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Prediction), nil
}

var _ domsvc.MLPredictionProvider = (*CachedPredictor)(nil)
