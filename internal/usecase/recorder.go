package usecase

import (
	"context"
	"time"

	"InvestScore/internal/domain/models"
	domrepo "InvestScore/internal/domain/repository"
	applogger "InvestScore/pkg/logger"
)

// ScoreRecorder fans a finished selection out to the audit sinks. Strictly
// best-effort: it runs off the request path and only logs failures.
type ScoreRecorder struct {
	pub     domrepo.ScoreEventPublisher // may be nil
	store   domrepo.ScoreHistoryStore   // may be nil
	timeout time.Duration
	l       *applogger.Logger
}

func NewScoreRecorder(pub domrepo.ScoreEventPublisher, store domrepo.ScoreHistoryStore, l *applogger.Logger) *ScoreRecorder {
	if l == nil {
		l = applogger.Nop()
	}
	return &ScoreRecorder{pub: pub, store: store, timeout: 5 * time.Second, l: l}
}

// Record dispatches the response to the configured sinks asynchronously.
func (r *ScoreRecorder) Record(resp *models.SelectionResponse) {
	if resp == nil || (r.pub == nil && r.store == nil) {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if r.pub != nil {
			if err := r.pub.Publish(ctx, resp); err != nil {
				r.l.Warn("score event publish failed",
					applogger.String("instrument", resp.Instrument),
					applogger.Error(err),
				)
			}
		}
		if r.store != nil {
			if err := r.store.Insert(ctx, resp); err != nil {
				r.l.Warn("score history insert failed",
					applogger.String("instrument", resp.Instrument),
					applogger.Error(err),
				)
			}
		}
	}()
}
