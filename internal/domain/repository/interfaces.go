package repository

import (
	"context"

	"InvestScore/internal/domain/models"
)

// ScoreEventPublisher emits a score.computed event per successful selection.
// Best-effort: publish failures are logged, never surfaced to the caller.
type ScoreEventPublisher interface {
	Publish(ctx context.Context, resp *models.SelectionResponse) error
	Close() error
}

// ScoreHistoryStore persists selection responses for later inspection.
type ScoreHistoryStore interface {
	Insert(ctx context.Context, resp *models.SelectionResponse) error
	Health(ctx context.Context) error
}
