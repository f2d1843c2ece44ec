package cache

import (
	"context"
	"sync"
	"time"

	"InvestScore/internal/domain/models"
	domsvc "InvestScore/internal/domain/service"
)

type entry struct {
	pred *models.Prediction
	exp  time.Time
}

// MemoryPredictionCache is a thread-safe in-process TTL cache for predictions,
// keyed by (instrument, horizon). Expired entries behave exactly like misses.
type MemoryPredictionCache struct {
	mu sync.RWMutex
	m  map[string]entry
}

func NewMemoryPredictionCache() *MemoryPredictionCache {
	return &MemoryPredictionCache{m: make(map[string]entry)}
}

func (c *MemoryPredictionCache) Get(_ context.Context, instrument string, horizon models.Horizon) (*models.Prediction, bool, error) {
	k := Key(instrument, horizon)
	c.mu.RLock()
	e, ok := c.m[k]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, k)
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.pred, true, nil
}

func (c *MemoryPredictionCache) Put(_ context.Context, p *models.Prediction, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.m[Key(p.Instrument, p.Horizon)] = entry{pred: p, exp: exp}
	c.mu.Unlock()
	return nil
}

func (c *MemoryPredictionCache) Invalidate(_ context.Context, instrument string, horizon models.Horizon) error {
	c.mu.Lock()
	delete(c.m, Key(instrument, horizon))
	c.mu.Unlock()
	return nil
}

// Len reports live entries, expired ones included until next access.
func (c *MemoryPredictionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Key builds the cache key for an (instrument, horizon) pair.
func Key(instrument string, horizon models.Horizon) string {
	return instrument + ":" + string(horizon)
}

var _ domsvc.PredictionCache = (*MemoryPredictionCache)(nil)
