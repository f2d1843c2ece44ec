package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InvestScore/internal/domain/models"
	"InvestScore/pkg/config"
	applogger "InvestScore/pkg/logger"
)

type closablePublisher struct {
	closed bool
}

func (p *closablePublisher) Publish(context.Context, *models.SelectionResponse) error { return nil }
func (p *closablePublisher) Close() error {
	p.closed = true
	return nil
}

type closableCache struct {
	closed bool
}

func (c *closableCache) Close() error {
	c.closed = true
	return nil
}

func TestShutdown_ClosesAllBackends(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.ShutdownTimeout = time.Second

	pub := &closablePublisher{}
	cache := &closableCache{}
	app := New(cfg, applogger.Nop(), nil, pub, nil, cache)

	require.NoError(t, app.shutdown())

	assert.True(t, pub.closed, "kafka publisher must be closed")
	assert.True(t, cache.closed, "redis cache connection must be closed")
}

func TestShutdown_NilBackendsAreSkipped(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.ShutdownTimeout = time.Second

	app := New(cfg, applogger.Nop(), nil, nil, nil, nil)

	assert.NoError(t, app.shutdown())
}
