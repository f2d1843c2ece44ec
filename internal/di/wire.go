//go:build wireinject
// +build wireinject

package di

import (
	"InvestScore/pkg/config"
	"InvestScore/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,

		// Providers and cache
		ProvideBaseAnalyzer,
		ProvidePredictionCache,
		ProvidePredictor,

		// Core
		ProvideOrchestrator,

		// Audit sinks
		ProvideScorePublisher,
		ProvideClickHouseClient,
		ProvideScoreStore,
		ProvideRecorder,

		// HTTP
		ProvideHealthChecks,
		ProvideCacheCloser,
		ProvideSelectHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
