package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	domrepo "InvestScore/internal/domain/repository"
	"InvestScore/internal/handler/api"
	pkgch "InvestScore/pkg/clickhouse"
	"InvestScore/pkg/config"
	xhttp "InvestScore/pkg/http"
	applogger "InvestScore/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP server plus audit sinks.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	handler     *api.SelectHandler
	publisher   domrepo.ScoreEventPublisher
	chClient    *pkgch.Client
	cacheCloser io.Closer // nil for in-process cache backends
	httpServer  *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler *api.SelectHandler,
	publisher domrepo.ScoreEventPublisher,
	chClient *pkgch.Client,
	cacheCloser io.Closer,
) *App {
	return &App{
		cfg:         cfg,
		logger:      logger,
		handler:     handler,
		publisher:   publisher,
		chClient:    chClient,
		cacheCloser: cacheCloser,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("selection engine started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Bool("ml_configured", a.cfg.ML.Endpoint != ""),
		applogger.String("cache_backend", a.cfg.Cache.Backend),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.logger.Error("http shutdown error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("kafka publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	if a.cacheCloser != nil {
		if err := a.cacheCloser.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
