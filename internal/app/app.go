// Package app holds the long-lived services a CLI command needs: the logger,
// the loaded configuration, the resolver factory and the optional status
// endpoint.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/brandscan/internal/api"
	"github.com/JakeFAU/brandscan/internal/config"
	"github.com/JakeFAU/brandscan/internal/metrics"
	"github.com/JakeFAU/brandscan/internal/resolver"
)

const shutdownTimeout = 5 * time.Second

// App is the service container shared by the commands.
type App struct {
	logger  *zap.Logger
	cfg     config.Config
	factory resolver.Factory

	server   *http.Server
	serveErr chan error
	addr     string
}

// GetLogger returns the shared logger.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetConfig returns the configuration the App was built from.
func (a *App) GetConfig() config.Config {
	return a.cfg
}

// ResolverFactory returns the factory every strategy run should use.
func (a *App) ResolverFactory() resolver.Factory {
	return a.factory
}

// MetricsAddr returns the address the status endpoint listens on, or "" if
// it is disabled.
func (a *App) MetricsAddr() string {
	return a.addr
}

// NewApp initializes the services described by cfg. The status endpoint is
// started only when cfg.Metrics.Addr is set.
func NewApp(_ context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()

	a := &App{
		logger:  logger,
		cfg:     cfg,
		factory: resolver.NewFactory(cfg.ResolverOptions(), logger),
	}

	if cfg.Metrics.Addr == "" {
		return a, nil
	}
	ln, err := net.Listen("tcp", cfg.Metrics.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Metrics.Addr, err)
	}
	a.addr = ln.Addr().String()
	a.server = &http.Server{
		Handler:           api.NewServer(logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	a.serveErr = make(chan error, 1)
	go func() {
		logger.Info("status endpoint listening", zap.String("addr", a.addr))
		err := a.server.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		a.serveErr <- err
	}()
	return a, nil
}

// Close stops the status endpoint and flushes the logger.
func (a *App) Close() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.Warn("status endpoint shutdown error", zap.Error(err))
		}
		if err := <-a.serveErr; err != nil {
			a.logger.Error("status endpoint failed", zap.Error(err))
		}
		a.server = nil
	}
	// Sync on stderr-backed loggers can fail with EINVAL on some platforms.
	_ = a.logger.Sync()
}
