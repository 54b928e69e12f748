package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/patchgraph/internal/config"
	"github.com/specialistvlad/patchgraph/internal/ctxlog"
	"github.com/specialistvlad/patchgraph/internal/metrics"
	"github.com/specialistvlad/patchgraph/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	loader  config.Loader
	modules []registry.Module
	metrics *metrics.Recorder
}

// NewApp is the constructor for the main application. Graph output goes to
// outW unless the config names an output file; logs go to logW. When no
// modules are given the built-in set is used.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		loader:  loader,
		modules: modules,
		metrics: metrics.NewRecorder(),
	}
}

// Metrics returns the application's metrics recorder. This is primarily for testing.
func (a *App) Metrics() *metrics.Recorder {
	return a.metrics
}

// newRegistry creates a registry populated with the app's modules. It
// panics when two modules claim the same node type.
func (a *App) newRegistry(ctx context.Context) *registry.Registry {
	reg := registry.New()
	reg.RegisterModules(a.modules...)
	ctxlog.FromContext(ctx).Debug("All Go modules registered.", "count", len(a.modules), "types", len(reg.Types()))
	return reg
}
