package app

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/patchgraph/internal/convert"
	"github.com/specialistvlad/patchgraph/internal/ctxlog"
	"github.com/specialistvlad/patchgraph/internal/dspgraph"
)

// Run loads the configured patches, converts them into a flat graph and
// writes the encoded graph out. Each call gets its own registry and run id.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	ctx = ctxlog.With(ctx, "run_id", uuid.NewString())
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.")

	paths := append(slices.Clone(a.config.PatchPaths), a.config.ManifestsPath)
	model, err := a.loader.Load(ctx, paths...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	reg := a.newRegistry(ctx)
	if err := reg.ValidateManifests(ctx, model.NodeTypes); err != nil {
		return fmt.Errorf("invalid node type manifests: %w", err)
	}
	for _, name := range slices.Sorted(maps.Keys(model.NodeTypes)) {
		reg.RegisterManifest(model.NodeTypes[name])
	}
	logger.Debug("Registry populated from manifests.", "manifests", len(model.NodeTypes))

	if err := model.Description.Validate(); err != nil {
		return fmt.Errorf("invalid patch description: %w", err)
	}
	logger.Debug("Patch description validation passed.")

	logger.Info("Converting patches.", "patches", len(model.Description.Patches))
	start := time.Now()
	graph, convErr := convert.Convert(ctx, model.Description, reg, convert.WithObserver(a.metrics))
	nodes := 0
	if convErr == nil {
		nodes = graph.Len()
	}
	a.metrics.RecordConversion(time.Since(start), nodes, convErr)

	if err := a.writeMetrics(ctx); err != nil {
		return err
	}
	if convErr != nil {
		return fmt.Errorf("conversion failed: %w", convErr)
	}

	if err := a.writeGraph(ctx, graph); err != nil {
		return err
	}
	logger.Info("Conversion finished.", "nodes", nodes, "duration", time.Since(start))
	return nil
}

func (a *App) writeGraph(ctx context.Context, g *dspgraph.Graph) error {
	format := dspgraph.Format(a.config.Format)
	if a.config.OutputPath == "" {
		return dspgraph.Encode(a.outW, g, format)
	}

	f, err := os.Create(a.config.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := dspgraph.Encode(f, g, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Graph written.", "path", a.config.OutputPath, "format", format)
	return nil
}

func (a *App) writeMetrics(ctx context.Context) error {
	if a.config.MetricsFile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.config.MetricsFile); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Metrics written.", "path", a.config.MetricsFile)
	return nil
}
