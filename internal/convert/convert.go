package convert

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/patchgraph/internal/ctxlog"
	"github.com/specialistvlad/patchgraph/internal/dspgraph"
	"github.com/specialistvlad/patchgraph/internal/patch"
	"github.com/specialistvlad/patchgraph/internal/registry"
)

var (
	// ErrUnsupportedKind is returned when several connections share a sink
	// inlet whose portlet kind is neither message nor signal.
	ErrUnsupportedKind = errors.New("unexpected portlet type")
	// ErrNestingCycle is returned when subpatches instantiate each other in
	// a loop, so no inlining order exists.
	ErrNestingCycle = errors.New("subpatch nesting cycle")
)

// Option configures a conversion.
type Option func(*options)

type options struct {
	observer Observer
}

// WithObserver reports conversion events to o.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		if o != nil {
			opts.observer = o
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{observer: nopObserver{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// compilation is the state shared by both passes.
type compilation struct {
	desc     *patch.Description
	registry *registry.Registry
	graph    *dspgraph.Graph
	observer Observer
}

// Convert builds the flat graph for desc. The description is not modified.
func Convert(ctx context.Context, desc *patch.Description, r *registry.Registry, opts ...Option) (*dspgraph.Graph, error) {
	logger := ctxlog.FromContext(ctx)

	expanded, err := desc.Expand()
	if err != nil {
		if errors.Is(err, patch.ErrNestingCycle) {
			return nil, fmt.Errorf("%w: %w", ErrNestingCycle, err)
		}
		return nil, fmt.Errorf("expanding subpatch instances: %w", err)
	}
	logger.Debug("Convert: Instance expansion complete.", "patches", len(desc.Patches), "instances", len(expanded.Patches))

	c := &compilation{
		desc:     expanded,
		registry: r,
		graph:    dspgraph.NewGraph(),
		observer: newOptions(opts).observer,
	}

	if err := c.buildGraph(ctx); err != nil {
		return nil, err
	}
	if err := c.flattenGraph(ctx); err != nil {
		return nil, err
	}

	logger.Debug("Convert: Conversion successful.", "nodes", c.graph.Len())
	return c.graph, nil
}

// BuildGraph runs only the first pass on desc as given: nodes, rerouted
// connections and mixers. Subpatch instantiation and proxy nodes are still
// present in the result.
func BuildGraph(ctx context.Context, desc *patch.Description, r *registry.Registry, opts ...Option) (*dspgraph.Graph, error) {
	c := &compilation{
		desc:     desc,
		registry: r,
		graph:    dspgraph.NewGraph(),
		observer: newOptions(opts).observer,
	}
	if err := c.buildGraph(ctx); err != nil {
		return nil, err
	}
	return c.graph, nil
}

// FlattenGraph runs only the second pass: it inlines every patch of desc
// into g, which must have been produced by BuildGraph for the same
// description.
func FlattenGraph(ctx context.Context, g *dspgraph.Graph, desc *patch.Description, r *registry.Registry, opts ...Option) error {
	c := &compilation{
		desc:     desc,
		registry: r,
		graph:    g,
		observer: newOptions(opts).observer,
	}
	return c.flattenGraph(ctx)
}
