package registry

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/patchgraph/internal/config"
	"github.com/specialistvlad/patchgraph/internal/ctxlog"
	"github.com/specialistvlad/patchgraph/internal/dspgraph"
	"github.com/specialistvlad/patchgraph/internal/patch"
)

// ValidateManifests checks node-type manifests before they are registered:
// every portlet kind is known, reroute rules stay within the declared
// inlets, and no manifest shadows a type that is already registered. All
// problems are reported together.
func (r *Registry) ValidateManifests(ctx context.Context, types map[string]*config.NodeType) error {
	logger := ctxlog.FromContext(ctx)
	var result *multierror.Error

	for _, name := range slices.Sorted(maps.Keys(types)) {
		nt := types[name]
		logger.Debug("Validating node type manifest.", "type", name)

		if r.Has(name) {
			result = multierror.Append(result, fmt.Errorf("node type '%s': already provided by a built-in module", name))
		}
		for i, k := range nt.Inlets {
			if !dspgraph.Kind(k).Valid() {
				result = multierror.Append(result, fmt.Errorf("node type '%s': inlet %d has unknown kind '%s'", name, i, k))
			}
		}
		for i, k := range nt.Outlets {
			if !dspgraph.Kind(k).Valid() {
				result = multierror.Append(result, fmt.Errorf("node type '%s': outlet %d has unknown kind '%s'", name, i, k))
			}
		}
		for i, rule := range nt.Reroutes {
			if !dspgraph.Kind(rule.Kind).Valid() {
				result = multierror.Append(result, fmt.Errorf("node type '%s': reroute %d has unknown kind '%s'", name, i, rule.Kind))
			}
			if rule.Inlet < 0 || rule.Inlet >= len(nt.Inlets) {
				result = multierror.Append(result, fmt.Errorf("node type '%s': reroute %d source inlet %d out of range", name, i, rule.Inlet))
			}
			if rule.To < 0 || rule.To >= len(nt.Inlets) {
				result = multierror.Append(result, fmt.Errorf("node type '%s': reroute %d target inlet %d out of range", name, i, rule.To))
			}
		}
	}

	return result.ErrorOrNil()
}

// RegisterManifest registers a generic builder for a validated manifest.
// The built node ignores its arguments; its ports come from the manifest.
func (r *Registry) RegisterManifest(nt *config.NodeType) {
	inlets := Portlets(parseKinds(nt.Inlets)...)
	outlets := Portlets(parseKinds(nt.Outlets)...)
	shape := Shape{
		Inlets:          inlets,
		Outlets:         outlets,
		IsSignalSink:    nt.SignalSink,
		IsMessageSource: nt.MessageSource,
	}

	b := &NodeBuilder{
		TranslateArgs: func(n *patch.Node, _ *patch.Patch, _ *patch.Description) (map[string]any, error) {
			if len(n.Args) == 0 {
				return map[string]any{}, nil
			}
			args, err := ArgsToNative(n.Args)
			if err != nil {
				return nil, fmt.Errorf("node '%s': %w", n.ID, err)
			}
			return map[string]any{"args": args}, nil
		},
		Build: func(map[string]any) (Shape, error) {
			return Shape{
				Inlets:          slices.Clone(shape.Inlets),
				Outlets:         slices.Clone(shape.Outlets),
				IsSignalSink:    shape.IsSignalSink,
				IsMessageSource: shape.IsMessageSource,
			}, nil
		},
	}

	if len(nt.Reroutes) > 0 {
		rules := slices.Clone(nt.Reroutes)
		b.Reroute = func(src dspgraph.Portlet, inlet int) (int, bool) {
			for _, rule := range rules {
				if rule.Inlet == inlet && dspgraph.Kind(rule.Kind) == src.Kind {
					return rule.To, true
				}
			}
			return 0, false
		}
	}

	r.Register(nt.Name, b)
}

func parseKinds(names []string) []dspgraph.Kind {
	out := make([]dspgraph.Kind, len(names))
	for i, name := range names {
		out[i] = dspgraph.Kind(name)
	}
	return out
}
