// Package core provides the node builders the converter itself depends on:
// the implicit signal mixer, the inlet and outlet proxies of a subpatch,
// and the `pd` subpatch instantiation.
package core

import (
	"fmt"

	"github.com/specialistvlad/patchgraph/internal/dspgraph"
	"github.com/specialistvlad/patchgraph/internal/patch"
	"github.com/specialistvlad/patchgraph/internal/registry"
)

// Type names registered by this module.
const (
	MixerType        = registry.MixerType
	InletType        = "inlet"
	SignalInletType  = "inlet~"
	OutletType       = "outlet"
	SignalOutletType = "outlet~"
	SubpatchType     = "pd"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers every core builder with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(MixerType, &registry.NodeBuilder{
		TranslateArgs: translateMixerArgs,
		Build:         buildMixer,
	})
	r.Register(InletType, proxy(dspgraph.Message, true))
	r.Register(SignalInletType, proxy(dspgraph.Signal, true))
	r.Register(OutletType, proxy(dspgraph.Message, false))
	r.Register(SignalOutletType, proxy(dspgraph.Signal, false))
	r.Register(SubpatchType, &registry.NodeBuilder{
		TranslateArgs: translateSubpatchArgs,
		Build:         buildSubpatch,
	})
}

// translateMixerArgs reads the channel count from the first argument.
func translateMixerArgs(n *patch.Node, _ *patch.Patch, _ *patch.Description) (map[string]any, error) {
	channels, err := registry.IntArg(n.Args, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("mixer channel count: %w", err)
	}
	if channels < 1 {
		return nil, fmt.Errorf("mixer needs at least one channel, got %d", channels)
	}
	return map[string]any{"channels": channels}, nil
}

func buildMixer(args map[string]any) (registry.Shape, error) {
	channels, ok := args["channels"].(int)
	if !ok {
		return registry.Shape{}, fmt.Errorf("mixer: channels argument missing")
	}
	return registry.Shape{
		Inlets:  registry.Portlets(registry.Kinds(dspgraph.Signal, channels)...),
		Outlets: registry.Portlets(dspgraph.Signal),
	}, nil
}

// proxy builds an inlet proxy (one outlet) or an outlet proxy (one inlet).
func proxy(kind dspgraph.Kind, isInlet bool) *registry.NodeBuilder {
	return &registry.NodeBuilder{
		Build: func(map[string]any) (registry.Shape, error) {
			if isInlet {
				return registry.Shape{Outlets: registry.Portlets(kind)}, nil
			}
			return registry.Shape{Inlets: registry.Portlets(kind)}, nil
		},
	}
}

// translateSubpatchArgs records the portlet kinds of the referenced patch,
// read from the types of its proxy nodes.
func translateSubpatchArgs(n *patch.Node, _ *patch.Patch, desc *patch.Description) (map[string]any, error) {
	if !n.IsSubpatch() {
		return nil, fmt.Errorf("node '%s' of type '%s' does not reference a subpatch", n.ID, SubpatchType)
	}
	if desc == nil {
		return nil, fmt.Errorf("node '%s': no description to resolve subpatch '%s'", n.ID, n.SubpatchID)
	}
	sub, ok := desc.Patch(n.SubpatchID)
	if !ok {
		return nil, fmt.Errorf("node '%s': unknown subpatch '%s'", n.ID, n.SubpatchID)
	}
	return map[string]any{
		"subpatch": sub.ID,
		"inlets":   proxyKinds(sub, sub.Inlets, SignalInletType),
		"outlets":  proxyKinds(sub, sub.Outlets, SignalOutletType),
	}, nil
}

func buildSubpatch(args map[string]any) (registry.Shape, error) {
	inlets, ok := args["inlets"].([]dspgraph.Kind)
	if !ok {
		return registry.Shape{}, fmt.Errorf("subpatch: inlets argument missing")
	}
	outlets, ok := args["outlets"].([]dspgraph.Kind)
	if !ok {
		return registry.Shape{}, fmt.Errorf("subpatch: outlets argument missing")
	}
	return registry.Shape{Inlets: registry.Portlets(inlets...), Outlets: registry.Portlets(outlets...)}, nil
}

func proxyKinds(sub *patch.Patch, ids []string, signalType string) []dspgraph.Kind {
	kinds := make([]dspgraph.Kind, len(ids))
	for i, id := range ids {
		kinds[i] = dspgraph.Message
		if n, ok := sub.Nodes[id]; ok && n.Type == signalType {
			kinds[i] = dspgraph.Signal
		}
	}
	return kinds
}
