// Package dsp provides builders for signal-processing node types.
package dsp

import (
	"fmt"

	"github.com/specialistvlad/patchgraph/internal/dspgraph"
	"github.com/specialistvlad/patchgraph/internal/patch"
	"github.com/specialistvlad/patchgraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the dsp builders with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("osc~", &registry.NodeBuilder{
		TranslateArgs: numberArg("frequency"),
		Build: func(map[string]any) (registry.Shape, error) {
			return registry.Shape{
				Inlets:  registry.Portlets(dspgraph.Signal, dspgraph.Message, dspgraph.Message),
				Outlets: registry.Portlets(dspgraph.Signal),
			}, nil
		},
		Reroute: messageTo(0, 2),
	})

	for _, typ := range []string{"*~", "+~"} {
		r.Register(typ, &registry.NodeBuilder{
			TranslateArgs: numberArg("value"),
			Build:         buildBinop,
			Reroute:       messageTo(1, 2),
		})
	}

	r.Register("dac~", &registry.NodeBuilder{
		TranslateArgs: translateDacArgs,
		Build:         buildDac,
	})
}

// messageTo moves message connections arriving at inlet onto target.
func messageTo(inlet, target int) registry.RerouteFunc {
	return func(src dspgraph.Portlet, in int) (int, bool) {
		if in == inlet && src.Kind == dspgraph.Message {
			return target, true
		}
		return 0, false
	}
}

func numberArg(name string) registry.TranslateFunc {
	return func(n *patch.Node, _ *patch.Patch, _ *patch.Description) (map[string]any, error) {
		v, err := registry.NumberArg(n.Args, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("node '%s' %s: %w", n.ID, name, err)
		}
		return map[string]any{name: v}, nil
	}
}

// buildBinop gives a binary operator two signal inlets plus a message
// inlet that sets the right operand.
func buildBinop(map[string]any) (registry.Shape, error) {
	return registry.Shape{
		Inlets:  registry.Portlets(dspgraph.Signal, dspgraph.Signal, dspgraph.Message),
		Outlets: registry.Portlets(dspgraph.Signal),
	}, nil
}

// translateDacArgs reads output channel numbers. With no arguments the
// node writes to channels 1 and 2.
func translateDacArgs(n *patch.Node, _ *patch.Patch, _ *patch.Description) (map[string]any, error) {
	if len(n.Args) == 0 {
		return map[string]any{"channels": []int{1, 2}}, nil
	}
	channels := make([]int, len(n.Args))
	for i := range n.Args {
		c, err := registry.IntArg(n.Args, i, 0)
		if err != nil {
			return nil, fmt.Errorf("node '%s' channel: %w", n.ID, err)
		}
		channels[i] = c
	}
	return map[string]any{"channels": channels}, nil
}

func buildDac(args map[string]any) (registry.Shape, error) {
	channels, ok := args["channels"].([]int)
	if !ok {
		return registry.Shape{}, fmt.Errorf("dac~: channels argument missing")
	}
	return registry.Shape{
		Inlets:       registry.Portlets(registry.Kinds(dspgraph.Signal, len(channels))...),
		IsSignalSink: true,
	}, nil
}
