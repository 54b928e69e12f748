package testutil

import (
	"github.com/specialistvlad/patchgraph/internal/dspgraph"
	"github.com/specialistvlad/patchgraph/internal/registry"
)

// ConciseBuilder describes a test node builder. Unset port lists default
// to a single message portlet; a custom Build replaces the generated one.
type ConciseBuilder struct {
	Inlets        []dspgraph.Kind
	Outlets       []dspgraph.Kind
	SignalSink    bool
	MessageSource bool
	TranslateArgs registry.TranslateFunc
	Build         registry.BuildFunc
	Reroute       registry.RerouteFunc
}

// MakeRegistry registers one builder per entry.
func MakeRegistry(builders map[string]ConciseBuilder) *registry.Registry {
	r := registry.New()
	for typ, cb := range builders {
		inlets := cb.Inlets
		if inlets == nil {
			inlets = []dspgraph.Kind{dspgraph.Message}
		}
		outlets := cb.Outlets
		if outlets == nil {
			outlets = []dspgraph.Kind{dspgraph.Message}
		}

		build := cb.Build
		if build == nil {
			shape := registry.Shape{
				Inlets:          registry.Portlets(inlets...),
				Outlets:         registry.Portlets(outlets...),
				IsSignalSink:    cb.SignalSink,
				IsMessageSource: cb.MessageSource,
			}
			build = func(map[string]any) (registry.Shape, error) { return shape, nil }
		}

		r.Register(typ, &registry.NodeBuilder{
			TranslateArgs: cb.TranslateArgs,
			Build:         build,
			Reroute:       cb.Reroute,
		})
	}
	return r
}
