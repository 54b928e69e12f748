// Package control provides builders for message-domain node types.
package control

import (
	"fmt"

	"github.com/specialistvlad/patchgraph/internal/dspgraph"
	"github.com/specialistvlad/patchgraph/internal/patch"
	"github.com/specialistvlad/patchgraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the control builders with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("loadbang", &registry.NodeBuilder{
		Build: func(map[string]any) (registry.Shape, error) {
			return registry.Shape{
				Outlets:         messages(1),
				IsMessageSource: true,
			}, nil
		},
	})

	r.Register("metro", &registry.NodeBuilder{
		TranslateArgs: numberArg("rate", 0),
		Build: func(args map[string]any) (registry.Shape, error) {
			if rate, _ := args["rate"].(float64); rate < 0 {
				return registry.Shape{}, fmt.Errorf("metro: negative rate %v", rate)
			}
			return registry.Shape{
				Inlets:          messages(2),
				Outlets:         messages(1),
				IsMessageSource: true,
			}, nil
		},
	})

	r.Register("float", &registry.NodeBuilder{
		TranslateArgs: numberArg("value", 0),
		Build: func(map[string]any) (registry.Shape, error) {
			return registry.Shape{Inlets: messages(2), Outlets: messages(1)}, nil
		},
	})
}

func numberArg(name string, def float64) registry.TranslateFunc {
	return func(n *patch.Node, _ *patch.Patch, _ *patch.Description) (map[string]any, error) {
		v, err := registry.NumberArg(n.Args, 0, def)
		if err != nil {
			return nil, fmt.Errorf("node '%s' %s: %w", n.ID, name, err)
		}
		return map[string]any{name: v}, nil
	}
}

func messages(n int) []dspgraph.Portlet {
	return registry.Portlets(registry.Kinds(dspgraph.Message, n)...)
}
