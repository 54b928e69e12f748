// Package print provides the `print` node type, a message sink that logs
// everything it receives under a prefix.
package print

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/patchgraph/internal/dspgraph"
	"github.com/specialistvlad/patchgraph/internal/patch"
	"github.com/specialistvlad/patchgraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// DefaultPrefix is used when the node has no arguments.
const DefaultPrefix = "print"

// translateArgs joins all arguments into the prefix, the way a print box
// reads `print my label`.
func translateArgs(n *patch.Node, _ *patch.Patch, _ *patch.Description) (map[string]any, error) {
	if len(n.Args) == 0 {
		return map[string]any{"prefix": DefaultPrefix}, nil
	}
	parts := make([]string, len(n.Args))
	for i := range n.Args {
		s, err := registry.StringArg(n.Args, i, "")
		if err != nil {
			return nil, fmt.Errorf("node '%s' prefix: %w", n.ID, err)
		}
		parts[i] = s
	}
	return map[string]any{"prefix": strings.Join(parts, " ")}, nil
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("print", &registry.NodeBuilder{
		TranslateArgs: translateArgs,
		Build: func(map[string]any) (registry.Shape, error) {
			return registry.Shape{
				Inlets: []dspgraph.Portlet{{ID: 0, Kind: dspgraph.Message}},
			}, nil
		},
	})
}
