package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/specialistvlad/patchgraph/internal/dspgraph"
	"github.com/specialistvlad/patchgraph/internal/patch"
)

// ErrUnknownType is returned when no builder is registered for a node type.
var ErrUnknownType = errors.New("unknown node type")

// MixerType is the node type the converter requests when it sums several
// signal connections arriving at one inlet. Its builder takes the channel
// count as the first argument.
const MixerType = "mixer~"

// Module is the interface that all compiled-in builder sets implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// TranslateFunc turns a declared node into the argument map handed to
// Build. It sees the owning patch and the whole description, so a
// subpatch instantiation can inspect the patch it refers to.
type TranslateFunc func(n *patch.Node, owner *patch.Patch, desc *patch.Description) (map[string]any, error)

// BuildFunc returns the ports and flags of a node given its translated
// arguments.
type BuildFunc func(args map[string]any) (Shape, error)

// RerouteFunc is offered a connection arriving at inlet from an outlet
// described by src. It returns the inlet the connection should use
// instead, or false to leave it where it is.
type RerouteFunc func(src dspgraph.Portlet, inlet int) (int, bool)

// NodeBuilder is the capability set of one node type. TranslateArgs and
// Reroute are optional.
type NodeBuilder struct {
	TranslateArgs TranslateFunc
	Build         BuildFunc
	Reroute       RerouteFunc
}

// Shape is what Build reports about a node.
type Shape struct {
	Inlets          []dspgraph.Portlet
	Outlets         []dspgraph.Portlet
	IsSignalSink    bool
	IsMessageSource bool
}

// Portlets numbers the kinds from zero.
func Portlets(kinds ...dspgraph.Kind) []dspgraph.Portlet {
	out := make([]dspgraph.Portlet, len(kinds))
	for i, k := range kinds {
		out[i] = dspgraph.Portlet{ID: i, Kind: k}
	}
	return out
}

// Kinds repeats kind n times.
func Kinds(kind dspgraph.Kind, n int) []dspgraph.Kind {
	out := make([]dspgraph.Kind, n)
	for i := range out {
		out[i] = kind
	}
	return out
}

// Registry holds the builders for a single application instance.
type Registry struct {
	builders map[string]*NodeBuilder
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{builders: make(map[string]*NodeBuilder)}
}

// Register adds a builder for the node type. Registering the same type
// twice is a programming error and panics.
func (r *Registry) Register(nodeType string, b *NodeBuilder) {
	if _, exists := r.builders[nodeType]; exists {
		panic(fmt.Sprintf("node builder for type '%s' already registered", nodeType))
	}
	if b == nil || b.Build == nil {
		panic(fmt.Sprintf("node builder for type '%s' has no Build function", nodeType))
	}
	slog.Debug("Registering node builder.", "type", nodeType)
	r.builders[nodeType] = b
}

// RegisterModules calls Register on each module in order.
func (r *Registry) RegisterModules(modules ...Module) {
	for _, m := range modules {
		m.Register(r)
	}
}

// Lookup returns the builder for the node type.
func (r *Registry) Lookup(nodeType string) (*NodeBuilder, error) {
	b, ok := r.builders[nodeType]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownType, nodeType)
	}
	return b, nil
}

// Has reports whether a builder is registered for the node type.
func (r *Registry) Has(nodeType string) bool {
	_, ok := r.builders[nodeType]
	return ok
}

// Types returns every registered type name in sorted order.
func (r *Registry) Types() []string {
	return slices.Sorted(maps.Keys(r.builders))
}
