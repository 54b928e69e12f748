package patch

import (
	"errors"
	"maps"
	"slices"

	"github.com/zclconf/go-cty/cty"
)

// ErrNestingCycle is returned when a patch instantiates itself, directly or
// through other patches.
var ErrNestingCycle = errors.New("subpatch nesting cycle")

// Description is a whole program: every patch, keyed by id.
type Description struct {
	Patches map[string]*Patch
}

// Patch is one unit of the program.
type Patch struct {
	ID          string
	Nodes       map[string]*Node
	Connections []Connection
	// Inlets and Outlets list node ids; position i is external port i.
	Inlets  []string
	Outlets []string
}

// Node is a node as declared inside a patch.
type Node struct {
	ID   string
	Type string
	Args []cty.Value
	// SubpatchID is set when the node instantiates another patch.
	SubpatchID string
}

// Endpoint addresses a portlet of a node local to the enclosing patch.
type Endpoint struct {
	NodeID  string
	Portlet int
}

// Connection wires an outlet (Source) to an inlet (Sink) within one patch.
type Connection struct {
	Source Endpoint
	Sink   Endpoint
}

// Reference locates a node that instantiates a subpatch.
type Reference struct {
	PatchID string
	NodeID  string
}

// NewDescription returns a description holding the given patches.
func NewDescription(patches ...*Patch) *Description {
	d := &Description{Patches: make(map[string]*Patch, len(patches))}
	for _, p := range patches {
		d.Patches[p.ID] = p
	}
	return d
}

// PatchIDs returns every patch id in sorted order.
func (d *Description) PatchIDs() []string {
	return slices.Sorted(maps.Keys(d.Patches))
}

// Patch returns the patch with the given id.
func (d *Description) Patch(id string) (*Patch, bool) {
	p, ok := d.Patches[id]
	return p, ok
}

// NodeIDs returns every node id of the patch in sorted order.
func (p *Patch) NodeIDs() []string {
	return slices.Sorted(maps.Keys(p.Nodes))
}

// InletIndex returns the external port index of the inlet proxy nodeID,
// or -1 when the node is not an inlet proxy.
func (p *Patch) InletIndex(nodeID string) int {
	return slices.Index(p.Inlets, nodeID)
}

// OutletIndex returns the external port index of the outlet proxy nodeID,
// or -1 when the node is not an outlet proxy.
func (p *Patch) OutletIndex(nodeID string) int {
	return slices.Index(p.Outlets, nodeID)
}

// IsSubpatch reports whether the node instantiates another patch.
func (n *Node) IsSubpatch() bool {
	return n.SubpatchID != ""
}

// clone returns a deep copy of p under a new id.
func (p *Patch) clone(id string) *Patch {
	c := &Patch{
		ID:          id,
		Nodes:       make(map[string]*Node, len(p.Nodes)),
		Connections: slices.Clone(p.Connections),
		Inlets:      slices.Clone(p.Inlets),
		Outlets:     slices.Clone(p.Outlets),
	}
	for nodeID, n := range p.Nodes {
		cp := *n
		cp.Args = slices.Clone(n.Args)
		c.Nodes[nodeID] = &cp
	}
	return c
}
