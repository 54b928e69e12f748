package testutil

import (
	"github.com/specialistvlad/patchgraph/internal/patch"
)

// DummyType is the node type Node uses when none is given.
const DummyType = "DUMMY"

// Wire is a connection written positionally: {from, outlet, to, inlet}.
type Wire struct {
	From   string
	Outlet int
	To     string
	Inlet  int
}

// ConcisePatch is a compact patch literal for tests.
type ConcisePatch struct {
	Nodes       []*patch.Node
	Connections []Wire
	Inlets      []string
	Outlets     []string
}

// Node returns a node of DummyType.
func Node(id string) *patch.Node {
	return &patch.Node{ID: id, Type: DummyType}
}

// TypedNode returns a node of the given type.
func TypedNode(id, typ string) *patch.Node {
	return &patch.Node{ID: id, Type: typ}
}

// Sub returns a DummyType node that instantiates subpatchID.
func Sub(id, subpatchID string) *patch.Node {
	return &patch.Node{ID: id, Type: DummyType, SubpatchID: subpatchID}
}

// MakeDescription expands concise patches, keyed by id, into a description.
func MakeDescription(patches map[string]ConcisePatch) *patch.Description {
	d := &patch.Description{Patches: make(map[string]*patch.Patch, len(patches))}
	for id, cp := range patches {
		p := &patch.Patch{
			ID:      id,
			Nodes:   make(map[string]*patch.Node, len(cp.Nodes)),
			Inlets:  cp.Inlets,
			Outlets: cp.Outlets,
		}
		for _, n := range cp.Nodes {
			p.Nodes[n.ID] = n
		}
		for _, w := range cp.Connections {
			p.Connections = append(p.Connections, patch.Connection{
				Source: patch.Endpoint{NodeID: w.From, Portlet: w.Outlet},
				Sink:   patch.Endpoint{NodeID: w.To, Portlet: w.Inlet},
			})
		}
		d.Patches[id] = p
	}
	return d
}
