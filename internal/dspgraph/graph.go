package dspgraph

import (
	"fmt"
	"slices"
)

// Graph is the flat node store. Nodes are kept in insertion order so output
// is stable across runs.
type Graph struct {
	nodes map[string]*Node
	order []string
}

// NewGraph creates and returns an initialized, empty Graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// AddNode inserts n. Inserting an id that is already present fails with
// ErrNodeExists.
func (g *Graph) AddNode(n *Node) error {
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("adding node '%s': %w", n.ID, ErrNodeExists)
	}
	if n.Sources == nil {
		n.Sources = make(map[int][]Endpoint)
	}
	if n.Sinks == nil {
		n.Sinks = make(map[int][]Endpoint)
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node '%s': %w", id, ErrNodeNotFound)
	}
	return n, nil
}

// Has reports whether a node with the given id exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Connect adds the edge source -> sink, recording it on both ends.
// Connecting an existing edge again is a no-op.
func (g *Graph) Connect(source, sink Endpoint) error {
	src, err := g.Node(source.NodeID)
	if err != nil {
		return fmt.Errorf("connecting source: %w", err)
	}
	dst, err := g.Node(sink.NodeID)
	if err != nil {
		return fmt.Errorf("connecting sink: %w", err)
	}
	if _, ok := src.Outlets[source.Portlet]; !ok {
		return fmt.Errorf("outlet %d of '%s': %w", source.Portlet, source.NodeID, ErrPortletNotFound)
	}
	if _, ok := dst.Inlets[sink.Portlet]; !ok {
		return fmt.Errorf("inlet %d of '%s': %w", sink.Portlet, sink.NodeID, ErrPortletNotFound)
	}

	if !containsEndpoint(src.Sinks[source.Portlet], sink) {
		src.Sinks[source.Portlet] = append(src.Sinks[source.Portlet], sink)
	}
	if !containsEndpoint(dst.Sources[sink.Portlet], source) {
		dst.Sources[sink.Portlet] = append(dst.Sources[sink.Portlet], source)
	}
	return nil
}

// Sources returns the endpoints feeding the given inlet. The returned slice
// is a copy and may be used while the graph is being modified.
func (g *Graph) Sources(nodeID string, inlet int) ([]Endpoint, error) {
	n, err := g.Node(nodeID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(n.Sources[inlet]), nil
}

// Sinks returns the endpoints fed by the given outlet. The returned slice
// is a copy and may be used while the graph is being modified.
func (g *Graph) Sinks(nodeID string, outlet int) ([]Endpoint, error) {
	n, err := g.Node(nodeID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(n.Sinks[outlet]), nil
}

// DeleteNode removes the node and every edge touching it from the
// adjacency of its neighbours.
func (g *Graph) DeleteNode(id string) error {
	n, err := g.Node(id)
	if err != nil {
		return fmt.Errorf("deleting: %w", err)
	}

	for inlet, sources := range n.Sources {
		for _, src := range sources {
			if peer, ok := g.nodes[src.NodeID]; ok && peer != n {
				removeEndpoint(peer.Sinks, src.Portlet, Endpoint{NodeID: id, Portlet: inlet})
			}
		}
	}
	for outlet, sinks := range n.Sinks {
		for _, dst := range sinks {
			if peer, ok := g.nodes[dst.NodeID]; ok && peer != n {
				removeEndpoint(peer.Sources, dst.Portlet, Endpoint{NodeID: id, Portlet: outlet})
			}
		}
	}

	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
	return nil
}

func containsEndpoint(list []Endpoint, e Endpoint) bool {
	return slices.ContainsFunc(list, e.Equal)
}

// removeEndpoint drops e from adj[port], pruning the key once it is empty.
func removeEndpoint(adj map[int][]Endpoint, port int, e Endpoint) {
	out := slices.DeleteFunc(adj[port], e.Equal)
	if len(out) == 0 {
		delete(adj, port)
		return
	}
	adj[port] = out
}
