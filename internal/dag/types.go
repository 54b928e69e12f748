package dag

import "errors"

// ErrCycle is returned when the graph contains a directed cycle.
var ErrCycle = errors.New("cycle detected")

// Graph is a collection of nodes and their directed edges. It is not safe
// for concurrent use.
type Graph struct {
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	id string
	// deps holds the nodes with an edge into this node.
	deps map[string]*node
	// dependents holds the nodes this node has an edge to.
	dependents map[string]*node
}
