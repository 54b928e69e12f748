package dspgraph

import "errors"

var (
	// ErrNodeNotFound is returned when an operation names a node id that is
	// not in the graph.
	ErrNodeNotFound = errors.New("node not found")
	// ErrNodeExists is returned by AddNode on an id collision.
	ErrNodeExists = errors.New("node already exists")
	// ErrPortletNotFound is returned by Connect when the named outlet or
	// inlet is not declared on its node.
	ErrPortletNotFound = errors.New("portlet not found")
)

// Kind is the type of a portlet.
type Kind string

const (
	// Message portlets carry discrete control events.
	Message Kind = "message"
	// Signal portlets carry a continuous audio stream.
	Signal Kind = "signal"
)

// Valid reports whether k is one of the known portlet kinds.
func (k Kind) Valid() bool {
	return k == Message || k == Signal
}

// Portlet is a typed port on a node, addressed by its integer id.
type Portlet struct {
	ID   int  `json:"id" yaml:"id"`
	Kind Kind `json:"kind" yaml:"kind"`
}

// Endpoint addresses one portlet of one node.
type Endpoint struct {
	NodeID  string `json:"node" yaml:"node"`
	Portlet int    `json:"portlet" yaml:"portlet"`
}

// Equal reports whether both endpoints name the same node and portlet.
func (e Endpoint) Equal(other Endpoint) bool {
	return e.NodeID == other.NodeID && e.Portlet == other.Portlet
}

// Node is a vertex of the flat graph.
type Node struct {
	ID   string         `json:"id" yaml:"id"`
	Type string         `json:"type" yaml:"type"`
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty"`

	Inlets  map[int]Portlet `json:"inlets" yaml:"inlets"`
	Outlets map[int]Portlet `json:"outlets" yaml:"outlets"`

	// Sources maps an inlet id to the endpoints feeding it.
	Sources map[int][]Endpoint `json:"sources" yaml:"sources"`
	// Sinks maps an outlet id to the endpoints it feeds.
	Sinks map[int][]Endpoint `json:"sinks" yaml:"sinks"`

	IsSignalSink    bool `json:"isSignalSink,omitempty" yaml:"isSignalSink,omitempty"`
	IsMessageSource bool `json:"isMessageSource,omitempty" yaml:"isMessageSource,omitempty"`
}

// NewNode returns a node with empty adjacency for the given ports.
func NewNode(id, typ string, args map[string]any, inlets, outlets []Portlet) *Node {
	n := &Node{
		ID:      id,
		Type:    typ,
		Args:    args,
		Inlets:  make(map[int]Portlet, len(inlets)),
		Outlets: make(map[int]Portlet, len(outlets)),
		Sources: make(map[int][]Endpoint),
		Sinks:   make(map[int][]Endpoint),
	}
	for _, p := range inlets {
		n.Inlets[p.ID] = p
	}
	for _, p := range outlets {
		n.Outlets[p.ID] = p
	}
	return n
}
