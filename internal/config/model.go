package config

import "github.com/specialistvlad/patchgraph/internal/patch"

// Model is the unified representation of everything a run reads from disk.
type Model struct {
	Description *patch.Description
	NodeTypes   map[string]*NodeType
}

// NewModel returns an empty model ready to be filled by a loader.
func NewModel() *Model {
	return &Model{
		Description: &patch.Description{Patches: make(map[string]*patch.Patch)},
		NodeTypes:   make(map[string]*NodeType),
	}
}

// --- Node Type Manifest Models ---

// NodeType is the format-agnostic representation of a `node_type` block.
// It describes a node builder declaratively.
type NodeType struct {
	Name string
	// Inlets and Outlets hold one portlet kind per port, in port order.
	Inlets        []string
	Outlets       []string
	SignalSink    bool
	MessageSource bool
	Reroutes      []*RerouteRule
}

// RerouteRule moves a connection arriving at Inlet from an outlet of the
// given Kind onto inlet To.
type RerouteRule struct {
	Inlet int
	Kind  string
	To    int
}
