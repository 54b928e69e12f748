package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/patchgraph/internal/config"
	"github.com/specialistvlad/patchgraph/internal/patch"
	"github.com/zclconf/go-cty/cty"
)

// translatePatch converts the HCL-specific patch schema into the agnostic model.
func translatePatch(pb *patchBlock) (*patch.Patch, error) {
	p := &patch.Patch{
		ID:      pb.ID,
		Nodes:   make(map[string]*patch.Node, len(pb.Nodes)),
		Inlets:  pb.Inlets,
		Outlets: pb.Outlets,
	}

	seen := make(map[string]hcl.Range, len(pb.Nodes))
	for _, nb := range pb.Nodes {
		if prev, ok := seen[nb.ID]; ok {
			return nil, duplicateError("node", pb.ID+"."+nb.ID, nb.DefRange, prev)
		}
		seen[nb.ID] = nb.DefRange

		args, err := evalArgs(nb.Args)
		if err != nil {
			return nil, fmt.Errorf("patch '%s' node '%s': %w", pb.ID, nb.ID, err)
		}
		p.Nodes[nb.ID] = &patch.Node{
			ID:         nb.ID,
			Type:       nb.Type,
			Args:       args,
			SubpatchID: nb.Subpatch,
		}
	}

	for _, wb := range pb.Wires {
		p.Connections = append(p.Connections, patch.Connection{
			Source: patch.Endpoint{NodeID: wb.From, Portlet: wb.Outlet},
			Sink:   patch.Endpoint{NodeID: wb.To, Portlet: wb.Inlet},
		})
	}
	return p, nil
}

// evalArgs evaluates a node's `args` attribute without variables. A tuple
// or list yields one argument per element, a single value yields one
// argument and an absent attribute yields none.
func evalArgs(expr hcl.Expression) ([]cty.Value, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluating args: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("args must be known values")
	}

	ty := val.Type()
	if !ty.IsTupleType() && !ty.IsListType() {
		return []cty.Value{val}, nil
	}
	args := make([]cty.Value, 0, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		args = append(args, ev)
	}
	return args, nil
}

// translateNodeType converts the HCL-specific node_type schema into the agnostic model.
func translateNodeType(nb *nodeTypeBlock) *config.NodeType {
	nt := &config.NodeType{
		Name:          nb.Name,
		Inlets:        nb.Inlets,
		Outlets:       nb.Outlets,
		SignalSink:    nb.SignalSink,
		MessageSource: nb.MessageSource,
	}
	for _, rb := range nb.Reroutes {
		nt.Reroutes = append(nt.Reroutes, &config.RerouteRule{
			Inlet: rb.Inlet,
			Kind:  rb.Kind,
			To:    rb.To,
		})
	}
	return nt
}
