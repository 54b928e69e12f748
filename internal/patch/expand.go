package patch

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/patchgraph/internal/dag"
)

// Expand returns a copy of the description in which every patch is
// instantiated by at most one node. The first instantiation site reached
// keeps the original patch; each further site gets a deep copy with id
// "<subpatch>@<outer patch>/<node>", and the copies are expanded in turn.
// Patches nobody instantiates are kept as roots.
//
// A nesting cycle is reported as ErrNestingCycle and a reference to an
// unknown patch as a plain error. d is not modified.
func (d *Description) Expand() (*Description, error) {
	nesting, err := d.nestingGraph()
	if err != nil {
		return nil, err
	}

	out := &Description{Patches: make(map[string]*Patch, len(d.Patches))}
	claimed := make(map[string]bool, len(d.Patches))

	var visit func(p *Patch)
	visit = func(p *Patch) {
		for _, nodeID := range p.NodeIDs() {
			n := p.Nodes[nodeID]
			if !n.IsSubpatch() {
				continue
			}
			original := d.Patches[n.SubpatchID]

			var instance *Patch
			if !claimed[original.ID] {
				claimed[original.ID] = true
				instance = original.clone(original.ID)
			} else {
				instance = original.clone(d.uniqueID(out, fmt.Sprintf("%s@%s/%s", original.ID, p.ID, nodeID)))
				n.SubpatchID = instance.ID
			}
			out.Patches[instance.ID] = instance
			visit(instance)
		}
	}

	for _, rootID := range nesting.Roots() {
		claimed[rootID] = true
		root := d.Patches[rootID].clone(rootID)
		out.Patches[rootID] = root
		visit(root)
	}

	return out, nil
}

// nestingGraph builds the outer -> inner instantiation graph and rejects
// cycles.
func (d *Description) nestingGraph() (*dag.Graph, error) {
	g := dag.New()
	for _, id := range d.PatchIDs() {
		g.AddNode(id)
	}
	for _, id := range d.PatchIDs() {
		p := d.Patches[id]
		for _, nodeID := range p.NodeIDs() {
			n := p.Nodes[nodeID]
			if !n.IsSubpatch() {
				continue
			}
			if _, ok := d.Patches[n.SubpatchID]; !ok {
				return nil, fmt.Errorf("patch '%s': node '%s' references unknown subpatch '%s'", id, nodeID, n.SubpatchID)
			}
			if err := g.AddEdge(id, n.SubpatchID); err != nil {
				return nil, nestingError(err)
			}
		}
	}
	if err := g.DetectCycles(); err != nil {
		return nil, nestingError(err)
	}
	return g, nil
}

func nestingError(err error) error {
	if errors.Is(err, dag.ErrCycle) {
		return fmt.Errorf("%w: %w", ErrNestingCycle, err)
	}
	return err
}

// uniqueID returns base, or base with a numeric suffix if base already
// names a patch in d or out.
func (d *Description) uniqueID(out *Description, base string) string {
	id := base
	for i := 2; ; i++ {
		_, inSource := d.Patches[id]
		_, inOut := out.Patches[id]
		if !inSource && !inOut {
			return id
		}
		id = fmt.Sprintf("%s#%d", base, i)
	}
}
